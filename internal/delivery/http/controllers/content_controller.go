package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"communityadmin/internal/delivery/http/helpers"
	"communityadmin/internal/delivery/http/middleware"
	"communityadmin/internal/domain"

	"github.com/google/uuid"
)

// RequestUploadRequest is the request body for POST /content/uploads.
type RequestUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// Validate implements helpers.Validator.
func (r RequestUploadRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Filename) == "" {
		errs = append(errs, "filename is required")
	}
	if strings.TrimSpace(r.ContentType) == "" {
		errs = append(errs, "content_type is required")
	}
	return errs
}

// CreateContentRequest is the request body for POST /content.
// Link items carry url; every other kind carries the object_key returned by POST /content/uploads.
type CreateContentRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Kind        string   `json:"kind"`
	ObjectKey   string   `json:"object_key"`
	URL         string   `json:"url"`
	Visibility  string   `json:"visibility"`
	EventID     *string  `json:"event_id"`
	Tags        []string `json:"tags"`
}

// Validate implements helpers.Validator.
func (r CreateContentRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if !domain.ContentKind(r.Kind).Valid() {
		errs = append(errs, "kind must be one of document, video, image, link")
	}
	if r.Visibility != "" && !domain.Visibility(r.Visibility).Valid() {
		errs = append(errs, "visibility must be one of public, members, event_attendees")
	}
	if r.EventID != nil && *r.EventID != "" {
		if _, err := uuid.Parse(*r.EventID); err != nil {
			errs = append(errs, "event_id must be a UUID")
		}
	}
	if domain.ContentKind(r.Kind) == domain.ContentKindLink {
		if strings.TrimSpace(r.URL) == "" {
			errs = append(errs, "url is required for link content")
		}
	} else if r.Kind != "" && strings.TrimSpace(r.ObjectKey) == "" {
		errs = append(errs, "object_key is required")
	}
	return errs
}

// SetContentTagsRequest is the request body for PUT /content/{contentID}/tags.
type SetContentTagsRequest struct {
	Tags []string `json:"tags"`
}

// Validate implements helpers.Validator.
func (r SetContentTagsRequest) Validate() []string {
	if r.Tags == nil {
		return []string{"tags is required"}
	}
	return nil
}

// ContentSuccessResponse is the success response envelope for a single content item.
type ContentSuccessResponse struct {
	Data  *domain.ContentItem `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ListContentResponse is the data payload for GET /content.
type ListContentResponse struct {
	Items      []*domain.ContentItem  `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListContentSuccessResponse is the success response envelope for GET /content (200).
type ListContentSuccessResponse struct {
	Data  *ListContentResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// UploadTicketSuccessResponse is the success response envelope for POST /content/uploads (201).
type UploadTicketSuccessResponse struct {
	Data  *domain.UploadTicket `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ListTagsSuccessResponse is the success response envelope for GET /tags (200).
type ListTagsSuccessResponse struct {
	Data  []*domain.Tag     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type ContentController struct {
	Logger  *slog.Logger
	Service domain.ContentService
}

func NewContentController(logger *slog.Logger, svc domain.ContentService) *ContentController {
	return &ContentController{
		Logger:  logger,
		Service: svc,
	}
}

// RequestUpload godoc
// @Summary Request an upload URL
// @Description Returns a presigned S3 PUT URL and the object_key to reference when creating the content item.
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.RequestUploadRequest true "File name and MIME type"
// @Success 201 {object} controllers.UploadTicketSuccessResponse "data contains the upload ticket"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /content/uploads [post]
func (c *ContentController) RequestUpload(w http.ResponseWriter, r *http.Request) {
	var req RequestUploadRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	ticket, err := c.Service.RequestUpload(r.Context(), ownerID, req.Filename, req.ContentType)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, ticket)
}

// CreateContent godoc
// @Summary Create a content item
// @Description Adds an item to the content library. event_attendees visibility requires event_id. Tags are trimmed, lower-cased and deduplicated (max 10).
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateContentRequest true "Content item"
// @Success 201 {object} controllers.ContentSuccessResponse "data contains the created item"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /content [post]
func (c *ContentController) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req CreateContentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	item := &domain.ContentItem{
		OwnerID:     ownerID,
		EventID:     req.EventID,
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Kind:        domain.ContentKind(req.Kind),
		ObjectKey:   strings.TrimSpace(req.ObjectKey),
		URL:         req.URL,
		Visibility:  domain.Visibility(req.Visibility),
		Tags:        req.Tags,
	}
	if err := c.Service.CreateContent(r.Context(), item); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, item)
}

// GetContent godoc
// @Summary Get a content item
// @Description Anonymous callers see public items only. Authentication is optional.
// @Tags content
// @Produce json
// @Param contentID path string true "Content ID (UUID)"
// @Success 200 {object} controllers.ContentSuccessResponse "data contains the item"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (invalid token)"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /content/{contentID} [get]
func (c *ContentController) GetContent(w http.ResponseWriter, r *http.Request) {
	contentID, ok := pathUUID(w, r, "contentID")
	if !ok {
		return
	}
	viewerID, _ := middleware.UserIDFromContext(r.Context())
	item, err := c.Service.GetContent(r.Context(), contentID, viewerID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, item)
}

// ListContent godoc
// @Summary List content visible to the caller
// @Description Newest first. Items the caller may not see are left out of both the page and the total.
// @Tags content
// @Produce json
// @Param tag query string false "Only items with this tag"
// @Param event_id query string false "Only items linked to this event (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListContentSuccessResponse "data.items and data.pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /content [get]
func (c *ContentController) ListContent(w http.ResponseWriter, r *http.Request) {
	q := domain.ContentQuery{
		Tag:     r.URL.Query().Get("tag"),
		EventID: r.URL.Query().Get("event_id"),
	}
	if q.EventID != "" {
		if _, err := uuid.Parse(q.EventID); err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event_id")
			return
		}
	}
	page, err := helpers.ParsePagination(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	viewerID, _ := middleware.UserIDFromContext(r.Context())

	items, total, err := c.Service.ListContent(r.Context(), viewerID, q, page)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if items == nil {
		items = []*domain.ContentItem{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListContentResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(page, total),
	})
}

// SetContentTags godoc
// @Summary Replace the tags of a content item
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param contentID path string true "Content ID (UUID)"
// @Param body body controllers.SetContentTagsRequest true "New tag set"
// @Success 200 {object} controllers.ContentSuccessResponse "data contains the updated item"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /content/{contentID}/tags [put]
func (c *ContentController) SetContentTags(w http.ResponseWriter, r *http.Request) {
	contentID, ok := pathUUID(w, r, "contentID")
	if !ok {
		return
	}
	var req SetContentTagsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	item, err := c.Service.SetContentTags(r.Context(), contentID, ownerID, req.Tags)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, item)
}

// DeleteContent godoc
// @Summary Delete a content item
// @Tags content
// @Security BearerAuth
// @Param contentID path string true "Content ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /content/{contentID} [delete]
func (c *ContentController) DeleteContent(w http.ResponseWriter, r *http.Request) {
	contentID, ok := pathUUID(w, r, "contentID")
	if !ok {
		return
	}
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteContent(r.Context(), contentID, ownerID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTags godoc
// @Summary List all tags
// @Tags content
// @Produce json
// @Success 200 {object} controllers.ListTagsSuccessResponse "data is an array of tags ordered by name"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags [get]
func (c *ContentController) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := c.Service.ListTags(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tags)
}
