package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"communityadmin/internal/clock"
	"communityadmin/internal/delivery/http/helpers"
	"communityadmin/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
// scheduled_start is RFC 3339 or a bare date (YYYY-MM-DD). start_time gives the time of day and is only accepted with a bare date.
type CreateEventRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	Location        *string `json:"location"`
	ScheduledStart  string  `json:"scheduled_start"`
	StartTime       string  `json:"start_time"`
	DurationMinutes *int    `json:"duration_minutes"`
	Capacity        *int    `json:"capacity"`

	start    time.Time
	dateOnly bool
}

// Validate implements Validator. It also parses scheduled_start.
func (c *CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	start, dateOnly, err := parseScheduledStart(c.ScheduledStart)
	if err != nil {
		errs = append(errs, err.Error())
	}
	c.start, c.dateOnly = start, dateOnly
	c.StartTime = strings.TrimSpace(c.StartTime)
	if c.StartTime != "" {
		if _, ok := domain.CombineDateAndTime(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), c.StartTime); !ok {
			errs = append(errs, "start_time must be HH:MM or HH:MM:SS")
		} else if err == nil && !dateOnly {
			errs = append(errs, "start_time requires scheduled_start to be a date (YYYY-MM-DD)")
		}
	}
	errs = append(errs, validateEventNumbers(c.DurationMinutes, c.Capacity)...)
	return errs
}

func validateEventNumbers(duration, capacity *int) []string {
	var errs []string
	if duration != nil && *duration <= 0 {
		errs = append(errs, "duration_minutes must be positive")
	}
	if capacity != nil && *capacity <= 0 {
		errs = append(errs, "capacity must be positive")
	}
	return errs
}

// parseScheduledStart accepts an RFC 3339 instant or a bare date; dateOnly reports the latter.
func parseScheduledStart(s string) (start time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, fmt.Errorf("scheduled_start is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("scheduled_start must be RFC 3339 or YYYY-MM-DD")
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. All fields optional; omitted fields are unchanged.
// scheduled_start and start_time cannot be changed and are rejected as unknown fields.
type UpdateEventRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Location        *string `json:"location"`
	DurationMinutes *int    `json:"duration_minutes"`
	Capacity        *int    `json:"capacity"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	return append(errs, validateEventNumbers(u.DurationMinutes, u.Capacity)...)
}

func (u UpdateEventRequest) patch() domain.EventPatch {
	return domain.EventPatch{
		Name:            u.Name,
		Description:     u.Description,
		Location:        u.Location,
		DurationMinutes: u.DurationMinutes,
		Capacity:        u.Capacity,
	}
}

// EventSuccessResponse is the success response envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsResponse is the response body for GET /events.
type ListEventsResponse struct {
	Items      []*domain.Event        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// CalendarSuccessResponse is the success response envelope for GET /events/calendar (200).
type CalendarSuccessResponse struct {
	Data  []*domain.CalendarDay `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	// Clock supplies the default calendar month.
	Clock clock.Clock
}

func NewEventController(logger *slog.Logger, svc domain.EventService, clk clock.Clock) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Clock:   clk,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create an event. id, slug, event_code, status and timestamps are server-generated. The authenticated user becomes the event owner.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	event := &domain.Event{
		Name:            req.Name,
		OwnerID:         userID,
		Description:     req.Description,
		Location:        req.Location,
		ScheduledStart:  req.start,
		DateOnly:        req.dateOnly,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Capacity:        req.Capacity,
	}
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event with its status derived from the current time.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListEvents godoc
// @Summary List events
// @Description Lists events ordered by scheduled start. status filters by derived lifecycle status; owner=me limits to the caller's events (requires auth).
// @Tags events
// @Produce json
// @Param status query string false "upcoming, happening_soon, in_progress or ended"
// @Param owner query string false "me"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventListFilter{Status: domain.EventStatus(strings.TrimSpace(q.Get("status")))}
	if filter.Status != "" && !filter.Status.Valid() {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status")
		return
	}
	switch owner := q.Get("owner"); owner {
	case "":
	case "me":
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}
		filter.OwnerID = userID
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "owner must be \"me\"")
		return
	}

	params, err := helpers.ParsePagination(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	events, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	meta := helpers.NewPaginationMeta(params, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{Items: events, Pagination: meta})
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partially updates an event. Only the owner may update it. scheduled_start is immutable.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, userID, req.patch())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event with its registrations. Only the owner may delete it.
// @Tags events
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Calendar godoc
// @Summary Month calendar
// @Description Events scheduled in the given month (UTC), grouped by day. Defaults to the current month.
// @Tags events
// @Produce json
// @Param year query int false "Year, e.g. 2025"
// @Param month query int false "Month 1-12"
// @Success 200 {object} controllers.CalendarSuccessResponse "data is a list of days with events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/calendar [get]
func (c *EventController) Calendar(w http.ResponseWriter, r *http.Request) {
	now := c.Clock.Now().UTC()
	year, month := now.Year(), now.Month()
	if s := r.URL.Query().Get("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 9999 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid year")
			return
		}
		year = v
	}
	if s := r.URL.Query().Get("month"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 12 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid month")
			return
		}
		month = time.Month(v)
	}
	days, err := c.Service.Calendar(r.Context(), year, month)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, days)
}
