package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"communityadmin/internal/delivery/http/helpers"
	"communityadmin/internal/domain"

	"github.com/google/uuid"
)

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.AttendeeService
}

func NewAttendeeController(logger *slog.Logger, svc domain.AttendeeService) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterForEventSuccessResponse is the success response envelope for POST /attendee/events/{eventID}/registrations and POST /attendee/registrations (200 or 201).
type RegisterForEventSuccessResponse struct {
	Data  *domain.EventRegistration `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

func (c *AttendeeController) writeRegistration(w http.ResponseWriter, reg *domain.EventRegistration, created bool) {
	if created {
		helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// RegisterForEvent godoc
// @Summary Register the current attendee for an event
// @Description Registers the authenticated user for the event. Idempotent: returns 201 when a new registration is created, 200 when already registered. Ended or full events return 409.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RegisterForEventSuccessResponse "Already registered"
// @Success 201 {object} controllers.RegisterForEventSuccessResponse "New registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event ended or full)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendee/events/{eventID}/registrations [post]
func (c *AttendeeController) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	reg, created, err := c.Service.RegisterForEvent(r.Context(), eventID, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	c.writeRegistration(w, reg, created)
}

// RegisterForEventByCodeRequest is the request body for POST /attendee/registrations.
type RegisterForEventByCodeRequest struct {
	EventCode string `json:"event_code"`
}

// Validate implements helpers.Validator.
func (r *RegisterForEventByCodeRequest) Validate() []string {
	code := strings.ToLower(strings.TrimSpace(r.EventCode))
	if code == "" {
		return []string{"event_code is required"}
	}
	if len(code) != 4 {
		return []string{"event_code must be exactly 4 characters"}
	}
	for _, c := range code {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			continue
		}
		return []string{"event_code must contain only lowercase letters and digits"}
	}
	r.EventCode = code
	return nil
}

// RegisterForEventByCode godoc
// @Summary Register for an event by event code
// @Description Registers the authenticated user for the event with the given event_code. Idempotent: returns 201 when a new registration is created, 200 when already registered.
// @Tags attendee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.RegisterForEventByCodeRequest true "Event code (4 characters)"
// @Success 200 {object} controllers.RegisterForEventSuccessResponse "Already registered"
// @Success 201 {object} controllers.RegisterForEventSuccessResponse "New registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event ended or full)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendee/registrations [post]
func (c *AttendeeController) RegisterForEventByCode(w http.ResponseWriter, r *http.Request) {
	var req RegisterForEventByCodeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	reg, created, err := c.Service.RegisterForEventByCode(r.Context(), req.EventCode, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	c.writeRegistration(w, reg, created)
}

// CancelRegistration godoc
// @Summary Cancel the current attendee's registration
// @Description Removes the RSVP. Not allowed once the event is in progress or has ended.
// @Tags attendee
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event already started)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendee/events/{eventID}/registrations [delete]
func (c *AttendeeController) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := c.Service.CancelRegistration(r.Context(), eventID, userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegistrationStatusResponse is the response body for GET /attendee/events/{eventID}/registration.
type RegistrationStatusResponse struct {
	EventID    string `json:"event_id"`
	Registered bool   `json:"registered"`
}

// GetRegistrationStatus godoc
// @Summary Check whether the current user is registered
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains event_id and registered"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendee/events/{eventID}/registration [get]
func (c *AttendeeController) GetRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	registered, err := c.Service.IsRegistered(r.Context(), eventID, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrationStatusResponse{EventID: eventID, Registered: registered})
}

// ListMyRegisteredEventsItem is an item in the response for GET /attendee/events.
type ListMyRegisteredEventsItem struct {
	Event        *domain.Event             `json:"event"`
	Registration *domain.EventRegistration `json:"registration"`
}

// ListMyRegisteredEventsSuccessResponse is the success response envelope for GET /attendee/events (200).
type ListMyRegisteredEventsSuccessResponse struct {
	Data  []ListMyRegisteredEventsItem `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// ListMyRegisteredEvents godoc
// @Summary Get events the current user is registered for
// @Description Returns the events the authenticated user is registered for, each with its current status and the registration metadata.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyRegisteredEventsSuccessResponse "data is an array of event + registration objects"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendee/events [get]
func (c *AttendeeController) ListMyRegisteredEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	items, err := c.Service.ListMyRegisteredEvents(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	responseItems := make([]ListMyRegisteredEventsItem, 0, len(items))
	for _, it := range items {
		responseItems = append(responseItems, ListMyRegisteredEventsItem{
			Event:        it.Event,
			Registration: it.Registration,
		})
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, responseItems)
}

// CheckInRequest is the request body for POST /events/{eventID}/check-ins.
type CheckInRequest struct {
	UserID string `json:"user_id"`
}

// Validate implements helpers.Validator.
func (c CheckInRequest) Validate() []string {
	if c.UserID == "" {
		return []string{"user_id is required"}
	}
	if _, err := uuid.Parse(c.UserID); err != nil {
		return []string{"user_id must be a UUID"}
	}
	return nil
}

// CheckIn godoc
// @Summary Check in a registered attendee
// @Description Marks a registered user as attended. Only the event owner may check people in, and only while the event is happening soon or in progress. Idempotent.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.CheckInRequest true "Attendee to check in"
// @Success 200 {object} controllers.RegisterForEventSuccessResponse "data contains the registration with checked_in_at"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event or registration)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (check-in closed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/check-ins [post]
func (c *AttendeeController) CheckIn(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req CheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.CheckIn(r.Context(), eventID, ownerID, req.UserID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// AttendanceSuccessResponse is the success response envelope for GET /events/{eventID}/attendance (200).
type AttendanceSuccessResponse struct {
	Data  *domain.AttendanceSummary `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// GetAttendance godoc
// @Summary Attendance summary
// @Description Registered and checked-in counts for the event. Only the owner may read it.
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.AttendanceSuccessResponse "data contains the summary"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendance [get]
func (c *AttendeeController) GetAttendance(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	summary, err := c.Service.AttendanceSummary(r.Context(), eventID, ownerID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
