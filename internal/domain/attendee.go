package domain

import (
	"context"
	"time"
)

// EventRegistration represents an attendee's RSVP for an event.
// CheckedInAt is set once the attendee has been marked present.
// swagger:model EventRegistration
type EventRegistration struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	UserID      string     `json:"user_id"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewEventRegistration creates a new EventRegistration. ID is typically set by the repository on create.
func NewEventRegistration(eventID, userID string, createdAt, updatedAt time.Time) *EventRegistration {
	return &EventRegistration{
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// EventRegistrationRepository defines storage operations for event registrations.
type EventRegistrationRepository interface {
	Create(ctx context.Context, reg *EventRegistration) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*EventRegistration, error)
	ListByUserID(ctx context.Context, userID string) ([]*EventRegistration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*EventRegistration, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
	MarkCheckedIn(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// EventRegistrationWithEvent bundles a registration with its related event.
type EventRegistrationWithEvent struct {
	Registration *EventRegistration `json:"registration"`
	Event        *Event             `json:"event"`
}

// AttendanceSummary reports how many registered attendees actually showed up.
// swagger:model AttendanceSummary
type AttendanceSummary struct {
	EventID        string      `json:"event_id"`
	Status         EventStatus `json:"status"`
	Registered     int         `json:"registered"`
	CheckedIn      int         `json:"checked_in"`
	AttendanceRate float64     `json:"attendance_rate"`
}

// AttendeeService defines attendee-facing operations: RSVP and attendance.
type AttendeeService interface {
	// RegisterForEvent registers the user for the event. created is false when the user was already registered.
	RegisterForEvent(ctx context.Context, eventID, userID string) (reg *EventRegistration, created bool, err error)
	RegisterForEventByCode(ctx context.Context, eventCode, userID string) (reg *EventRegistration, created bool, err error)
	CancelRegistration(ctx context.Context, eventID, userID string) error
	ListMyRegisteredEvents(ctx context.Context, userID string) ([]*EventRegistrationWithEvent, error)
	IsRegistered(ctx context.Context, eventID, userID string) (bool, error)
	CheckIn(ctx context.Context, eventID, ownerID, userID string) (*EventRegistration, error)
	AttendanceSummary(ctx context.Context, eventID, ownerID string) (*AttendanceSummary, error)
}
