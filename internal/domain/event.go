package domain

import (
	"context"
	"time"
)

// Event represents a scheduled community event.
// A DateOnly event was scheduled with a bare calendar date: ScheduledStart is
// midnight UTC of that date and StartTime, when set, supplies the time of day.
// swagger:model Event
type Event struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	EventCode       string    `json:"event_code"`
	OwnerID         string    `json:"owner_id"`
	Description     *string   `json:"description,omitempty"`
	Location        *string   `json:"location,omitempty"`
	ScheduledStart  time.Time `json:"scheduled_start"`
	DateOnly        bool      `json:"date_only"`
	StartTime       string    `json:"start_time,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Capacity        *int      `json:"capacity,omitempty"`
	// Status is derived from the clock on read; it has no column.
	Status    EventStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(name, ownerID string, scheduledStart time.Time, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:           name,
		OwnerID:        ownerID,
		ScheduledStart: scheduledStart,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// Duration returns the event duration, DefaultEventDuration when none is set.
func (e *Event) Duration() time.Duration {
	if e.DurationMinutes == nil || *e.DurationMinutes <= 0 {
		return DefaultEventDuration
	}
	return time.Duration(*e.DurationMinutes) * time.Minute
}

// StatusAt returns the lifecycle status of the event at now. A date-only event
// uses its StartTime when present and the date-only rule otherwise; StartTime is
// ignored on events scheduled at an exact instant.
func (e *Event) StatusAt(now time.Time) EventStatus {
	if e.DateOnly {
		return resolveWithTime(e.ScheduledStart, e.StartTime, e.Duration(), now)
	}
	return ResolveEventStatusFor(e.ScheduledStart, e.Duration(), now)
}

// WithStatus fills Status from now and returns e.
func (e *Event) WithStatus(now time.Time) *Event {
	e.Status = e.StatusAt(now)
	return e
}

// EventPatch holds optional fields for a partial update. Nil fields are unchanged.
// The start (scheduled_start, start_time) is fixed at creation and has no patch field.
type EventPatch struct {
	Name            *string
	Description     *string
	Location        *string
	DurationMinutes *int
	Capacity        *int
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Location == nil &&
		p.DurationMinutes == nil && p.Capacity == nil
}

// EventQuery narrows the events loaded by the repository. Zero values mean no constraint.
type EventQuery struct {
	OwnerID string
	From    time.Time // inclusive
	To      time.Time // exclusive
}

// EventListFilter is what callers of the service may filter by.
type EventListFilter struct {
	OwnerID string
	Status  EventStatus
}

// CalendarDay groups the events scheduled on one calendar day.
// swagger:model CalendarDay
type CalendarDay struct {
	Date   string   `json:"date"`
	Events []*Event `json:"events"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByEventCode(ctx context.Context, eventCode string) (*Event, error)
	List(ctx context.Context, q EventQuery) ([]*Event, error)
	Update(ctx context.Context, id string, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for managing events.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	ListEvents(ctx context.Context, filter EventListFilter, page PaginationParams) ([]*Event, int, error)
	UpdateEvent(ctx context.Context, eventID, ownerID string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, ownerID string) error
	Calendar(ctx context.Context, year int, month time.Month) ([]*CalendarDay, error)
}
