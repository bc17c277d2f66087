package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"communityadmin/internal/clock"
	"communityadmin/internal/domain"
)

const (
	eventCodeLength   = 4
	eventCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// eventCodeAttempts bounds code regeneration after unique collisions.
	eventCodeAttempts = 5
	maxEventNameLen   = 200
)

type eventService struct {
	eventRepo      domain.EventRepository
	clock          clock.Clock
	contextTimeout time.Duration
}

// NewEventService returns an EventService. Every read fills Event.Status from clk.
func NewEventService(eventRepo domain.EventRepository, clk clock.Clock, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		clock:          clk,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OwnerID == "" {
		return fmt.Errorf("%w: event owner is required", domain.ErrInvalidInput)
	}
	event.Name = strings.TrimSpace(event.Name)
	if event.Name == "" || len(event.Name) > maxEventNameLen {
		return fmt.Errorf("%w: name is required and must be at most %d characters", domain.ErrInvalidInput, maxEventNameLen)
	}
	if event.ScheduledStart.IsZero() {
		return fmt.Errorf("%w: scheduled_start is required", domain.ErrInvalidInput)
	}
	event.StartTime = strings.TrimSpace(event.StartTime)
	if event.DateOnly {
		y, m, d := event.ScheduledStart.Date()
		event.ScheduledStart = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	} else if event.StartTime != "" {
		return fmt.Errorf("%w: start_time requires a date-only scheduled_start", domain.ErrInvalidInput)
	}
	if err := validateEventNumbers(event.DurationMinutes, event.Capacity); err != nil {
		return err
	}

	now := s.clock.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.Slug = slug.Make(event.Name)

	if err := s.insertWithCode(ctx, event); err != nil {
		return err
	}
	event.WithStatus(now)
	return nil
}

// insertWithCode stores event, drawing a fresh event code after each collision.
// A code set by the caller is used as is.
func (s *eventService) insertWithCode(ctx context.Context, event *domain.Event) error {
	generate := event.EventCode == ""
	for attempt := 1; ; attempt++ {
		if generate {
			code, err := gonanoid.Generate(eventCodeAlphabet, eventCodeLength)
			if err != nil {
				return fmt.Errorf("generate event code: %w", err)
			}
			event.EventCode = code
		}
		err := s.eventRepo.Create(ctx, event)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicateEventCode) || !generate || attempt == eventCodeAttempts {
			return fmt.Errorf("create event: %w", err)
		}
	}
}

func validateEventNumbers(durationMinutes, capacity *int) error {
	if durationMinutes != nil && *durationMinutes <= 0 {
		return fmt.Errorf("%w: duration_minutes must be positive", domain.ErrInvalidInput)
	}
	if capacity != nil && *capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event.WithStatus(s.clock.Now()), nil
}

// ListEvents returns one page of events and the total number matching filter.
// Status has no column, so filtering by it happens here after loading.
func (s *eventService) ListEvents(ctx context.Context, filter domain.EventListFilter, page domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, filter.Status)
	}

	events, err := s.eventRepo.List(ctx, domain.EventQuery{OwnerID: filter.OwnerID})
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	now := s.clock.Now()
	matched := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		e.WithStatus(now)
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		matched = append(matched, e)
	}

	start, end := page.Bounds(len(matched))
	return matched[start:end], len(matched), nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, ownerID string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" || len(name) > maxEventNameLen {
			return nil, fmt.Errorf("%w: name must be non-empty and at most %d characters", domain.ErrInvalidInput, maxEventNameLen)
		}
		patch.Name = &name
	}
	if err := validateEventNumbers(patch.DurationMinutes, patch.Capacity); err != nil {
		return nil, err
	}

	if _, err := s.ownedEvent(ctx, eventID, ownerID); err != nil {
		return nil, err
	}
	updated, err := s.eventRepo.Update(ctx, eventID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated.WithStatus(s.clock.Now()), nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, eventID, ownerID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// ownedEvent loads the event and checks ownerID owns it.
func (s *eventService) ownedEvent(ctx context.Context, eventID, ownerID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

// Calendar groups the events of a month by day, in UTC. Days without events are omitted.
func (s *eventService) Calendar(ctx context.Context, year int, month time.Month) ([]*domain.CalendarDay, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if month < time.January || month > time.December || year < 1 {
		return nil, fmt.Errorf("%w: invalid month %d-%d", domain.ErrInvalidInput, year, month)
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	events, err := s.eventRepo.List(ctx, domain.EventQuery{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	now := s.clock.Now()
	byDay := make(map[string]*domain.CalendarDay)
	for _, e := range events {
		e.WithStatus(now)
		key := e.ScheduledStart.UTC().Format(time.DateOnly)
		day, ok := byDay[key]
		if !ok {
			day = &domain.CalendarDay{Date: key}
			byDay[key] = day
		}
		day.Events = append(day.Events, e)
	}

	days := make([]*domain.CalendarDay, 0, len(byDay))
	for _, d := range byDay {
		sort.SliceStable(d.Events, func(i, j int) bool {
			return d.Events[i].ScheduledStart.Before(d.Events[j].ScheduledStart)
		})
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}
