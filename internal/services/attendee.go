package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"communityadmin/internal/clock"
	"communityadmin/internal/domain"
)

type attendeeService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
	userRepo         domain.UserRepository
	emailService     domain.EmailService
	clock            clock.Clock
	logger           *slog.Logger
}

// NewAttendeeService creates an AttendeeService with the given repositories.
// emailService may be nil, in which case no confirmation is sent.
func NewAttendeeService(
	eventRepo domain.EventRepository,
	registrationRepo domain.EventRegistrationRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	clk clock.Clock,
	logger *slog.Logger,
) domain.AttendeeService {
	return &attendeeService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		clock:            clk,
		logger:           logger,
	}
}

func (s *attendeeService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.EventRegistration, bool, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event: %w", err)
	}
	return s.register(ctx, event, userID)
}

func (s *attendeeService) RegisterForEventByCode(ctx context.Context, eventCode, userID string) (*domain.EventRegistration, bool, error) {
	code := strings.ToLower(strings.TrimSpace(eventCode))
	event, err := s.eventRepo.GetByEventCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event by code: %w", err)
	}
	return s.register(ctx, event, userID)
}

// register is idempotent: an existing registration is returned with created=false,
// even once the event has ended or filled up.
func (s *attendeeService) register(ctx context.Context, event *domain.Event, userID string) (*domain.EventRegistration, bool, error) {
	if existing, err := s.registrationRepo.GetByEventAndUser(ctx, event.ID, userID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get event registration: %w", err)
	}

	now := s.clock.Now()
	if event.StatusAt(now) == domain.EventStatusEnded {
		return nil, false, domain.ErrEventClosed
	}
	if event.Capacity != nil {
		count, err := s.registrationRepo.CountByEventID(ctx, event.ID)
		if err != nil {
			return nil, false, fmt.Errorf("count event registrations: %w", err)
		}
		if count >= *event.Capacity {
			return nil, false, domain.ErrEventFull
		}
	}

	reg := domain.NewEventRegistration(event.ID, userID, now, now)
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered):
			// A concurrent RSVP from the same user won the insert.
			existing, getErr := s.registrationRepo.GetByEventAndUser(ctx, event.ID, userID)
			if getErr != nil {
				return nil, false, fmt.Errorf("get event registration: %w", getErr)
			}
			return existing, false, nil
		case errors.Is(err, domain.ErrEventFull), errors.Is(err, domain.ErrNotFound):
			return nil, false, err
		}
		return nil, false, fmt.Errorf("create event registration: %w", err)
	}
	s.sendConfirmation(ctx, event, userID)
	return reg, true, nil
}

// sendConfirmation emails the attendee. Failures are logged; the RSVP stands.
func (s *attendeeService) sendConfirmation(ctx context.Context, event *domain.Event, userID string) {
	if s.emailService == nil || s.userRepo == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "rsvp confirmation skipped", "event_id", event.ID, "user_id", userID, "err", err)
		return
	}
	data := &domain.RSVPConfirmationEmailData{
		Email:     user.Email,
		Name:      user.Name,
		EventName: event.Name,
		EventCode: event.EventCode,
		StartsAt:  formatEventStart(event),
	}
	if event.Location != nil {
		data.Location = *event.Location
	}
	if err := s.emailService.SendRSVPConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "rsvp confirmation failed", "event_id", event.ID, "user_id", userID, "err", err)
	}
}

func formatEventStart(e *domain.Event) string {
	if !e.DateOnly {
		return e.ScheduledStart.Format("Mon, 02 Jan 2006 15:04 MST")
	}
	if start, ok := domain.CombineDateAndTime(e.ScheduledStart, e.StartTime); ok {
		return start.Format("Mon, 02 Jan 2006 15:04 MST")
	}
	return e.ScheduledStart.Format("Mon, 02 Jan 2006")
}

func (s *attendeeService) CancelRegistration(ctx context.Context, eventID, userID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	reg, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event registration: %w", err)
	}
	switch event.StatusAt(s.clock.Now()) {
	case domain.EventStatusInProgress, domain.EventStatusEnded:
		return domain.ErrRegistrationLocked
	}
	if err := s.registrationRepo.Delete(ctx, reg.ID); err != nil {
		return fmt.Errorf("delete event registration: %w", err)
	}
	return nil
}

func (s *attendeeService) ListMyRegisteredEvents(ctx context.Context, userID string) ([]*domain.EventRegistrationWithEvent, error) {
	regs, err := s.registrationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	result := make([]*domain.EventRegistrationWithEvent, 0, len(regs))
	if len(regs) == 0 {
		return result, nil
	}

	now := s.clock.Now()
	eventsByID := make(map[string]*domain.Event)
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Event deleted but registration remains.
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev.WithStatus(now)
		}
		result = append(result, &domain.EventRegistrationWithEvent{
			Registration: reg,
			Event:        ev,
		})
	}
	return result, nil
}

func (s *attendeeService) IsRegistered(ctx context.Context, eventID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	_, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("get event registration: %w", err)
}

// CheckIn marks a registered user as present. Only the owner may check people in,
// and only while the event is happening soon or in progress.
func (s *attendeeService) CheckIn(ctx context.Context, eventID, ownerID, userID string) (*domain.EventRegistration, error) {
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

	now := s.clock.Now()
	switch event.StatusAt(now) {
	case domain.EventStatusHappeningSoon, domain.EventStatusInProgress:
	default:
		return nil, domain.ErrCheckInClosed
	}

	reg, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("get event registration: %w", err)
	}
	if reg.CheckedInAt != nil {
		return reg, nil
	}
	if err := s.registrationRepo.MarkCheckedIn(ctx, reg.ID, now); err != nil {
		return nil, fmt.Errorf("mark checked in: %w", err)
	}
	reg.CheckedInAt = &now
	reg.UpdatedAt = now
	return reg, nil
}

func (s *attendeeService) AttendanceSummary(ctx context.Context, eventID, ownerID string) (*domain.AttendanceSummary, error) {
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

	regs, err := s.registrationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	summary := &domain.AttendanceSummary{
		EventID:    eventID,
		Status:     event.StatusAt(s.clock.Now()),
		Registered: len(regs),
	}
	for _, r := range regs {
		if r.CheckedInAt != nil {
			summary.CheckedIn++
		}
	}
	if summary.Registered > 0 {
		summary.AttendanceRate = float64(summary.CheckedIn) / float64(summary.Registered)
	}
	return summary, nil
}
