package domain

import "errors"

// Sentinel errors shared by services and mapped to HTTP status codes by controllers.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already in use")

	// ErrEventClosed is returned when registering for an event that has ended.
	ErrEventClosed = errors.New("event has ended")
	// ErrEventFull is returned when an event has reached its capacity.
	ErrEventFull = errors.New("event is full")
	// ErrRegistrationLocked is returned when cancelling an RSVP once the event has started.
	ErrRegistrationLocked = errors.New("registration can no longer be changed")
	// ErrCheckInClosed is returned when check-in is attempted outside the attendance window.
	ErrCheckInClosed = errors.New("check-in is not open for this event")
	// ErrAlreadyRegistered is returned by storage when the user already holds a registration for the event.
	ErrAlreadyRegistered = errors.New("user is already registered for this event")
	// ErrDuplicateEventCode is returned by storage when a generated event code is already taken.
	ErrDuplicateEventCode = errors.New("event code already in use")
	// ErrNotRegistered is returned when checking in a user without a registration.
	ErrNotRegistered = errors.New("user is not registered for this event")
)
