package domain

import (
	"strings"
	"time"
)

// EventStatus is the lifecycle state of an event relative to a point in time.
// It is derived on every read and never stored.
type EventStatus string

const (
	EventStatusUpcoming      EventStatus = "upcoming"
	EventStatusHappeningSoon EventStatus = "happening_soon"
	EventStatusInProgress    EventStatus = "in_progress"
	EventStatusEnded         EventStatus = "ended"
)

// Valid reports whether s is one of the four lifecycle states.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusHappeningSoon, EventStatusInProgress, EventStatusEnded:
		return true
	}
	return false
}

const (
	// DefaultEventDuration is assumed for events that carry no explicit duration.
	DefaultEventDuration = 2 * time.Hour
	// HappeningSoonWindow is how long before its start an event counts as happening soon.
	HappeningSoonWindow = 24 * time.Hour
)

// startTimeLayouts are the accepted time-of-day formats for an explicit start time.
var startTimeLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm"}

// ResolveEventStatus classifies an event starting at scheduledStart and lasting
// DefaultEventDuration. Both interval ends are inclusive: an event is in
// progress at exactly its start and exactly its end, and happening soon when it
// starts within (0, 24h] of now.
func ResolveEventStatus(scheduledStart, now time.Time) EventStatus {
	return ResolveEventStatusFor(scheduledStart, DefaultEventDuration, now)
}

// ResolveEventStatusFor is ResolveEventStatus with an explicit duration.
// A non-positive duration means DefaultEventDuration. A zero start is upcoming.
func ResolveEventStatusFor(scheduledStart time.Time, duration time.Duration, now time.Time) EventStatus {
	if scheduledStart.IsZero() {
		return EventStatusUpcoming
	}
	if duration <= 0 {
		duration = DefaultEventDuration
	}
	end := scheduledStart.Add(duration)
	switch {
	case now.After(end):
		return EventStatusEnded
	case !now.Before(scheduledStart):
		return EventStatusInProgress
	case scheduledStart.Sub(now) <= HappeningSoonWindow:
		return EventStatusHappeningSoon
	default:
		return EventStatusUpcoming
	}
}

// ResolveEventStatusWithTime classifies an event given its date and a separate
// time-of-day string. A missing or unparseable startTime degrades to a
// date-only comparison: ended once now is past the date, upcoming otherwise.
func ResolveEventStatusWithTime(date time.Time, startTime string, now time.Time) EventStatus {
	return resolveWithTime(date, startTime, DefaultEventDuration, now)
}

func resolveWithTime(date time.Time, startTime string, duration time.Duration, now time.Time) EventStatus {
	if date.IsZero() {
		return EventStatusUpcoming
	}
	start, ok := CombineDateAndTime(date, startTime)
	if !ok {
		if now.After(dayStart(date)) {
			return EventStatusEnded
		}
		return EventStatusUpcoming
	}
	return ResolveEventStatusFor(start, duration, now)
}

// CombineDateAndTime returns the instant at startTime on the calendar day of
// date, in date's location. ok is false when startTime is empty or malformed.
func CombineDateAndTime(date time.Time, startTime string) (time.Time, bool) {
	startTime = strings.TrimSpace(startTime)
	if startTime == "" {
		return time.Time{}, false
	}
	for _, layout := range startTimeLayouts {
		t, err := time.Parse(layout, startTime)
		if err != nil {
			continue
		}
		y, m, d := date.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, date.Location()), true
	}
	return time.Time{}, false
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
