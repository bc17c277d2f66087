package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestEvent_Duration(t *testing.T) {
	e := &Event{}
	assert.Equal(t, DefaultEventDuration, e.Duration())

	e.DurationMinutes = intPtr(0)
	assert.Equal(t, DefaultEventDuration, e.Duration())

	e.DurationMinutes = intPtr(90)
	assert.Equal(t, 90*time.Minute, e.Duration())
}

func TestEvent_StatusAt(t *testing.T) {
	start := time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)
	now := start.Add(3 * time.Hour)

	e := NewEvent("Meetup", "user-1", start, start, start)
	assert.Equal(t, EventStatusEnded, e.StatusAt(now))

	e.DurationMinutes = intPtr(240)
	assert.Equal(t, EventStatusInProgress, e.StatusAt(now))

	dateOnly := &Event{ScheduledStart: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), DateOnly: true, StartTime: "18:30"}
	assert.Equal(t, EventStatusHappeningSoon, dateOnly.StatusAt(now))

	dateOnly.StartTime = "later"
	assert.Equal(t, EventStatusEnded, dateOnly.WithStatus(now).Status)
}

func TestEvent_StatusAt_DateOnlyWithoutTime(t *testing.T) {
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	e := &Event{ScheduledStart: day, DateOnly: true}

	tests := []struct {
		name string
		now  time.Time
		want EventStatus
	}{
		{"evening before", day.Add(-time.Hour), EventStatusUpcoming},
		{"at midnight", day, EventStatusUpcoming},
		{"early on the day", day.Add(time.Hour), EventStatusEnded},
		{"days later", day.AddDate(0, 0, 3), EventStatusEnded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.StatusAt(tt.now))
		})
	}
}

func TestEvent_StatusAt_InstantIgnoresStartTime(t *testing.T) {
	start := time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)
	e := &Event{ScheduledStart: start, StartTime: "09:00"}
	assert.Equal(t, EventStatusInProgress, e.StatusAt(start.Add(30*time.Minute)))
}

func TestEventPatch_IsEmpty(t *testing.T) {
	assert.True(t, EventPatch{}.IsEmpty())
	name := "x"
	assert.False(t, EventPatch{Name: &name}.IsEmpty())
}

func TestPaginationParams_Offset(t *testing.T) {
	assert.Equal(t, 0, PaginationParams{Page: 0, PageSize: 20}.Offset())
	assert.Equal(t, 0, PaginationParams{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, PaginationParams{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, math.MaxInt, PaginationParams{Page: math.MaxInt, PageSize: 100}.Offset())
}

func TestPaginationParams_Bounds(t *testing.T) {
	tests := []struct {
		name       string
		p          PaginationParams
		total      int
		start, end int
	}{
		{"first page", PaginationParams{Page: 1, PageSize: 2}, 5, 0, 2},
		{"last partial page", PaginationParams{Page: 3, PageSize: 2}, 5, 4, 5},
		{"past the end", PaginationParams{Page: 9, PageSize: 2}, 5, 5, 5},
		{"no page size", PaginationParams{}, 5, 0, 5},
		{"max int page", PaginationParams{Page: math.MaxInt, PageSize: 100}, 5, 5, 5},
		{"max int page size", PaginationParams{Page: 2, PageSize: math.MaxInt}, 5, 5, 5},
		{"empty list", PaginationParams{Page: 1, PageSize: 20}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.p.Bounds(tt.total)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}
