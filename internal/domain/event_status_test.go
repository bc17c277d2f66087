package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEventStatus(t *testing.T) {
	start := time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want EventStatus
	}{
		{"during the two hour window", time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC), EventStatusInProgress},
		{"18h before start", time.Date(2025, 1, 9, 20, 0, 0, 0, time.UTC), EventStatusHappeningSoon},
		{"more than a day before start", time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), EventStatusUpcoming},
		{"after the end", time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), EventStatusEnded},
		{"exactly at start", start, EventStatusInProgress},
		{"exactly at end", start.Add(2 * time.Hour), EventStatusInProgress},
		{"one millisecond after end", start.Add(2*time.Hour + time.Millisecond), EventStatusEnded},
		{"exactly 24h before start", start.Add(-24 * time.Hour), EventStatusHappeningSoon},
		{"24h and a millisecond before start", start.Add(-24*time.Hour - time.Millisecond), EventStatusUpcoming},
		{"one nanosecond before start", start.Add(-time.Nanosecond), EventStatusHappeningSoon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveEventStatus(start, tt.now))
		})
	}
}

func TestResolveEventStatus_Properties(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for h := 25; h < 24*30; h += 7 {
		start := now.Add(time.Duration(h) * time.Hour)
		require.Equal(t, EventStatusUpcoming, ResolveEventStatus(start, now), "start in %dh", h)
	}
	for m := 1; m <= 24*60; m += 37 {
		start := now.Add(time.Duration(m) * time.Minute)
		require.Equal(t, EventStatusHappeningSoon, ResolveEventStatus(start, now), "start in %dm", m)
	}
	for m := 0; m <= 120; m += 5 {
		start := now.Add(-time.Duration(m) * time.Minute)
		require.Equal(t, EventStatusInProgress, ResolveEventStatus(start, now), "started %dm ago", m)
	}
	for m := 121; m < 24*60; m += 53 {
		start := now.Add(-time.Duration(m) * time.Minute)
		require.Equal(t, EventStatusEnded, ResolveEventStatus(start, now), "started %dm ago", m)
	}
}

func TestResolveEventStatusFor(t *testing.T) {
	start := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	now := start.Add(5 * time.Hour)

	assert.Equal(t, EventStatusEnded, ResolveEventStatusFor(start, 0, now))
	assert.Equal(t, EventStatusEnded, ResolveEventStatusFor(start, -time.Hour, now))
	assert.Equal(t, EventStatusInProgress, ResolveEventStatusFor(start, 8*time.Hour, now))
	assert.Equal(t, EventStatusUpcoming, ResolveEventStatusFor(time.Time{}, time.Hour, now))
}

func TestResolveEventStatusWithTime(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		startTime string
		now       time.Time
		want      EventStatus
	}{
		{"24h clock in progress", "14:00", time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC), EventStatusInProgress},
		{"seconds layout", "14:00:00", time.Date(2025, 1, 9, 20, 0, 0, 0, time.UTC), EventStatusHappeningSoon},
		{"12h clock", "2:00 PM", time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), EventStatusEnded},
		{"malformed, now past the date", "25:99", time.Date(2025, 1, 10, 0, 0, 1, 0, time.UTC), EventStatusEnded},
		{"malformed, now on the date", "noon-ish", date, EventStatusUpcoming},
		{"malformed, now before the date", "??", time.Date(2025, 1, 9, 23, 0, 0, 0, time.UTC), EventStatusUpcoming},
		{"missing time degrades to date only", "", time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC), EventStatusEnded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, ResolveEventStatusWithTime(date, tt.startTime, tt.now))
			})
		})
	}

	assert.Equal(t, EventStatusUpcoming, ResolveEventStatusWithTime(time.Time{}, "14:00", date))
}

func TestCombineDateAndTime(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	date := time.Date(2025, 3, 5, 23, 59, 0, 0, loc)

	got, ok := CombineDateAndTime(date, " 09:15 ")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 5, 9, 15, 0, 0, loc), got)

	_, ok = CombineDateAndTime(date, "9h15")
	assert.False(t, ok)
}

func TestEventStatus_Valid(t *testing.T) {
	assert.True(t, EventStatusHappeningSoon.Valid())
	assert.False(t, EventStatus("cancelled").Valid())
}
