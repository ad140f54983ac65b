package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name     string
		at       time.Time
		expected string
	}{
		{"Hours are not padded", time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC), "9:05"},
		{"Midnight", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "0:00"},
		{"Two digit hour", time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC), "23:59"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatClock(tt.at))
		})
	}
}

func TestLocalClock(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	previous := time.Local
	time.Local = tokyo
	t.Cleanup(func() { time.Local = previous })

	at := time.Date(2026, 3, 4, 12, 13, 0, 0, time.UTC)
	require.Equal(t, "21:13", LocalClock(at))
	require.Equal(t, LocalClock(at), FormatClock(at.In(tokyo)))
}
