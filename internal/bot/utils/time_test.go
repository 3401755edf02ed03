package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCooldown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{
			name: "minutes and seconds",
			d:    9*time.Minute + 30*time.Second,
			want: "9m 30s",
		},
		{
			name: "whole minutes",
			d:    2 * time.Minute,
			want: "2m 0s",
		},
		{
			name: "seconds only",
			d:    45 * time.Second,
			want: "45s",
		},
		{
			name: "fraction dropped",
			d:    59*time.Second + 900*time.Millisecond,
			want: "59s",
		},
		{
			name: "zero",
			d:    0,
			want: "0s",
		},
		{
			name: "negative clamps",
			d:    -time.Second,
			want: "0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, FormatCooldown(tt.d))
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "10 minutes", FormatMinutes(600*time.Second))
	assert.Equal(t, "1 minute", FormatMinutes(90*time.Second))
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2025, 3, 1, 14, 5, 59, 0, loc)

	assert.Equal(t, "2025-03-01 12:05", FormatTimestamp(ts))
}
