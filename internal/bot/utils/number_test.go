package utils_test

import (
	"testing"

	"github.com/robalyx/vouchbot/internal/bot/utils"
	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int64
		want string
	}{
		{
			name: "small number",
			n:    123,
			want: "123",
		},
		{
			name: "thousands",
			n:    1234,
			want: "1,234",
		},
		{
			name: "millions",
			n:    1234567,
			want: "1,234,567",
		},
		{
			name: "zero",
			n:    0,
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := utils.FormatNumber(tt.n)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatSigned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int64
		want string
	}{
		{name: "positive", n: 5, want: "+5"},
		{name: "zero", n: 0, want: "+0"},
		{name: "negative", n: -12, want: "-12"},
		{name: "large negative", n: -4500, want: "-4,500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, utils.FormatSigned(tt.n))
		})
	}
}

func TestFormatPoints(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1,500 ⭐", utils.FormatPoints(1500))
	assert.Equal(t, "7", utils.FormatCount(7))
}
