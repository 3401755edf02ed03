package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		maxLength int
		want      string
	}{
		{
			name:      "short string",
			input:     "hello",
			maxLength: 10,
			want:      "hello",
		},
		{
			name:      "long string",
			input:     "hello world this is a long string",
			maxLength: 10,
			want:      "hello w...",
		},
		{
			name:      "exact length",
			input:     "hello",
			maxLength: 5,
			want:      "hello",
		},
		{
			name:      "multibyte characters",
			input:     "⭐⭐⭐⭐⭐⭐",
			maxLength: 5,
			want:      "⭐⭐...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := TruncateString(tt.input, tt.maxLength)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "great trade quick", NormalizeString("great `trade`\nquick"))
}

func TestRankDisplay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "🥇", RankDisplay(1))
	assert.Equal(t, "🥈", RankDisplay(2))
	assert.Equal(t, "🥉", RankDisplay(3))
	assert.Equal(t, "`#4`", RankDisplay(4))
	assert.Equal(t, "`#12`", RankDisplay(12))
}
