package utils_test

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/vouchbot/internal/bot/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomIDRoundTrip(t *testing.T) {
	t.Parallel()

	id := utils.CustomID{
		Prefix: "leaderboard",
		Action: "next",
		Owner:  snowflake.ID(1439497398190866495),
		Arg:    3,
	}

	encoded := id.String()
	assert.Equal(t, "leaderboard:next:1439497398190866495:3", encoded)
	assert.LessOrEqual(t, len(encoded), 100)

	parsed, err := utils.ParseCustomID(encoded)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseCustomIDRejectsForeignIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "too few parts", input: "leaderboard:next:1"},
		{name: "too many parts", input: "a:b:1:2:3"},
		{name: "bad owner", input: "leaderboard:next:abc:1"},
		{name: "bad argument", input: "leaderboard:next:1:-1"},
		{name: "empty action", input: "leaderboard::1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := utils.ParseCustomID(tt.input)
			require.ErrorIs(t, err, utils.ErrInvalidCustomID)
		})
	}
}

func TestMention(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<@42>", utils.Mention(42))
}
