package help_test

import (
	"testing"

	"github.com/robalyx/vouchbot/internal/bot/builder/help"
	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	member := help.NewBuilder(reputation.DefaultSettings(), false).Build()
	require.Len(t, member.Fields, 2)
	assert.Equal(t, "Commands", member.Fields[0].Name)
	assert.Equal(t, "Each vouch gives **3** reputation. You can vouch once every **10 minutes**.", member.Description)

	owner := help.NewBuilder(reputation.DefaultSettings(), true).Build()
	require.Len(t, owner.Fields, 3)
	assert.Equal(t, "Owner Commands", owner.Fields[1].Name)
	assert.Contains(t, owner.Fields[1].Value, "/clearrep")
}
