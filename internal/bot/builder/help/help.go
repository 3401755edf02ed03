package help

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/vouchbot/internal/bot/constants"
	"github.com/robalyx/vouchbot/internal/bot/utils"
	"github.com/robalyx/vouchbot/internal/reputation"
)

// Builder creates the response of the help command.
type Builder struct {
	settings reputation.Settings
	owner    bool
}

// NewBuilder creates a help builder. Owner commands are only listed for the owner.
func NewBuilder(settings reputation.Settings, owner bool) *Builder {
	return &Builder{
		settings: settings,
		owner:    owner,
	}
}

// Build returns the help embed.
func (b *Builder) Build() discord.Embed {
	userCommands := []string{
		"`/vouch @member <reason>` - Vouch for a member",
		"`/rank [@member]` - Show reputation and rank",
		"`/leaderboard` - Show the reputation leaderboard",
		"`/vouchhistory [@member]` - Show received vouches",
		"`/cooldown` - Show your vouch cooldown",
		"`/help` - Show this message",
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("📖 Vouch Bot Help").
		SetDescription(fmt.Sprintf(
			"Each vouch gives **%s** reputation. You can vouch once every **%s**.",
			utils.FormatNumber(b.settings.VouchRepAmount),
			utils.FormatMinutes(b.settings.VouchCooldown),
		)).
		SetColor(constants.ColorBlue).
		AddField("Commands", strings.Join(userCommands, "\n"), false)

	if b.owner {
		ownerCommands := []string{
			"`/addrep @member <amount>` - Add reputation",
			"`/removerep @member <amount>` - Remove reputation",
			"`/setrep @member <amount>` - Set reputation",
			"`/clearrep @member` - Clear reputation and history",
			"`/resetcooldown @member` - Reset a vouch cooldown",
			"`/repstats` - Show system statistics",
		}
		embed.AddField("Owner Commands", strings.Join(ownerCommands, "\n"), false)
	}

	embed.AddField("Rules",
		"• A reason of at least 3 characters is required\n"+
			"• You cannot vouch for yourself or for bots\n"+
			"• Vouching without a valid reason will result in punishment",
		false)

	return embed.Build()
}
