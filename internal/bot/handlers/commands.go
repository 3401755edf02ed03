package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/vouchbot/internal/bot/constants"
)

// ErrUnknownCommand indicates a slash command this bot does not register.
var ErrUnknownCommand = errors.New("unknown command")

// commandSpec describes how a slash command is answered.
type commandSpec struct {
	owner     bool
	ephemeral bool
	target    bool
}

var commandSpecs = map[string]commandSpec{
	constants.VouchCommandName:         {target: true},
	constants.RankCommandName:          {},
	constants.LeaderboardCommandName:   {},
	constants.VouchHistoryCommandName:  {},
	constants.CooldownCommandName:      {ephemeral: true},
	constants.HelpCommandName:          {ephemeral: true},
	constants.AddRepCommandName:        {owner: true, ephemeral: true, target: true},
	constants.RemoveRepCommandName:     {owner: true, ephemeral: true, target: true},
	constants.SetRepCommandName:        {owner: true, ephemeral: true, target: true},
	constants.ClearRepCommandName:      {owner: true, ephemeral: true, target: true},
	constants.ResetCooldownCommandName: {owner: true, ephemeral: true, target: true},
	constants.RepStatsCommandName:      {owner: true, ephemeral: true},
}

// IsOwnerCommand reports whether the command is restricted to the bot owner.
func IsOwnerCommand(command string) bool {
	return commandSpecs[command].owner
}

// IsEphemeral reports whether the command is answered only to the actor.
func IsEphemeral(command string) bool {
	return commandSpecs[command].ephemeral
}

// Run dispatches a slash command. Owner commands must be authorized by the caller.
func (h *Handler) Run(ctx context.Context, command string, inv Invocation) (*Response, error) {
	spec, ok := commandSpecs[command]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
	if spec.target && !inv.HasTarget {
		return nil, fmt.Errorf("%w: %s requires a member", ErrUnknownCommand, command)
	}

	switch command {
	case constants.VouchCommandName:
		return h.Vouch(ctx, inv), nil
	case constants.RankCommandName:
		return h.Rank(inv), nil
	case constants.LeaderboardCommandName:
		return h.Leaderboard(inv), nil
	case constants.VouchHistoryCommandName:
		return h.VouchHistory(inv), nil
	case constants.CooldownCommandName:
		return h.Cooldown(inv), nil
	case constants.HelpCommandName:
		return h.Help(inv), nil
	case constants.AddRepCommandName:
		return h.AddRep(ctx, inv), nil
	case constants.RemoveRepCommandName:
		return h.RemoveRep(ctx, inv), nil
	case constants.SetRepCommandName:
		return h.SetRep(ctx, inv), nil
	case constants.ClearRepCommandName:
		return h.ClearRep(inv), nil
	case constants.ResetCooldownCommandName:
		return h.ResetCooldown(ctx, inv), nil
	default:
		return h.RepStats(), nil
	}
}

// Commands returns the slash commands to register with Discord.
func Commands() []discord.ApplicationCommandCreate {
	minReason := 1
	maxReason := 1000
	minAmount := 0

	memberOption := func(description string, required bool) discord.ApplicationCommandOptionUser {
		return discord.ApplicationCommandOptionUser{
			Name:        constants.MemberOptionName,
			Description: description,
			Required:    required,
		}
	}
	amountOption := discord.ApplicationCommandOptionInt{
		Name:        constants.AmountOptionName,
		Description: "Amount of reputation",
		Required:    true,
		MinValue:    &minAmount,
	}

	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        constants.VouchCommandName,
			Description: "Vouch for a member and give them reputation",
			Options: []discord.ApplicationCommandOption{
				memberOption("Member to vouch for", true),
				discord.ApplicationCommandOptionString{
					Name:        constants.ReasonOptionName,
					Description: "Why you are vouching for this member",
					Required:    true,
					MinLength:   &minReason,
					MaxLength:   &maxReason,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.RankCommandName,
			Description: "Show the reputation and rank of a member",
			Options:     []discord.ApplicationCommandOption{memberOption("Member to look up", false)},
		},
		discord.SlashCommandCreate{
			Name:        constants.LeaderboardCommandName,
			Description: "Show the reputation leaderboard",
		},
		discord.SlashCommandCreate{
			Name:        constants.VouchHistoryCommandName,
			Description: "Show the vouches a member received",
			Options:     []discord.ApplicationCommandOption{memberOption("Member to look up", false)},
		},
		discord.SlashCommandCreate{
			Name:        constants.CooldownCommandName,
			Description: "Show your vouch cooldown",
		},
		discord.SlashCommandCreate{
			Name:        constants.HelpCommandName,
			Description: "Show the available commands",
		},
		discord.SlashCommandCreate{
			Name:        constants.AddRepCommandName,
			Description: "Add reputation to a member (owner only)",
			Options:     []discord.ApplicationCommandOption{memberOption("Member to update", true), amountOption},
		},
		discord.SlashCommandCreate{
			Name:        constants.RemoveRepCommandName,
			Description: "Remove reputation from a member (owner only)",
			Options:     []discord.ApplicationCommandOption{memberOption("Member to update", true), amountOption},
		},
		discord.SlashCommandCreate{
			Name:        constants.SetRepCommandName,
			Description: "Set the reputation of a member (owner only)",
			Options:     []discord.ApplicationCommandOption{memberOption("Member to update", true), amountOption},
		},
		discord.SlashCommandCreate{
			Name:        constants.ClearRepCommandName,
			Description: "Clear the reputation and history of a member (owner only)",
			Options:     []discord.ApplicationCommandOption{memberOption("Member to clear", true)},
		},
		discord.SlashCommandCreate{
			Name:        constants.ResetCooldownCommandName,
			Description: "Reset the vouch cooldown of a member (owner only)",
			Options:     []discord.ApplicationCommandOption{memberOption("Member to reset", true)},
		},
		discord.SlashCommandCreate{
			Name:        constants.RepStatsCommandName,
			Description: "Show reputation system statistics (owner only)",
		},
	}
}
