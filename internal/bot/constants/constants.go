package constants

import "time"

const (
	// Commands.
	VouchCommandName         = "vouch"
	RankCommandName          = "rank"
	LeaderboardCommandName   = "leaderboard"
	VouchHistoryCommandName  = "vouchhistory"
	CooldownCommandName      = "cooldown"
	HelpCommandName          = "help"
	AddRepCommandName        = "addrep"
	RemoveRepCommandName     = "removerep"
	SetRepCommandName        = "setrep"
	ClearRepCommandName      = "clearrep"
	ResetCooldownCommandName = "resetcooldown"
	RepStatsCommandName      = "repstats"

	// Command options.
	MemberOptionName = "member"
	ReasonOptionName = "reason"
	AmountOptionName = "amount"

	// Presence.
	PresenceActivity = "/vouch | Reputation System"

	// Leaderboard buttons.
	LeaderboardCustomIDPrefix = "leaderboard"
	FirstPageAction           = "first"
	PrevPageAction            = "prev"
	NextPageAction            = "next"
	LastPageAction            = "last"
	DeleteAction              = "delete"

	// Clear reputation confirmation buttons.
	ClearRepCustomIDPrefix = "clearrep"
	ConfirmAction          = "confirm"
	CancelAction           = "cancel"

	// Embed colors.
	ColorBlue   = 0x3498DB
	ColorGold   = 0xF1C40F
	ColorGreen  = 0x2ECC71
	ColorRed    = 0xE74C3C
	ColorOrange = 0xE67E22

	// History limits.
	RankHistoryLimit  = 5
	VouchHistoryLimit = 10
	MaxReasonDisplay  = 200

	// Messages.
	UnknownUser          = "Unknown User"
	NotOwnerMessage      = "Only the bot owner can use this command."
	NotControllerMessage = "Only the command user can control this."
	InternalErrorMessage = "An error occurred while executing this command."
)

const (
	// PaginationTimeout is how long leaderboard buttons stay active.
	PaginationTimeout = 180 * time.Second
	// ConfirmationTimeout is how long a clear confirmation stays active.
	ConfirmationTimeout = 30 * time.Second
)
