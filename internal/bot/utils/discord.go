package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

// ErrInvalidCustomID indicates a component custom ID this bot did not create.
var ErrInvalidCustomID = errors.New("invalid custom id")

// customIDParts is the number of ':' separated fields in a custom ID.
const customIDParts = 4

// CustomID identifies a button together with the user allowed to press it.
// It encodes as "<prefix>:<action>:<owner>:<arg>" so no interaction state
// needs to be kept between clicks.
type CustomID struct {
	Prefix string
	Action string
	Owner  snowflake.ID
	Arg    uint64
}

// String encodes the custom ID.
func (c CustomID) String() string {
	return fmt.Sprintf("%s:%s:%d:%d", c.Prefix, c.Action, c.Owner, c.Arg)
}

// ParseCustomID decodes a custom ID created by CustomID.String.
func ParseCustomID(s string) (CustomID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != customIDParts || parts[0] == "" || parts[1] == "" {
		return CustomID{}, fmt.Errorf("%w: %q", ErrInvalidCustomID, s)
	}

	owner, err := snowflake.Parse(parts[2])
	if err != nil {
		return CustomID{}, fmt.Errorf("%w: owner: %w", ErrInvalidCustomID, err)
	}

	arg, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		return CustomID{}, fmt.Errorf("%w: argument: %w", ErrInvalidCustomID, err)
	}

	return CustomID{
		Prefix: parts[0],
		Action: parts[1],
		Owner:  owner,
		Arg:    arg,
	}, nil
}

// Mention formats a user mention.
func Mention(id uint64) string {
	return fmt.Sprintf("<@%d>", id)
}

// NameFunc resolves a display name, returning false when the user is unknown.
type NameFunc func(id uint64) (string, bool)

// ResolveName returns the display name of the user or a placeholder.
func ResolveName(names NameFunc, id uint64, fallback string) string {
	if names != nil {
		if name, ok := names(id); ok && name != "" {
			return name
		}
	}
	return fallback
}
