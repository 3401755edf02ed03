package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TruncateString truncates a string to a maximum number of characters.
func TruncateString(s string, maxLength int) string {
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string([]rune(s)[:maxLength])
	}
	return string([]rune(s)[:maxLength-3]) + "..."
}

// NormalizeString sanitizes text by replacing newlines with spaces and removing backticks
// to prevent Discord markdown formatting issues.
func NormalizeString(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "`", "")
}

// RankDisplay returns a medal for the top three positions and "`#n`" otherwise.
func RankDisplay(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("`#%d`", rank)
	}
}
