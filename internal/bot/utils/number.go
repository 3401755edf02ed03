package utils

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatNumber formats a number with thousands separators.
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatPoints formats a reputation amount followed by a star.
func FormatPoints(n int64) string {
	return FormatNumber(n) + " ⭐"
}

// FormatSigned formats a number with an explicit sign, so zero becomes "+0".
func FormatSigned(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	return "+" + FormatNumber(n)
}

// FormatCount formats a count without separators for compact fields.
func FormatCount(n int) string {
	return strconv.Itoa(n)
}
