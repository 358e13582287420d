package ft

import (
	"strings"
	"unicode/utf8"
)

// MinFlightNumberLength is the shortest flight number accepted at the input boundary.
const MinFlightNumberLength = 3

// NormalizeFlightNumber trims and uppercases raw user input. It runs before any
// request is made, so rejected input never reaches the backend.
func NormalizeFlightNumber(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrFlightNumberRequired
	}
	if utf8.RuneCountInString(trimmed) < MinFlightNumberLength {
		return "", ErrFlightNumberTooShort
	}
	return strings.ToUpper(trimmed), nil
}
