package seatcode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrEmptySeatNumber indicates the seat number is empty
	ErrEmptySeatNumber = errors.New("seat number cannot be empty")

	// ErrInvalidFormat indicates the seat number is not row digits followed by a column letter
	ErrInvalidFormat = errors.New("seat number must be a row number followed by a column letter, e.g. 12A")

	// ErrInvalidRow indicates the row number is out of range
	ErrInvalidRow = errors.New("seat row must be between 1 and 99")
)

// seatRegex matches 1-2 row digits followed by one column letter
var seatRegex = regexp.MustCompile(`^(\d{1,2})([A-K])$`)

// SeatCode is a parsed seat number
type SeatCode struct {
	Row    int
	Column string
}

// Parse validates and parses a seat number such as "12A" or "3f".
// Input is sanitized (trimmed, upper-cased, zero-padding stripped)
// before matching.
func Parse(seatNumber string) (SeatCode, error) {
	if strings.TrimSpace(seatNumber) == "" {
		return SeatCode{}, ErrEmptySeatNumber
	}

	sanitized := Sanitize(seatNumber)
	matches := seatRegex.FindStringSubmatch(sanitized)
	if matches == nil {
		return SeatCode{}, fmt.Errorf("%w: %q", ErrInvalidFormat, seatNumber)
	}

	row, err := strconv.Atoi(matches[1])
	if err != nil || row < 1 {
		return SeatCode{}, fmt.Errorf("%w: %q", ErrInvalidRow, seatNumber)
	}

	return SeatCode{Row: row, Column: matches[2]}, nil
}

// Sanitize normalizes a seat number: trims whitespace, upper-cases,
// and strips a leading zero ("01A" -> "1A")
func Sanitize(seatNumber string) string {
	s := strings.ToUpper(strings.TrimSpace(seatNumber))
	s = strings.ReplaceAll(s, " ", "")
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}

// String renders the canonical seat number
func (c SeatCode) String() string {
	return fmt.Sprintf("%d%s", c.Row, c.Column)
}

// OrderKey returns a sortable key so that 1A < 1B < 2A regardless of
// string length. Used to keep automatic allocation deterministic.
func (c SeatCode) OrderKey() int {
	col := 0
	if c.Column != "" {
		col = int(c.Column[0]-'A') + 1
	}
	return c.Row*100 + col
}
