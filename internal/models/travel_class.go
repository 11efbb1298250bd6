package models

import (
	"errors"
	"fmt"
	"strings"
)

// TravelClass represents a cabin class on a flight
type TravelClass string

const (
	TravelClassEconomy  TravelClass = "economy"
	TravelClassBusiness TravelClass = "business"
	TravelClassFirst    TravelClass = "first"
)

// ErrInvalidTravelClass indicates an unrecognized travel class string
var ErrInvalidTravelClass = errors.New("invalid travel class")

// ParseTravelClass validates a travel class string strictly.
// Used at the API boundary so that an unknown class is rejected
// instead of silently falling through to economy.
func ParseTravelClass(s string) (TravelClass, error) {
	switch TravelClass(strings.ToLower(strings.TrimSpace(s))) {
	case TravelClassEconomy:
		return TravelClassEconomy, nil
	case TravelClassBusiness:
		return TravelClassBusiness, nil
	case TravelClassFirst:
		return TravelClassFirst, nil
	default:
		return "", fmt.Errorf("%w: %q (expected economy, business or first)", ErrInvalidTravelClass, s)
	}
}

// ClassifyTravelClass resolves a free-text class label by substring match.
// Legacy booking legs carry class names like "First Class" or "Business (promo)";
// anything that does not mention first or business is treated as economy.
// This fallback is intentional and only used when interpreting stored leg data,
// never when accepting new input.
func ClassifyTravelClass(s string) TravelClass {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "first"):
		return TravelClassFirst
	case strings.Contains(lower, "business"):
		return TravelClassBusiness
	default:
		return TravelClassEconomy
	}
}

// String returns the class name
func (c TravelClass) String() string {
	return string(c)
}
