package sms

import (
	"fmt"
	"strings"
)

// countryPrefix is the dialing code of the deployment region (Cambodia).
const countryPrefix = "+855"

// Normalize converts a phone number to E.164-like form for the deployment
// region. Local numbers with a leading zero get the country prefix; numbers
// already in international form pass through.
func Normalize(number string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, number)

	if cleaned == "" {
		return "", ErrInvalidNumber
	}

	switch {
	case strings.HasPrefix(cleaned, "+"):
		// Already international.
	case strings.HasPrefix(cleaned, "00"):
		cleaned = "+" + cleaned[2:]
	case strings.HasPrefix(cleaned, "0"):
		cleaned = countryPrefix + cleaned[1:]
	default:
		cleaned = countryPrefix + cleaned
	}

	digits := cleaned[1:]
	if len(digits) < 9 || len(digits) > 15 {
		return "", fmt.Errorf("%w: %q", ErrInvalidNumber, number)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidNumber, number)
		}
	}

	return cleaned, nil
}
