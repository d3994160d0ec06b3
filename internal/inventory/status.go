package inventory

import (
	"fmt"
	"strings"
)

// Status is the three-level stock indicator. Lower values are worse.
type Status int

const (
	StatusOut Status = iota
	StatusLow
	StatusOK
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusOut:
		return "out"
	case StatusLow:
		return "low"
	case StatusOK:
		return "ok"
	default:
		return "unknown"
	}
}

// ParseStatus converts a status name back into a Status.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "out":
		return StatusOut, nil
	case "low":
		return StatusLow, nil
	case "ok":
		return StatusOK, nil
	default:
		return 0, fmt.Errorf("invalid status %q (expected out, low or ok)", value)
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
