package domain

import "fmt"

// DutyStatus is the driver's legal activity category at a point in time.
// The zero value is invalid; only the four declared variants can be parsed,
// stored, or serialized.
type DutyStatus uint8

const (
	OffDuty DutyStatus = iota + 1
	SleeperBerth
	Driving
	OnDuty
)

var dutyStatusCodes = map[DutyStatus]string{
	OffDuty:      "OD",
	SleeperBerth: "SB",
	Driving:      "DR",
	OnDuty:       "ON",
}

// String returns the two-letter log code (OD, SB, DR, ON).
func (s DutyStatus) String() string {
	if code, ok := dutyStatusCodes[s]; ok {
		return code
	}
	return fmt.Sprintf("DutyStatus(%d)", uint8(s))
}

// Valid reports whether s is one of the four declared statuses.
func (s DutyStatus) Valid() bool {
	_, ok := dutyStatusCodes[s]
	return ok
}

// ParseDutyStatus converts a two-letter code into a DutyStatus.
// Returns ErrValidation for any other input.
func ParseDutyStatus(code string) (DutyStatus, error) {
	for s, c := range dutyStatusCodes {
		if c == code {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown duty status %q", ErrValidation, code)
}

// MarshalText encodes the status as its two-letter code.
func (s DutyStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: invalid duty status %d", ErrValidation, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a two-letter code.
func (s *DutyStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseDutyStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
