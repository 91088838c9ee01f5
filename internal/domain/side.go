package domain

import "fmt"

// Side is the face of a card shown first.
type Side string

const (
	SideFrom Side = "from"
	SideTo   Side = "to"
)

// ParseSide validates a path segment.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideFrom, SideTo:
		return Side(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
}

// Flip returns the other side.
func (s Side) Flip() Side {
	if s == SideTo {
		return SideFrom
	}
	return SideTo
}
