package costbasis

import (
	"strings"

	apperrors "github.com/tropicaldog17/capgains/internal/errors"
)

// Kind distinguishes acquisitions from disposals.
type Kind int

const (
	Acquisition Kind = iota + 1
	Disposal
)

// ParseKind matches "buy" and "sell" case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Acquisition, nil
	case "sell":
		return Disposal, nil
	default:
		return 0, apperrors.InvalidType(s)
	}
}

// String returns the canonical stored spelling.
func (k Kind) String() string {
	switch k {
	case Acquisition:
		return "Buy"
	case Disposal:
		return "Sell"
	default:
		return "Unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
