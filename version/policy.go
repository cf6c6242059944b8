package version

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode selects how a current version is matched against required versions.
type Mode int

const (
	// ExactPrefix is satisfied when a required version is a byte-for-byte
	// prefix of the current version. "4.0.3" accepts both "4.0.3" and "4.0.30".
	ExactPrefix Mode = iota

	// MinVersion is satisfied when a required version compares less than or
	// equal to the current version.
	MinVersion
)

// ErrUnknownMode is returned for a Mode outside the defined constants or an
// unrecognised mode name.
var ErrUnknownMode = errors.New("version: unknown match mode")

var modeNames = map[string]Mode{
	"exact":   ExactPrefix,
	"prefix":  ExactPrefix,
	"==":      ExactPrefix,
	"min":     MinVersion,
	"minimum": MinVersion,
	">=":      MinVersion,
}

// ParseMode parses a mode name. ExactPrefix accepts "exact", "prefix" and
// "=="; MinVersion accepts "min", "minimum" and ">=". Names are case-insensitive.
func ParseMode(s string) (Mode, error) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return ExactPrefix, errors.Wrapf(ErrUnknownMode, "mode %q", s)
	}
	return m, nil
}

// String returns the canonical mode name.
func (m Mode) String() string {
	switch m {
	case ExactPrefix:
		return "exact"
	case MinVersion:
		return "min"
	default:
		return "unknown"
	}
}

// Operator returns the comparison operator used in human-readable logs.
func (m Mode) Operator() string {
	if m == MinVersion {
		return "<="
	}
	return "=="
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != ExactPrefix && m != MinVersion {
		return nil, errors.Wrapf(ErrUnknownMode, "mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Comparison records one required version checked against the current one.
type Comparison struct {
	Required  string `json:"required"`
	Current   string `json:"current"`
	Mode      Mode   `json:"mode"`
	Satisfied bool   `json:"satisfied"`
	Err       error  `json:"-"`
}

// Check compares current against each required version in order and stops
// at the first one that is satisfied. The returned slice holds one entry per
// comparison actually made, so the last entry is the satisfying one when any
// requirement matched.
//
// In MinVersion mode a malformed required or current version is recorded in
// the entry's Err and counts as not satisfied. ExactPrefix never fails.
func Check(current string, required []string, mode Mode) []Comparison {
	out := make([]Comparison, 0, len(required))
	for _, r := range required {
		c := Comparison{Required: r, Current: current, Mode: mode}
		switch mode {
		case ExactPrefix:
			c.Satisfied = strings.HasPrefix(current, r)
		case MinVersion:
			o, err := Compare(r, current)
			c.Err = err
			c.Satisfied = err == nil && o != Greater
		default:
			c.Err = errors.Wrapf(ErrUnknownMode, "mode %d", int(mode))
		}
		out = append(out, c)
		if c.Satisfied {
			break
		}
	}
	return out
}

// Satisfied reports whether current satisfies any of the required versions.
//
// When nothing is satisfied and at least one comparison failed, the first
// failure is returned alongside false. An empty required list is never
// satisfied.
//
// Example:
//
//	ok, _ := version.Satisfied("4.0.30", []string{"4.0.3"}, version.ExactPrefix) // true
//	ok, _ = version.Satisfied("4.0.3", []string{"4.1.0"}, version.MinVersion)   // false
func Satisfied(current string, required []string, mode Mode) (bool, error) {
	return Summarize(Check(current, required, mode))
}

// Summarize folds comparisons produced by Check into the Satisfied result.
func Summarize(cs []Comparison) (bool, error) {
	var firstErr error
	for _, c := range cs {
		if c.Satisfied {
			return true, nil
		}
		if c.Err != nil && firstErr == nil {
			firstErr = c.Err
		}
	}
	return false, firstErr
}
