// Package version compares dotted/dashed numeric version strings and decides
// whether a current version satisfies a list of required versions.
//
// A version is a sequence of decimal segments separated by '.' or '-', for
// example "4.0.3" or "1.2-3". Segments are compared numerically from left to
// right, a missing segment counts as zero and segments have no width limit:
//
//	version.Compare("1.2.0", "1.10.0") // Less
//	version.Compare("2.0", "2.0.0")    // Equal
//	version.Compare("1.2-3", "1.2.4")  // Less
package version

import (
	"fmt"

	"github.com/pkg/errors"
)

// Ordering is the result of comparing two versions.
type Ordering int

const (
	// Less means the first version sorts before the second.
	Less Ordering = -1
	// Equal means both versions have the same segments.
	Equal Ordering = 0
	// Greater means the first version sorts after the second.
	Greater Ordering = 1
)

// String returns "less", "equal" or "greater".
func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

// ErrMalformedVersion is the sentinel every MalformedError unwraps to.
var ErrMalformedVersion = errors.New("version: malformed version")

// MalformedError reports a character outside the digit and separator set.
type MalformedError struct {
	Version string
	Offset  int
	Char    byte
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("version: malformed version %q: unexpected %q at offset %d",
		e.Version, e.Char, e.Offset)
}

// Unwrap returns ErrMalformedVersion.
func (e *MalformedError) Unwrap() error {
	return ErrMalformedVersion
}

// Valid returns a *MalformedError if s contains anything other than decimal
// digits, '.' and '-'. The empty string is valid and equals "0".
func Valid(s string) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) && !isSeparator(c) {
			return &MalformedError{Version: s, Offset: i, Char: c}
		}
	}
	return nil
}

// Compare compares a and b segment by segment.
//
// Both strings are validated first; if either is malformed Compare returns
// Equal and a *MalformedError describing the first offending character.
// Compare is antisymmetric: Compare(a, b) is the inverse of Compare(b, a).
func Compare(a, b string) (Ordering, error) {
	if err := Valid(a); err != nil {
		return Equal, err
	}
	if err := Valid(b); err != nil {
		return Equal, err
	}

	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var sa, sb string
		sa, i = nextSegment(a, i)
		sb, j = nextSegment(b, j)
		if o := compareSegments(sa, sb); o != Equal {
			return o, nil
		}
	}
	return Equal, nil
}

// MustCompare is like Compare but panics on malformed input.
// It simplifies safe initialization of tables of known-good versions.
func MustCompare(a, b string) Ordering {
	o, err := Compare(a, b)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// nextSegment returns the digit run starting at i and the offset just past
// the separator that ends it. An exhausted string yields an empty segment.
func nextSegment(s string, i int) (string, int) {
	start := i
	for i < len(s) && !isSeparator(s[i]) {
		i++
	}
	seg := s[start:i]
	if i < len(s) {
		i++
	}
	return seg, i
}

// compareSegments compares two digit runs as unbounded integers.
func compareSegments(a, b string) Ordering {
	a = trimZeros(a)
	b = trimZeros(b)
	switch {
	case len(a) < len(b):
		return Less
	case len(a) > len(b):
		return Greater
	case a < b:
		return Less
	case a > b:
		return Greater
	}
	return Equal
}

func trimZeros(s string) string {
	i := 0
	for i < len(s) && s[i] == '0' {
		i++
	}
	return s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSeparator(c byte) bool {
	return c == '.' || c == '-'
}
