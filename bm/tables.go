// Package bm implements Boyer-Moore exact substring search.
//
// The search is split in two phases:
//   - BuildTables precomputes the bad-character and good-suffix shift tables
//     for a pattern. Tables depend only on the pattern and are never mutated
//     after construction, so they can be shared between goroutines.
//   - Search scans a haystack left to right with the tables and returns the
//     offset of the leftmost occurrence, or -1.
//
// Preprocessing is O(256 + m) for the bad-character table and O(m²) worst case
// for the good-suffix table; scanning is sublinear on typical input and never
// worse than O(n·m).
//
// Example usage:
//
//	s := bm.New([]byte("QC_IMAGE_VERSION_STRING="))
//	pos := s.Index(image)
//	if pos == -1 {
//	    // marker absent
//	}
package bm

// alphabetLen is the number of distinct byte values.
const alphabetLen = 256

// Tables holds the shift tables for one pattern.
//
// BadChar maps every byte value to the distance between the end of the pattern
// and the rightmost occurrence of that byte in pattern[:m-1]. Bytes that do
// not occur there map to m.
//
// GoodSuffix holds, for every mismatch position j, the distance the scan
// cursor moves when pattern[j+1:] matched and pattern[j] did not. The value
// already includes the m-1-j bytes the cursor walked back during comparison.
type Tables struct {
	BadChar    [alphabetLen]int
	GoodSuffix []int
}

// BuildTables returns the shift tables for pattern.
//
// An empty pattern yields a zero BadChar table and an empty GoodSuffix table;
// Search treats it as matching at offset 0.
func BuildTables(pattern []byte) *Tables {
	t := &Tables{GoodSuffix: make([]int, len(pattern))}
	buildBadChar(&t.BadChar, pattern)
	buildGoodSuffix(t.GoodSuffix, pattern)
	return t
}

// PatternLen returns the length of the pattern the tables were built for.
func (t *Tables) PatternLen() int {
	return len(t.GoodSuffix)
}

// buildBadChar fills delta with the bad-character shifts.
func buildBadChar(delta *[alphabetLen]int, pattern []byte) {
	m := len(pattern)
	for i := range delta {
		delta[i] = m
	}
	// The last byte is excluded: a mismatch on it must never yield a zero shift.
	for i := 0; i < m-1; i++ {
		delta[pattern[i]] = m - 1 - i
	}
}

// buildGoodSuffix fills delta with the good-suffix shifts.
//
// Pass 1 covers alignments where the matched suffix overhangs the start of
// the pattern: the shifted pattern only has to agree with the text on a
// prefix of itself. Pass 2 covers alignments where the matched suffix
// reoccurs fully inside the pattern, preceded by a different byte. Every
// pass 2 shift is strictly smaller than the pass 1 shift for the same index,
// so overwriting keeps the smallest safe shift.
func buildGoodSuffix(delta []int, pattern []byte) {
	m := len(pattern)
	if m == 0 {
		return
	}

	lastPrefix := m
	for p := m - 1; p >= 0; p-- {
		if isPrefix(pattern, p+1) {
			lastPrefix = p + 1
		}
		delta[p] = lastPrefix + (m - 1 - p)
	}

	for p := 0; p < m-1; p++ {
		l := suffixLen(pattern, p)
		if pattern[p-l] != pattern[m-1-l] {
			delta[m-1-l] = m - 1 - p + l
		}
	}
}

// isPrefix reports whether pattern[pos:] is a prefix of pattern.
// The empty suffix (pos == len(pattern)) is always a prefix.
func isPrefix(pattern []byte, pos int) bool {
	for i, j := pos, 0; i < len(pattern); i, j = i+1, j+1 {
		if pattern[i] != pattern[j] {
			return false
		}
	}
	return true
}

// suffixLen returns the length of the longest common suffix of pattern[:p+1]
// and pattern, capped at p so that pattern[p-len] stays addressable.
func suffixLen(pattern []byte, p int) int {
	m := len(pattern)
	i := 0
	for i < p && pattern[p-i] == pattern[m-1-i] {
		i++
	}
	return i
}
