package bm

// Search returns the offset of the leftmost occurrence of pattern in
// haystack, or -1 if pattern is not present.
//
// t must hold the tables built for pattern. A nil t, or tables built for a
// pattern of a different length, are rebuilt before scanning; reuse tables
// from BuildTables (or a Searcher) to avoid that cost on repeated searches.
//
// An empty pattern matches at offset 0. A pattern longer than haystack never
// matches. The returned offset o always satisfies o+len(pattern) <= len(haystack).
//
// Example:
//
//	pattern := []byte("world")
//	t := bm.BuildTables(pattern)
//	pos := bm.Search([]byte("hello world"), pattern, t)
//	// pos == 6
func Search(haystack, pattern []byte, t *Tables) int {
	m := len(pattern)
	if m == 0 {
		return 0
	}
	n := len(haystack)
	if m > n {
		return -1
	}
	if t == nil || t.PatternLen() != m {
		t = BuildTables(pattern)
	}

	i := m - 1
	for i < n {
		j := m - 1
		for j >= 0 && haystack[i] == pattern[j] {
			i--
			j--
		}
		if j < 0 {
			return i + 1
		}
		i += max(t.BadChar[haystack[i]], t.GoodSuffix[j])
	}
	return -1
}

// Index returns the offset of the first instance of needle in haystack, or -1
// if needle is not present. It is equivalent to bytes.Index.
//
// Index builds the tables on every call; use a Searcher when the same needle
// is searched repeatedly.
func Index(haystack, needle []byte) int {
	return Search(haystack, needle, nil)
}

// IndexString is like Index but for strings.
func IndexString(s, substr string) int {
	return Index([]byte(s), []byte(substr))
}

// Searcher is a pattern together with its precomputed tables.
//
// A Searcher is immutable and safe to use concurrently from multiple
// goroutines.
type Searcher struct {
	pattern []byte
	tables  *Tables
}

// New returns a Searcher for pattern. The pattern is copied, so the caller
// may reuse its slice.
func New(pattern []byte) *Searcher {
	p := make([]byte, len(pattern))
	copy(p, pattern)
	return &Searcher{pattern: p, tables: BuildTables(p)}
}

// NewString returns a Searcher for the string pattern.
func NewString(pattern string) *Searcher {
	return New([]byte(pattern))
}

// Pattern returns the pattern. The returned slice must not be modified.
func (s *Searcher) Pattern() []byte {
	return s.pattern
}

// Len returns the pattern length.
func (s *Searcher) Len() int {
	return len(s.pattern)
}

// Tables returns the shift tables. The returned value must not be modified.
func (s *Searcher) Tables() *Tables {
	return s.tables
}

// Index returns the offset of the leftmost occurrence of the pattern in
// haystack, or -1.
func (s *Searcher) Index(haystack []byte) int {
	return Search(haystack, s.pattern, s.tables)
}

// Find returns the offset of the first occurrence starting at or after start,
// or -1 if there is none. Offsets are relative to the start of haystack.
//
// A negative start is treated as 0. A start beyond len(haystack) finds
// nothing, except for the empty pattern which matches at len(haystack).
func (s *Searcher) Find(haystack []byte, start int) int {
	if start < 0 {
		start = 0
	}
	if start > len(haystack) {
		if len(s.pattern) == 0 {
			return len(haystack)
		}
		return -1
	}
	pos := s.Index(haystack[start:])
	if pos == -1 {
		return -1
	}
	return start + pos
}
