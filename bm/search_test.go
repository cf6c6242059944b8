package bm

import (
	"bytes"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/coregx/ahocorasick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveIndex is the O(n·m) reference scanner.
func naiveIndex(haystack, needle []byte) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if bytes.Equal(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

func TestSearchBasic(t *testing.T) {
	tests := []struct {
		name     string
		haystack []byte
		needle   []byte
		want     int
	}{
		// Empty cases
		{"empty_needle", []byte("hello"), []byte{}, 0},
		{"empty_haystack", []byte{}, []byte("x"), -1},
		{"both_empty", []byte{}, []byte{}, 0},

		// Position tests
		{"at_start", []byte("hello world"), []byte("hello"), 0},
		{"at_end", []byte("hello world"), []byte("world"), 6},
		{"in_middle", []byte("hello world"), []byte("lo wo"), 3},
		{"not_found", []byte("hello world"), []byte("xyz"), -1},
		{"single_byte", []byte("hello"), []byte("o"), 4},
		{"single_byte_missing", []byte("hello"), []byte("z"), -1},

		// Length boundaries
		{"exact_match", []byte("hello"), []byte("hello"), 0},
		{"same_length_differs", []byte("hellp"), []byte("hello"), -1},
		{"needle_too_long", []byte("hi"), []byte("hello"), -1},

		// Leftmost occurrence
		{"multiple_returns_first", []byte("hello hello"), []byte("hello"), 0},
		{"overlapping_pattern", []byte("aaaa"), []byte("aa"), 0},
		{"repeated_in_haystack", []byte("aaaaabaaaa"), []byte("ab"), 4},
		{"all_same_after_gap", []byte("aaabaaaa"), []byte("aaaa"), 4},
		{"anpanman", []byte("PANPANMANANPANMAN"), []byte("ANPANMAN"), 1},
		{"suffix_overlap", []byte("abababcab"), []byte("ababc"), 2},

		// Binary data
		{"with_null_bytes", []byte{0, 1, 2, 3, 4}, []byte{2, 3}, 2},
		{"high_bytes", []byte{1, 2, 255, 254, 5}, []byte{255, 254}, 2},

		// Marker lookups
		{"marker", []byte("\x00\x7fELF..QC_IMAGE_VERSION_STRING=TZ.BF.4.0.5\x00"), []byte("QC_IMAGE_VERSION_STRING="), 7},
		{"marker_truncated", []byte("junkQC_IMAGE_VERSION_STRING"), []byte("QC_IMAGE_VERSION_STRING="), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Index(tt.haystack, tt.needle)
			if got != tt.want {
				t.Errorf("Index(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
			}

			// Verify against stdlib
			stdGot := bytes.Index(tt.haystack, tt.needle)
			if got != stdGot {
				t.Errorf("Index != stdlib: got %d, stdlib %d (haystack=%q, needle=%q)",
					got, stdGot, tt.haystack, tt.needle)
			}
		})
	}
}

func TestSearchDifferential(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	alphabets := []string{"ab", "abc", "ACGT", "\x00\xff"}

	for _, alphabet := range alphabets {
		for iter := 0; iter < 2000; iter++ {
			haystack := randomBytes(rng, alphabet, rng.Intn(64))
			needle := randomBytes(rng, alphabet, 1+rng.Intn(8))

			// Plant the needle sometimes so matches are not rare.
			if len(haystack) >= len(needle) && rng.Intn(2) == 0 {
				at := rng.Intn(len(haystack) - len(needle) + 1)
				copy(haystack[at:], needle)
			}

			want := naiveIndex(haystack, needle)
			got := Search(haystack, needle, BuildTables(needle))
			if got != want {
				t.Fatalf("Search(%q, %q) = %d, naive = %d", haystack, needle, got, want)
			}
			if got != -1 && got+len(needle) > len(haystack) {
				t.Fatalf("Search(%q, %q) = %d runs past the haystack end", haystack, needle, got)
			}
		}
	}
}

func TestSearchMatchesAhoCorasick(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 500; iter++ {
		haystack := randomBytes(rng, "xyz", 16+rng.Intn(128))
		needle := randomBytes(rng, "xyz", 1+rng.Intn(6))

		builder := ahocorasick.NewBuilder()
		builder.AddPattern(needle)
		auto, err := builder.Build()
		require.NoError(t, err)

		want := -1
		if m := auto.Find(haystack, 0); m != nil {
			want = m.Start
		}
		got := Index(haystack, needle)
		require.Equalf(t, want, got, "haystack=%q needle=%q", haystack, needle)
	}
}

func TestSearchRebuildsMismatchedTables(t *testing.T) {
	haystack := []byte("the quick brown fox")
	wrong := BuildTables([]byte("xy"))

	assert.Equal(t, 10, Search(haystack, []byte("brown"), wrong))
	assert.Equal(t, 10, Search(haystack, []byte("brown"), nil))
}

func TestSearchIdempotent(t *testing.T) {
	s := NewString("needle")
	haystack := []byte("haystack with a needle and another needle")

	first := s.Index(haystack)
	second := s.Index(haystack)
	assert.Equal(t, 16, first)
	assert.Equal(t, first, second)
}

func TestSearcherCopiesPattern(t *testing.T) {
	p := []byte("abc")
	s := New(p)
	p[0] = 'z'

	assert.Equal(t, []byte("abc"), s.Pattern())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 0, s.Index([]byte("abcz")))
}

func TestSearcherFind(t *testing.T) {
	s := NewString("ab")
	haystack := []byte("ab_ab_ab")

	tests := []struct {
		start int
		want  int
	}{
		{-3, 0},
		{0, 0},
		{1, 3},
		{3, 3},
		{4, 6},
		{7, -1},
		{8, -1},
		{100, -1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("start_%d", tt.start), func(t *testing.T) {
			assert.Equal(t, tt.want, s.Find(haystack, tt.start))
		})
	}

	empty := NewString("")
	assert.Equal(t, 3, empty.Find(haystack, 3))
	assert.Equal(t, len(haystack), empty.Find(haystack, 100))
}

func TestIndexString(t *testing.T) {
	assert.Equal(t, 6, IndexString("hello world", "world"))
	assert.Equal(t, -1, IndexString("hello world", "World"))
}

func TestSearcherConcurrent(t *testing.T) {
	s := NewString("QC_IMAGE_VERSION_STRING=")
	haystack := append(bytes.Repeat([]byte("QC_IMAGE_"), 512), []byte("QC_IMAGE_VERSION_STRING=1.0")...)
	want := bytes.Index(haystack, s.Pattern())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if got := s.Index(haystack); got != want {
					t.Errorf("Index = %d, want %d", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func FuzzSearch(f *testing.F) {
	f.Add([]byte("hello world"), []byte("world"))
	f.Add([]byte("aaaa"), []byte("aa"))
	f.Add([]byte("ANPANMAN"), []byte("PANMAN"))
	f.Add([]byte{}, []byte{})

	f.Fuzz(func(t *testing.T, haystack, needle []byte) {
		got := Index(haystack, needle)
		want := bytes.Index(haystack, needle)
		if got != want {
			t.Fatalf("Index(%q, %q) = %d, bytes.Index = %d", haystack, needle, got, want)
		}
	})
}

func randomBytes(rng *rand.Rand, alphabet string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return b
}

func BenchmarkSearch(b *testing.B) {
	marker := []byte("QC_IMAGE_VERSION_STRING=")
	haystack := bytes.Repeat([]byte("QC_IMAGE_VERSION_STRINX\x00\x01\x02"), 4096)
	haystack = append(haystack, marker...)

	b.Run("searcher", func(b *testing.B) {
		s := New(marker)
		b.SetBytes(int64(len(haystack)))
		for i := 0; i < b.N; i++ {
			s.Index(haystack)
		}
	})
	b.Run("index", func(b *testing.B) {
		b.SetBytes(int64(len(haystack)))
		for i := 0; i < b.N; i++ {
			Index(haystack, marker)
		}
	})
	b.Run("stdlib", func(b *testing.B) {
		b.SetBytes(int64(len(haystack)))
		for i := 0; i < b.N; i++ {
			bytes.Index(haystack, marker)
		}
	})
}
