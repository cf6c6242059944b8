package tzcheck

import (
	"github.com/pkg/errors"

	"github.com/coregx/tzcheck/bm"
	"github.com/coregx/tzcheck/simd"
)

var (
	// ErrMarkerNotFound is returned when the image does not contain the marker.
	ErrMarkerNotFound = errors.New("tzcheck: version marker not found")

	// ErrNoBuffer is returned when there is no image buffer to search.
	ErrNoBuffer = errors.New("tzcheck: no image buffer")
)

// Extract locates the marker searched by s in buf and returns the version
// string that follows it. The version ends at the first NUL byte, after
// maxLen bytes or at the end of buf, whichever comes first. A non-positive
// maxLen means DefaultMaxVersionLen.
//
// Example:
//
//	s := bm.NewString(tzcheck.DefaultMarker)
//	v, err := tzcheck.Extract([]byte("..QC_IMAGE_VERSION_STRING=4.0.3\x00.."), s, 0)
//	// v == "4.0.3"
func Extract(buf []byte, s *bm.Searcher, maxLen int) (string, error) {
	if buf == nil {
		return "", ErrNoBuffer
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxVersionLen
	}

	pos := s.Index(buf)
	if pos < 0 {
		return "", ErrMarkerNotFound
	}

	tok := buf[pos+s.Len():]
	if len(tok) > maxLen {
		tok = tok[:maxLen]
	}
	if end := simd.Memchr(tok, 0); end >= 0 {
		tok = tok[:end]
	}
	return string(tok), nil
}
