// Command bmbench compares Boyer-Moore marker search against bytes.Index on a
// synthetic TrustZone image.
//
// Usage:
//
//	go run ./cmd/bmbench [-size bytes] [-n iterations]
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/coregx/tzcheck"
	"github.com/coregx/tzcheck/bm"
)

// timings holds timing statistics for a benchmark, in nanoseconds.
type timings struct {
	min    float64
	median float64
	p95    float64
	max    float64
	n      int
}

// benchmark runs fn n times and collects timing statistics.
func benchmark(n int, fn func()) (timings, error) {
	samples := make(stats.Float64Data, n)
	for i := 0; i < n; i++ {
		start := time.Now()
		fn()
		samples[i] = float64(time.Since(start).Nanoseconds())
	}

	var (
		t   = timings{n: n}
		err error
	)
	if t.min, err = stats.Min(samples); err != nil {
		return t, err
	}
	if t.median, err = stats.Median(samples); err != nil {
		return t, err
	}
	if t.p95, err = stats.Percentile(samples, 95); err != nil {
		return t, err
	}
	if t.max, err = stats.Max(samples); err != nil {
		return t, err
	}
	return t, nil
}

func (t timings) String() string {
	return fmt.Sprintf("min=%-8s median=%-8s p95=%-8s max=%-8s",
		formatDuration(t.min),
		formatDuration(t.median),
		formatDuration(t.p95),
		formatDuration(t.max))
}

func formatDuration(ns float64) string {
	d := time.Duration(ns)
	if d < time.Microsecond {
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", ns/1000)
	}
	return d.Round(time.Microsecond).String()
}

// syntheticImage fills size bytes with noise that often starts a partial
// marker, then places the version marker near the end.
func syntheticImage(size int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	prefix := []byte("QC_IMAGE_")
	img := make([]byte, size)
	for i := 0; i < size; {
		if rng.Intn(64) == 0 {
			i += copy(img[i:], prefix)
			continue
		}
		img[i] = byte(rng.Intn(256))
		i++
	}
	tail := []byte(tzcheck.DefaultMarker + "TZ.BF.4.0.5-00030\x00")
	if len(tail)+64 <= size {
		copy(img[size-len(tail)-64:], tail)
	}
	return img
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "bmbench:", err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("bmbench", flag.ContinueOnError)
	size := fs.Int("size", 4<<20, "image size in bytes")
	n := fs.Int("n", 200, "iterations per engine")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *size < 1024 || *n < 1 {
		return errors.New("-size must be at least 1024 and -n at least 1")
	}

	img := syntheticImage(*size, 1)
	marker := []byte(tzcheck.DefaultMarker)
	searcher := bm.New(marker)

	want := bytes.Index(img, marker)
	fmt.Fprintf(w, "Image: %d bytes, marker at %d, %d iterations\n\n", len(img), want, *n)

	engines := []struct {
		name string
		fn   func() int
	}{
		{"bytes.Index", func() int { return bytes.Index(img, marker) }},
		{"bm.Index", func() int { return bm.Index(img, marker) }},
		{"bm.Searcher", func() int { return searcher.Index(img) }},
	}
	for _, e := range engines {
		if got := e.fn(); got != want {
			return errors.Errorf("%s found marker at %d, want %d", e.name, got, want)
		}
		t, err := benchmark(*n, func() { e.fn() })
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %-12s %s\n", e.name, t)
	}
	return nil
}
