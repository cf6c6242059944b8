// Package tzcheck verifies the TrustZone firmware version of a device image.
//
// A TrustZone image embeds its version after a fixed marker:
//
//	QC_IMAGE_VERSION_STRING=TZ.BF.4.0.5-00030\x00
//
// tzcheck finds the marker with a Boyer-Moore search, extracts the
// NUL-terminated version that follows it and compares it against a list of
// acceptable versions, either by exact prefix or as a minimum version.
//
// Basic usage:
//
//	checker, err := tzcheck.New(tzcheck.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := checker.VerifyImage(ctx, "", []string{"4.0.3"}, version.MinVersion)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Current, report.Satisfied)
//
// The search engine lives in package bm, version comparison and match
// policies in package version.
package tzcheck

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/coregx/tzcheck/bm"
	"github.com/coregx/tzcheck/image"
	"github.com/coregx/tzcheck/version"
)

// Checker extracts and verifies image versions.
//
// A Checker is safe to use concurrently from multiple goroutines.
type Checker struct {
	config Config
	marker *bm.Searcher
	log    logrus.FieldLogger
}

// New returns a Checker for the given configuration.
func New(config Config) (*Checker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	log := config.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	marker := bm.NewString(config.Marker)
	if config.Tables != nil {
		marker = config.Tables.Get([]byte(config.Marker))
	}

	config.Versions = append([]string(nil), config.Versions...)
	return &Checker{
		config: config,
		marker: marker,
		log:    log,
	}, nil
}

// MustNew is like New but panics if the configuration is invalid.
func MustNew(config Config) *Checker {
	c, err := New(config)
	if err != nil {
		panic(err)
	}
	return c
}

// Config returns a copy of the checker configuration.
func (c *Checker) Config() Config {
	config := c.config
	config.Versions = append([]string(nil), c.config.Versions...)
	return config
}

// CurrentVersion extracts the version string from an image buffer.
func (c *Checker) CurrentVersion(buf []byte) (string, error) {
	return Extract(buf, c.marker, c.config.MaxVersionLen)
}

// Verify extracts the version from buf and checks it against required using
// mode. A nil required list uses the configured versions.
//
// Errors are returned only when no version could be extracted. Comparison
// failures are reported through Report.Err.
func (c *Checker) Verify(buf []byte, required []string, mode version.Mode) (*Report, error) {
	return c.verify("", buf, required, mode)
}

// VerifyImage opens the image at path and verifies it like Verify. An empty
// path uses the configured image.
func (c *Checker) VerifyImage(ctx context.Context, path string, required []string, mode version.Mode) (*Report, error) {
	if path == "" {
		path = c.config.Image
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := image.Open(path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.verify(path, img.Bytes(), required, mode)
}

func (c *Checker) verify(path string, buf []byte, required []string, mode version.Mode) (*Report, error) {
	if required == nil {
		required = c.config.Versions
	}
	log := c.log
	if path != "" {
		log = log.WithField("image", path)
	}

	current, err := c.CurrentVersion(buf)
	if err != nil {
		if path != "" {
			err = errors.Wrapf(err, "image %s", path)
		}
		return nil, err
	}
	log.WithField("current", current).Debug("extracted TZ version")

	cs := version.Check(current, required, mode)
	for _, cmp := range cs {
		entry := log.WithFields(logrus.Fields{
			"required":  cmp.Required,
			"current":   cmp.Current,
			"mode":      cmp.Mode.String(),
			"satisfied": cmp.Satisfied,
		})
		if cmp.Err != nil {
			entry.WithError(cmp.Err).Warn("cannot compare TZ version")
			continue
		}
		entry.Info("compared TZ version")
	}

	satisfied, err := version.Summarize(cs)
	return &Report{
		Image:       path,
		Current:     current,
		Mode:        mode,
		Satisfied:   satisfied,
		Comparisons: cs,
		err:         err,
	}, nil
}
