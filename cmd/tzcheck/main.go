// Command tzcheck verifies the TrustZone version of one or more images.
//
// Usage:
//
//	tzcheck [-config file] [-image path]... [-mode exact|min] [-marker s]
//	        [-max n] [-json] [-v] [version...]
//
// Versions given as arguments replace those from the config file. Images are
// verified concurrently. The exit status is 0 when every image satisfies a
// required version, 1 when any does not and 2 on error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/pretty"
	"golang.org/x/sync/errgroup"

	"github.com/coregx/tzcheck"
	"github.com/coregx/tzcheck/version"
)

const (
	exitOK = iota
	exitUnsatisfied
	exitError
)

// pathList collects repeated -image flags.
type pathList []string

func (p *pathList) String() string {
	return strings.Join(*p, ",")
}

func (p *pathList) Set(s string) error {
	*p = append(*p, s)
	return nil
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tzcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		images     pathList
		configPath = fs.String("config", "", "TOML configuration `file`")
		mode       = fs.String("mode", "", "match mode: exact or min")
		marker     = fs.String("marker", "", "version marker preceding the version string")
		maxLen     = fs.Int("max", 0, "maximum version length in bytes")
		asJSON     = fs.Bool("json", false, "print reports as JSON")
		verbose    = fs.Bool("v", false, "log every comparison")
	)
	fs.Var(&images, "image", "image `path` to verify (repeatable)")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	config := tzcheck.DefaultConfig()
	if *configPath != "" {
		var err error
		if config, err = tzcheck.LoadConfig(*configPath); err != nil {
			logger.WithError(err).Error("cannot load config")
			return exitError
		}
	}
	config.Logger = logger
	if *mode != "" {
		m, err := version.ParseMode(*mode)
		if err != nil {
			logger.WithError(err).Error("invalid -mode")
			return exitError
		}
		config.Mode = m
	}
	if *marker != "" {
		config.Marker = *marker
	}
	if *maxLen != 0 {
		config.MaxVersionLen = *maxLen
	}
	if fs.NArg() > 0 {
		config.Versions = fs.Args()
	}
	if len(config.Versions) == 0 {
		fmt.Fprintln(stderr, "tzcheck: no required versions given")
		fs.Usage()
		return exitError
	}
	if len(images) == 0 {
		images = pathList{config.Image}
	}

	checker, err := tzcheck.New(config)
	if err != nil {
		logger.WithError(err).Error("invalid configuration")
		return exitError
	}

	reports := make([]*tzcheck.Report, len(images))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range images {
		g.Go(func() error {
			r, err := checker.VerifyImage(ctx, path, config.Versions, config.Mode)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("verification failed")
		return exitError
	}

	if *asJSON {
		if err := writeJSON(stdout, reports); err != nil {
			logger.WithError(err).Error("cannot encode reports")
			return exitError
		}
	} else {
		for _, r := range reports {
			writeReport(stdout, r)
		}
	}

	code := exitOK
	for _, r := range reports {
		if r.Satisfied {
			continue
		}
		if err := r.Err(); err != nil {
			logger.WithError(err).WithField("image", r.Image).Error("cannot compare versions")
			return exitError
		}
		code = exitUnsatisfied
	}
	return code
}

// writeReport prints one block per comparison in the recovery UI format.
func writeReport(w io.Writer, r *tzcheck.Report) {
	label := "  Must be TZ version:"
	if r.Mode == version.MinVersion {
		label = "      Min TZ version:"
	}
	for _, c := range r.Comparisons {
		fmt.Fprintln(w, "Comparing TZ versions:")
		fmt.Fprintf(w, "%s %s\n", label, c.Required)
		fmt.Fprintf(w, "  Current TZ version: %s\n", c.Current)
	}
	if r.Satisfied {
		fmt.Fprintf(w, "%s: TZ version %s OK\n", r.Image, r.Current)
	} else {
		fmt.Fprintf(w, "%s: TZ version %s does not satisfy %s\n",
			r.Image, r.Current, strings.Join(requiredOf(r), ", "))
	}
}

func requiredOf(r *tzcheck.Report) []string {
	out := make([]string, len(r.Comparisons))
	for i, c := range r.Comparisons {
		out[i] = c.Required
	}
	return out
}

func writeJSON(w io.Writer, reports []*tzcheck.Report) error {
	data, err := json.Marshal(reports)
	if err != nil {
		return err
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}
