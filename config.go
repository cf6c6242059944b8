package tzcheck

import (
	"io"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/coregx/tzcheck/bm"
	"github.com/coregx/tzcheck/version"
)

const (
	// DefaultImagePath is the TrustZone partition on current devices.
	DefaultImagePath = "/dev/block/bootdevice/by-name/tz"

	// LegacyImagePath is the TrustZone partition on older MSM devices.
	LegacyImagePath = "/dev/block/platform/msm_sdcc.1/by-name/tz"

	// DefaultMarker precedes the version string inside a TrustZone image.
	DefaultMarker = "QC_IMAGE_VERSION_STRING="

	// DefaultMaxVersionLen bounds the extracted version string.
	DefaultMaxVersionLen = 255

	maxVersionLenLimit = 4096
)

// Config controls how a Checker locates and compares versions.
//
// Example:
//
//	config := tzcheck.DefaultConfig()
//	config.Mode = version.MinVersion
//	config.Versions = []string{"4.0.3"}
//	checker, err := tzcheck.New(config)
type Config struct {
	// Image is the partition or file read by VerifyImage when no path is given.
	// Default: DefaultImagePath
	Image string

	// Marker is the byte sequence that precedes the version string.
	// Default: DefaultMarker
	Marker string

	// MaxVersionLen caps the number of bytes read after the marker.
	// Default: 255
	MaxVersionLen int

	// Mode selects exact-prefix or minimum-version matching.
	// Default: version.ExactPrefix
	Mode version.Mode

	// Versions lists the acceptable versions, checked in order.
	Versions []string

	// Logger receives one entry per comparison. Nil discards output.
	Logger logrus.FieldLogger

	// Tables, when set, shares marker tables between checkers.
	Tables *bm.Cache
}

// DefaultConfig returns a configuration that reads the standard TrustZone
// partition with exact-prefix matching and no required versions.
func DefaultConfig() Config {
	return Config{
		Image:         DefaultImagePath,
		Marker:        DefaultMarker,
		MaxVersionLen: DefaultMaxVersionLen,
		Mode:          version.ExactPrefix,
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - Marker: non-empty
//   - MaxVersionLen: 1 to 4096
//   - Mode: version.ExactPrefix or version.MinVersion
//   - Versions: MinVersion entries must be well formed
func (c Config) Validate() error {
	if c.Marker == "" {
		return &ConfigError{Field: "Marker", Message: "must not be empty"}
	}
	if c.MaxVersionLen < 1 || c.MaxVersionLen > maxVersionLenLimit {
		return &ConfigError{Field: "MaxVersionLen", Message: "must be between 1 and 4096"}
	}
	if c.Mode != version.ExactPrefix && c.Mode != version.MinVersion {
		return &ConfigError{Field: "Mode", Message: "must be exact or min", Err: version.ErrUnknownMode}
	}
	if c.Mode == version.MinVersion {
		for _, v := range c.Versions {
			if err := version.Valid(v); err != nil {
				return &ConfigError{Field: "Versions", Message: err.Error(), Err: err}
			}
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "tzcheck: invalid config: " + e.Field + ": " + e.Message
}

// Unwrap returns the underlying error, if any.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// fileConfig is the on-disk form of Config. Absent keys keep their defaults.
type fileConfig struct {
	Image         *string  `toml:"image"`
	Marker        *string  `toml:"marker"`
	MaxVersionLen *int     `toml:"max_version_len"`
	Mode          *string  `toml:"mode"`
	Versions      []string `toml:"versions"`
}

// LoadConfig reads a TOML configuration file over DefaultConfig and
// validates the result.
//
// Example file:
//
//	image = "/dev/block/bootdevice/by-name/tz"
//	mode = "min"
//	versions = ["4.0.3", "4.1.0"]
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "tzcheck: open config")
	}
	defer f.Close()

	config, err := ReadConfig(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "tzcheck: config %s", path)
	}
	return config, nil
}

// ReadConfig decodes a TOML configuration from r over DefaultConfig and
// validates the result.
func ReadConfig(r io.Reader) (Config, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return Config{}, errors.Wrap(err, "parse")
	}
	var fc fileConfig
	if err := tree.Unmarshal(&fc); err != nil {
		return Config{}, errors.Wrap(err, "decode")
	}

	config := DefaultConfig()
	if fc.Image != nil {
		config.Image = *fc.Image
	}
	if fc.Marker != nil {
		config.Marker = *fc.Marker
	}
	if fc.MaxVersionLen != nil {
		config.MaxVersionLen = *fc.MaxVersionLen
	}
	if fc.Mode != nil {
		mode, err := version.ParseMode(*fc.Mode)
		if err != nil {
			return Config{}, &ConfigError{Field: "Mode", Message: err.Error(), Err: err}
		}
		config.Mode = mode
	}
	if fc.Versions != nil {
		config.Versions = fc.Versions
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
