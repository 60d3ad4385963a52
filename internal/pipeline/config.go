package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("pipeline: invalid config")

// Config holds the batch run configuration.
type Config struct {
	Paths  PathsConfig `mapstructure:"paths"`
	Decon  DeconConfig `mapstructure:"decon"`
	DryRun bool        `mapstructure:"dry_run"`
}

// PathsConfig locates data and point-spread functions.
type PathsConfig struct {
	Root string    `mapstructure:"root"`
	PSF  PSFConfig `mapstructure:"psf"`
}

// PSFConfig maps channel numbers to PSF files. Dir is relative to the root;
// file names are relative to Dir.
type PSFConfig struct {
	Dir      string            `mapstructure:"dir"`
	Channels map[string]string `mapstructure:"channels"`
}

// DeconConfig holds the deconvolution parameters. Fields that shape the
// result are recorded in the ledger.
type DeconConfig struct {
	Method     string  `mapstructure:"method" json:"method"`
	Iterations int     `mapstructure:"iterations" json:"iterations"`
	Boundary   string  `mapstructure:"boundary" json:"boundary"`
	Engine     string  `mapstructure:"engine" json:"engine"`
	Epsilon    float64 `mapstructure:"epsilon" json:"epsilon,omitempty"`

	Workers        int    `mapstructure:"workers" json:"-"`
	Subdir         string `mapstructure:"subdir" json:"subdir"`
	Tag            string `mapstructure:"tag" json:"tag"`
	SettingsSuffix string `mapstructure:"settings_suffix" json:"-"`
	Pattern        string `mapstructure:"pattern" json:"pattern,omitempty"`
}

// DefaultDeconConfig returns the defaults used when a field is unset.
func DefaultDeconConfig() DeconConfig {
	return DeconConfig{
		Method:         MethodRichardsonLucy,
		Iterations:     10,
		Boundary:       "zero-flux-neumann",
		Engine:         "auto",
		Subdir:         "decon",
		Tag:            "_decon",
		SettingsSuffix: DefaultSettingsSuffix,
	}
}

// PSFDir returns the absolute PSF directory.
func (c Config) PSFDir() string {
	return filepath.Join(c.Paths.Root, c.Paths.PSF.Dir)
}

// PSFPath returns the PSF file configured for channel, if any.
func (c Config) PSFPath(channel int) (string, bool) {
	name, ok := c.Paths.PSF.Channels[strconv.Itoa(channel)]
	if !ok || name == "" {
		return "", false
	}

	return filepath.Join(c.PSFDir(), name), true
}

// Validate checks that the root exists, every configured PSF file exists,
// and the deconvolution parameters are usable.
func (c Config) Validate() error {
	info, err := os.Stat(c.Paths.Root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: root path %q does not exist", ErrInvalidConfig, c.Paths.Root)
	}

	if len(c.Paths.PSF.Channels) == 0 {
		return fmt.Errorf("%w: no psf files provided", ErrInvalidConfig)
	}

	channels := make([]string, 0, len(c.Paths.PSF.Channels))
	for ch := range c.Paths.PSF.Channels {
		channels = append(channels, ch)
	}
	sort.Strings(channels)

	for _, ch := range channels {
		if _, err := strconv.Atoi(ch); err != nil {
			return fmt.Errorf("%w: channel key %q is not a number", ErrInvalidConfig, ch)
		}

		p := filepath.Join(c.PSFDir(), c.Paths.PSF.Channels[ch])
		if info, err := os.Stat(p); err != nil || !info.Mode().IsRegular() {
			return fmt.Errorf("%w: channel %s psf file %q does not exist", ErrInvalidConfig, ch, p)
		}
	}

	if _, err := newDeconvolver(c.Decon); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
