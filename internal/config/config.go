// Package config loads optional defaults for img-size-compress from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// AppName is used for the configuration directory name.
const AppName = "img-size-compress"

// DefaultConfigFile is the configuration file name inside the config directory.
const DefaultConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk configuration. Every field is optional.
type File struct {
	// Engine is the path to the engine executable.
	Engine string `yaml:"engine,omitempty"`
	// Output is the default report format.
	Output string `yaml:"output,omitempty" validate:"omitempty,oneof=table json markdown"`
	// MaxOutput caps the engine's standard output, e.g. "64MiB".
	MaxOutput string `yaml:"max_output,omitempty" validate:"omitempty,bytesize"`
	// NoColor disables colored output.
	NoColor bool `yaml:"no_color,omitempty"`
}

// Dir returns the XDG config directory for the tool.
// On Linux: ~/.config/img-size-compress
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(Dir(), DefaultConfigFile)
}

// Load reads and validates a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}

		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}

	if err := cf.Validate(); err != nil {
		return nil, fmt.Errorf("validating %q: %w", path, err)
	}

	return &cf, nil
}

// Validate checks the field values.
func (f *File) Validate() error {
	v := validator.New()

	if err := v.RegisterValidation("bytesize", func(fl validator.FieldLevel) bool {
		_, err := humanize.ParseBytes(fl.Field().String())

		return err == nil
	}); err != nil {
		return fmt.Errorf("registering bytesize validation: %w", err)
	}

	return v.Struct(f)
}

// MaxOutputBytes returns MaxOutput in bytes, or 0 when unset.
func (f *File) MaxOutputBytes() (int64, error) {
	if f.MaxOutput == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(f.MaxOutput)
	if err != nil {
		return 0, fmt.Errorf("invalid max_output: %w", err)
	}

	return int64(size), nil //nolint:gosec // Size conversion from humanize is safe
}
