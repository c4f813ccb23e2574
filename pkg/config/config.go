// Package config loads checker settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up next to the input when no --config is given.
const DefaultFileName = "tslower.yaml"

var validate = newValidator()

// Config holds the settings that change how declarations are lowered.
type Config struct {
	// BuiltinTypes names declarations whose type parameters are lowered
	// directly, without pre-registering placeholders.
	BuiltinTypes      []string `yaml:"builtin_types" validate:"dive,required"`
	NoImplicitAny     bool     `yaml:"no_implicit_any"`
	MaxExpansionDepth int      `yaml:"max_expansion_depth" validate:"min=1,max=1024"`
	ReportUnsafeCasts bool     `yaml:"report_unsafe_casts"`
	LogLevel          string   `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		MaxExpansionDepth: 64,
		ReportUnsafeCasts: true,
		LogLevel:          "info",
	}
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	return cfg, nil
}

// Find loads DefaultFileName from dir when it exists and returns the
// defaults otherwise.
func Find(dir string) (*Config, error) {
	path := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}
	return Load(path)
}

// Parse decodes and validates a configuration held in memory.
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	for i, name := range cfg.BuiltinTypes {
		cfg.BuiltinTypes[i] = strings.TrimSpace(name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	issues := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		issues = append(issues, strings.TrimPrefix(ve.Namespace(), "Config.")+": "+formatValidationError(ve))
	}
	return &ValidationError{Issues: issues}
}

// IsBuiltin reports whether name is listed in builtin_types.
func (c *Config) IsBuiltin(name string) bool {
	for _, b := range c.BuiltinTypes {
		if b == name {
			return true
		}
	}
	return false
}

// SlogLevel converts log_level for use with log/slog handlers.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidationError lists every invalid setting.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Issues, "; ")
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report YAML keys rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "must not be empty"
	case "min":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
