// Package config loads settings for the calculator server from a YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calculator"
)

// Config is the server configuration.
type Config struct {
	Server struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"server"`

	Limits struct {
		// MaxLength is the maximum number of runes in an input.
		MaxLength int `yaml:"max_length"`
		// MaxDepth is the maximum nesting of subexpressions.
		MaxDepth int `yaml:"max_depth"`
		// Timeout bounds each tool call.
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"limits"`

	Log struct {
		// Level is debug, info, warn, or error.
		Level string `yaml:"level"`
		// Format is text or json.
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	var c Config
	c.Server.Name = "calculator"
	c.Server.Version = "1.0.0"
	c.Limits.MaxLength = calculator.DefaultMaxLength
	c.Limits.MaxDepth = calculator.DefaultMaxDepth
	c.Limits.Timeout = 5 * time.Second
	c.Log.Level = "info"
	c.Log.Format = "text"
	return &c
}

// SearchPaths returns the files Load tries when it is given no path.
func SearchPaths() []string {
	r := []string{"calculator.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		r = append(r, filepath.Join(home, ".config", "calculator", "config.yaml"))
	}
	return r
}

// Load reads the configuration. If path is empty, the first existing file
// among SearchPaths is used, and finding none is not an error. Environment
// variables override the file. The returned string is the file used, if any.
func Load(path string) (*Config, string, error) {
	c := Default()
	if path != "" {
		if err := c.loadFile(path); err != nil {
			return nil, "", err
		}
	} else {
		for _, p := range SearchPaths() {
			if _, err := os.Stat(p); err != nil {
				continue
			}
			if err := c.loadFile(p); err != nil {
				return nil, "", err
			}
			path = p
			break
		}
	}
	if err := c.loadEnv(os.LookupEnv); err != nil {
		return nil, "", err
	}
	if err := c.Validate(); err != nil {
		return nil, "", err
	}
	return c, path, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// loadEnv applies CALCULATOR_* overrides.
func (c *Config) loadEnv(lookup func(string) (string, bool)) error {
	if val, ok := lookup("CALCULATOR_LOG_LEVEL"); ok && val != "" {
		c.Log.Level = val
	}
	if val, ok := lookup("CALCULATOR_LOG_FORMAT"); ok && val != "" {
		c.Log.Format = val
	}
	if val, ok := lookup("CALCULATOR_TIMEOUT"); ok && val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("CALCULATOR_TIMEOUT: %w", err)
		}
		c.Limits.Timeout = d
	}
	for _, v := range []struct {
		name string
		dst  *int
	}{
		{"CALCULATOR_MAX_LENGTH", &c.Limits.MaxLength},
		{"CALCULATOR_MAX_DEPTH", &c.Limits.MaxDepth},
	} {
		val, ok := lookup(v.name)
		if !ok || val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
		*v.dst = n
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Name == "" {
		errs = append(errs, errors.New("server.name must not be empty"))
	}
	if c.Limits.MaxLength <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_length must be positive, not %d", c.Limits.MaxLength))
	}
	if c.Limits.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_depth must be positive, not %d", c.Limits.MaxDepth))
	}
	if c.Limits.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("limits.timeout must be positive, not %v", c.Limits.Timeout))
	}
	if _, err := c.level(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, not %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// ParseOptions returns the parser limits the configuration sets.
func (c *Config) ParseOptions() []calculator.ParseOption {
	return []calculator.ParseOption{calculator.Limits(c.Limits.MaxDepth, c.Limits.MaxLength)}
}

// Logger creates a logger writing to w with the configured level and format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	l, err := c.level()
	if err != nil {
		l = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: l}
	var h slog.Handler
	if strings.EqualFold(c.Log.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}
