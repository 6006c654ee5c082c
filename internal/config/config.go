// Package config loads hexkit's TOML configuration. A missing config file
// is not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the display settings for the hex viewer and dump output.
type Config struct {
	// BytesPerRow is the number of bytes rendered per line.
	BytesPerRow int `toml:"bytes_per_row"`

	// GroupSize inserts an extra space between groups of this many bytes.
	// Zero disables grouping.
	GroupSize int `toml:"group_size"`

	// UppercaseHex renders hex digits as A-F instead of a-f.
	UppercaseHex bool `toml:"uppercase_hex"`

	// ShowASCII renders the printable-character pane next to the hex pane.
	ShowASCII bool `toml:"show_ascii"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BytesPerRow: 16,
		GroupSize:   8,
		ShowASCII:   true,
	}
}

// DefaultPath returns the conventional config file location, or "" when
// the user config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hexkit", "config.toml")
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist or path is empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg.normalize(), nil
}

// normalize clamps out-of-range values back to usable ones.
func (c Config) normalize() Config {
	if c.BytesPerRow <= 0 {
		c.BytesPerRow = Default().BytesPerRow
	}
	if c.GroupSize < 0 {
		c.GroupSize = 0
	}
	return c
}
