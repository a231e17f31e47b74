// Package config loads optional TOML preferences for the CLIs, the
// same way lookbusy1344's ARM emulator keeps a platform-specific TOML
// config rather than hardcoding output formatting choices.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config controls presentation choices that spec §6 leaves as open
// formatting decisions: hex case for the assembler's output lines, and
// indentation width for the Pascal AST's JSON rendering.
type Config struct {
	Output struct {
		UppercaseHex bool `toml:"uppercase_hex"`
	} `toml:"output"`

	AST struct {
		IndentWidth int `toml:"indent_width"`
	} `toml:"ast"`

	Logging struct {
		Verbose bool `toml:"verbose"`
	} `toml:"logging"`
}

// DefaultConfig matches the behavior documented in spec §6: lowercase
// hex, two-space indent, quiet by default.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Output.UppercaseHex = false
	cfg.AST.IndentWidth = 2
	cfg.Logging.Verbose = false
	return cfg
}

// Load reads path if it exists, overlaying its values onto
// DefaultConfig; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the platform-specific config file location,
// creating its directory if needed.
func DefaultPath() string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "isapascal")
	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "isapascal.toml"
		}
		dir = filepath.Join(home, ".config", "isapascal")
	default:
		return "isapascal.toml"
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "isapascal.toml"
	}
	return filepath.Join(dir, "config.toml")
}
