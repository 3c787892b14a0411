// Package config loads the skillswap CLI settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/skillswap/internal/timex"
)

// Config holds runtime settings for the skillswap CLI.
type Config struct {
	ServerAddress string
	AccessToken   string
	Timeout       time.Duration
}

// fileConfig mirrors the TOML layout:
//
//	server_address = "127.0.0.1:50051"
//	access_token   = "eyJ..."
//	timeout        = "10s"
type fileConfig struct {
	ServerAddress string         `toml:"server_address"`
	AccessToken   string         `toml:"access_token"`
	Timeout       timex.Duration `toml:"timeout"`
}

func (c *Config) LoadDefaults() {
	c.ServerAddress = "127.0.0.1:50051"
	c.Timeout = 10 * time.Second
}

// DefaultPath is $HOME/.config/skillswap/client.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "skillswap", "client.toml")
}

// Load applies defaults and overlays the TOML file at path. A missing file is
// an error only when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path == "" {
		return cfg, nil
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if fc.ServerAddress != "" {
		cfg.ServerAddress = fc.ServerAddress
	}
	if fc.AccessToken != "" {
		cfg.AccessToken = fc.AccessToken
	}
	if fc.Timeout.Duration > 0 {
		cfg.Timeout = fc.Timeout.Duration
	}

	return cfg, nil
}

// Validate reports settings the CLI cannot work without.
func (c *Config) Validate() error {
	switch {
	case c.ServerAddress == "":
		return errors.New("server address is required")
	case c.AccessToken == "":
		return errors.New("access token is required (set access_token in the config file or pass --token)")
	case c.Timeout <= 0:
		return errors.New("timeout must be positive")
	}
	return nil
}
