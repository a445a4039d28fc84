package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/go-appsec/jsondecoder/jsondecoder/decoder"
)

const (
	Version        = "0.1.0"
	DefaultMCPPort = 9129
	DefaultDirName = ".jsondecoder"
)

// Config holds the jsondecoder configuration stored in ~/.jsondecoder/config.json.
// Force detection is intentionally absent: it always starts disabled.
type Config struct {
	Version      string   `json:"version"`
	ContentTypes []string `json:"content_types"`
	MagicMarkers []string `json:"magic_markers"`
	MCPPort      int      `json:"mcp_port"`
	SessionDir   string   `json:"session_dir,omitempty"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig(version string) *Config {
	cfg := &Config{Version: version}
	cfg.applyDefaults()
	return cfg
}

// DefaultPath returns ~/.jsondecoder/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName, "config.json"), nil
}

// Load reads and parses config from the given path.
// If the file doesn't exist, returns os.ErrNotExist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when the file does not exist.
// An empty path resolves to DefaultPath.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return DefaultConfig(Version), nil
		}
	}

	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(Version), nil
	}
	return cfg, err
}

// Save writes the config to the given path atomically.
func (c *Config) Save(path string) error {
	if c == nil {
		return errors.New("config is nil")
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	// Write atomically by writing to temp file then renaming
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// Rules returns the classifier rules described by the config.
func (c *Config) Rules() decoder.Rules {
	return decoder.Rules{
		ContentTypes: c.ContentTypes,
		MagicMarkers: c.MagicMarkers,
	}
}

// applyDefaults fills in zero values with defaults
func (c *Config) applyDefaults() {
	defaults := decoder.DefaultRules()
	if len(c.ContentTypes) == 0 {
		c.ContentTypes = defaults.ContentTypes
	}
	if len(c.MagicMarkers) == 0 {
		c.MagicMarkers = defaults.MagicMarkers
	}
	if c.MCPPort == 0 {
		c.MCPPort = DefaultMCPPort
	}
}
