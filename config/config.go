package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"go-chordpad/theory"
)

// PortsConfig remembers the last port numbers used, so a bare run can reuse them.
type PortsConfig struct {
	GridIn   int `json:"gridIn"`
	GridOut  int `json:"gridOut"`
	NotesOut int `json:"notesOut"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Mirror  bool   `json:"mirror,omitempty"`
	Debug   bool   `json:"debug,omitempty"`
	Palette string `json:"palette,omitempty"` // .gpl file for the terminal mirror
}

// Config is the main configuration structure
type Config struct {
	Root        int          `json:"root"`
	NoteChannel int          `json:"noteChannel"`
	Ports       *PortsConfig `json:"ports,omitempty"`
	UI          UIConfig     `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Root:        theory.DefaultRoot,
		NoteChannel: 0,
	}
}

// Validate rejects values the MIDI wire cannot carry.
func (c *Config) Validate() error {
	if c.Root < 0 || c.Root > 127 {
		return errors.Errorf("root %d outside 0-127", c.Root)
	}
	if c.NoteChannel < 0 || c.NoteChannel > 15 {
		return errors.Errorf("note channel %d outside 0-15", c.NoteChannel)
	}
	return nil
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "locate home directory")
	}
	return filepath.Join(home, ".config", "go-chordpad"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", path)
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode config")
	}

	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}

// RememberPorts records the ports of a successful run.
func (c *Config) RememberPorts(gridIn, gridOut, notesOut int) {
	c.Ports = &PortsConfig{GridIn: gridIn, GridOut: gridOut, NotesOut: notesOut}
}
