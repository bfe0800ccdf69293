package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	return c.SaveTo(filepath.Join(ConfigDir(), FileName))
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SaveRequested writes cfg when --save-config was given: to the --config
// path if set, otherwise to the user's config directory. It returns the
// path written, or "" when nothing was requested.
func SaveRequested(flags *Flags, cfg *Config) (string, error) {
	if flags == nil || !flags.saveConfig {
		return "", nil
	}
	if p := flags.ConfigPath(); p != "" {
		return p, cfg.SaveTo(p)
	}
	return filepath.Join(ConfigDir(), FileName), cfg.Save()
}
