package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const (
	dirName   = "healthease"
	fileName  = "config.json"
	dirPerms  = 0700
	filePerms = 0600

	// DefaultServerURL is used when no server has been configured.
	DefaultServerURL = "http://localhost:8080"
)

// Config holds persisted CLI state.
type Config struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dirName, fileName), nil
}

// LoadConfig reads the config from disk. A missing file yields a zero-value
// config with the default server URL, not an error.
func LoadConfig() (*Config, error) {
	p, err := ConfigPath()
	if err != nil {
		return &Config{ServerURL: DefaultServerURL}, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{ServerURL: DefaultServerURL}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	return &cfg, nil
}

// SaveConfig writes the config to disk, creating the directory if needed.
func SaveConfig(cfg *Config) error {
	p, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), dirPerms); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, filePerms)
}

// ClearConfig removes the config file.
func ClearConfig() error {
	p, err := ConfigPath()
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// HasToken reports whether a token is configured.
func (c *Config) HasToken() bool {
	return c.Token != ""
}
