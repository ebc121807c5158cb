package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	configDirName  = "prterm"
	configFileName = "config.json"
	cacheFileName  = "cache.db"

	// DefaultRefreshSeconds is the periodic refresh interval when the config
	// does not set one.
	DefaultRefreshSeconds = 60
)

type AppConfig struct {
	// Repo is "owner/name".
	Repo string `json:"repo"`
	// Token is a personal access token; the GITHUB_TOKEN environment
	// variable overrides it.
	Token          string `json:"token"`
	RefreshSeconds int    `json:"refresh_seconds"`
}

func Load() (AppConfig, string, error) {
	path, err := DefaultPath()
	if err != nil {
		return AppConfig{}, "", err
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

func LoadFromPath(path string) (AppConfig, error) {
	cfg := AppConfig{RefreshSeconds: DefaultRefreshSeconds}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg), nil
		}
		return AppConfig{}, err
	}

	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.RefreshSeconds <= 0 {
		cfg.RefreshSeconds = DefaultRefreshSeconds
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg AppConfig) AppConfig {
	if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
		cfg.Token = token
	}
	return cfg
}

// SplitRepo parses the "owner/name" form.
func (c AppConfig) SplitRepo() (owner, name string, err error) {
	parts := strings.Split(strings.TrimSpace(c.Repo), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repo %q must be owner/name", c.Repo)
	}
	return parts[0], parts[1], nil
}

func DefaultPath() (string, error) {
	home, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// CachePath is where the sqlite snapshot cache lives. The directory is
// created on demand.
func CachePath() (string, error) {
	home, err := dataHome()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, configDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return filepath.Join(dir, cacheFileName), nil
}

func configHome() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return xdg, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

func dataHome() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdg != "" {
		return xdg, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}
