package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigRelativePath = ".blogctl/config.yaml"

// DefaultPath returns the default config path under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home directory: %w", err)
	}
	home = strings.TrimSpace(home)
	if home == "" {
		return "", fmt.Errorf("resolve user home directory: empty path")
	}
	return filepath.Join(home, defaultConfigRelativePath), nil
}

// ResolvePath resolves the config path from explicit input, env var, or
// default. explicit reports whether the path was asked for by the caller
// rather than falling back to the default.
func ResolvePath(explicitPath string) (path string, explicit bool, err error) {
	if p := strings.TrimSpace(explicitPath); p != "" {
		return p, true, nil
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, true, nil
	}
	p, err := DefaultPath()
	return p, false, err
}

// Load resolves the config path, reads it when present and applies
// environment overrides. A missing default file yields the defaults; a
// missing explicit file is an error. It returns the path that was consulted.
func Load(explicitPath string) (Config, string, error) {
	path, explicit, err := ResolvePath(explicitPath)
	if err != nil && explicit {
		return Config{}, "", err
	}

	cfg := DefaultConfig()
	if path != "" {
		loaded, err := readFile(path, cfg)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist) && !explicit:
		case errors.Is(err, os.ErrNotExist):
			return cfg, path, fmt.Errorf("config file not found at %s (create it or unset %s)", path, EnvConfigPath)
		default:
			return cfg, path, err
		}
	}

	applyEnv(&cfg)
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, path, fmt.Errorf("validate config: %w", err)
	}
	return cfg, path, nil
}

// LoadFromPath reads path over the defaults and validates the result without
// consulting the environment.
func LoadFromPath(path string) (Config, error) {
	cfg, err := readFile(path, DefaultConfig())
	if err != nil {
		return cfg, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate config file %s: %w", path, err)
	}
	return cfg, nil
}

func readFile(path string, base Config) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, err
		}
		return base, fmt.Errorf("read config file %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return base, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDBPath)); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSiteDir)); v != "" {
		cfg.SiteDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutDir)); v != "" {
		cfg.OutDir = v
	}
}
