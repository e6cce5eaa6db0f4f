package config

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	EnvConfigPath = "BLOGCTL_CONFIG"
	EnvLogLevel   = "BLOGCTL_LOG_LEVEL"
	EnvDBPath     = "BLOGCTL_DB_PATH"
	EnvSiteDir    = "BLOGCTL_SITE_DIR"
	EnvOutDir     = "BLOGCTL_OUT_DIR"

	DefaultLogLevel = "info"
	DefaultSiteDir  = "."
)

// Config is the blogctl configuration file structure.
type Config struct {
	LogLevel string `yaml:"logLevel"`
	// DBPath is the build history database. Empty disables history.
	DBPath  string `yaml:"dbPath"`
	SiteDir string `yaml:"siteDir"`
	// OutDir overrides the site's outDir when set.
	OutDir string `yaml:"outDir,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		DBPath:   "",
		SiteDir:  DefaultSiteDir,
	}
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.DBPath = strings.TrimSpace(c.DBPath)
	c.SiteDir = strings.TrimSpace(c.SiteDir)
	if c.SiteDir == "" {
		c.SiteDir = DefaultSiteDir
	}
	c.OutDir = strings.TrimSpace(c.OutDir)
}

// Validate checks config invariants that must hold for the file to be usable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.LogLevel, validation.By(func(value any) error {
			level, _ := value.(string)
			_, err := ParseLogLevel(level)
			return err
		})),
		validation.Field(&c.DBPath, validation.By(notDirectoryPath)),
	)
}

func notDirectoryPath(value any) error {
	p, _ := value.(string)
	if strings.HasSuffix(p, "/") {
		return errors.New("must name a file, not a directory")
	}
	return nil
}
