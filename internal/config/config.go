// Package config handles loading and validating site configuration for
// Trellis.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// SiteConfig is the top-level configuration for a Trellis site.
type SiteConfig struct {
	Title      string         `yaml:"title"      mapstructure:"title"`
	BaseURL    string         `yaml:"baseURL"    mapstructure:"baseURL"`
	ContentDir string         `yaml:"contentDir" mapstructure:"contentDir"`
	LayoutDir  string         `yaml:"layoutDir"  mapstructure:"layoutDir"`
	DataDir    string         `yaml:"dataDir"    mapstructure:"dataDir"`
	OutputDir  string         `yaml:"outputDir"  mapstructure:"outputDir"`
	KeepSuffix []string       `yaml:"keepSuffix" mapstructure:"keepSuffix"`
	Eager      EagerConfig    `yaml:"eager"      mapstructure:"eager"`
	Remotes    []RemoteConfig `yaml:"remotes"    mapstructure:"remotes"`
	Server     ServerConfig   `yaml:"server"     mapstructure:"server"`
}

// EagerConfig controls eager loading and the page index.
type EagerConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	Limit   int  `yaml:"limit"   mapstructure:"limit"`
}

// RemoteConfig describes one remote repository origin.
type RemoteConfig struct {
	Repo     string `yaml:"repo"     mapstructure:"repo"` // owner/name
	Ref      string `yaml:"ref"      mapstructure:"ref"`
	Path     string `yaml:"path"     mapstructure:"path"`
	TokenEnv string `yaml:"tokenEnv" mapstructure:"tokenEnv"`
}

// ServerConfig controls the local development server.
type ServerConfig struct {
	Port       int    `yaml:"port"       mapstructure:"port"`
	Host       string `yaml:"host"       mapstructure:"host"`
	LiveReload bool   `yaml:"livereload" mapstructure:"livereload"`
}

// Default returns a SiteConfig populated with sensible default values.
func Default() *SiteConfig {
	return &SiteConfig{
		ContentDir: "content",
		LayoutDir:  "layouts",
		DataDir:    "data",
		OutputDir:  "public",
		Eager: EagerConfig{
			Limit: 8,
		},
		Server: ServerConfig{
			Port:       3000,
			Host:       "localhost",
			LiveReload: true,
		},
	}
}

// Load reads a configuration file (YAML or TOML) and returns a SiteConfig
// with defaults applied first and file values overlaid on top.
func Load(configPath string) (*SiteConfig, error) {
	cfg := Default()

	v := viper.New()
	switch strings.TrimPrefix(filepath.Ext(configPath), ".") {
	case "toml":
		v.SetConfigType("toml")
	default:
		v.SetConfigType("yaml")
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks the SiteConfig for common errors.
func (c *SiteConfig) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("config: title is required")
	}
	if c.BaseURL != "" && strings.HasSuffix(c.BaseURL, "/") {
		return fmt.Errorf("config: baseURL must not have a trailing slash (got %q)", c.BaseURL)
	}
	if c.Eager.Limit < 0 {
		return fmt.Errorf("config: eager.limit cannot be negative")
	}
	for _, r := range c.Remotes {
		if !strings.Contains(r.Repo, "/") {
			return fmt.Errorf("config: remote repo %q must be owner/name", r.Repo)
		}
	}
	return nil
}

// WithOverrides applies CLI flag overrides to the config. The modified
// config is returned for chaining.
func (c *SiteConfig) WithOverrides(overrides map[string]any) *SiteConfig {
	for key, val := range overrides {
		switch key {
		case "baseURL":
			if s, ok := val.(string); ok {
				c.BaseURL = s
			}
		case "contentDir":
			if s, ok := val.(string); ok {
				c.ContentDir = s
			}
		case "outputDir":
			if s, ok := val.(string); ok {
				c.OutputDir = s
			}
		case "eager":
			if b, ok := val.(bool); ok {
				c.Eager.Enabled = b
			}
		case "port":
			if n, ok := val.(int); ok {
				c.Server.Port = n
			}
		case "host":
			if s, ok := val.(string); ok {
				c.Server.Host = s
			}
		case "livereload":
			if b, ok := val.(bool); ok {
				c.Server.LiveReload = b
			}
		}
	}
	return c
}
