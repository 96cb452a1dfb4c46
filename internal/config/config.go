// Package config loads the structured atlas configuration from YAML.
// Process-level options (host, port, directories, log level) come from
// flags/env via humacli; this file covers dataset sources, refresh, the
// optional Redis cache, style overrides, and boundary files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanachitra/fra-atlas/internal/service"
)

// Source is one dataset source: a remote URL or a file under the data dir.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url,omitempty"`
	File string `yaml:"file,omitempty"`
}

// Redis configures the optional raw-body fetch cache. An empty address
// disables caching entirely.
type Redis struct {
	Addr string        `yaml:"addr"`
	TTL  time.Duration `yaml:"ttl"`
}

// Config is the structured atlas configuration.
type Config struct {
	Sources         []Source                         `yaml:"sources"`
	RefreshInterval time.Duration                    `yaml:"refresh_interval"`
	Redis           Redis                            `yaml:"redis"`
	StyleOverrides  map[string]service.StyleOverride `yaml:"style_overrides"`
	// Boundaries maps a lowercase state name to a boundary GeoJSON file
	// under the data directory.
	Boundaries map[string]string `yaml:"boundaries"`
}

// Default returns the configuration used when no file is present: no remote
// sources (local discovery kicks in), no refresh ticker, no cache.
func Default() Config {
	return Config{
		Redis:      Redis{TTL: 5 * time.Minute},
		Boundaries: map[string]string{},
	}
}

// Load reads the YAML config at path. A missing file yields Default() with
// no error so the server runs out of the box; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 5 * time.Minute
	}
	if cfg.Boundaries == nil {
		cfg.Boundaries = map[string]string{}
	}
	return cfg, nil
}
