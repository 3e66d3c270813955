package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (STOREFRONT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: STOREFRONT_PORT -> port, etc.
	if err := k.Load(env.Provider("STOREFRONT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "STOREFRONT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validMirrors is the set of recognized mirror backends.
var validMirrors = map[MirrorBackend]bool{
	MirrorFile:   true,
	MirrorSQLite: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.CatalogDir == "" {
		return fmt.Errorf("catalog_dir is required")
	}

	if c.Mirror == "" {
		return fmt.Errorf("mirror is required")
	}
	if !validMirrors[c.Mirror] {
		return fmt.Errorf("invalid mirror %q: must be one of file, sqlite", c.Mirror)
	}

	if c.Mirror == MirrorFile && c.MirrorPath == "" {
		return fmt.Errorf("mirror_path is required for the file mirror")
	}

	if c.WhatsAppNumber != "" {
		for _, r := range c.WhatsAppNumber {
			if r < '0' || r > '9' {
				return fmt.Errorf("whatsapp_number must contain digits only, got %q", c.WhatsAppNumber)
			}
		}
	}

	return nil
}
