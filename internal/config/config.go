// Package config loads the demo server settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Adapters accepted in Config.Adapter.
const (
	AdapterHTTP = "http"
	AdapterGin  = "gin"
	AdapterEcho = "echo"
)

type Config struct {
	Addr    string `yaml:"addr"`
	Adapter string `yaml:"adapter"`
	Log     Log    `yaml:"log"`
	I18n    I18n   `yaml:"i18n"`
	// SanitizeMessages strips markup from translated strings.
	SanitizeMessages bool `yaml:"sanitize_messages"`
}

type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

type I18n struct {
	Language string `yaml:"language"`
	// Bundle is the path of a YAML message bundle; empty uses the embedded one.
	Bundle string `yaml:"bundle"`
}

// Default returns the settings used for every key a file leaves out.
func Default() *Config {
	return &Config{
		Addr:             ":8080",
		Adapter:          AdapterHTTP,
		Log:              Log{Level: "info", Format: "text"},
		I18n:             I18n{Language: "en"},
		SanitizeMessages: true,
	}
}

// Load overlays the YAML document read from r onto Default. Unknown keys
// are rejected.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile is Load for a file on disk. An empty path yields Default.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Adapter {
	case AdapterHTTP, AdapterGin, AdapterEcho:
	default:
		return fmt.Errorf("config: unknown adapter %q (want %s)", c.Adapter,
			strings.Join([]string{AdapterHTTP, AdapterGin, AdapterEcho}, ", "))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if c.Addr == "" {
		return errors.New("config: addr must not be empty")
	}
	return nil
}
