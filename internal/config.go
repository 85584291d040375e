package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the DevBook API endpoint used when no override is
// configured.
const DefaultBaseURL = "https://dev-book.trou.hackclub.app/api"

// DefaultTokenTTL matches the 7-day cookie expiry of the web client.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Config holds client configuration. Values come from, in increasing
// priority: built-in defaults, ~/.devbook/config.yaml, and environment
// variables (a .env file in the working directory is loaded first).
type Config struct {
	BaseURL  string        `yaml:"base_url"`
	Home     string        `yaml:"home"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// LoadConfig resolves the effective client configuration.
func LoadConfig() (*Config, error) {
	// A local .env is optional; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:  DefaultBaseURL,
		TokenTTL: DefaultTokenTTL,
	}

	home, err := defaultHome()
	if err != nil {
		return nil, err
	}
	cfg.Home = home

	if err := cfg.loadFile(filepath.Join(cfg.Home, "config.yaml")); err != nil {
		return nil, err
	}

	if v := os.Getenv("DEVBOOK_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("DEVBOOK_HOME"); v != "" {
		cfg.Home = v
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}

	return cfg, nil
}

// loadFile merges settings from a YAML config file, if one exists.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// TokenPath returns the location of the persisted session token.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Home, "token.json")
}

func defaultHome() (string, error) {
	if v := os.Getenv("DEVBOOK_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".devbook"), nil
}
