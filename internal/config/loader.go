package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	// ConfigDir is the default config directory name.
	ConfigDir = ".logsentry"
	// ConfigFile is the default config file name.
	ConfigFile = "config.json"
)

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("LOGSENTRY_CONFIG")); explicit != "" {
		if strings.HasPrefix(explicit, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(home, explicit[1:]), nil
		}
		return explicit, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDir, ConfigFile), nil
}

// Load reads configuration from the JSON config file, then layers environment
// variables (LOGSENTRY_ prefix) on top. A missing config file is not an error;
// the defaults plus environment are used.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, fmt.Errorf("resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := envconfig.Process("logsentry", cfg); err != nil {
		return cfg, fmt.Errorf("process environment: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration back to the JSON config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks that the configuration is usable. Missing credentials for
// the selected provider are a fatal configuration error.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case "gemini":
		if c.Providers.Gemini.APIKey == "" {
			return fmt.Errorf("LLM provider is gemini but GEMINI_API_KEY is not set")
		}
	case "github":
		if c.Providers.GitHub.Token == "" {
			return fmt.Errorf("LLM provider is github but GITHUB_TOKEN is not set")
		}
	default:
		return fmt.Errorf("unknown LLM provider %q (supported: gemini, github)", c.Model.Provider)
	}
	if c.Model.MaxToolIterations <= 0 {
		return fmt.Errorf("maxToolIterations must be positive, got %d", c.Model.MaxToolIterations)
	}
	return nil
}

// ResolveWorkspace expands the workspace path to an absolute directory.
func (c *Config) ResolveWorkspace() string {
	ws := c.Paths.Workspace
	if strings.HasPrefix(ws, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			ws = filepath.Join(home, ws[1:])
		}
	}
	if abs, err := filepath.Abs(ws); err == nil {
		ws = abs
	}
	return ws
}

// AuditDBPath returns the audit database path, defaulting to the workspace.
func (c *Config) AuditDBPath() string {
	if c.Audit.DBPath != "" {
		return c.Audit.DBPath
	}
	return filepath.Join(c.ResolveWorkspace(), "audit.db")
}
