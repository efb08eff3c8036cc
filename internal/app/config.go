// Package app provides application-level configuration and initialization.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/lazyvibe/ghopen/internal/checkout"
	"github.com/lazyvibe/ghopen/internal/git"
	"github.com/lazyvibe/ghopen/internal/model"
)

// Name is the directory and file stem used for GHOpen's files.
const Name = "ghopen"

// EnvPrefix prefixes environment overrides, e.g. GHOPEN_LOG_LEVEL.
const EnvPrefix = "GHOPEN"

// Config holds the application configuration.
type Config struct {
	// GitPath is the full path to the git executable. Empty means PATH lookup.
	GitPath string `json:"git_path,omitempty"`
	// HostPrefixes are stripped from repository URLs to form identities.
	HostPrefixes []string `json:"host_prefixes"`
	// Picker selects how an unknown repository's clone is chosen.
	Picker model.PickerMode `json:"picker"`
	// SearchRoots are scanned for clones by the fuzzy picker.
	SearchRoots []string `json:"search_roots,omitempty"`
	// SearchDepth bounds the clone scan below each root.
	SearchDepth int `json:"search_depth,omitempty"`
	// TimeoutSeconds bounds each pipeline. Zero waits indefinitely.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
	// Notification configures alert settings.
	Notification model.NotificationConfig `json:"notification"`
	// LogLevel is a zerolog level name.
	LogLevel string `json:"log_level"`
}

// envOverrides are read from GHOPEN_* variables and win over the file.
type envOverrides struct {
	GitPath     string         `envconfig:"GIT_PATH"`
	Picker      string         `envconfig:"PICKER"`
	SearchRoots []string       `envconfig:"SEARCH_ROOTS"`
	Timeout     *time.Duration `envconfig:"TIMEOUT"`
	Desktop     *bool          `envconfig:"DESKTOP_NOTIFICATIONS"`
	WebhookURL  string         `envconfig:"WEBHOOK_URL"`
	LogLevel    string         `envconfig:"LOG_LEVEL"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	roots := []string{}
	if home != "" {
		roots = append(roots, filepath.Join(home, "src"), filepath.Join(home, "Projects"), filepath.Join(home, "github"))
	}

	return &Config{
		HostPrefixes: append([]string{}, checkout.DefaultHostPrefixes...),
		Picker:       model.PickerDialog,
		SearchRoots:  roots,
		SearchDepth:  3,
		Notification: model.NotificationConfig{
			Desktop: true,
		},
		LogLevel: "info",
	}
}

// Timeout returns TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConfigDir returns the GHOpen configuration directory.
func ConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if available, otherwise default to ~/.config
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}

	return filepath.Join(configHome, Name), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath(configDir string) string {
	return filepath.Join(configDir, "config.json")
}

// LoadConfig loads the configuration from disk and applies environment
// overrides.
func LoadConfig(configDir string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(ConfigPath(configDir))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	if env.GitPath != "" {
		c.GitPath = env.GitPath
	}
	if env.Picker != "" {
		c.Picker = model.PickerMode(env.Picker)
	}
	if len(env.SearchRoots) > 0 {
		c.SearchRoots = env.SearchRoots
	}
	if env.Timeout != nil {
		c.TimeoutSeconds = int(env.Timeout.Seconds())
	}
	if env.Desktop != nil {
		c.Notification.Desktop = *env.Desktop
	}
	if env.WebhookURL != "" {
		c.Notification.WebhookURL = env.WebhookURL
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
	return nil
}

// Validate rejects settings the launcher cannot act on.
func (c *Config) Validate() error {
	switch c.Picker {
	case model.PickerDialog, model.PickerFuzzy:
	default:
		return fmt.Errorf("unknown picker %q (want %q or %q)", c.Picker, model.PickerDialog, model.PickerFuzzy)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}

// SaveConfig saves the configuration to disk.
func SaveConfig(configDir string, config *Config) error {
	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(configDir), data, 0644)
}

// ResolveGitPath fills GitPath from detection when it is unset.
func (c *Config) ResolveGitPath() string {
	if c.GitPath == "" {
		c.GitPath = git.DetectGitPath()
	}
	return c.GitPath
}
