// Package config handles the XDG configuration directory, the settings
// file, and stored credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

// ErrNotAuthenticated indicates no usable stored credentials. Session
// construction wraps it so dispatch can map the failure onto the auth exit
// code.
var ErrNotAuthenticated = errors.New("not logged in (run: taskai login)")

const (
	// AppName is the application directory name.
	AppName = "taskai"

	// SettingsFile is the YAML settings filename.
	SettingsFile = "config.yaml"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

const defaultSettingsYAML = `# taskai client configuration
# URL of the TaskAI backend.
server_url: http://localhost:8000

# OAuth client id issued by the backend for this CLI.
oauth_client_id: taskai-cli

# Conversation used by the chat command and the TUI chat view.
# Leave empty to let the backend pick the active conversation.
conversation_id: ""

# Default sort for task listings: due_date, priority, or created_at.
default_sort: created_at
`

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// Settings is the parsed contents of config.yaml.
type Settings struct {
	ServerURL      string `yaml:"server_url"`
	OAuthClientID  string `yaml:"oauth_client_id"`
	ConversationID string `yaml:"conversation_id"`
	DefaultSort    string `yaml:"default_sort"`
}

// OAuthConfig builds the OAuth configuration for the backend's auth
// endpoints.
func (s Settings) OAuthConfig() *oauth2.Config {
	base := strings.TrimRight(s.ServerURL, "/")
	return &oauth2.Config{
		ClientID: s.OAuthClientID,
		Endpoint: oauth2.Endpoint{
			AuthURL:  base + "/api/auth/authorize",
			TokenURL: base + "/api/auth/token",
		},
	}
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskai or $HOME/.config/taskai.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Load reads config.yaml, writing the default settings file first if none
// exists yet.
func (c *Config) Load() (Settings, error) {
	path := c.SettingsPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := c.EnsureDir(); err != nil {
			return Settings{}, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultSettingsYAML), 0600); err != nil {
			return Settings{}, fmt.Errorf("failed to write default config: %w", err)
		}
		data = []byte(defaultSettingsYAML)
	} else if err != nil {
		return Settings{}, fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}
	if settings.ServerURL == "" {
		return Settings{}, fmt.Errorf("%s: server_url is required", SettingsFile)
	}
	settings.ServerURL = strings.TrimRight(settings.ServerURL, "/")
	if settings.OAuthClientID == "" {
		settings.OAuthClientID = "taskai-cli"
	}
	return settings, nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
