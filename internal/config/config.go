// Package config loads and persists the trackdeck configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Permission is the persisted desktop-alert permission state. It mirrors
// the browser notification permission model: requested at most once, and
// an explicit grant or denial is never re-prompted.
type Permission string

const (
	PermissionUnset   Permission = ""
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// AlertsConfig holds alert delivery preferences.
type AlertsConfig struct {
	// Permission gates OS-level notifications. In-app toasts are always
	// shown regardless of this state.
	Permission Permission `mapstructure:"permission" yaml:"permission"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
}

// Config is the top-level application configuration.
type Config struct {
	// ServerURL is the tracker REST base URL.
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`

	// WebSocketURL overrides the realtime endpoint. When empty it is
	// derived from ServerURL by swapping the scheme to ws/wss.
	WebSocketURL string `mapstructure:"websocket_url" yaml:"websocket_url"`

	Alerts  AlertsConfig  `mapstructure:"alerts" yaml:"alerts"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`

	path string
}

// Dir returns the trackdeck configuration directory, ~/.config/trackdeck.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "trackdeck")
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func defaults() *Config {
	return &Config{
		ServerURL: "http://localhost:8000",
		Display:   DisplayConfig{PageSize: 25},
	}
}

// Load reads the configuration from path, creating it with defaults when
// it does not exist yet. Environment variables prefixed with TRACKDECK_
// override file values (e.g. TRACKDECK_SERVER_URL).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TRACKDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := defaults()
	v.SetDefault("server_url", def.ServerURL)
	v.SetDefault("websocket_url", "")
	v.SetDefault("alerts.permission", string(PermissionUnset))
	v.SetDefault("display.page_size", def.Display.PageSize)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("config.Load: create config dir: %w", err)
		}
		if err := v.WriteConfigAs(path); err != nil {
			return nil, fmt.Errorf("config.Load: write defaults: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: unmarshal: %w", err)
	}
	cfg.path = path
	return &cfg, nil
}

// Save writes the configuration back to the file it was loaded from.
func (c *Config) Save() error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("server_url", c.ServerURL)
	v.Set("websocket_url", c.WebSocketURL)
	v.Set("alerts.permission", string(c.Alerts.Permission))
	v.Set("display.page_size", c.Display.PageSize)

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("config.Save: create config dir: %w", err)
	}
	if err := v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("config.Save: write %s: %w", c.path, err)
	}
	return nil
}

// RealtimeURL returns the WebSocket base URL, deriving it from ServerURL
// when no explicit override is configured.
func (c *Config) RealtimeURL() string {
	if c.WebSocketURL != "" {
		return c.WebSocketURL
	}
	switch {
	case strings.HasPrefix(c.ServerURL, "https://"):
		return "wss://" + strings.TrimPrefix(c.ServerURL, "https://")
	case strings.HasPrefix(c.ServerURL, "http://"):
		return "ws://" + strings.TrimPrefix(c.ServerURL, "http://")
	default:
		return "ws://" + c.ServerURL
	}
}
