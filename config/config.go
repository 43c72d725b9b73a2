// config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Providers ProvidersConfig `toml:"providers"`
	Refresh   RefreshConfig   `toml:"refresh"`
	Storage   StorageConfig   `toml:"storage"`
}

type ProvidersConfig struct {
	OneSecMailURL string `toml:"onesecmail_url"`
	MailTMURL     string `toml:"mailtm_url"`
}

type RefreshConfig struct {
	// Delay before the background refresh issues its second fetch.
	Delay Duration `toml:"delay"`
	// Window bounds how long the inbox view waits for that refresh.
	Window Duration `toml:"window"`
}

type StorageConfig struct {
	SessionDir  string `toml:"session_dir"`
	MessagesDir string `toml:"messages_dir"`
}

// Duration lets toml files use "1500ms"-style values.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

var defaultConfig = Config{
	Providers: ProvidersConfig{},
	Refresh: RefreshConfig{
		Delay:  Duration{1500 * time.Millisecond},
		Window: Duration{100 * time.Millisecond},
	},
	Storage: StorageConfig{},
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "tempmail", "config.toml")
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Values in the file override defaults per field.
func Load(path string) (*Config, error) {
	cfg := defaultConfig

	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
