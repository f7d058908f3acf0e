// Package config handles configuration for phonechat.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/diogo/phonechat/internal/models"
)

// EnvPrefix prefixes every environment variable read by LoadConfig
const EnvPrefix = "PHONECHAT_"

// MarkdownConfig configures markdown rendering of incoming bubbles
type MarkdownConfig struct {
	Style            string `json:"style" env:"MARKDOWN_STYLE"` // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`
	PreserveNewLines bool   `json:"preserve_newlines"`
}

// Config represents the user configuration
type Config struct {
	// BaseURL selects the backend host. The chat endpoint is BaseURL + "/api/chat".
	BaseURL string `json:"base_url" env:"BASE_URL"`
	// TimeoutSeconds bounds a send when Hardened is on.
	TimeoutSeconds int `json:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	// Hardened enables the request timeout and the single in-flight guard.
	Hardened bool `json:"hardened" env:"HARDENED"`
	// SmoothScroll animates scroll-to-bottom; false jumps immediately.
	SmoothScroll    bool           `json:"smooth_scroll" env:"SMOOTH_SCROLL"`
	RenderMarkdown  bool           `json:"render_markdown" env:"RENDER_MARKDOWN"`
	CopyToClipboard bool           `json:"copy_to_clipboard" env:"COPY_TO_CLIPBOARD"`
	TUITheme        string         `json:"tui_theme,omitempty" env:"TUI_THEME"`
	LogFile         string         `json:"log_file,omitempty" env:"LOG_FILE"`
	Verbose         bool           `json:"verbose" env:"VERBOSE"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         models.DefaultBaseURL,
		TimeoutSeconds:  int(models.DefaultTimeout / time.Second),
		Hardened:        true,
		SmoothScroll:    true,
		RenderMarkdown:  false,
		CopyToClipboard: false,
		TUITheme:        "whatsapp",
		Verbose:         false,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the send deadline. Zero means no widget timeout.
func (c Config) Timeout() time.Duration {
	if !c.Hardened || c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks that the configuration can be used to reach a backend
func (c Config) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	if c.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", c.BaseURL)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".phonechat")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path from config, defaulting to the config dir
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "phonechat.log"), nil
}

// LoadConfig loads the configuration from disk, then applies PHONECHAT_*
// environment variables on top.
func LoadConfig() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// LoadFile reads the config file over the defaults, without the environment
// overlay. Use it before SaveConfig so overrides are not persisted.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setters maps the keys accepted by Set to their parsers
var setters = map[string]func(cfg *Config, value string) error{
	"base_url": func(cfg *Config, v string) error {
		cfg.BaseURL = strings.TrimRight(v, "/")
		return nil
	},
	"timeout_seconds": func(cfg *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		cfg.TimeoutSeconds = n
		return nil
	},
	"hardened":          boolSetter(func(c *Config) *bool { return &c.Hardened }),
	"smooth_scroll":     boolSetter(func(c *Config) *bool { return &c.SmoothScroll }),
	"render_markdown":   boolSetter(func(c *Config) *bool { return &c.RenderMarkdown }),
	"copy_to_clipboard": boolSetter(func(c *Config) *bool { return &c.CopyToClipboard }),
	"verbose":           boolSetter(func(c *Config) *bool { return &c.Verbose }),
	"tui_theme": func(cfg *Config, v string) error {
		cfg.TUITheme = v
		return nil
	},
	"log_file": func(cfg *Config, v string) error {
		cfg.LogFile = v
		return nil
	},
	"markdown.style": func(cfg *Config, v string) error {
		cfg.Markdown.Style = v
		return nil
	},
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(cfg) = b
		return nil
	}
}

// Set updates a single configuration key from its string form
func (c *Config) Set(key, value string) error {
	setter, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := setter(c, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return c.Validate()
}

// Keys returns the keys accepted by Set
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
