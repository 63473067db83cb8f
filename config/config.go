// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	appName        = "whisperkey"
	configFileName = "config.json"
)

// Config represents the persisted application settings. Optional
// fields use pointers so an absent value is distinguishable from an
// explicit false or zero; accessor methods resolve the defaults.
type Config struct {
	GroqAPIKey string `json:"groq_api_key,omitempty"`

	// GlobalHotkey is a registered accelerator such as
	// "ctrl+shift+space". TriggerKey is a raw key watched by the
	// global listener, such as "fn" or "f13". Either or both may be
	// set.
	GlobalHotkey string `json:"global_hotkey,omitempty"`
	TriggerKey   string `json:"trigger_key,omitempty"`

	// TriggerMode is "hold" or "toggle".
	TriggerMode string `json:"trigger_mode,omitempty"`

	AutoTypeEnabled *bool    `json:"auto_type_enabled,omitempty"`
	TypeSpeedMS     *uint64  `json:"type_speed_ms,omitempty"`
	MicGain         *float64 `json:"mic_gain,omitempty"`

	// Language is an optional BCP-47 hint for transcription, or
	// "auto" to let the model detect it.
	Language string `json:"language,omitempty"`

	RefineOutputEnabled bool   `json:"refine_output_enabled,omitempty"`
	RefinementPrompt    string `json:"refinement_prompt,omitempty"`
	RefinementModel     string `json:"refinement_model,omitempty"`

	// Legacy field, migrated to AutoTypeEnabled on load.
	AutoInsert *bool `json:"auto_insert,omitempty"`
}

// Load loads configuration from the config file.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.migrate()
	return &cfg, nil
}

// migrate carries values forward from legacy field names.
func (c *Config) migrate() {
	if c.AutoTypeEnabled == nil && c.AutoInsert != nil {
		c.AutoTypeEnabled = c.AutoInsert
	}
	c.AutoInsert = nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}
	return c.saveTo(path)
}

func (c *Config) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file exists yet. On
// macOS the Fn key doubles as a natural push-to-talk trigger; other
// platforms cannot observe it, so they get an accelerator instead.
func Default() *Config {
	cfg := &Config{TriggerMode: "hold"}
	if runtime.GOOS == "darwin" {
		cfg.TriggerKey = "fn"
	} else {
		cfg.GlobalHotkey = "ctrl+space"
	}
	return cfg
}

// AutoType reports whether the transcript should be typed into the
// focused application. Defaults to on.
func (c *Config) AutoType() bool {
	if c.AutoTypeEnabled == nil {
		return true
	}
	return *c.AutoTypeEnabled
}

// TypeDelay returns the pause between typed chunks.
func (c *Config) TypeDelay() time.Duration {
	if c.TypeSpeedMS == nil {
		return 0
	}
	return time.Duration(*c.TypeSpeedMS) * time.Millisecond
}

// Gain returns the microphone gain multiplier. Defaults to unity.
func (c *Config) Gain() float64 {
	if c.MicGain == nil {
		return 1.0
	}
	return *c.MicGain
}

// Mode returns the configured trigger mode string, defaulting to hold.
func (c *Config) Mode() string {
	if c.TriggerMode == "" {
		return "hold"
	}
	return c.TriggerMode
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}
