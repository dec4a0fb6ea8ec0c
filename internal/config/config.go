// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads aegis-otp settings from flags, environment variables
// (AEGIS_ prefix), an optional YAML file and built-in defaults, in that order
// of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName  = "aegis-otp"
	fileName = "aegis-otp"
	// EnvPrefix is the prefix for all environment overrides.
	EnvPrefix = "AEGIS"
)

// Config is the full set of settings understood by aegis-otp.
type Config struct {
	Vault    string `mapstructure:"vault" yaml:"vault,omitempty"`
	Password string `mapstructure:"password" yaml:"-"`
	PwFile   string `mapstructure:"pwfile" yaml:"pwfile,omitempty"`
	Language string `mapstructure:"language" yaml:"language"`
	Verbose  bool   `mapstructure:"verbose" yaml:"-"`

	Display struct {
		Tick      time.Duration `mapstructure:"tick" yaml:"tick"`
		Clipboard bool          `mapstructure:"clipboard" yaml:"clipboard"`
	} `mapstructure:"display" yaml:"display"`

	History struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Type    string `mapstructure:"type" yaml:"type"`
		Dsn     string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"history" yaml:"history"`
}

// Defaults returns the built-in default values keyed by config key.
func Defaults() map[string]any {
	return map[string]any{
		"vault":             "",
		"password":          "",
		"pwfile":            "",
		"language":          "en",
		"verbose":           false,
		"display.tick":      60 * time.Millisecond,
		"display.clipboard": true,
		"history.enabled":   false,
		"history.type":      "sqlite",
		"history.dsn":       DefaultHistoryDSN(),
	}
}

// Default returns a Config holding only the built-in defaults. It is what
// gets written as the initial config file.
func Default() Config {
	var c Config
	c.Language = "en"
	c.Display.Tick = 60 * time.Millisecond
	c.Display.Clipboard = true
	c.History.Type = "sqlite"
	c.History.Dsn = DefaultHistoryDSN()
	return c
}

// DefaultHistoryDSN returns the SQLite file used for usage history when no
// DSN is configured.
func DefaultHistoryDSN() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", "aegis-otp-history.db")
	}
	return filepath.Join(dir, appName, "history.db")
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), appName)
		default:
			configDir = filepath.Join("/etc", appName)
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, appName)
	}

	return filepath.Join(configDir, fileName+".yaml"), nil
}

// LoadConfig builds a T from defaults, config file, environment and the
// flags of cmd. bindings maps config keys to flag names for flags whose name
// differs from the key (e.g. "display.tick" -> "tick"). envBindings maps
// config keys to extra environment variable names.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, bindings map[string]string, envBindings map[string]string, configFile *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. File search paths
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	if configFile != nil {
		v.SetConfigFile(*configFile)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	// 3. Config file. Not finding one is fine; anything else is reported
	// after the remaining sources are applied so callers can still run on
	// defaults when they choose to.
	readErr := v.ReadInConfig()
	if readErr != nil {
		if _, ok := readErr.(viper.ConfigFileNotFoundError); !ok {
			return c, readErr
		}
	}

	// 4. Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return c, err
		}
	}

	// 5. Flags
	if cmd != nil {
		for key, flag := range bindings {
			if f := cmd.Flags().Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return c, err
				}
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, readErr
}

// WriteConfigFile writes c as YAML to the user (or system) config path.
// Fields tagged `yaml:"-"` (the password) are never written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// Validate checks values that cannot be expressed as simple defaults.
func (c Config) Validate() error {
	if c.Display.Tick <= 0 || c.Display.Tick >= time.Second {
		return fmt.Errorf("display.tick must be between 0 and 1s, got %s", c.Display.Tick)
	}
	return nil
}
