package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/bezmoradi/whichkey/internal/keys"
)

const (
	configFileName = "config.toml"
	configDirName  = "whichkey"
	logFileName    = "whichkey.log"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "WHICHKEY_CONFIG"
	// EnvLogLevel overrides log_level from the config file.
	EnvLogLevel = "WHICHKEY_LOG_LEVEL"
)

var (
	ErrConfigExists     = errors.New("configuration already exists")
	ErrNoLeaderKey      = errors.New("leader_key is not set")
	ErrInvalidLeaderKey = errors.New("leader_key must be one of command, shift, option, control")
	ErrEmptyKeys        = errors.New("mapping has empty keys")
)

// Kind selects how a mapping's command is run.
type Kind string

const (
	KindApplication Kind = "Application"
	KindCommand     Kind = "Command"
)

// Config is the user's leader key and mapping groups.
type Config struct {
	LeaderKey string         `koanf:"leader_key"`
	LogLevel  string         `koanf:"log_level"`
	LogFile   string         `koanf:"log_file"`
	Feedback  FeedbackConfig `koanf:"feedback"`
	Groups    []Group        `koanf:"groups"`
}

// FeedbackConfig toggles the beep on a recognized sequence and the desktop
// notification on a failed launch.
type FeedbackConfig struct {
	Beep   *bool `koanf:"beep"`   // default: true
	Notify *bool `koanf:"notify"` // default: true
}

// Group is a named, ordered list of mappings. Groups only organize the file;
// lookup walks groups and mappings in order.
type Group struct {
	Name     string    `koanf:"name"`
	Mappings []Mapping `koanf:"mappings"`
}

// Mapping binds a key-sequence string to an action.
type Mapping struct {
	Keys    string `koanf:"keys"`
	Kind    Kind   `koanf:"kind"`
	Command string `koanf:"command"`
}

// getConfigDir returns the user's config directory for whichkey
func getConfigDir() string {
	return filepath.Join(xdg.ConfigHome, configDirName)
}

// ResolvePath picks the config file location. An explicit path wins, then
// WHICHKEY_CONFIG from the environment, then from a .env file, then the XDG
// config directory, then ~/.config/whichkey.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return expandPath(explicit)
	}

	if p := os.Getenv(EnvConfigPath); p != "" {
		return expandPath(p)
	}

	// .env does not override variables already set in the environment
	if err := godotenv.Load(); err == nil {
		if p := os.Getenv(EnvConfigPath); p != "" {
			return expandPath(p)
		}
	}

	xdgPath := filepath.Join(getConfigDir(), configFileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}

	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", configDirName, configFileName)
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return xdgPath
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.LogFile = filepath.Join(home, logFileName)
		}
	} else {
		cfg.LogFile = expandPath(cfg.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the parts of the config the recognizer cannot work without.
func (c *Config) Validate() error {
	if c.LeaderKey == "" {
		return ErrNoLeaderKey
	}
	if !keys.IsLeaderCapable(c.LeaderKey) {
		return fmt.Errorf("%w (got %q)", ErrInvalidLeaderKey, c.LeaderKey)
	}
	for _, g := range c.Groups {
		for i, m := range g.Mappings {
			if m.Keys == "" {
				return fmt.Errorf("group %q mapping %d: %w", g.Name, i+1, ErrEmptyKeys)
			}
		}
	}
	return nil
}

// Warnings lists problems that do not stop the daemon but make some mappings
// useless: unknown kinds, duplicate keys and keys no typed sequence can produce.
func (c *Config) Warnings() []string {
	var warnings []string
	seen := make(map[string]string)

	for _, g := range c.Groups {
		for _, m := range g.Mappings {
			if m.Kind != KindApplication && m.Kind != KindCommand {
				warnings = append(warnings, fmt.Sprintf("group %q: mapping %q has unknown kind %q and will do nothing", g.Name, m.Keys, m.Kind))
			}
			if first, dup := seen[m.Keys]; dup {
				warnings = append(warnings, fmt.Sprintf("group %q: mapping %q is shadowed by the same keys in group %q", g.Name, m.Keys, first))
			} else {
				seen[m.Keys] = g.Name
			}
			if _, ok := keys.Split(m.Keys); !ok {
				warnings = append(warnings, fmt.Sprintf("group %q: mapping %q is not made of key symbols and can never match", g.Name, m.Keys))
			}
		}
	}

	return warnings
}

// MappingCount returns the number of mappings across all groups.
func (c *Config) MappingCount() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Mappings)
	}
	return n
}

// BeepEnabled reports whether a recognized sequence should beep.
func (c *Config) BeepEnabled() bool {
	return c.Feedback.Beep == nil || *c.Feedback.Beep
}

// NotifyEnabled reports whether a failed launch should raise a notification.
func (c *Config) NotifyEnabled() bool {
	return c.Feedback.Notify == nil || *c.Feedback.Notify
}

// GetStatsDir returns the statistics directory path
func GetStatsDir() string {
	return filepath.Join(xdg.DataHome, configDirName, "stats")
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
