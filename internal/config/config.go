package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid wraps every validation failure returned by Load.
var ErrInvalid = errors.New("invalid config")

const (
	ProviderMemory = "memory"
	ProviderSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Database DatabaseConfig `mapstructure:"database"`
	UI       UIConfig       `mapstructure:"ui"`
	Log      LogConfig      `mapstructure:"log"`
}

// ProviderConfig selects the messaging backend.
type ProviderConfig struct {
	Kind         string `mapstructure:"kind"`
	HistoryLimit int    `mapstructure:"history_limit"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path     string `mapstructure:"path"`
	SeedDemo bool   `mapstructure:"seed_demo"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	TickRate      time.Duration `mapstructure:"tick_rate"`
	ContactsWidth int           `mapstructure:"contacts_width"`
	PopupWidth    int           `mapstructure:"popup_width"`
	PopupHeight   int           `mapstructure:"popup_height"`
}

// LogConfig holds logger settings. An empty Path disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("provider.kind", ProviderMemory)
	v.SetDefault("provider.history_limit", 100)
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "chatty", "chatty.db"))
	v.SetDefault("database.seed_demo", true)
	v.SetDefault("ui.tick_rate", 250*time.Millisecond)
	v.SetDefault("ui.contacts_width", 20)
	v.SetDefault("ui.popup_width", 60)
	v.SetDefault("ui.popup_height", 20)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "chatty", "chatty.log"))
	v.SetDefault("log.level", "info")
}

// DefaultPath is where the config file lives when neither --config nor
// CHATTY_CONFIG says otherwise.
func DefaultPath() string {
	if p := os.Getenv("CHATTY_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "chatty", "config.toml")
}

// Load reads configuration from file and env into v. Env var overrides use
// prefix CHATTY_. path may be empty. A missing config file is not an error.
// v may already carry bound command line flags, which take precedence.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("CHATTY_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "chatty"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CHATTY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Provider.Kind {
	case ProviderMemory, ProviderSQLite:
	default:
		return fmt.Errorf("%w: provider.kind %q (want %s or %s)", ErrInvalid, c.Provider.Kind, ProviderMemory, ProviderSQLite)
	}
	if c.Provider.Kind == ProviderSQLite && c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required for the sqlite provider", ErrInvalid)
	}
	if c.Provider.HistoryLimit <= 0 {
		return fmt.Errorf("%w: provider.history_limit must be positive", ErrInvalid)
	}
	if c.UI.TickRate <= 0 {
		return fmt.Errorf("%w: ui.tick_rate must be positive", ErrInvalid)
	}
	if c.UI.ContactsWidth <= 0 || c.UI.PopupWidth <= 0 || c.UI.PopupHeight <= 0 {
		return fmt.Errorf("%w: ui sizes must be positive", ErrInvalid)
	}
	if c.UI.ContactsWidth >= 100 {
		return fmt.Errorf("%w: ui.contacts_width must be below 100", ErrInvalid)
	}
	return nil
}

// Save writes cfg to path as toml, creating the directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("provider.kind", cfg.Provider.Kind)
	v.Set("provider.history_limit", cfg.Provider.HistoryLimit)
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.seed_demo", cfg.Database.SeedDemo)
	v.Set("ui.tick_rate", cfg.UI.TickRate.String())
	v.Set("ui.contacts_width", cfg.UI.ContactsWidth)
	v.Set("ui.popup_width", cfg.UI.PopupWidth)
	v.Set("ui.popup_height", cfg.UI.PopupHeight)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
