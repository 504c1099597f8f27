// Package config provides Viper-based configuration loading for the wheel.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Spin duration bounds in seconds.
const (
	MinSpinSeconds  = 1.0
	MaxSpinSeconds  = 10.0
	SpinSecondsStep = 0.5
)

// WheelConfig holds wheel content and spin settings.
type WheelConfig struct {
	// DefaultEntries are used when nothing is persisted and on reset.
	DefaultEntries []string `mapstructure:"default_entries"`
	// StorageKey is the key under which the entry list is persisted.
	StorageKey string `mapstructure:"storage_key"`
	// FullRotations is the number of whole turns added to every spin.
	FullRotations int `mapstructure:"full_rotations"`
	// SpinSeconds is the initial spin duration in seconds.
	SpinSeconds float64 `mapstructure:"spin_seconds"`
	// Randomness names the random source: "math" or "crypto".
	Randomness string `mapstructure:"randomness"`
}

// AdminConfig holds the hidden admin gate settings.
type AdminConfig struct {
	// Password is the plaintext shared secret. Ignored when PasswordHash is set.
	Password string `mapstructure:"password"`
	// PasswordHash is a bcrypt hash of the shared secret.
	PasswordHash string `mapstructure:"password_hash"`
	// UnlockChord is the key chord that opens the admin dialog, e.g. "ctrl+a".
	UnlockChord string `mapstructure:"unlock_chord"`
	// TapCount is the number of rapid title activations that open the admin dialog.
	TapCount int `mapstructure:"tap_count"`
	// TapWindow is how long the tap counter survives without a new activation.
	TapWindow time.Duration `mapstructure:"tap_window"`
}

// StorageConfig selects where the entry list is persisted.
type StorageConfig struct {
	// Backend is "file" or "postgres".
	Backend string `mapstructure:"backend"`
	// Path is the YAML file used by the file backend.
	Path string `mapstructure:"path"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is the log destination path. The terminal belongs to the UI,
	// so this is normally a file; "stderr" is accepted for headless use.
	Output string `mapstructure:"output"`
}

// AudioConfig controls the optional spin sound cues.
type AudioConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	SampleRate int  `mapstructure:"sample_rate"`
}

// UIConfig holds terminal shell settings.
type UIConfig struct {
	// FrameInterval is the redraw period while the wheel is spinning.
	FrameInterval time.Duration `mapstructure:"frame_interval"`
}

// Config is the top-level application configuration.
type Config struct {
	Wheel    WheelConfig    `mapstructure:"wheel"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Audio    AudioConfig    `mapstructure:"audio"`
	UI       UIConfig       `mapstructure:"ui"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateWheel(c.Wheel); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateAdmin(c.Admin); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Backend == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateAudio(c.Audio); err != nil {
		errs = append(errs, err.Error())
	}
	if c.UI.FrameInterval <= 0 {
		errs = append(errs, "ui.frame_interval must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWheel(w WheelConfig) error {
	var errs []string
	if len(w.DefaultEntries) == 0 {
		errs = append(errs, "wheel.default_entries must contain at least one entry")
	}
	for i, e := range w.DefaultEntries {
		if strings.TrimSpace(e) == "" {
			errs = append(errs, fmt.Sprintf("wheel.default_entries[%d] must not be blank", i))
		}
	}
	if w.Randomness != "math" && w.Randomness != "crypto" {
		errs = append(errs, fmt.Sprintf("wheel.randomness must be one of [math, crypto], got %q", w.Randomness))
	}
	if w.StorageKey == "" {
		errs = append(errs, "wheel.storage_key must not be empty")
	}
	if w.FullRotations < 3 {
		errs = append(errs, fmt.Sprintf("wheel.full_rotations must be >= 3, got %d", w.FullRotations))
	}
	if w.SpinSeconds < MinSpinSeconds || w.SpinSeconds > MaxSpinSeconds {
		errs = append(errs, fmt.Sprintf("wheel.spin_seconds must be %g-%g, got %g", MinSpinSeconds, MaxSpinSeconds, w.SpinSeconds))
	} else if math.Mod(w.SpinSeconds, SpinSecondsStep) != 0 {
		errs = append(errs, fmt.Sprintf("wheel.spin_seconds must be a multiple of %g, got %g", SpinSecondsStep, w.SpinSeconds))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateAdmin(a AdminConfig) error {
	var errs []string
	if a.Password == "" && a.PasswordHash == "" {
		errs = append(errs, "admin.password or admin.password_hash must be set")
	}
	if a.PasswordHash != "" && !strings.HasPrefix(a.PasswordHash, "$2") {
		errs = append(errs, "admin.password_hash must be a bcrypt hash")
	}
	if a.UnlockChord == "" {
		errs = append(errs, "admin.unlock_chord must not be empty")
	}
	if a.TapCount < 2 {
		errs = append(errs, fmt.Sprintf("admin.tap_count must be >= 2, got %d", a.TapCount))
	}
	if a.TapWindow <= 0 {
		errs = append(errs, "admin.tap_window must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	switch s.Backend {
	case "file":
		if s.Path == "" {
			return errors.New("storage.path must not be empty for the file backend")
		}
	case "postgres":
	default:
		return fmt.Errorf("storage.backend must be one of [file, postgres], got %q", s.Backend)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateAudio(a AudioConfig) error {
	if a.Enabled && a.SampleRate < 8000 {
		return fmt.Errorf("audio.sample_rate must be >= 8000 when audio is enabled, got %d", a.SampleRate)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with WHEEL_ prefix
	v.SetEnvPrefix("WHEEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance populated only with default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("wheel.default_entries", []string{"Prize 1", "Prize 2", "Prize 3"})
	v.SetDefault("wheel.storage_key", "rouletteEntries")
	v.SetDefault("wheel.full_rotations", 3)
	v.SetDefault("wheel.spin_seconds", 1.0)
	v.SetDefault("wheel.randomness", "math")

	v.SetDefault("admin.password", "admin123")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.unlock_chord", "ctrl+a")
	v.SetDefault("admin.tap_count", 5)
	v.SetDefault("admin.tap_window", "2s")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "wheel.yaml")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "wheel")
	v.SetDefault("database.password", "wheel")
	v.SetDefault("database.name", "wheel")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "wheel.log")

	v.SetDefault("audio.enabled", false)
	v.SetDefault("audio.sample_rate", 44100)

	v.SetDefault("ui.frame_interval", "16ms")
}
