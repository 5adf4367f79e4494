// Package config loads service settings from a TOML file, a .env file and
// the process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/TWRT/savvystudy/internal/planner"
)

const (
	BackendSQLite   = "sqlite"
	BackendFirebase = "firebase"

	DefaultConfigPath = "savvystudy.toml"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Store     StoreConfig     `toml:"store"`
	Firebase  FirebaseConfig  `toml:"firebase"`
	Auth      AuthConfig      `toml:"auth"`
	Reminders RemindersConfig `toml:"reminders"`
	Log       LogConfig       `toml:"log"`
	Plan      PlanConfig      `toml:"plan"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type StoreConfig struct {
	Backend    string `toml:"backend"`
	SQLitePath string `toml:"sqlite_path"`
}

type FirebaseConfig struct {
	APIKey      string `toml:"api_key"`
	DatabaseURL string `toml:"database_url"`
	AuthURL     string `toml:"auth_url"`
}

type AuthConfig struct {
	JWTSecret  string        `toml:"jwt_secret"`
	SessionTTL time.Duration `toml:"session_ttl"`
}

type RemindersConfig struct {
	PollInterval time.Duration `toml:"poll_interval"`
	InboxSize    int           `toml:"inbox_size"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type PlanConfig struct {
	DurationHours int `toml:"duration_hours"`
	BreakMinutes  int `toml:"break_interval_minutes"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Store: StoreConfig{
			Backend:    BackendSQLite,
			SQLitePath: "./savvystudy.db",
		},
		Auth: AuthConfig{SessionTTL: 24 * time.Hour},
		Reminders: RemindersConfig{
			PollInterval: 30 * time.Second,
			InboxSize:    50,
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Plan: PlanConfig{
			DurationHours: planner.DefaultDurationHours,
			BreakMinutes:  planner.DefaultBreakMinutes,
		},
	}
}

// Load builds the configuration. envFile and configPath may point at files
// that do not exist; only unreadable or invalid files are errors.
func Load(configPath, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if v := os.Getenv("SAVVY_CONFIG"); v != "" {
		configPath = v
	}

	cfg := Default()
	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("decode %s: %w", configPath, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("SAVVY_ADDR", &cfg.Server.Addr)
	setString("STORE_BACKEND", &cfg.Store.Backend)
	setString("SQLITE_PATH", &cfg.Store.SQLitePath)
	setString("FIREBASE_API_KEY", &cfg.Firebase.APIKey)
	setString("FIREBASE_DATABASE_URL", &cfg.Firebase.DatabaseURL)
	setString("FIREBASE_AUTH_URL", &cfg.Firebase.AuthURL)
	setString("JWT_SECRET", &cfg.Auth.JWTSecret)
	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("LOG_FORMAT", &cfg.Log.Format)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SESSION_TTL", &cfg.Auth.SessionTTL},
		{"REMINDER_POLL_INTERVAL", &cfg.Reminders.PollInterval},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v := os.Getenv("REMINDER_INBOX_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse REMINDER_INBOX_SIZE: %w", err)
		}
		cfg.Reminders.InboxSize = n
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret (JWT_SECRET) is required"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("auth.session_ttl must be positive"))
	}
	if c.Reminders.PollInterval <= 0 {
		errs = append(errs, errors.New("reminders.poll_interval must be positive"))
	}
	if c.Reminders.InboxSize <= 0 {
		errs = append(errs, errors.New("reminders.inbox_size must be positive"))
	}

	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for the sqlite backend"))
		}
	case BackendFirebase:
		if c.Firebase.APIKey == "" || c.Firebase.DatabaseURL == "" {
			errs = append(errs, errors.New("firebase.api_key and firebase.database_url are required for the firebase backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}

	if err := planner.ValidatePlan(c.Plan.DurationHours, c.Plan.BreakMinutes); err != nil {
		errs = append(errs, fmt.Errorf("plan: %w", err))
	}
	return errors.Join(errs...)
}
