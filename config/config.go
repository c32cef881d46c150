package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v2"
)

// Settings is the runtime configuration. Secrets and endpoints come from the
// environment; tunables may also be set in the YAML file named by CONFIG_FILE.
type Settings struct {
	MongoURI  string `yaml:"-"`
	Database  string `yaml:"database"`
	RedisAddr string `yaml:"-"`
	RedisPass string `yaml:"-"`
	JWTKey    string `yaml:"-"`
	Port      string `yaml:"port"`
	DevMode   bool   `yaml:"devMode"`

	TokenTTL         time.Duration `yaml:"tokenTTL"`
	CacheTTL         time.Duration `yaml:"cacheTTL"`
	LoginRateLimit   int64         `yaml:"loginRateLimit"`
	LoginRateWindow  time.Duration `yaml:"loginRateWindow"`
	DefaultPageSize  int           `yaml:"defaultPageSize"`
	MaxPageSize      int           `yaml:"maxPageSize"`
	ExcludedStatuses []string      `yaml:"excludedStatuses"`
	PrivilegedUserID string        `yaml:"privilegedUserId"`
	Timezone         string        `yaml:"timezone"`

	DemoContactLimit            int `yaml:"demoContactLimit"`
	PremiumContactLimit         int `yaml:"premiumContactLimit"`
	DailyContactLimit           int `yaml:"dailyContactLimit"`
	PrivilegedDailyContactLimit int `yaml:"privilegedDailyContactLimit"`
	WrongPassLimit              int `yaml:"wrongPassLimit"`

	Schedule Schedule `yaml:"schedule"`
}

// Schedule holds the wall-clock hour each maintenance sweep runs at.
type Schedule struct {
	Enabled            bool `yaml:"enabled"`
	ExpireDemoHour     int  `yaml:"expireDemoHour"`
	ExpirePaidHour     int  `yaml:"expirePaidHour"`
	ResetContactHour   int  `yaml:"resetContactHour"`
	ResetWrongPassHour int  `yaml:"resetWrongPassHour"`
}

func Defaults() Settings {
	return Settings{
		Database:         "citynect",
		Port:             "8080",
		TokenTTL:         24 * time.Hour,
		CacheTTL:         2 * time.Minute,
		LoginRateLimit:   10,
		LoginRateWindow:  time.Minute,
		DefaultPageSize:  10,
		MaxPageSize:      25,
		ExcludedStatuses: []string{"Sell out", "Rent out", "Broker", "Duplicate", "Data Mismatch"},
		PrivilegedUserID: "67128ea2d6da233a1af20f30",
		Timezone:         "Asia/Kolkata",

		DemoContactLimit:            50,
		PremiumContactLimit:         50,
		DailyContactLimit:           100,
		PrivilegedDailyContactLimit: 25,
		WrongPassLimit:              10,

		Schedule: Schedule{
			Enabled:            true,
			ExpireDemoHour:     22,
			ExpirePaidHour:     23,
			ResetContactHour:   21,
			ResetWrongPassHour: 0,
		},
	}
}

// Load builds Settings from defaults, the optional YAML file and the environment,
// in that order of precedence (environment wins).
func Load() (Settings, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.MongoURI = os.Getenv("MONGOURI")
	cfg.RedisAddr = os.Getenv("REDIS_ADD")
	cfg.RedisPass = os.Getenv("REDIS_PASS")
	cfg.JWTKey = os.Getenv("JWT_KEY")
	if db := os.Getenv("DB"); db != "" {
		cfg.Database = db
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if dev := os.Getenv("DEV_MODE"); dev != "" {
		v, err := strconv.ParseBool(dev)
		if err != nil {
			return cfg, fmt.Errorf("invalid DEV_MODE %q: %w", dev, err)
		}
		cfg.DevMode = v
	}

	return cfg, cfg.validate()
}

func (s Settings) validate() error {
	if s.MaxPageSize <= 0 {
		return fmt.Errorf("maxPageSize must be positive")
	}
	if s.DefaultPageSize <= 0 || s.DefaultPageSize > s.MaxPageSize {
		return fmt.Errorf("defaultPageSize must be in 1..%d", s.MaxPageSize)
	}
	for _, h := range []int{s.Schedule.ExpireDemoHour, s.Schedule.ExpirePaidHour, s.Schedule.ResetContactHour, s.Schedule.ResetWrongPassHour} {
		if h < 0 || h > 23 {
			return fmt.Errorf("schedule hour %d out of range", h)
		}
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone, falling back to UTC.
func (s Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RequireServer checks the values only the HTTP server needs.
func (s Settings) RequireServer() error {
	if s.JWTKey == "" {
		return fmt.Errorf("JWT_KEY not set in environment")
	}
	return nil
}
