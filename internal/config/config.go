package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "daily.db"
	DefaultDiskDir        = "store"
	DefaultLogName        = "daily.log"

	appDirName = "daily"
)

const (
	StoreSQLite = "sqlite"
	StoreDisk   = "disk"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Edit           string `toml:"edit"`
	NextView       string `toml:"next_view"`
	PrevView       string `toml:"prev_view"`
	StatusFilter   string `toml:"status_filter"`
	CategoryFilter string `toml:"category_filter"`
	PeriodForward  string `toml:"period_forward"`
	PeriodBack     string `toml:"period_back"`
	Today          string `toml:"today"`
	SignOut        string `toml:"sign_out"`
}

type Auth struct {
	URL     string `toml:"url"`
	AnonKey string `toml:"anon_key"`
	Timeout string `toml:"timeout"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	Store           string `toml:"store"`
	DiskPath        string `toml:"disk_path"`
	DefaultFilter   string `toml:"default_filter"`
	DefaultCategory string `toml:"default_category"`
	DefaultView     string `toml:"default_view"`
	UrgencyDays     int    `toml:"urgency_days"`
	WeekStart       string `toml:"week_start"`
	LogPath         string `toml:"log_path"`
	Auth            Auth   `toml:"auth"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath picks the config file location: DAILY_CONFIG if set,
// otherwise ~/.config/daily/config.toml.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv("DAILY_CONFIG")); p != "" {
		return expand(p)
	}
	home, err := homedir.Dir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, ".config", appDirName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		applyEnv(&cfg)
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	if cfg.Store == "" {
		cfg.Store = StoreSQLite
	}
	if cfg.UrgencyDays < 0 {
		cfg.UrgencyDays = 0
	}
	cfg.DBPath = expand(cfg.DBPath)
	cfg.DiskPath = expand(cfg.DiskPath)
	cfg.LogPath = expand(cfg.LogPath)
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreDisk:
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreSQLite, StoreDisk)
	}
	switch strings.ToLower(c.DefaultFilter) {
	case "all", "active", "completed":
	default:
		return fmt.Errorf("unknown default_filter %q", c.DefaultFilter)
	}
	switch strings.ToLower(c.DefaultView) {
	case "list", "matrix", "timetable", "week", "month":
	default:
		return fmt.Errorf("unknown default_view %q", c.DefaultView)
	}
	switch strings.ToLower(c.WeekStart) {
	case "monday", "sunday":
	default:
		return fmt.Errorf("unknown week_start %q", c.WeekStart)
	}
	if _, err := c.AuthTimeout(); err != nil {
		return fmt.Errorf("auth timeout: %w", err)
	}
	return nil
}

// AuthTimeout is the per-request timeout for the auth service.
func (c Config) AuthTimeout() (time.Duration, error) {
	if strings.TrimSpace(c.Auth.Timeout) == "" {
		return 10 * time.Second, nil
	}
	return time.ParseDuration(c.Auth.Timeout)
}

func (c Config) FirstWeekday() time.Weekday {
	if strings.EqualFold(c.WeekStart, "sunday") {
		return time.Sunday
	}
	return time.Monday
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SUPABASE_URL")); v != "" {
		cfg.Auth.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("SUPABASE_ANON_KEY")); v != "" {
		cfg.Auth.AnonKey = v
	}
	if v := strings.TrimSpace(os.Getenv("DAILY_DB_PATH")); v != "" {
		cfg.DBPath = expand(v)
	}
}

func expand(p string) string {
	if p == "" {
		return p
	}
	out, err := homedir.Expand(p)
	if err != nil {
		return p
	}
	return out
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:          filepath.Join(dir, DefaultDBName),
		Store:           StoreSQLite,
		DiskPath:        filepath.Join(dir, DefaultDiskDir),
		DefaultFilter:   "all",
		DefaultCategory: "all",
		DefaultView:     "list",
		UrgencyDays:     1,
		WeekStart:       "monday",
		LogPath:         filepath.Join(dir, DefaultLogName),
		Auth: Auth{
			Timeout: "10s",
		},
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Confirm:        "enter",
			Cancel:         "esc",
			Edit:           "e",
			NextView:       "v",
			PrevView:       "V",
			StatusFilter:   "f",
			CategoryFilter: "c",
			PeriodForward:  "]",
			PeriodBack:     "[",
			Today:          "t",
			SignOut:        "O",
		},
	}
}
