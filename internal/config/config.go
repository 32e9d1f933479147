package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/username/bonus-hours/internal/schedule"
)

// Config represents application configuration
type Config struct {
	Schedule    ScheduleConfig    `mapstructure:"schedule"`
	Server      ServerConfig      `mapstructure:"server"`
	Store       StoreConfig       `mapstructure:"store"`
	Daemon      DaemonConfig      `mapstructure:"daemon"`
	Conformance ConformanceConfig `mapstructure:"conformance"`
}

// ScheduleConfig represents the bonus windows per weekday class
type ScheduleConfig struct {
	Weekday  WindowConfig `mapstructure:"weekday"`
	Saturday WindowConfig `mapstructure:"saturday"`
}

// WindowConfig represents one eligible window
type WindowConfig struct {
	Start string  `mapstructure:"start"` // HH:MM or HH:MM:SS
	End   string  `mapstructure:"end"`
	Hours float64 `mapstructure:"hours"`
}

// ServerConfig represents HTTP API configuration
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ReadTimeout    string   `mapstructure:"read_timeout"`
	WriteTimeout   string   `mapstructure:"write_timeout"`
}

// StoreConfig represents time-entry storage configuration
type StoreConfig struct {
	Path string `mapstructure:"path"` // SQLite file, ":memory:" for tests
}

// DaemonConfig represents watcher mode configuration
type DaemonConfig struct {
	CheckInterval string `mapstructure:"check_interval"`
	LogFile       string `mapstructure:"log_file"`
	LogLevel      string `mapstructure:"log_level"`
	SystemTray    bool   `mapstructure:"system_tray"` // Show system tray icon (Windows only)
}

// ConformanceConfig represents golden vector generation settings
type ConformanceConfig struct {
	FromYear      int    `mapstructure:"from_year"`
	ToYear        int    `mapstructure:"to_year"`
	SamplesPerDay int    `mapstructure:"samples_per_day"`
	DaysPerYear   int    `mapstructure:"days_per_year"`
	Seed          int64  `mapstructure:"seed"`
	VectorsFile   string `mapstructure:"vectors_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schedule.weekday.start", "07:00:00")
	v.SetDefault("schedule.weekday.end", "16:00:00")
	v.SetDefault("schedule.weekday.hours", 8)
	v.SetDefault("schedule.saturday.start", "08:00:00")
	v.SetDefault("schedule.saturday.end", "12:00:00")
	v.SetDefault("schedule.saturday.hours", 4)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")

	v.SetDefault("store.path", "bonus-hours.db")

	v.SetDefault("daemon.check_interval", "1m")
	v.SetDefault("daemon.log_level", "info")

	v.SetDefault("conformance.from_year", 2000)
	v.SetDefault("conformance.to_year", 2050)
	v.SetDefault("conformance.samples_per_day", 4)
	v.SetDefault("conformance.seed", 20240329)
	v.SetDefault("conformance.vectors_file", "testdata/vectors.csv")
}

// Load loads configuration from file.
// Without an explicit path a missing config file is not an error: defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.bonus-hours")
		v.AddConfigPath("/etc/bonus-hours")
	}

	// Read environment variables
	v.SetEnvPrefix("BONUS_HOURS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := c.Schedule.Table(); err != nil {
		return err
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}

	if c.Conformance.FromYear > c.Conformance.ToYear {
		return fmt.Errorf("conformance.from_year must not be after conformance.to_year")
	}
	if c.Conformance.SamplesPerDay < 0 {
		return fmt.Errorf("conformance.samples_per_day must not be negative")
	}
	if c.Conformance.DaysPerYear < 0 {
		return fmt.Errorf("conformance.days_per_year must not be negative")
	}

	return nil
}

// Table builds the schedule table from the configured windows
func (c *ScheduleConfig) Table() (schedule.Table, error) {
	weekday, err := c.Weekday.window()
	if err != nil {
		return schedule.Table{}, fmt.Errorf("schedule.weekday: %w", err)
	}
	saturday, err := c.Saturday.window()
	if err != nil {
		return schedule.Table{}, fmt.Errorf("schedule.saturday: %w", err)
	}
	return schedule.NewTable(weekday, saturday)
}

func (w WindowConfig) window() (schedule.Window, error) {
	start, err := schedule.ParseWallClock(w.Start)
	if err != nil {
		return schedule.Window{}, err
	}
	end, err := schedule.ParseWallClock(w.End)
	if err != nil {
		return schedule.Window{}, err
	}
	return schedule.Window{Start: start, End: end, Hours: decimal.NewFromFloat(w.Hours)}, nil
}

// GetReadTimeout returns the HTTP read timeout
func (c *ServerConfig) GetReadTimeout() time.Duration {
	return parseDuration(c.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the HTTP write timeout
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	return parseDuration(c.WriteTimeout, 15*time.Second)
}

// GetCheckInterval returns the watcher check interval
func (c *DaemonConfig) GetCheckInterval() time.Duration {
	return parseDuration(c.CheckInterval, time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	duration, err := time.ParseDuration(s)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}
