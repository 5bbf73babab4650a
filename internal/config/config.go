package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/username/holiday-planner/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Server   ServerConfig   `mapstructure:"server"`
	Daemon   DaemonConfig   `mapstructure:"daemon"`
}

// SourceConfig selects and parameterizes the holiday source
type SourceConfig struct {
	Type             string              `mapstructure:"type"` // "remote" or "static"
	APIURL           string              `mapstructure:"api_url"`
	Country          string              `mapstructure:"country"`
	BlockedCountries []string            `mapstructure:"blocked_countries"`
	WorkHolidays     []WorkHolidayConfig `mapstructure:"work_holidays"`
}

// WorkHolidayConfig is one organization-specific workday holiday
type WorkHolidayConfig struct {
	Date string `mapstructure:"date"` // yyyy-MM-dd
	Name string `mapstructure:"name"`
}

// CalendarConfig represents calendar rendering configuration
type CalendarConfig struct {
	WeekStart string `mapstructure:"week_start"` // "sunday" (default) or "monday"
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DaemonConfig represents daemon mode configuration
type DaemonConfig struct {
	LogFile    string `mapstructure:"log_file"`
	LogLevel   string `mapstructure:"log_level"`
	SystemTray bool   `mapstructure:"system_tray"` // Show system tray icon (Windows only)
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.holiday-planner")
		v.AddConfigPath("/etc/holiday-planner")
	}

	v.SetDefault("source.type", "remote")
	v.SetDefault("source.country", "US")
	v.SetDefault("calendar.week_start", "sunday")
	v.SetDefault("server.port", 8080)

	// Read environment variables
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Source.Type {
	case "remote":
		if c.Source.Country == "" {
			return fmt.Errorf("source.country is required for remote type")
		}
	case "static":
		// No required fields; API URL and country are ignored
	default:
		return fmt.Errorf("source.type must be 'remote' or 'static', got '%s'", c.Source.Type)
	}

	for _, wh := range c.Source.WorkHolidays {
		if _, err := dateutil.ParseDate(wh.Date); err != nil {
			return fmt.Errorf("source.work_holidays: %w", err)
		}
		if strings.TrimSpace(wh.Name) == "" {
			return fmt.Errorf("source.work_holidays: name is required for %s", wh.Date)
		}
	}

	switch strings.ToLower(c.Calendar.WeekStart) {
	case "", "sunday", "monday":
	default:
		return fmt.Errorf("calendar.week_start must be 'sunday' or 'monday', got '%s'", c.Calendar.WeekStart)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	return nil
}

// GetWeekStart returns the configured first day of the display week
func (c *CalendarConfig) GetWeekStart() time.Weekday {
	if strings.EqualFold(c.WeekStart, "monday") {
		return time.Monday
	}
	return time.Sunday
}
