// Package config loads scheduler configuration from environment
// variables (and an optional .env file) using viper's
// SetDefault/AutomaticEnv convention.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/pyrex41/o-email-schedule/internal/service/scheduling"
)

const Version = "1.0"

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Config is the scheduler's top-level configuration.
type Config struct {
	Database    DatabaseConfig
	Scheduling  *scheduling.Config
	LogLevel    string
	Environment string
	Version     string
}

// LoadOptions is an optional env file to read on top of process
// environment variables.
type LoadOptions struct {
	EnvFile string
}

// Load reads configuration with the default ".env" overlay.
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads configuration from defaults, an optional env
// file, and process environment variables (env wins), all under the
// SCHEDULER_ prefix.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "schedule_engine")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")

	def := scheduling.DefaultConfig()
	v.SetDefault("SEND_TIME", def.SendTime)
	v.SetDefault("BATCH_SIZE", def.BatchSize)
	v.SetDefault("MAX_EMAILS_PER_PERIOD", def.MaxEmailsPerPeriod)
	v.SetDefault("PERIOD_DAYS", def.PeriodDays)
	v.SetDefault("BIRTHDAY_EMAIL_DAYS_BEFORE", def.BirthdayEmailDaysBefore)
	v.SetDefault("EFFECTIVE_DATE_EMAIL_DAYS_BEFORE", def.EffectiveDateEmailDaysBefore)
	v.SetDefault("PRE_WINDOW_EXCLUSION_DAYS", def.PreWindowExclusionDays)
	v.SetDefault("AEP_MONTH", def.AEPMonth)
	v.SetDefault("AEP_DAY", def.AEPDay)
	v.SetDefault("DAILY_SEND_PERCENTAGE_CAP", def.DailySendPercentageCap)
	v.SetDefault("ED_DAILY_SOFT_LIMIT", def.EDDailySoftLimit)
	v.SetDefault("ED_SMOOTHING_WINDOW_DAYS", def.EDSmoothingWindowDays)
	v.SetDefault("OVERAGE_THRESHOLD", def.OverageThreshold)
	v.SetDefault("FOLLOWUP_DAYS_AFTER", def.FollowupDaysAfter)
	v.SetDefault("FOLLOWUP_LOOKBACK_DAYS", def.FollowupLookbackDays)
	v.SetDefault("LEGACY_FOLLOWUP_EXCLUSION", def.LegacyFollowupExclusion)

	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}
		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("SCHEDULER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Scheduling: &scheduling.Config{
			SendTime:                     v.GetString("SEND_TIME"),
			BatchSize:                    v.GetInt("BATCH_SIZE"),
			MaxEmailsPerPeriod:           v.GetInt("MAX_EMAILS_PER_PERIOD"),
			PeriodDays:                   v.GetInt("PERIOD_DAYS"),
			BirthdayEmailDaysBefore:      v.GetInt("BIRTHDAY_EMAIL_DAYS_BEFORE"),
			EffectiveDateEmailDaysBefore: v.GetInt("EFFECTIVE_DATE_EMAIL_DAYS_BEFORE"),
			PreWindowExclusionDays:       v.GetInt("PRE_WINDOW_EXCLUSION_DAYS"),
			AEPMonth:                     v.GetInt("AEP_MONTH"),
			AEPDay:                       v.GetInt("AEP_DAY"),
			DailySendPercentageCap:       v.GetFloat64("DAILY_SEND_PERCENTAGE_CAP"),
			EDDailySoftLimit:             v.GetInt("ED_DAILY_SOFT_LIMIT"),
			EDSmoothingWindowDays:        v.GetInt("ED_SMOOTHING_WINDOW_DAYS"),
			OverageThreshold:             v.GetFloat64("OVERAGE_THRESHOLD"),
			FollowupDaysAfter:            v.GetInt("FOLLOWUP_DAYS_AFTER"),
			FollowupLookbackDays:         v.GetInt("FOLLOWUP_LOOKBACK_DAYS"),
			LegacyFollowupExclusion:      v.GetBool("LEGACY_FOLLOWUP_EXCLUSION"),
		},
		LogLevel:    v.GetString("LOG_LEVEL"),
		Environment: v.GetString("ENVIRONMENT"),
		Version:     Version,
	}

	return cfg, nil
}

// IsDevelopment reports whether the configured environment is "development".
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}
	if c.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.DBName, sslMode)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}
