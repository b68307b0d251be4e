package config

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/loanbuddy/loan-tracker/internal/domain"
	"github.com/loanbuddy/loan-tracker/pkg/utils"
)

// Config holds all configuration for our application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type DatabaseConfig struct {
	// URL is optional: when empty the server keeps the portfolio in
	// memory only and skips the postgres persistence collaborator.
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	Enabled  bool   `mapstructure:"REDIS_ENABLED"`
}

type BusinessConfig struct {
	// GraceThresholdDays is how many days past the due date a loan may
	// sit as overdue before it is reclassified as defaulted.
	GraceThresholdDays int `mapstructure:"GRACE_THRESHOLD_DAYS"`

	// MarkPaidOnPayment preserves the legacy behavior of marking a loan
	// paid the moment any payment is recorded, regardless of balance.
	// Set to false to classify strictly by payment completeness.
	MarkPaidOnPayment bool `mapstructure:"MARK_PAID_ON_PAYMENT"`

	// Defaults used to pre-fill new loans; never read by the calculators.
	DefaultInterestRate string `mapstructure:"DEFAULT_INTEREST_RATE"`
	DefaultFrequency    string `mapstructure:"DEFAULT_PAYMENT_FREQUENCY"`
	DefaultInstallments int    `mapstructure:"DEFAULT_INSTALLMENTS"`
	Currency            string `mapstructure:"CURRENCY_SYMBOL"`

	// UpcomingDueHorizonDays is the default window for the upcoming-due
	// loan listing.
	UpcomingDueHorizonDays int `mapstructure:"UPCOMING_DUE_HORIZON_DAYS"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("GRACE_THRESHOLD_DAYS", 30)
	viper.SetDefault("MARK_PAID_ON_PAYMENT", true)
	viper.SetDefault("DEFAULT_INTEREST_RATE", "5")
	viper.SetDefault("DEFAULT_PAYMENT_FREQUENCY", domain.FrequencyMonthly)
	viper.SetDefault("DEFAULT_INSTALLMENTS", 12)
	viper.SetDefault("CURRENCY_SYMBOL", "R$")
	viper.SetDefault("UPCOMING_DUE_HORIZON_DAYS", 7)

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Business.GraceThresholdDays < 0 {
		return fmt.Errorf("GRACE_THRESHOLD_DAYS must not be negative")
	}

	if c.Business.DefaultInstallments <= 0 {
		return fmt.Errorf("DEFAULT_INSTALLMENTS must be greater than 0")
	}

	if !domain.ValidFrequency(c.Business.DefaultFrequency) {
		return fmt.Errorf("DEFAULT_PAYMENT_FREQUENCY must be a valid payment frequency")
	}

	if _, err := utils.DecimalFromString(c.Business.DefaultInterestRate); err != nil {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must be a valid decimal: %w", err)
	}

	if c.Business.UpcomingDueHorizonDays < 0 {
		return fmt.Errorf("UPCOMING_DUE_HORIZON_DAYS must not be negative")
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetDefaultInterestRate returns the default interest rate as decimal
func (c *Config) GetDefaultInterestRate() decimal.Decimal {
	rate, _ := utils.DecimalFromString(c.Business.DefaultInterestRate)
	return rate
}

// DefaultSettings returns the AppSettings pre-fill derived from
// configuration.
func (c *Config) DefaultSettings() domain.AppSettings {
	return domain.AppSettings{
		DefaultInterestRate:     c.GetDefaultInterestRate(),
		DefaultPaymentFrequency: c.Business.DefaultFrequency,
		DefaultInstallments:     c.Business.DefaultInstallments,
		Currency:                c.Business.Currency,
	}
}
