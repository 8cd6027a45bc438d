package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	Orders     OrdersConfig     `mapstructure:"orders"`
	Newsletter NewsletterConfig `mapstructure:"newsletter"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"` // "debug" or "release"
}

type DBConfig struct {
	URI         string        `mapstructure:"uri"`
	Database    string        `mapstructure:"database"`
	MaxAttempts int           `mapstructure:"maxAttempts"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type OrdersConfig struct {
	FreeShippingThreshold float64 `mapstructure:"freeShippingThreshold"`
	FlatShippingFee       float64 `mapstructure:"flatShippingFee"`
	TaxRate               float64 `mapstructure:"taxRate"`
}

type NewsletterConfig struct {
	BatchSize     int           `mapstructure:"batchSize"`
	BatchDelay    time.Duration `mapstructure:"batchDelay"`
	SweepInterval time.Duration `mapstructure:"sweepInterval"`
}

// LoadConfig loads configuration from config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.boutik/")
	v.AddConfigPath("/etc/boutik/")

	// Enable environment variable override with BOUTIK_ prefix
	v.SetEnvPrefix("BOUTIK")
	v.AutomaticEnv()

	setDefaults(v)

	// A missing config file is fine, defaults and env vars still apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("db.uri", "mongodb://localhost:27017")
	v.SetDefault("db.database", "boutik")
	v.SetDefault("db.maxAttempts", 3)
	v.SetDefault("db.timeout", 10*time.Second)
	v.SetDefault("orders.freeShippingThreshold", 100)
	v.SetDefault("orders.flatShippingFee", 10)
	v.SetDefault("orders.taxRate", 0.05)
	v.SetDefault("newsletter.batchSize", 50)
	v.SetDefault("newsletter.batchDelay", 2*time.Second)
	v.SetDefault("newsletter.sweepInterval", time.Minute)
}
