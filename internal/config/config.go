package config

import "github.com/caarlos0/env/v10"

// Config centralizes the service configuration.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"zh"`
	ExportEnabled bool   `env:"EXPORT_ENABLED" envDefault:"true"`
	ChromePath    string `env:"CHROME_PATH"`
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
