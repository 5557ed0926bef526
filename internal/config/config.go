package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"EksporYuk Commissions"`
		Env       string `envconfig:"APP_ENV" default:"development"`
		Port      int    `envconfig:"PORT" default:"8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"eksporyuk"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
		WebhookRPM     int           `envconfig:"WEBHOOK_RATE_PER_MINUTE" default:"600"`
		WebhookBurst   int           `envconfig:"WEBHOOK_RATE_BURST" default:"50"`
	}

	Redis struct {
		URL     string        `envconfig:"REDIS_URL"`
		RuleTTL time.Duration `envconfig:"RULE_CACHE_TTL" default:"10m"`
	}

	Sentry struct {
		DSN         string `envconfig:"SENTRY_DSN"`
		Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"development"`
	}

	SendGrid struct {
		APIKey    string `envconfig:"SENDGRID_API_KEY"`
		FromEmail string `envconfig:"MAIL_FROM_EMAIL" default:"noreply@eksporyuk.com"`
		FromName  string `envconfig:"MAIL_FROM_NAME" default:"EksporYuk"`
	}

	Reports struct {
		Bucket          string `envconfig:"REPORTS_BUCKET"`
		Region          string `envconfig:"REPORTS_REGION" default:"ap-southeast-1"`
		Prefix          string `envconfig:"REPORTS_PREFIX" default:"audits/"`
		AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	}

	Jobs struct {
		Enabled   bool   `envconfig:"JOBS_ENABLED" default:"true"`
		SweepSpec string `envconfig:"JOBS_WALLET_SWEEP" default:"0 2 * * *"`
		AuditSpec string `envconfig:"JOBS_AUDIT" default:"30 2 * * *"`
	}

	Revenue struct {
		CompanyPercent   string `envconfig:"REVENUE_COMPANY_PERCENT" default:"15"`
		FounderPercent   string `envconfig:"REVENUE_FOUNDER_PERCENT" default:"60"`
		CofounderPercent string `envconfig:"REVENUE_COFOUNDER_PERCENT" default:"40"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
