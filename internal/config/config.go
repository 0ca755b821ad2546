package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort           int           `mapstructure:"http_port"`
	AllowedOrigins     []string      `mapstructure:"allowed_origins"`
	SheetsAPIURL       string        `mapstructure:"sheets_api_url"`
	RedisURL           string        `mapstructure:"redis_url"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	RabbitMQURL        string        `mapstructure:"rabbitmq_url"`
	Mail               MailConfig    `mapstructure:",squash"`
	RefreshSchedule    string        `mapstructure:"refresh_schedule"`
	LoginRatePerMinute int           `mapstructure:"login_rate_per_minute"`
	LogLevel           string        `mapstructure:"log_level"`
}

type MailConfig struct {
	Host       string `mapstructure:"mail_host"`
	Port       int    `mapstructure:"mail_port"`
	User       string `mapstructure:"mail_user"`
	Password   string `mapstructure:"mail_pass"`
	From       string `mapstructure:"mail_from"`
	AlertEmail string `mapstructure:"alert_email"`
}

// Enabled reports whether enough SMTP settings are present to send alerts.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.AlertEmail != ""
}

var keys = []string{
	"http_port", "allowed_origins", "sheets_api_url", "redis_url", "session_ttl",
	"rabbitmq_url", "mail_host", "mail_port", "mail_user", "mail_pass", "mail_from",
	"alert_email", "refresh_schedule", "login_rate_per_minute", "log_level",
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("http_port", 8080)
	v.SetDefault("allowed_origins", "http://localhost:5173")
	v.SetDefault("session_ttl", "12h")
	v.SetDefault("mail_port", 587)
	v.SetDefault("mail_from", "no-responder@crm-solar.co")
	v.SetDefault("refresh_schedule", "@every 5m")
	v.SetDefault("login_rate_per_minute", 10)
	v.SetDefault("log_level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.AllowedOrigins = splitOrigins(v.GetString("allowed_origins"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.SheetsAPIURL == "" {
		errs = append(errs, errors.New("SHEETS_API_URL es obligatoria"))
	} else if !strings.HasPrefix(c.SheetsAPIURL, "http://") && !strings.HasPrefix(c.SheetsAPIURL, "https://") {
		errs = append(errs, fmt.Errorf("SHEETS_API_URL debe ser http(s): %q", c.SheetsAPIURL))
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT fuera de rango: %d", c.HTTPPort))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL debe ser positiva"))
	}
	if c.LoginRatePerMinute <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE_PER_MINUTE debe ser positivo"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
