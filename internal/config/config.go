package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries all runtime settings, loaded from the environment.
type Config struct {
	App struct {
		Name        string `envconfig:"APP_NAME" default:"ping-pague"`
		Environment string `envconfig:"APP_ENV" default:"development"`
		Version     string `envconfig:"APP_VERSION" default:"dev"`
	}

	HTTP struct {
		Addr            string        `envconfig:"HTTP_ADDR" default:":8080"`
		ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"ping_pague"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Sweep struct {
		Enabled          bool          `envconfig:"SWEEP_ENABLED" default:"true"`
		PollInterval     time.Duration `envconfig:"SWEEP_POLL_INTERVAL" default:"1h"`
		BatchSize        int           `envconfig:"SWEEP_BATCH_SIZE" default:"200"`
		ReminderLeadDays int           `envconfig:"SWEEP_REMINDER_LEAD_DAYS" default:"2"`
	}

	Notify struct {
		// WhatsApp gateway endpoint. Empty means messages are logged only.
		GatewayURL string `envconfig:"NOTIFY_GATEWAY_URL" default:""`
	}

	Webhook struct {
		// Shared token expected on cron/webhook endpoints. Empty disables the check.
		Token string `envconfig:"WEBHOOK_TOKEN" default:""`
	}

	Tracing struct {
		Enabled          bool    `envconfig:"TRACING_ENABLED" default:"false"`
		ExporterEndpoint string  `envconfig:"TRACING_EXPORTER_ENDPOINT" default:""`
		ExporterProtocol string  `envconfig:"TRACING_EXPORTER_PROTOCOL" default:"grpc"`
		SamplingRatio    float64 `envconfig:"TRACING_SAMPLING_RATIO" default:"0.1"`
	}
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

// IsProduction reports whether the app runs in the production environment.
func (c Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Load reads configuration from the environment, honoring a local .env
// file when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("processing config: %w", err)
	}
	return cfg, nil
}
