package config

import (
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds every environment-driven setting for the service. No other
// package reads environment variables directly.
type Config struct {
	Environment    string `env:"APP_ENV,default=development"`
	ServiceName    string `env:"APP_NAME,default=circletel-activation"`
	ServiceVersion string `env:"APP_VERSION,default=dev"`

	HTTPListenAddr      string        `env:"HTTP_LISTEN_ADDR,default=:8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT,default=15s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT,default=30s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT,default=10s"`

	// InternalAPIBaseURL is the base URL this service uses to call its own
	// activation endpoint from the RICA trigger.
	InternalAPIBaseURL string `env:"INTERNAL_API_BASE_URL,default=http://127.0.0.1:8080"`
	// InternalAPIKey is the bearer key the RICA trigger presents on that
	// call. It must match an active row in api_keys.
	InternalAPIKey string `env:"INTERNAL_API_KEY"`

	DatabaseURL string `env:"DATABASE_URL"`

	PostgresHost     string `env:"POSTGRES_HOST,default=127.0.0.1"`
	PostgresPort     string `env:"POSTGRES_PORT,default=5432"`
	PostgresUser     string `env:"POSTGRES_USER,default=circletel"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDatabase string `env:"POSTGRES_DBNAME,default=circletel"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE,default=disable"`

	NetcashServiceKey         string `env:"NETCASH_SERVICE_KEY"`
	NetcashEmandateServiceKey string `env:"NETCASH_EMANDATE_SERVICE_KEY"`
	PayfastMerchantID         string `env:"PAYFAST_MERCHANT_ID"`
	PayfastPassphrase         string `env:"PAYFAST_PASSPHRASE"`
	OzowSiteCode              string `env:"OZOW_SITE_CODE"`
	OzowPrivateKey            string `env:"OZOW_PRIVATE_KEY"`
	StripeWebhookSecret       string `env:"STRIPE_WEBHOOK_SECRET"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT,default=587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPSender   string `env:"SMTP_SENDER"`
	AdminEmail   string `env:"ADMIN_ALERT_EMAIL"`

	TracingEnabled   bool    `env:"TRACING_ENABLED,default=false"`
	TracingEndpoint  string  `env:"TRACING_EXPORTER_ENDPOINT"`
	TracingProtocol  string  `env:"TRACING_EXPORTER_PROTOCOL,default=grpc"`
	TracingSampling  float64 `env:"TRACING_SAMPLING_RATIO,default=0.1"`

	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL,default=5s"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE,default=50"`

	WebhookRateLimit       int           `env:"WEBHOOK_RATE_LIMIT,default=120"`
	WebhookRateLimitWindow time.Duration `env:"WEBHOOK_RATE_LIMIT_WINDOW,default=1m"`
}

// Load reads configuration from the environment, optionally seeding it from
// a dotenv file first. A missing dotenv file is not an error.
func Load(path string) (Config, error) {
	if path != "" {
		_ = godotenv.Load(path)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: unmarshal environment")
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}
