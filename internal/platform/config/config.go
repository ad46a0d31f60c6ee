package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Payment gateway
	MidtransServerKey string

	// Ledger service
	LedgerServiceURL     string
	LedgerServiceTimeout time.Duration
	LedgerServiceAPIKey  string
	LedgerWebhookAPIKey  string
	LedgerReadRetries    int

	// Audit stream; disabled when KafkaBrokerURL is empty
	KafkaBrokerURL  string
	KafkaAuditTopic string

	PosthogAPIKey   string
	PosthogEndpoint string

	LoginRateLimit     string
	CORSAllowedOrigins []string
	BulkConcurrency    int
	BulkDeadline       time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "txn-reconciler")
	viper.SetDefault("MIDTRANS_SERVER_KEY", "")
	viper.SetDefault("LEDGER_SERVICE_URL", "http://localhost:8081")
	viper.SetDefault("LEDGER_SERVICE_TIMEOUT", "30s")
	viper.SetDefault("LEDGER_SERVICE_API_KEY", "")
	viper.SetDefault("LEDGER_WEBHOOK_API_KEY", "")
	viper.SetDefault("LEDGER_READ_RETRIES", 3)
	viper.SetDefault("KAFKA_BROKER_URL", "")
	viper.SetDefault("KAFKA_AUDIT_TOPIC", "transaction-audit")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("BULK_CONCURRENCY", 4)
	viper.SetDefault("BULK_DEADLINE", "60s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTExpiryDuration = parseDuration("JWT_EXPIRY_DURATION", time.Hour)

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "txn-reconciler"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.MidtransServerKey = viper.GetString("MIDTRANS_SERVER_KEY")
	if cfg.MidtransServerKey == "" {
		log.Println("Warning: MIDTRANS_SERVER_KEY not set. Every gateway notification will fail signature verification.")
	}

	cfg.LedgerServiceURL = strings.TrimRight(viper.GetString("LEDGER_SERVICE_URL"), "/")
	cfg.LedgerServiceTimeout = parseDuration("LEDGER_SERVICE_TIMEOUT", 30*time.Second)
	cfg.LedgerServiceAPIKey = viper.GetString("LEDGER_SERVICE_API_KEY")
	cfg.LedgerWebhookAPIKey = viper.GetString("LEDGER_WEBHOOK_API_KEY")
	if cfg.LedgerWebhookAPIKey == "" {
		log.Println("Warning: LEDGER_WEBHOOK_API_KEY not set. Ledger notifications will be rejected.")
	}
	cfg.LedgerReadRetries = viper.GetInt("LEDGER_READ_RETRIES")
	if cfg.LedgerReadRetries < 0 {
		cfg.LedgerReadRetries = 0
	}

	cfg.KafkaBrokerURL = viper.GetString("KAFKA_BROKER_URL")
	cfg.KafkaAuditTopic = viper.GetString("KAFKA_AUDIT_TOPIC")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.BulkConcurrency = viper.GetInt("BULK_CONCURRENCY")
	if cfg.BulkConcurrency <= 0 {
		cfg.BulkConcurrency = 4
		log.Printf("Warning: invalid BULK_CONCURRENCY. Defaulting to %d.\n", cfg.BulkConcurrency)
	}

	cfg.BulkDeadline = parseDuration("BULK_DEADLINE", 60*time.Second)

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	return cfg, nil
}

// parseDuration reads a duration such as "30s" or "1h", falling back to def with a warning.
func parseDuration(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
