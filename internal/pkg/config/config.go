package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every setting the server reads from the environment. It is
// built once in main and handed to constructors; nothing else reads env vars.
type Config struct {
	AppEnv         string
	AppHost        string
	AppPort        string
	InternalAPIKey string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	CacheHost string
	CachePort string

	StripeSecretKey     string
	StripeWebhookSecret string

	ResendAPIKey string
	MailFrom     string
	MailReplyTo  string
	FrontendURL  string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3EndpointURL     string
}

// Load reads an optional .env file and materializes the Config. Missing .env
// is fine in containerized deployments where everything comes from the OS env.
func Load() *Config {
	for _, envFile := range []string{".env", "../../.env", "../../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	return &Config{
		AppEnv:         getEnv("APP_ENV", "prod"),
		AppHost:        getEnv("APP_HOST", "0.0.0.0"),
		AppPort:        getEnv("APP_PORT", "4000"),
		InternalAPIKey: getEnv("INTERNAL_API_KEY", ""),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", ""),

		CacheHost: getEnv("CACHE_HOST", "localhost"),
		CachePort: getEnv("CACHE_PORT", "6379"),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		MailFrom:     getEnv("MAIL_FROM", "Military Disability Nexus <noreply@militarydisabilitynexus.com>"),
		MailReplyTo:  getEnv("MAIL_REPLY_TO", "contact@militarydisabilitynexus.com"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_BUCKET", "medical-documents"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3EndpointURL:     getEnv("S3_ENDPOINT_URL", ""),
	}
}

// DatabaseDSN renders the Postgres DSN used by GORM.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// MigrateURL renders the golang-migrate database URL.
func (c *Config) MigrateURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// CacheAddr renders the Redis address.
func (c *Config) CacheAddr() string {
	return fmt.Sprintf("%s:%s", c.CacheHost, c.CachePort)
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
