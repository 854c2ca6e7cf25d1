package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds every runtime setting read from the environment.
type Config struct {
	Env         string
	Port        string
	DatabaseURL string

	JWTSecret   string
	AdminSecret string

	CorsAllowedOrigins []string

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	SMTPFrom   string
	SMTPSecure bool

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioPhoneFrom  string

	RabbitMQURL string

	// Currency display for exports. Defaults mirror the es-CO style: $1.234,56
	CurrencySymbol      string
	CurrencyThousandSep string
	CurrencyDecimalSep  string
}

// Load reads configuration from environment variables, applying defaults.
func Load() Config {
	cfg := Config{
		Env:         getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		AdminSecret: getEnv("ADMIN_SECRET", ""),

		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		SMTPHost:   getEnv("SMTP_HOST", ""),
		SMTPPort:   getEnvInt("SMTP_PORT", 587),
		SMTPUser:   getEnv("SMTP_USER", ""),
		SMTPPass:   getEnv("SMTP_PASS", ""),
		SMTPFrom:   getEnv("SMTP_FROM", ""),
		SMTPSecure: getEnvBool("SMTP_SECURE", false),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneFrom:  getEnv("TWILIO_PHONE_FROM", ""),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		CurrencySymbol:      getEnv("CURRENCY_SYMBOL", "$"),
		CurrencyThousandSep: getEnv("CURRENCY_THOUSAND_SEP", "."),
		CurrencyDecimalSep:  getEnv("CURRENCY_DECIMAL_SEP", ","),
	}

	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}

	// Assemble the postgres DSN from discrete vars when DATABASE_URL is absent
	if cfg.DatabaseURL == "" {
		host := getEnv("DB_HOST", "localhost")
		port := getEnv("DB_PORT", "5432")
		user := getEnv("DB_USER", "postgres")
		pass := getEnv("DB_PASSWORD", "postgres")
		name := getEnv("DB_NAME", "postgres")
		ssl := getEnv("DB_SSLMODE", "disable")
		cfg.DatabaseURL = "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
