package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries everything the binaries read from the environment.
type Config struct {
	HTTPAddr    string
	DatabaseDSN string
	JWTSecret   string

	// Comma-separated list of allowed CORS origins
	AllowedOrigins []string

	// Document store root directory
	DocumentDir string

	// Outbound mail; empty SMTPAddr disables real delivery
	SMTPAddr string
	SMTPFrom string
}

// Load reads configs/.env if present, then the process environment.
func Load() *Config {
	_ = godotenv.Load("configs/.env")

	cfg := &Config{
		HTTPAddr:    ":" + envOr("PORT", "8080"),
		DatabaseDSN: buildDSN(),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		DocumentDir: envOr("DOCUMENT_DIR", "data/documents"),
		SMTPAddr:    os.Getenv("SMTP_ADDR"),
		SMTPFrom:    envOr("SMTP_FROM", "noreply@upsupply.local"),
	}

	origins := envOr("ALLOWED_ORIGINS", "http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg
}

func buildDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	password := envOr("DB_PASSWORD", "postgres")
	name := envOr("DB_NAME", "postgres")
	sslMode := envOr("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + password + "@" + host + ":" + port + "/" + name + "?sslmode=" + sslMode
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
