package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Fetch     FetchConfig
	Extract   ExtractConfig
	Docs      DocsConfig
	Dashboard DashboardConfig
	Secrets   SecretsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// FetchConfig holds settings for outbound document fetches.
type FetchConfig struct {
	Timeout   time.Duration
	Retries   int
	UserAgent string
}

// ExtractConfig holds settings for the scheduled extraction run.
type ExtractConfig struct {
	// Schedule is a standard 5-field cron expression. The default fires a
	// few days into each month, once providers have published the previous
	// month's factsheets.
	Schedule string
}

// DocsConfig holds settings for the on-disk document archive.
type DocsConfig struct {
	Dir string
}

// DashboardConfig holds settings for static dashboard generation.
type DashboardConfig struct {
	Dir string
}

// SecretsConfig holds fernet-encrypted provider credentials. Values are
// decrypted on demand, never at load time, so a missing key only fails the
// funds that need it.
type SecretsConfig struct {
	Key            string
	SycomoreCookie string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/ytm.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Fetch: FetchConfig{
			Timeout:   getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
			Retries:   getEnvInt("FETCH_RETRIES", 3),
			UserAgent: getEnv("FETCH_USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
		},
		Extract: ExtractConfig{
			Schedule: getEnv("EXTRACT_SCHEDULE", "0 9 3 * *"),
		},
		Docs: DocsConfig{
			Dir: getEnv("DOCS_DIR", "./data/documents"),
		},
		Dashboard: DashboardConfig{
			Dir: getEnv("DASHBOARD_DIR", "./data/dashboard"),
		},
		Secrets: SecretsConfig{
			Key:            getEnv("YTM_SECRET_KEY", ""),
			SycomoreCookie: getEnv("YTM_SYCOMORE_COOKIE", ""),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// SycomoreSession returns the decrypted Sycomore guest-profile cookie, or
// empty when none is configured.
func (c *Config) SycomoreSession() (string, error) {
	if c.Secrets.SycomoreCookie == "" {
		return "", nil
	}
	if c.Secrets.Key == "" {
		return "", fmt.Errorf("YTM_SECRET_KEY is required to decrypt YTM_SYCOMORE_COOKIE")
	}
	return DecryptSecret(c.Secrets.Key, c.Secrets.SycomoreCookie)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
