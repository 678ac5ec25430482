package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Mode is the runtime mode the server was started in. Fallback behavior
// (dev signing secret, in-memory store, debug routes) is only permitted
// outside Production.
type Mode string

const (
	Development Mode = "development"
	Production  Mode = "production"
)

// DevJWTSecret is the signing secret used outside production when
// JWT_SECRET is not set. It keeps the local flow working and must never
// be accepted in production.
const DevJWTSecret = "dev_jwt_secret_change_me"

type Config struct {
	ServerPort int
	Mode       Mode
	Database   DatabaseConfig

	JWTSecret  string
	SessionTTL time.Duration

	OTPTTL        time.Duration
	ResetTokenTTL time.Duration
}

type DatabaseConfig struct {
	// URI is the full Mongo connection string. Empty outside production
	// selects the in-memory store.
	URI    string
	DBName string
}

func LoadConfig() Config {
	mode := Development
	if os.Getenv("ENV") == "production" {
		mode = Production
	} else {
		godotenv.Load()
	}

	return Config{
		ServerPort: getEnvInt("SERVER_PORT", 5012),
		Mode:       mode,
		Database: DatabaseConfig{
			URI:    getEnv("MONGO_URI", ""),
			DBName: getEnv("MONGO_DB", "vgb"),
		},
		JWTSecret:     getEnv("JWT_SECRET", ""),
		SessionTTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),
		OTPTTL:        getEnvDuration("OTP_TTL", 10*time.Minute),
		ResetTokenTTL: getEnvDuration("RESET_TOKEN_TTL", time.Hour),
	}
}

// Validate enforces production requirements. A missing signing secret or
// connection string is fatal at startup, never a per-request error.
func (c Config) Validate() error {
	if c.Mode != Production {
		return nil
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.Database.URI == "" {
		return errors.New("MONGO_URI is required in production")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return c.Mode == Production
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
