package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration loaded from the environment.
type Config struct {
	AppPort     string
	CORSOrigins string

	DBDriver    string
	DatabaseDSN string

	JWTSecret    string
	JWTExpiresIn time.Duration

	OpenverseBaseURL      string
	OpenverseClientID     string
	OpenverseClientSecret string
	OpenverseTimeout      time.Duration
	OpenverseReauthOn401  bool

	RabbitMQURL   string
	RabbitMQQueue string
}

// Load reads a .env file when one is present and then resolves every key
// from the environment, falling back to the defaults below.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "mediahub.db")
	v.SetDefault("JWT_SECRET_KEY", "super-secret-key")
	v.SetDefault("JWT_EXPIRES_IN", 7*24*time.Hour)
	v.SetDefault("OPENVERSE_BASE_URL", "https://api.openverse.org/v1/")
	v.SetDefault("OPENVERSE_CLIENT_ID", "")
	v.SetDefault("OPENVERSE_CLIENT_SECRET", "")
	v.SetDefault("OPENVERSE_TIMEOUT", 15*time.Second)
	v.SetDefault("OPENVERSE_REAUTH_ON_401", true)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "search_history_events")
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		AppPort:               v.GetString("APP_PORT"),
		CORSOrigins:           v.GetString("CORS_ORIGINS"),
		DBDriver:              strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:           v.GetString("DATABASE_DSN"),
		JWTSecret:             v.GetString("JWT_SECRET_KEY"),
		JWTExpiresIn:          v.GetDuration("JWT_EXPIRES_IN"),
		OpenverseBaseURL:      v.GetString("OPENVERSE_BASE_URL"),
		OpenverseClientID:     v.GetString("OPENVERSE_CLIENT_ID"),
		OpenverseClientSecret: v.GetString("OPENVERSE_CLIENT_SECRET"),
		OpenverseTimeout:      v.GetDuration("OPENVERSE_TIMEOUT"),
		OpenverseReauthOn401:  v.GetBool("OPENVERSE_REAUTH_ON_401"),
		RabbitMQURL:           v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:         v.GetString("RABBITMQ_QUEUE"),
	}
}
