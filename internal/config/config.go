package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"homeclean_backend/internal/database"
	"homeclean_backend/pkg/utils"
)

// Config holds everything the server reads from its environment.
type Config struct {
	Port           string
	AllowedOrigins []string

	Database database.Options

	JWTSecret string
	JWTTTL    time.Duration

	// Location is the business time zone used for "today" in the date constraint.
	Location *time.Location

	RedisURL         string
	KafkaBrokers     []string
	KafkaTopicPrefix string

	StrictTransitions      bool
	DeleteConfirmationTTL  time.Duration
	AdminBootstrapEmail    string
	AdminBootstrapPassword string

	LogLevel        string
	LogPretty       bool
	OTelServiceName string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	tzName := utils.Getenv("BUSINESS_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", tzName, err)
	}

	cfg := &Config{
		Port:           utils.Getenv("PORT", "8080"),
		AllowedOrigins: utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		Database: database.Options{
			Host:       utils.Getenv("DB_HOST", "localhost"),
			Port:       utils.Getenv("DB_PORT", "5432"),
			User:       utils.Getenv("DB_USER", "homeclean"),
			Password:   utils.Getenv("DB_PASSWORD", "homeclean"),
			Name:       utils.Getenv("DB_NAME", "homeclean"),
			SSLMode:    utils.Getenv("DB_SSLMODE", "disable"),
			SchemaPath: utils.Getenv("DB_SCHEMA_PATH", ""),
		},
		JWTSecret:              os.Getenv("JWT_SECRET"),
		JWTTTL:                 time.Duration(utils.GetenvInt("JWT_TTL_MINUTES", 720)) * time.Minute,
		Location:               loc,
		RedisURL:               os.Getenv("REDIS_URL"),
		KafkaBrokers:           utils.GetenvList("KAFKA_BROKERS", nil),
		KafkaTopicPrefix:       utils.Getenv("KAFKA_TOPIC_PREFIX", "homeclean"),
		StrictTransitions:      utils.GetenvBool("BOOKING_STRICT_TRANSITIONS", false),
		DeleteConfirmationTTL:  time.Duration(utils.GetenvInt("DELETE_CONFIRMATION_TTL_SECONDS", 120)) * time.Second,
		AdminBootstrapEmail:    os.Getenv("ADMIN_BOOTSTRAP_EMAIL"),
		AdminBootstrapPassword: os.Getenv("ADMIN_BOOTSTRAP_PASSWORD"),
		LogLevel:               utils.Getenv("LOG_LEVEL", "info"),
		LogPretty:              utils.GetenvBool("LOG_PRETTY", false),
		OTelServiceName:        utils.Getenv("OTEL_SERVICE_NAME", "homeclean-backend"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	return cfg, nil
}
