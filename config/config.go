// Package config loads service settings from the environment, reading a .env file first when present.
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server   Server   `envconfig:"SERVER"`
	App      App      `envconfig:"APP"`
	Cache    Cache    `envconfig:"CACHE"`
	JWT      JWT      `envconfig:"JWT"`
	DB       DB       `envconfig:"DB"`
	Booking  Booking  `envconfig:"BOOKING"`
	External External `envconfig:"EXTERNAL"`
}

type Server struct {
	Env      string `envconfig:"ENV"       default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"      default:"8080"`
	Shutdown struct {
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"5"`
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
	} `envconfig:"SHUTDOWN"`
}

type App struct {
	Name        string      `envconfig:"NAME"     default:"unibook"`
	Timezone    string      `envconfig:"TIMEZONE" default:"UTC"`
	APIKey      string      `envconfig:"API_KEY"`
	CORS        CORS        `envconfig:"CORS"`
	RateLimiter RateLimiter `envconfig:"RATE_LIMITER"`
}

type CORS struct {
	Enable           bool     `envconfig:"ENABLE"`
	AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
	AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
	AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
	MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
}

type RateLimiter struct {
	Enable        bool `envconfig:"ENABLE"`
	MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"120"`
	WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
}

type Cache struct {
	TTL   int `envconfig:"TTL" default:"300"`
	Redis struct {
		Primary Redis `envconfig:"PRIMARY"`
	} `envconfig:"REDIS"`
}

type Redis struct {
	Host     string `envconfig:"HOST"     default:"localhost"`
	Port     string `envconfig:"PORT"     default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB"`
}

type JWT struct {
	AccessSecret string `envconfig:"ACCESS_SECRET"`
	Issuer       string `envconfig:"ISSUER"`
}

type DB struct {
	Postgres Postgres `envconfig:"POSTGRES"`
}

type Postgres struct {
	MaxRetry       int              `envconfig:"MAX_RETRY"       default:"5"`
	RetryWaitTime  int              `envconfig:"RETRY_WAIT_TIME" default:"2"`
	MigrationTable string           `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
	AutoMigrate    bool             `envconfig:"AUTO_MIGRATE"`
	Prefix         string           `envconfig:"PREFIX"`
	Read           PostgresEndpoint `envconfig:"READ"`
	Write          PostgresEndpoint `envconfig:"WRITE"`
}

// PostgresEndpoint is one side of the read/write split.
type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Booking struct {
	MaxWindowDays int `envconfig:"MAX_WINDOW_DAYS"`
}

type External struct {
	Otel struct {
		Endpoint string `envconfig:"ENDPOINT"`
	} `envconfig:"OTEL"`
	S3 S3 `envconfig:"S3"`
}

type S3 struct {
	APIEndpoint     string `envconfig:"API_ENDPOINT"`
	AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
	BucketName      string `envconfig:"BUCKET_NAME"`
	PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
}

const defaultBookingMaxWindowDays = 90

// BookingMaxWindowDays returns how far ahead a booking may start.
func (c *Config) BookingMaxWindowDays() int {
	if c.Booking.MaxWindowDays <= 0 {
		return defaultBookingMaxWindowDays
	}

	return c.Booking.MaxWindowDays
}

var load = sync.OnceValue(func() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to process environment variables")
	}

	log.Info().Str("env", cfg.Server.Env).Msg("Service configuration initialized")

	return &cfg
})

// Get returns the process-wide configuration, loading it on first use.
func Get() *Config {
	return load()
}
