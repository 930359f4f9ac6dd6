package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"unibook/config"
	"unibook/shared/constant"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
	postgresDefaultTimezone   = "UTC"
)

// Connection splits reads from writes. Booking writes and their conflict re-checks always use Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one database server as configured under DB_POSTGRES_READ_* or DB_POSTGRES_WRITE_*.
type Endpoint struct {
	Name     string
	Host     string
	Port     string
	Username string
	Password string
	Database string
	SSLMode  string
	Timezone string
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres
	retryWait := time.Duration(pg.RetryWaitTime) * time.Second

	return &Connection{
		Read:  mustConnect(endpointOf("read", pg.Prefix, pg.Read), pg.MaxRetry, retryWait),
		Write: mustConnect(endpointOf("write", pg.Prefix, pg.Write), pg.MaxRetry, retryWait),
	}
}

func endpointOf(name, prefix string, cfg config.PostgresEndpoint) Endpoint {
	return Endpoint{
		Name:     name,
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		Database: prefix + cfg.Name,
		SSLMode:  cfg.SSLMode,
		Timezone: cfg.Timezone,
	}
}

// Close releases both pools.
func (c *Connection) Close() error {
	var errs []error

	for _, db := range []*sqlx.DB{c.Read, c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// DSN renders the endpoint as a lib/pq URL. Sessions default to UTC so slot boundaries compare in one zone.
func (e Endpoint) DSN() string {
	timezone := e.Timezone
	if timezone == constant.Empty {
		timezone = postgresDefaultTimezone
	}

	query := url.Values{}
	query.Set("sslmode", e.SSLMode)
	query.Set("timezone", timezone)

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     e.Database,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func mustConnect(endpoint Endpoint, maxRetry int, retryWait time.Duration) *sqlx.DB {
	db, err := connect(endpoint, max(maxRetry, 1), retryWait)
	if err != nil {
		log.Fatal().Err(err).Str("name", endpoint.Name).Msg("Failed to connect to database")
	}

	return db
}

func connect(endpoint Endpoint, attempts int, retryWait time.Duration) (*sqlx.DB, error) {
	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		var db *sqlx.DB

		db, err = sqlx.Connect("postgres", endpoint.DSN())
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			log.Info().
				Str("name", endpoint.Name).
				Str("host", endpoint.Host).
				Str("port", endpoint.Port).
				Str("dbName", endpoint.Database).
				Msg("Connected to database")

			return db, nil
		}

		log.Error().
			Err(err).
			Str("name", endpoint.Name).
			Str("host", endpoint.Host).
			Int("attempt", attempt).
			Msg("Failed connecting to database, retrying")

		time.Sleep(retryWait)
	}

	return nil, fmt.Errorf("failed to connect to %s database after %d attempts: %w", endpoint.Name, attempts, err)
}
