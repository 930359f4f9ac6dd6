package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"unibook/config"
	"unibook/shared/constant"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

// Direction names a migration command accepted by Migrate.
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStepUp Direction = "step-up"
	DirectionDrop   Direction = "drop"
)

var ErrUnknownDirection = errors.New("unknown migration direction")

// ParseDirection validates a command-line migration argument.
func ParseDirection(raw string) (Direction, error) {
	switch direction := Direction(raw); direction {
	case DirectionUp, DirectionDown, DirectionStepUp, DirectionDrop:
		return direction, nil
	default:
		return constant.Empty, fmt.Errorf("%w: %q", ErrUnknownDirection, raw)
	}
}

func databaseName(config *config.Config) string {
	return config.DB.Postgres.Prefix + config.DB.Postgres.Write.Name
}

// DatabaseURL builds the golang-migrate connection string for the write database.
func DatabaseURL(config *config.Config) string {
	write := config.DB.Postgres.Write

	query := url.Values{}
	query.Set("sslmode", write.SSLMode)

	if config.DB.Postgres.MigrationTable != constant.Empty {
		query.Set("x-migrations-table", config.DB.Postgres.MigrationTable)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(write.Username, write.Password),
		Host:     net.JoinHostPort(write.Host, write.Port),
		Path:     databaseName(config),
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Migrate applies the schema change named by direction. A schema that is already current is not an error.
func Migrate(config *config.Config, direction Direction) error {
	mig, err := migrate.New(migrationSource, DatabaseURL(config))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("failed to close migrate instance")
		}
	}()

	switch direction {
	case DirectionUp:
		err = mig.Up()
	case DirectionStepUp:
		err = mig.Steps(1)
	case DirectionDown:
		err = mig.Steps(-1)
	case DirectionDrop:
		err = mig.Down()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate %s: %w", direction, err)
	}

	version, dirty, verErr := mig.Version()
	if verErr != nil && !errors.Is(verErr, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", verErr)
	}

	log.Info().Str("direction", string(direction)).Uint("version", version).Bool("dirty", dirty).Msg("database migration finished")

	return nil
}

func Up(config *config.Config) error {
	return Migrate(config, DirectionUp)
}
