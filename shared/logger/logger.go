package logger

import (
	"io"
	"os"
	"time"

	"unibook/config"
	"unibook/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.InfoLevel

// InitLogger installs a human-readable console logger. SetLogLevel replaces it once config is known.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = zerolog.New(consoleWriter(os.Stdout)).With().Timestamp().Logger()
}

// ErrorWithStack logs err with the stack of the caller attached.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies SERVER_LOG_LEVEL and switches to JSON lines outside development.
func SetLogLevel(config *config.Config) {
	SetOutput(config, os.Stdout)
}

// SetOutput is SetLogLevel with an explicit destination.
func SetOutput(config *config.Config, out io.Writer) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = defaultLevel
	}

	var writer io.Writer = out
	if config.Server.Env == constant.Empty || config.Server.Env == constant.ServerEnvDevelopment {
		writer = consoleWriter(out)
	}

	log.Logger = zerolog.New(writer).With().
		Timestamp().
		Str("service", config.App.Name).
		Str("env", config.Server.Env).
		Logger()

	zerolog.SetGlobalLevel(level)

	log.Debug().Str("loglevel", level.String()).Msg("Logger configured")
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
}
