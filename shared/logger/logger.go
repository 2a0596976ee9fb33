package logger

import (
	"fieldbook/config"
	"fieldbook/shared/constant"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.InfoLevel

// InitLogger installs a console logger for the bootstrap phase, before configuration is read.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

// Configure swaps in the logger described by config and applies its level.
func Configure(config *config.Config) {
	log.Logger = New(config, os.Stdout)

	SetLogLevel(config)
}

// New builds a logger writing to out. Development gets console output, every other
// environment gets one JSON object per line tagged with the service name.
func New(config *config.Config, out io.Writer) zerolog.Logger {
	if config.Server.Env == constant.ServerEnvDevelopment {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if config.App.Name != "" {
		ctx = ctx.Str("service", config.App.Name)
	}

	return ctx.Logger()
}

// SetLogLevel applies config.Server.LogLevel, falling back to info when it is unset or unknown.
func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("logLevel", config.Server.LogLevel).Str("fallback", defaultLevel.String()).Msg("Unusable log level, using fallback")

		level = defaultLevel
	}

	zerolog.SetGlobalLevel(level)
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
