package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"eino_grocery_bot/src/model"
)

const serviceName = "grocery_bot"

// Logger discards everything until InitLogger runs, so packages can log from tests
var Logger = zerolog.Nop()

// timeFormats maps LOG_TIME_FORMAT values to zerolog field formats
var timeFormats = map[string]string{
	"rfc3339": time.RFC3339,
	"unix":    zerolog.TimeFormatUnix,
	"iso8601": "2006-01-02T15:04:05.000Z07:00",
}

// InitLogger replaces the global logger according to config
func InitLogger(config model.LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return fmt.Errorf("invalid log level '%s': %w", config.Level, err)
	}

	output, err := openOutput(config)
	if err != nil {
		return err
	}
	if strings.EqualFold(config.Format, "console") {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if format, ok := timeFormats[strings.ToLower(config.TimeFormat)]; ok {
		zerolog.TimeFieldFormat = format
	}

	Logger = zerolog.New(output).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
	log.Logger = Logger

	Logger.Debug().
		Str("level", level.String()).
		Str("format", config.Format).
		Str("output", config.Output).
		Msg("Logger initialized")
	return nil
}

// openOutput resolves LOG_OUTPUT; unknown values fall back to stdout
func openOutput(config model.LogConfig) (io.Writer, error) {
	switch strings.ToLower(config.Output) {
	case "stderr":
		return os.Stderr, nil
	case "file":
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file '%s': %w", config.FilePath, err)
		}
		return file, nil
	default:
		return os.Stdout, nil
	}
}

// GetLogger returns the configured logger instance
func GetLogger() *zerolog.Logger {
	return &Logger
}

func Info() *zerolog.Event {
	return Logger.Info()
}

func Debug() *zerolog.Event {
	return Logger.Debug()
}

func Warn() *zerolog.Event {
	return Logger.Warn()
}

func Error() *zerolog.Event {
	return Logger.Error()
}

// StartTurn derives a logger tagged with the session and a fresh turn id and
// stores it in the returned context. Everything below the turn logs through
// FromContext so one grep on turn_id shows the whole turn.
func StartTurn(ctx context.Context, sessionID string) (context.Context, *zerolog.Logger) {
	l := Logger.With().
		Str("session_id", sessionID).
		Str("turn_id", uuid.NewString()).
		Logger()
	return l.WithContext(ctx), &l
}

// FromContext returns the turn logger stored in ctx, or the global logger
func FromContext(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return GetLogger()
}
