package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// Config controls where log output goes.
type Config struct {
	Level          string
	LogsDir        string
	AppName        string
	GraylogEnabled bool
	GraylogAddress string
}

// Manager owns the log sinks for a session. Close releases the file and
// the GELF connection.
type Manager struct {
	Logger zerolog.Logger

	file    *os.File
	graylog *gelf.Writer
}

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", appName, sessionStart.Format("20060102_150405")),
	)
}

// parseLevel converts a string log level to a zerolog.Level.
func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup builds the session logger: colored console output, a plain
// session log file, and an optional GELF stream to Graylog.
func Setup(cfg Config) (*Manager, error) {
	m := &Manager{}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		},
	}

	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs dir: %w", err)
		}
		file, err := os.Create(LogFilePath(cfg.LogsDir, cfg.AppName, time.Now().UTC()))
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		m.file = file
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	if cfg.GraylogEnabled {
		gw, err := gelf.NewWriter(cfg.GraylogAddress)
		if err != nil {
			// Graylog being down should not stop the editor.
			fmt.Fprintf(os.Stderr, "graylog unavailable at %s: %v\n", cfg.GraylogAddress, err)
		} else {
			m.graylog = gw
			writers = append(writers, gw)
		}
	}

	m.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Str("app", cfg.AppName).Logger()
	m.Logger.Info().Str("loglevel", zerolog.GlobalLevel().String()).Msg("Logging set up")

	return m, nil
}

// Close flushes and releases the log sinks.
func (m *Manager) Close() error {
	var firstErr error
	if m.graylog != nil {
		if err := m.graylog.Close(); err != nil {
			firstErr = err
		}
	}
	if m.file != nil {
		if err := m.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
