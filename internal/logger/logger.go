package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/deppfellow/go-signup/internal/config"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerService owns the application logger and the rotating log file
// behind it, if one is configured.
type LoggerService struct {
	logger *zerolog.Logger
	file   *lumberjack.Logger
}

// NewLoggerService builds the application logger from cfg.
//
// Output goes to out (stderr when nil) as JSON, or human-readable with
// format "console". When cfg.Logging.File is set every line is also written
// to that file, rotated by lumberjack.
func NewLoggerService(cfg *config.ObservabilityConfig, out io.Writer) (*LoggerService, error) {
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		return nil, err
	}

	var console io.Writer = out
	if cfg.Logging.Format == "console" {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	service := &LoggerService{}
	writer := console

	if cfg.Logging.File != "" {
		if err := ensureLogDir(cfg.Logging.File); err != nil {
			return nil, err
		}
		service.file = &lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAge:     cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
		writer = zerolog.MultiLevelWriter(console, service.file)
	}

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
	service.logger = &logger

	return service, nil
}

// Logger returns the application logger.
func (s *LoggerService) Logger() *zerolog.Logger {
	return s.logger
}

// Shutdown flushes and closes the log file, if any.
func (s *LoggerService) Shutdown() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
