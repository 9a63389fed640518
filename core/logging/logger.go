package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/searchktools/mock-server/config"
)

// NewLogger creates a zerolog logger writing to output. Debug enables
// debug-level events; otherwise only info and above are emitted.
func NewLogger(debug bool, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stderr
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// FromConfig builds the process logger. With log_to_file set, output goes
// to a rotating file (and to stderr as well in debug mode); otherwise to
// stderr.
func FromConfig(cfg config.LogConfig) zerolog.Logger {
	var output io.Writer = os.Stderr

	if cfg.LogToFile {
		fileLogger := &lumberjack.Logger{
			Filename:   cfg.LogFilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		output = fileLogger
		if cfg.Debug {
			output = io.MultiWriter(fileLogger, os.Stderr)
		}
	}

	return NewLogger(cfg.Debug, output)
}

// WithComponent returns a child logger tagged with component
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
