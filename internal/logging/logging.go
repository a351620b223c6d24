package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	formatJSON    = "json"
	formatConsole = "console"
)

// Options selects the encoder, level and sinks of a logger.
type Options struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	// Console overrides the standard output sink.
	Console io.Writer
}

// New builds a zap logger writing to the console and, when File is set, to a rotated file.
func New(options Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(options.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch options.Format {
	case formatJSON, "":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case formatConsole:
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("log format %q is not supported", options.Format)
	}

	console := options.Console
	if console == nil {
		console = os.Stdout
	}
	writers := []zapcore.WriteSyncer{zapcore.AddSync(console)}
	if options.File != "" {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   options.File,
			MaxSize:    options.MaxSizeMB,
			MaxBackups: options.MaxBackups,
			MaxAge:     options.MaxAgeDays,
			Compress:   options.Compress,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
