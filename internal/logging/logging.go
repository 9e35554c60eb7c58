package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/pravdin97/minesweeper/internal/config"
)

// New builds the process logger: colored text on stderr, plus JSON lines in
// a rotating file when one is configured.
func New(cfg *config.Logging, development bool) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	logLevel := logrus.InfoLevel
	if development {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)

	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if cfg == nil || cfg.File == "" {
		return log, nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Level:      logLevel,
		Formatter: &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open log file %s: %w", cfg.File, err)
	}
	log.AddHook(hook)

	return log, nil
}
