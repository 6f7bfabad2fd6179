package cli

import (
	"io"

	"github.com/grovetools/hookplan/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// LoggerOption adjusts a command logger after its defaults are applied.
type LoggerOption func(*logrus.Logger)

// WithOutput redirects the logger.
func WithOutput(w io.Writer) LoggerOption {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// WithLevel overrides the level chosen from --verbose.
func WithLevel(level logrus.Level) LoggerOption {
	return func(l *logrus.Logger) {
		l.SetLevel(level)
	}
}

// WithFormatter replaces the component text format.
func WithFormatter(formatter logrus.Formatter) LoggerOption {
	return func(l *logrus.Logger) {
		l.SetFormatter(formatter)
	}
}

// NewCommandLogger returns a logger for a long-running command such as
// validate --watch. Unlike the shared component loggers it always writes to
// the command's stderr, at debug level with --verbose and info otherwise.
func NewCommandLogger(cmd *cobra.Command, component string, opts ...LoggerOption) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logging.TextFormatter{Config: logging.FormatConfig{DisableTimestamp: true}})
	logger.SetLevel(logrus.InfoLevel)
	if GetOptions(cmd).Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	for _, opt := range opts {
		opt(logger)
	}

	return logger.WithField("component", component)
}
