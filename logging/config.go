package logging

import (
	"os"
	"strings"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLevel  = "HOOKPLAN_LOG_LEVEL"
	EnvCaller = "HOOKPLAN_LOG_CALLER"
	EnvFormat = "HOOKPLAN_LOG_FORMAT"
	EnvFile   = "HOOKPLAN_LOG_FILE"
	EnvStderr = "HOOKPLAN_LOG_STDERR"
	EnvDebug  = "HOOKPLAN_DEBUG"
)

// Config defines the logging configuration.
type Config struct {
	// Level is the minimum log level to output (e.g., "debug", "info", "warn", "error").
	Level string

	// ReportCaller, if true, includes the file, line, and function name in the log output.
	ReportCaller bool

	// File configures logging to a file.
	File FileSinkConfig

	// Format configures the appearance of the log output.
	Format FormatConfig
}

// FileSinkConfig configures the file logging sink.
type FileSinkConfig struct {
	Enabled bool
	// Path is the full path to the log file.
	Path string
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset can be "default" (rich text), "simple" (minimal text), or "json".
	Preset string
	// DisableTimestamp disables the timestamp from the "default" and "simple" formats.
	DisableTimestamp bool
	// DisableComponent disables the component name from the "default" and "simple" formats.
	DisableComponent bool
	// StructuredToStderr controls when logs are sent to stderr.
	// Can be "auto" (default), "always", or "never".
	StructuredToStderr string
}

// ConfigFromEnv builds a Config from HOOKPLAN_LOG_* environment variables.
func ConfigFromEnv() Config {
	cfg := Config{
		Level:        os.Getenv(EnvLevel),
		ReportCaller: os.Getenv(EnvCaller) == "true",
		Format: FormatConfig{
			Preset:             strings.ToLower(os.Getenv(EnvFormat)),
			StructuredToStderr: strings.ToLower(os.Getenv(EnvStderr)),
		},
	}
	if path := os.Getenv(EnvFile); path != "" {
		cfg.File = FileSinkConfig{Enabled: true, Path: path}
	}
	return cfg
}
