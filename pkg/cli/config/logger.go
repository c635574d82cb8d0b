package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Logger holds the logging flags shared by every subcommand
type Logger struct {
	level      string
	format     string
	output     string
	quiet      bool
	stacktrace bool
}

// Flags returns CLI flags for logger configuration
func (x *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Category:    "logging",
			Aliases:     []string{"l"},
			Sources:     cli.EnvVars("IMGBB_LOG_LEVEL"),
			Usage:       "Log level [debug|info|warn|error]",
			Value:       "info",
			Destination: &x.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Category:    "logging",
			Sources:     cli.EnvVars("IMGBB_LOG_FORMAT"),
			Usage:       "Log format [console|json]",
			Value:       "console",
			Destination: &x.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Category:    "logging",
			Sources:     cli.EnvVars("IMGBB_LOG_OUTPUT"),
			Usage:       "Log destination: stderr, stdout (or -), or a file path. Keep stderr when piping --output json|yaml",
			Value:       "stderr",
			Destination: &x.output,
		},
		&cli.BoolFlag{
			Name:        "log-quiet",
			Category:    "logging",
			Aliases:     []string{"q"},
			Usage:       "Discard all log output",
			Sources:     cli.EnvVars("IMGBB_LOG_QUIET"),
			Destination: &x.quiet,
		},
		&cli.BoolFlag{
			Name:        "log-stacktrace",
			Category:    "logging",
			Usage:       "Include goerr stack traces in console logs",
			Sources:     cli.EnvVars("IMGBB_LOG_STACKTRACE"),
			Destination: &x.stacktrace,
			Value:       true,
		},
	}
}

// LogValue implements slog.LogValuer
func (x Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
		slog.String("output", x.output),
		slog.Bool("quiet", x.quiet),
		slog.Bool("stacktrace", x.stacktrace),
	)
}

// Configure builds the logger and installs it as the slog default
func (x *Logger) Configure() (*slog.Logger, error) {
	if x.quiet {
		logger := logging.Discard()
		logging.SetDefault(logger)
		return logger, nil
	}

	level, err := logging.ParseLevel(x.level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(x.format)
	if err != nil {
		return nil, err
	}
	output, err := x.openOutput()
	if err != nil {
		return nil, err
	}

	logger := logging.New(output, logging.Options{
		Level:      level,
		Format:     format,
		Stacktrace: x.stacktrace,
	})
	logging.SetDefault(logger)

	return logger, nil
}

// openOutput resolves --log-output. A log file stays open for the life of
// the process.
func (x *Logger) openOutput() (io.Writer, error) {
	switch strings.ToLower(x.output) {
	case "stdout", "-":
		return os.Stdout, nil
	case "stderr", "":
		return os.Stderr, nil
	}

	f, err := os.OpenFile(filepath.Clean(x.output), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", x.output))
	}
	return f, nil
}
