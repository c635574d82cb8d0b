package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
)

// Format selects the slog handler
type Format int

const (
	FormatConsole Format = iota + 1
	FormatJSON
)

var formats = map[string]Format{
	"console": FormatConsole,
	"json":    FormatJSON,
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseFormat accepts "console" or "json". Empty means console.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatConsole, nil
	}
	f, ok := formats[strings.ToLower(s)]
	if !ok {
		return 0, goerr.New("invalid log format",
			goerr.V("format", s),
			goerr.V("valid_formats", []string{"console", "json"}),
		)
	}
	return f, nil
}

// ParseLevel accepts debug, info, warn or error in any case
func ParseLevel(s string) (slog.Level, error) {
	level, ok := levels[strings.ToLower(s)]
	if !ok {
		return slog.LevelInfo, goerr.New("invalid log level",
			goerr.V("level", s),
			goerr.V("valid_levels", []string{"debug", "info", "warn", "error"}),
		)
	}
	return level, nil
}

// Options configures New
type Options struct {
	Level      slog.Level
	Format     Format
	Stacktrace bool
}

// New builds a logger writing to w. API keys, storage credentials and
// delete URLs are redacted in both formats.
func New(w io.Writer, opts Options) *slog.Logger {
	redact := redactor()

	if opts.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       opts.Level,
			ReplaceAttr: redact,
		}))
	}

	hook := clog.GoerrHook
	if !opts.Stacktrace {
		hook = flattenGoerr
	}

	return slog.New(clog.New(
		clog.WithWriter(w),
		clog.WithLevel(opts.Level),
		clog.WithReplaceAttr(redact),
		clog.WithAttrHook(hook),
		clog.WithColorMap(colors()),
	))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetDefault replaces the process-wide slog logger
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}

// A delete URL removes the image without the API key, so it is treated as a
// credential in logs. Receipts and CLI output still carry it.
func redactor() func([]string, slog.Attr) slog.Attr {
	return masq.New(
		masq.WithTag("secret"),
		masq.WithFieldPrefix("secret_"),
		masq.WithFieldName("APIKey"),
		masq.WithFieldName("SecretKey"),
		masq.WithFieldName("AccessKey"),
		masq.WithFieldName("DeleteURL"),
		masq.WithFieldName("delete_url"),
	)
}

func colors() *clog.ColorMap {
	return &clog.ColorMap{
		Level: map[slog.Level]*color.Color{
			slog.LevelDebug: color.New(color.FgGreen, color.Bold),
			slog.LevelInfo:  color.New(color.FgCyan, color.Bold),
			slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
		LevelDefault: color.New(color.FgBlue, color.Bold),
		Time:         color.New(color.FgWhite),
		Message:      color.New(color.FgHiWhite),
		AttrKey:      color.New(color.FgHiCyan),
		AttrValue:    color.New(color.FgHiWhite),
	}
}

// flattenGoerr prints a goerr.Error as a group of its values, message and
// cause, without the stack trace.
func flattenGoerr(_ []string, attr slog.Attr) *clog.HandleAttr {
	goErr, ok := attr.Value.Any().(*goerr.Error)
	if !ok {
		return nil
	}

	attrs := []any{slog.String("message", goErr.Error())}
	for k, v := range goErr.Values() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if cause := goErr.Unwrap(); cause != nil {
		attrs = append(attrs, slog.Any("cause", cause))
	}

	group := slog.Group(attr.Key, attrs...)
	return &clog.HandleAttr{NewAttr: &group}
}
