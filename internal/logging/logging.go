package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Attribute keys used on every ebctl log line that names an ElasticBox object.
const (
	KeyCloud     = "cloud"
	KeyWorkspace = "workspace"
	KeyBox       = "box"
	KeyInstance  = "instance"
	KeyError     = "error"
)

const redacted = "[redacted]"

var (
	// Logger is the global structured logger
	Logger *slog.Logger

	// Verbose enables debug logging
	Verbose bool
)

// Options selects how ebctl writes its diagnostic log.
type Options struct {
	Verbose bool
	JSON    bool
	// Writer defaults to stderr.
	Writer io.Writer
}

func init() {
	Logger = newLogger(Options{})
}

// Setup replaces the global logger.
func Setup(opts Options) {
	Verbose = opts.Verbose
	Logger = newLogger(opts)
}

func newLogger(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactTokens,
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// redactTokens hides ElasticBox API tokens passed as log attributes.
func redactTokens(_ []string, a slog.Attr) slog.Attr {
	if strings.HasSuffix(strings.ToLower(a.Key), "token") {
		return slog.String(a.Key, redacted)
	}
	return a
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// ForCloud returns a logger tagged with the cloud name.
func ForCloud(cloud string) *slog.Logger {
	return Logger.With(KeyCloud, cloud)
}

func Workspace(id string) slog.Attr { return slog.String(KeyWorkspace, id) }
func Box(id string) slog.Attr       { return slog.String(KeyBox, id) }
func Instance(id string) slog.Attr  { return slog.String(KeyInstance, id) }

// FetchFailed records a lookup that degraded to an empty result. The message
// is "Error fetching <what>".
func FetchFailed(what string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.String(KeyError, err.Error()))
	}
	Logger.LogAttrs(context.Background(), slog.LevelError, "Error fetching "+what, attrs...)
}
