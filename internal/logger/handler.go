package logger

import (
	"context"
	"go/build"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// SetupSLog installs the default slog handler. Format is text or json,
// file paths in the source attribute are trimmed of the repository root
// (rootPath) or GOPATH prefix, and the request id is pulled from the
// context under requestIdKey when present.
func SetupSLog(lvl slog.Level, format, rootPath string, requestIdKey any) error {
	ho := slog.HandlerOptions{
		Level: lvl,
	}

	var h slog.Handler
	switch format {
	case "json":
		h = slog.NewJSONHandler(os.Stderr, &ho)
	case "text", "":
		h = slog.NewTextHandler(os.Stderr, &ho)
	default:
		return &UnknownFormatError{Format: format}
	}

	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		gopath = build.Default.GOPATH
	}

	slog.SetDefault(slog.New(&handler{
		baseHandler:  h,
		rootPath:     strings.TrimSuffix(rootPath, "/") + "/",
		goPath:       strings.TrimSuffix(gopath, "/") + "/",
		requestIdKey: requestIdKey,
	}))

	return nil
}

type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return "log format must be json or text, got " + e.Format
}

type handler struct {
	baseHandler  slog.Handler
	rootPath     string
	goPath       string
	requestIdKey any
}

func (e *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return e.baseHandler.Enabled(ctx, level)
}

func (e *handler) Handle(ctx context.Context, record slog.Record) error {
	record = record.Clone()

	fs := runtime.CallersFrames([]uintptr{record.PC})
	f, _ := fs.Next()
	file := f.File
	if strings.HasPrefix(file, e.rootPath) {
		file = file[len(e.rootPath):]
	} else if strings.HasPrefix(file, e.goPath) {
		file = file[len(e.goPath):]
	}
	record.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
		Function: f.Function,
		File:     file,
		Line:     f.Line,
	}))

	if requestId := ctx.Value(e.requestIdKey); requestId != nil {
		record.AddAttrs(slog.String("request_id", requestId.(string)))
	}

	return e.baseHandler.Handle(ctx, record)
}

func (e *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{
		baseHandler:  e.baseHandler.WithAttrs(attrs),
		rootPath:     e.rootPath,
		goPath:       e.goPath,
		requestIdKey: e.requestIdKey,
	}
}

func (e *handler) WithGroup(name string) slog.Handler {
	return &handler{
		baseHandler:  e.baseHandler.WithGroup(name),
		rootPath:     e.rootPath,
		goPath:       e.goPath,
		requestIdKey: e.requestIdKey,
	}
}
