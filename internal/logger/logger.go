// Package logger provides the structured logger used across the storefront.
//
// WithCtx tags the base logger with the OpenTelemetry trace and span ids and
// the BFF request id found in ctx, so log lines from one checkout attempt can
// be followed through every upstream call:
//
//	log := logger.WithCtx(ctx)
//	log.Info("order recorded", "payment_ref", ref)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

var L = New(os.Getenv("APP_ENV"), os.Stdout)

// New returns a JSON logger for production and a text logger otherwise.
func New(env string, w io.Writer) *slog.Logger {
	switch strings.ToLower(env) {
	case "production", "prod":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// SetDefault replaces the package logger and the slog default.
func SetDefault(l *slog.Logger) {
	L = l
	slog.SetDefault(l)
}

type requestIDKey struct{}

// WithRequestID stores the BFF request id so WithCtx can pick it up.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithCtx returns L tagged with whatever correlation data ctx carries.
func WithCtx(ctx context.Context) *slog.Logger {
	log := L
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		log = log.With("trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
	}
	if id := RequestID(ctx); id != "" {
		log = log.With("request_id", id)
	}
	return log
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }
