// Package logger provides the structured, levelled storefront logger built on
// log/slog.
//
// Handlers and services should log through WithCtx so every line carries the
// request_id injected by the request middleware:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order created", "order_id", order.ID, "total", order.Total)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/sadekstore/storefront/config"
)

var (
	L    *slog.Logger
	base slog.Handler
)

func init() {
	Setup(config.AppEnv(), os.Stdout)
}

// Setup replaces the base logger. Production environments log JSON at INFO,
// everything else logs human-readable text at DEBUG.
func Setup(env string, w io.Writer) {
	var handler slog.Handler

	switch env {
	case "production", "prod":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "test":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	base = handler
	L = slog.New(handler)
	slog.SetDefault(L)
}

// Attach adds extra handlers next to the one installed by Setup. Calling
// Setup again drops them.
func Attach(extra ...slog.Handler) {
	L = slog.New(append(fanout{base}, extra...))
	slog.SetDefault(L)
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Component returns the base logger tagged with a component name.
func Component(name string) *slog.Logger {
	return L.With("component", name)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
