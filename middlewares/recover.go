package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/polyglot/pkg/logger"
)

// DefaultStackSize caps the captured stack trace in bytes.
const DefaultStackSize = 4096

type recoverConfig struct {
	logger    *slog.Logger
	onPanic   func(w http.ResponseWriter, r *http.Request, pe *PanicError)
	stackSize int
}

// RecoverOption configures Recover.
type RecoverOption func(*recoverConfig)

// WithRecoverLogger logs recovered panics at error level.
func WithRecoverLogger(log *slog.Logger) RecoverOption {
	return func(cfg *recoverConfig) {
		if log != nil {
			cfg.logger = log
		}
	}
}

// WithRecoverStackSize sets the stack capture size. Zero disables stacks.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *recoverConfig) {
		cfg.stackSize = max(size, 0)
	}
}

// WithRecoverHandler replaces the default 500 response.
func WithRecoverHandler(fn func(w http.ResponseWriter, r *http.Request, pe *PanicError)) RecoverOption {
	return func(cfg *recoverConfig) {
		if fn != nil {
			cfg.onPanic = fn
		}
	}
}

// Recover turns handler panics into a logged PanicError and a 500 response.
// http.ErrAbortHandler is re-panicked so the server aborts the response.
func Recover(opts ...RecoverOption) func(http.Handler) http.Handler {
	cfg := &recoverConfig{
		logger:    logger.NewNope(),
		stackSize: DefaultStackSize,
		onPanic: func(w http.ResponseWriter, _ *http.Request, _ *PanicError) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				pe := &PanicError{Value: rec}
				attrs := []any{slog.Any("panic", rec), slog.String("path", r.URL.Path)}
				if cfg.stackSize > 0 {
					buf := make([]byte, cfg.stackSize)
					pe.Stack = buf[:runtime.Stack(buf, false)]
					attrs = append(attrs, slog.String("stack", string(pe.Stack)))
				}
				cfg.logger.ErrorContext(r.Context(), "panic recovered", attrs...)

				cfg.onPanic(w, r, pe)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
