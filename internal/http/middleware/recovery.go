package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jmylchreest/localtv/internal/observability"
)

// Recovery turns a handler panic into a 500 response and logs it with the
// request ID and stack. http.ErrAbortHandler is re-raised so the server can
// abort the connection as it expects.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
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

				ctx := r.Context()
				panicLogger := observability.WithComponent(logger, "http")
				if id := GetRequestID(ctx); id != "" {
					panicLogger = observability.WithRequestID(panicLogger, id)
				}
				panicLogger.ErrorContext(ctx, "handler panicked",
					slog.String("panic", fmt.Sprint(rec)),
					slog.String("route", r.Method+" "+r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
