package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/KotFed0t/wealth_tax_helper/utils"
)

const requestIDHeader = "X-Request-ID"

type Middleware func(http.Handler) http.Handler

// Chain applies middleware in declaration order.
func Chain(handler http.Handler, middleware ...Middleware) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}

// RequestID takes the request id from X-Request-ID or generates one, stores it
// in the request context and echoes it back.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := utils.CtxWithRqID(r.Context(), r.Header.Get(requestIDHeader))
			w.Header().Set(requestIDHeader, utils.GetRequestIDFromCtx(ctx))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func Logger() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			rqID := utils.GetRequestIDFromCtx(r.Context())

			slog.Info("start request", slog.String("rqID", rqID), slog.String("method", r.Method), slog.String("path", r.URL.Path))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				slog.Info(
					"request finished",
					slog.String("rqID", rqID),
					slog.Int("status", rec.status),
					slog.String("request duration", fmt.Sprintf("%.3fs", time.Since(now).Seconds())),
				)
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// Recover converts panics into 500 responses.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					slog.Error(
						"Panic recovered in http handler",
						slog.String("rqID", utils.GetRequestIDFromCtx(r.Context())),
						slog.String("path", r.URL.Path),
						slog.Any("panic", p),
						slog.String("stacktrace", string(debug.Stack())),
					)
					writeJSONError(w, http.StatusInternalServerError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
