package httpserver

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RequestLogMiddleware logs one line per request with status and latency.
func RequestLogMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		fields := func(status int, latency time.Duration, written int64) []zap.Field {
			return []zap.Field{
				zap.Int("status", status),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("ip", extractIP(r)),
				zap.String("user_agent", r.UserAgent()),
				zap.Duration("latency", latency),
				zap.Int64("bytes", written),
				zap.String("request_id", requestID),
			}
		}

		// a panicking handler still gets its request line; RecoveryMiddleware writes the 500
		started := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("request", append(fields(http.StatusInternalServerError, time.Since(started), 0),
					zap.Bool("panic", true))...)
				panic(rec)
			}
		}()

		m := httpsnoop.CaptureMetrics(next, w, r)

		switch {
		case m.Code >= http.StatusInternalServerError:
			logger.Error("request", fields(m.Code, m.Duration, m.Written)...)
		case m.Code >= http.StatusBadRequest:
			logger.Warn("request", fields(m.Code, m.Duration, m.Written)...)
		default:
			logger.Info("request", fields(m.Code, m.Duration, m.Written)...)
		}
	})
}

// RecoveryMiddleware turns a panic into a logged 500.
func RecoveryMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error("panic recovered",
				zap.Any("panic", rec),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", w.Header().Get(requestIDHeader)),
				zap.ByteString("stack", debug.Stack()))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{
					"code":    "internal_error",
					"message": "Internal server error",
				},
			})
		}()

		next.ServeHTTP(w, r)
	})
}
