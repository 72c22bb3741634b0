package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	perrors "github.com/davejbarnes/pyngctl/pkg/errors"
)

type contextKey string

const contextKeyRequestID contextKey = "requestID"

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

// statusRecorder captures the status code for logs and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMiddleware wraps an API handler with request ID, version
// negotiation, rate limiting, body limits, panic recovery, logging and
// metrics.
func (s *Server) withMiddleware(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		r = r.WithContext(ctx)
		w.Header().Set(RequestIDHeader, requestID)
		w.Header().Set(APIVersionHeader, negotiateAPIVersion(r))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if p := recover(); p != nil {
				slog.ErrorContext(ctx, "handler panicked", "path", path, "panic", p, "request_id", requestID)
				WriteError(rec, r, http.StatusInternalServerError, perrors.ErrCodeInternal,
					"internal server error", true, nil)
			}
			elapsed := time.Since(start)
			httpRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(rec.status)).Inc()
			httpRequestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
			slog.DebugContext(ctx, "request handled",
				"path", r.URL.Path,
				"method", r.Method,
				"status", rec.status,
				"duration", elapsed,
				"request_id", requestID,
				"remote_addr", r.RemoteAddr)
		}()

		if !s.limiter.Allow() {
			rateLimitRejects.Inc()
			w.Header().Set("Retry-After", "1")
			WriteError(rec, r, http.StatusTooManyRequests, perrors.ErrCodeRateLimitExceeded,
				"rate limit exceeded", true, nil)
			return
		}

		if s.config.MaxBodyBytes > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(rec, r.Body, s.config.MaxBodyBytes)
		}

		next(rec, r)
	}
}
