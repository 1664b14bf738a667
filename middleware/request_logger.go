package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/betterlearn/betterlearn-api/logger"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	identityKey  contextKey = "identity"
)

// identity is filled in by EnsureValidToken once a token is accepted, so the
// request logger wrapping it can report who made the request.
type identity struct {
	subject  string
	nickname string
}

func recordIdentity(r *http.Request, subject, nickname string) {
	if id, ok := r.Context().Value(identityKey).(*identity); ok {
		id.subject = subject
		id.nickname = nickname
	}
}

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

// RequestID returns the id attached by RequestLogger, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags each request with an id and logs it once it completes.
// It sits outside EnsureValidToken so rejected requests are logged too.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			who := &identity{}
			ctx := context.WithValue(r.Context(), requestIDKey, id)
			ctx = context.WithValue(ctx, identityKey, who)
			r = r.WithContext(ctx)
			next.ServeHTTP(rec, r)

			kv := []interface{}{
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			}
			if who.subject != "" {
				kv = append(kv, "subject", who.subject)
			}
			if who.nickname != "" {
				kv = append(kv, "nickname", who.nickname)
			}
			switch {
			case rec.status >= 500:
				log.Error("Request failed", kv...)
			case rec.status >= 400:
				log.Warn("Request rejected", kv...)
			default:
				log.Info("Request served", kv...)
			}
		})
	}
}
