package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"hrms/internal/transport/http/api"
)

// RateLimit bounds requests per caller: the authenticated user when known,
// the client IP otherwise.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return passThrough
	}
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(actorOrIPKey),
		httprate.WithLimitHandler(limited(limit, window)),
	)
}

// LoginRateLimit is the stricter limit for credential checks, keyed by IP
// and by the submitted email.
func LoginRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	if baseLimit <= 0 {
		return passThrough
	}
	limit := max(baseLimit/4, 1)
	byIP := httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limited(limit, window)),
	)
	byEmail := httprate.Limit(limit, window,
		httprate.WithKeyFuncs(emailOrIPKey("email")),
		httprate.WithLimitHandler(limited(limit, window)),
	)
	return func(next http.Handler) http.Handler {
		return byIP(byEmail(next))
	}
}

func passThrough(next http.Handler) http.Handler { return next }

func limited(limit int, window time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Warn("rate limit exceeded",
			"path", r.URL.Path,
			"method", r.Method,
			"limit", limit,
			"windowSec", int(window.Seconds()),
		)
		api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	}
}

func actorOrIPKey(r *http.Request) (string, error) {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID, nil
	}
	return httprate.KeyByIP(r)
}

func emailOrIPKey(field string) httprate.KeyFunc {
	return func(r *http.Request) (string, error) {
		email := extractJSONField(r, field)
		if email == "" {
			return httprate.KeyByIP(r)
		}
		return "email:" + strings.ToLower(email), nil
	}
}

// extractJSONField peeks at a string field of a JSON body and restores the
// body for the next handler.
func extractJSONField(r *http.Request, field string) string {
	if r == nil || r.Body == nil {
		return ""
	}
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if !strings.Contains(contentType, "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return ""
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}
