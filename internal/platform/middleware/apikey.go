package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"caretrack/internal/platform/metrics"
	"caretrack/pkg/requestcontext"
)

// APIKeyGate configures the first authentication layer: a static header
// name/value pair checked on every protected route.
type APIKeyGate struct {
	Enabled        bool
	Header         string
	Value          string
	ProtectedPaths []string
}

// RequireAPIKey rejects protected requests whose API-key header is missing or
// wrong. When the gate is disabled it passes everything through without
// inspecting headers.
func RequireAPIKey(gate APIKeyGate, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Enabled || !protectedPath(r.URL.Path, gate.ProtectedPaths) {
				next.ServeHTTP(w, r)
				return
			}
			presented := r.Header.Get(gate.Header)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(gate.Value)) == 1 {
				next.ServeHTTP(w, r)
				return
			}
			logger.WarnContext(r.Context(), "request rejected by API-key gate",
				"path", r.URL.Path,
				"request_id", requestcontext.RequestID(r.Context()),
			)
			m.IncrementGateRejections("api_key")
			writeReject(w, http.StatusUnauthorized, "Api-key in headers missing or incorrect.")
		})
	}
}

// writeReject writes the JSON error envelope used by gates and the recovery
// middleware. It matches the transport layer's envelope so callers see one
// error shape everywhere.
func writeReject(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
