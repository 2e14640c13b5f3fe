package middleware

import (
	"log/slog"
	"net/http"

	"caretrack/internal/platform/metrics"
	"caretrack/pkg/requestcontext"
)

// TokenHeader is the header the second layer reads the signed token from.
// The name is literal and lower-case on the wire ("token"), matching the
// clients this service was built for.
const TokenHeader = "token"

// TokenVerifier is the slice of the token service the gate needs: a pass/fail
// verdict on a presented token string.
type TokenVerifier interface {
	Verify(tokenString string) error
}

// TokenGate configures the second authentication layer.
type TokenGate struct {
	Enabled        bool
	ProtectedPaths []string
}

// RequireToken rejects protected requests without a valid signed token. The
// missing-header case and the failed-verification case report different
// details, mirroring the API-key layer's attribution-by-layer policy.
func RequireToken(gate TokenGate, verifier TokenVerifier, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Enabled || !protectedPath(r.URL.Path, gate.ProtectedPaths) {
				next.ServeHTTP(w, r)
				return
			}
			tokenString := r.Header.Get(TokenHeader)
			if tokenString == "" {
				logger.WarnContext(r.Context(), "request rejected by token gate - no token header",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				m.IncrementGateRejections("token")
				writeReject(w, http.StatusUnauthorized, "No 'token' key in headers.")
				return
			}
			if err := verifier.Verify(tokenString); err != nil {
				logger.WarnContext(r.Context(), "request rejected by token gate - verification failed",
					"path", r.URL.Path,
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				m.IncrementGateRejections("token")
				writeReject(w, http.StatusUnauthorized, "Token failed.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
