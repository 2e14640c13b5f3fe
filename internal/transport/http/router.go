// Package httptransport is the thin HTTP layer: route wiring, request DTO
// decoding and the single place where domain errors become status codes.
// Business logic stays in the registry service.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"caretrack/internal/platform/config"
	"caretrack/internal/platform/metrics"
	"caretrack/internal/platform/middleware"
)

// Route paths. These are configuration constants for the router and the
// gates, not hard-wired literals inside handlers.
const (
	PathStoreHome    = "/store-home"
	PathStoreSensor  = "/store-sensor"
	PathStoreSenior  = "/store-senior"
	PathAssignSensor = "/assign-sensor"
	PathGetSenior    = "/get-senior"
	PathCreateToken  = "/create-jwt"
)

// ProtectedPaths lists the prefixes both gates guard. Token creation is the
// only open route.
func ProtectedPaths() []string {
	return []string{
		PathStoreHome,
		PathStoreSensor,
		PathStoreSenior,
		PathAssignSensor,
		PathGetSenior,
	}
}

// NewRouter assembles the middleware chain and the route table. The gate
// order is fixed: API key first, then token; each short-circuits with a 401
// before the handler runs.
func NewRouter(h *Handler, verifier middleware.TokenVerifier, cfg config.Server, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Metadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(m))
	r.Use(middleware.RequireAPIKey(middleware.APIKeyGate{
		Enabled:        cfg.APIKeyGateEnabled,
		Header:         cfg.APIKeyHeader,
		Value:          cfg.APIKeyValue,
		ProtectedPaths: ProtectedPaths(),
	}, logger, m))
	r.Use(middleware.RequireToken(middleware.TokenGate{
		Enabled:        cfg.TokenGateEnabled,
		ProtectedPaths: ProtectedPaths(),
	}, verifier, logger, m))

	r.Post(PathStoreHome, h.handleStoreHome)
	r.Post(PathStoreSensor, h.handleStoreSensor)
	r.Post(PathStoreSenior, h.handleStoreSenior)
	r.Put(PathAssignSensor, h.handleAssignSensor)
	r.Get(PathGetSenior, h.handleGetSenior)
	r.Get(PathCreateToken, h.handleCreateToken)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}
