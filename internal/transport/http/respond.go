package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "caretrack/pkg/domainerrors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError is the single translation point from domain errors to HTTP.
// Every error body carries a "detail" field describing the failure; the
// status code is the only machine-readable signal.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := "Internal server error."
	var de dErrors.Error
	if errors.As(err, &de) {
		status = dErrors.ToHTTPStatus(de.Code)
		detail = de.Detail
	}
	writeJSON(w, status, map[string]string{"detail": detail})
}
