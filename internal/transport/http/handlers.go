package httptransport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"caretrack/internal/domain"
	"caretrack/internal/jwttoken"
	"caretrack/internal/registry"
	dErrors "caretrack/pkg/domainerrors"
	"caretrack/pkg/requestcontext"
)

// Handler delegates to the registry service and the token service. Request
// DTOs use pointer fields so a missing JSON key is distinguishable from a
// zero value and rejected naming the field.
type Handler struct {
	registry *registry.Service
	tokens   *jwttoken.Service
	logger   *slog.Logger
}

func NewHandler(reg *registry.Service, tokens *jwttoken.Service, logger *slog.Logger) *Handler {
	return &Handler{
		registry: reg,
		tokens:   tokens,
		logger:   logger,
	}
}

type homeRequest struct {
	HomeID *int64  `json:"homeId"`
	Name   *string `json:"name"`
	Type   *string `json:"type"`
}

func (req homeRequest) validate() error {
	switch {
	case req.HomeID == nil:
		return missingField("homeId")
	case req.Name == nil:
		return missingField("name")
	case req.Type == nil:
		return missingField("type")
	}
	return nil
}

type sensorRequest struct {
	SensorID        *int64  `json:"sensorId"`
	HardwareVersion *string `json:"hardwareVersion"`
	SoftwareVersion *string `json:"softwareVersion"`
}

func (req sensorRequest) validate() error {
	switch {
	case req.SensorID == nil:
		return missingField("sensorId")
	case req.HardwareVersion == nil:
		return missingField("hardwareVersion")
	case req.SoftwareVersion == nil:
		return missingField("softwareVersion")
	}
	return nil
}

// seniorRequest accepts enabled and sensorId but the registry discards them:
// a senior always starts disabled and unbound.
type seniorRequest struct {
	SeniorID *int64  `json:"seniorId"`
	Name     *string `json:"name"`
	HomeID   *int64  `json:"homeId"`
	Enabled  *bool   `json:"enabled"`
	SensorID *int64  `json:"sensorId"`
}

func (req seniorRequest) validate() error {
	switch {
	case req.SeniorID == nil:
		return missingField("seniorId")
	case req.Name == nil:
		return missingField("name")
	case req.HomeID == nil:
		return missingField("homeId")
	}
	return nil
}

type assignmentRequest struct {
	SeniorID *int64 `json:"seniorId"`
	SensorID *int64 `json:"sensorId"`
}

func (req assignmentRequest) validate() error {
	switch {
	case req.SeniorID == nil:
		return missingField("seniorId")
	case req.SensorID == nil:
		return missingField("sensorId")
	}
	return nil
}

func missingField(field string) error {
	return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s is required.", field))
}

func (h *Handler) handleStoreHome(w http.ResponseWriter, r *http.Request) {
	var req homeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "Invalid request body."))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	home, err := h.registry.RegisterHome(r.Context(), domain.Home{
		HomeID: *req.HomeID,
		Name:   *req.Name,
		Type:   domain.HomeType(*req.Type),
	})
	if err != nil {
		h.logClientOrServerError(r, "register home failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, home)
}

func (h *Handler) handleStoreSensor(w http.ResponseWriter, r *http.Request) {
	var req sensorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "Invalid request body."))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	sensor, err := h.registry.RegisterSensor(r.Context(), domain.Sensor{
		SensorID:        *req.SensorID,
		HardwareVersion: *req.HardwareVersion,
		SoftwareVersion: *req.SoftwareVersion,
	})
	if err != nil {
		h.logClientOrServerError(r, "register sensor failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sensor)
}

func (h *Handler) handleStoreSenior(w http.ResponseWriter, r *http.Request) {
	var req seniorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "Invalid request body."))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	senior, err := h.registry.RegisterSenior(r.Context(), domain.Senior{
		SeniorID: *req.SeniorID,
		Name:     *req.Name,
		HomeID:   *req.HomeID,
	})
	if err != nil {
		h.logClientOrServerError(r, "register senior failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, senior)
}

func (h *Handler) handleAssignSensor(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "Invalid request body."))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	assignment := domain.SensorAssignment{
		SeniorID: *req.SeniorID,
		SensorID: *req.SensorID,
	}
	if err := h.registry.AssignSensor(r.Context(), assignment); err != nil {
		h.logClientOrServerError(r, "assign sensor failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Sensor %d assigned to senior %d.", assignment.SensorID, assignment.SeniorID),
	})
}

func (h *Handler) handleGetSenior(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("seniorId")
	if raw == "" {
		writeError(w, missingField("seniorId"))
		return
	}
	seniorID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "seniorId must be an integer."))
		return
	}
	senior, err := h.registry.GetSenior(r.Context(), seniorID)
	if err != nil {
		h.logClientOrServerError(r, "get senior failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, senior)
}

// handleCreateToken returns a freshly signed token in the "token" response
// header. The body stays empty; 201 signals the token was created.
func (h *Handler) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.Issue()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "token signing failed",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		writeError(w, err)
		return
	}
	w.Header().Set(TokenHeaderName, token)
	w.WriteHeader(http.StatusCreated)
}

// TokenHeaderName is the response header carrying a freshly issued token.
// Same literal name the token gate reads on inbound requests.
const TokenHeaderName = "token"

func (h *Handler) logClientOrServerError(r *http.Request, msg string, err error) {
	if dErrors.Is(err, dErrors.CodeInternal) || !isDomainError(err) {
		h.logger.ErrorContext(r.Context(), msg,
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		return
	}
	h.logger.WarnContext(r.Context(), msg,
		"error", err,
		"request_id", requestcontext.RequestID(r.Context()),
	)
}

func isDomainError(err error) bool {
	for _, code := range []dErrors.Code{
		dErrors.CodeValidation,
		dErrors.CodeReference,
		dErrors.CodeNotFound,
		dErrors.CodeUnauthorized,
	} {
		if dErrors.Is(err, code) {
			return true
		}
	}
	return false
}
