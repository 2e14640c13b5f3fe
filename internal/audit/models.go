package audit

import "time"

// Actions recorded on the audit trail.
const (
	ActionRegisterHome   = "register_home"
	ActionRegisterSensor = "register_sensor"
	ActionRegisterSenior = "register_senior"
	ActionAssignSensor   = "assign_sensor"
)

// Event captures one successful mutating operation. It is emitted from the
// registry service and persisted through the same document store as the
// entities themselves.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	EntityID  int64     `json:"entityId"`
	RequestID string    `json:"requestId,omitempty"`
	ClientIP  string    `json:"clientIp,omitempty"`
	Device    string    `json:"device,omitempty"`
}
