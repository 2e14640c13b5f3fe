package domain

// Senior is a tracked resident. A senior always references an existing home;
// SensorID is nil until a sensor is bound through the assignment operation.
// Enabled is forced to false at creation regardless of caller input.
type Senior struct {
	SeniorID int64  `json:"seniorId"`
	Name     string `json:"name"`
	HomeID   int64  `json:"homeId"`
	Enabled  bool   `json:"enabled"`
	SensorID *int64 `json:"sensorId,omitempty"`
}

func (s Senior) Validate() error {
	if err := ValidateEntityID("seniorId", s.SeniorID); err != nil {
		return err
	}
	return ValidateEntityID("homeId", s.HomeID)
}

// SensorAssignment is the request to bind a sensor to a senior.
type SensorAssignment struct {
	SeniorID int64 `json:"seniorId"`
	SensorID int64 `json:"sensorId"`
}

func (a SensorAssignment) Validate() error {
	if err := ValidateEntityID("seniorId", a.SeniorID); err != nil {
		return err
	}
	return ValidateEntityID("sensorId", a.SensorID)
}
