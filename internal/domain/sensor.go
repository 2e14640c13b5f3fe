package domain

// Sensor is a hardware unit. Sensors are immutable once registered; the only
// thing that ever references them is a senior's sensorId binding.
type Sensor struct {
	SensorID        int64  `json:"sensorId"`
	HardwareVersion string `json:"hardwareVersion"`
	SoftwareVersion string `json:"softwareVersion"`
}

func (s Sensor) Validate() error {
	return ValidateEntityID("sensorId", s.SensorID)
}
