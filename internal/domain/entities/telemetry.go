package entities

import "time"

// TelemetryRecord is an immutable, timestamped observation for one truck.
// Sensor fields are pointers: a nil field means the sensor did not report in
// that sample. Records are append-only and ordered by timestamp.
type TelemetryRecord struct {
	ID         string    `json:"id"`
	TruckID    string    `json:"truck_id"`
	HaulPathID string    `json:"haul_path_id"`
	HaulPhase  string    `json:"haul_phase"`
	Timestamp  time.Time `json:"timestamp"`

	Speed                  *float64 `json:"speed,omitempty"` // mph, as reported by the sensor
	Heading                *float64 `json:"heading,omitempty"`
	PositionX              *float64 `json:"position_x,omitempty"`
	PositionY              *float64 `json:"position_y,omitempty"`
	EngineTemperature      *float64 `json:"engine_temperature,omitempty"`
	FuelLevel              *float64 `json:"fuel_level,omitempty"`
	TirePressureFrontLeft  *float64 `json:"tire_pressure_front_left,omitempty"`
	TirePressureFrontRight *float64 `json:"tire_pressure_front_right,omitempty"`
	TirePressureRearLeft   *float64 `json:"tire_pressure_rear_left,omitempty"`
	TirePressureRearRight  *float64 `json:"tire_pressure_rear_right,omitempty"`
	PayloadTons            *float64 `json:"payload_tons,omitempty"`
}

// NumericField returns the named sensor field, if it was reported.
func (r TelemetryRecord) NumericField(name string) (float64, bool) {
	var p *float64
	switch name {
	case "speed":
		p = r.Speed
	case "heading":
		p = r.Heading
	case "positionX":
		p = r.PositionX
	case "positionY":
		p = r.PositionY
	case "engineTemperature":
		p = r.EngineTemperature
	case "fuelLevel":
		p = r.FuelLevel
	case "tirePressureFrontLeft":
		p = r.TirePressureFrontLeft
	case "tirePressureFrontRight":
		p = r.TirePressureFrontRight
	case "tirePressureRearLeft":
		p = r.TirePressureRearLeft
	case "tirePressureRearRight":
		p = r.TirePressureRearRight
	case "payloadTons":
		p = r.PayloadTons
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Field returns the named field as an untyped value, covering the
// identifying string fields as well as the numeric sensors.
func (r TelemetryRecord) Field(name string) (any, bool) {
	switch name {
	case "haulPathId":
		return r.HaulPathID, r.HaulPathID != ""
	case "haulPhase":
		return r.HaulPhase, r.HaulPhase != ""
	}
	v, ok := r.NumericField(name)
	if !ok {
		return nil, false
	}
	return v, true
}
