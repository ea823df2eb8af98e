package services

import "strings"

// MphToKph is the fixed conversion factor applied to telemetry speed fields,
// which the sensors report in miles per hour.
const MphToKph = 1.60934

// speedFieldName is the telemetry field subject to mph→km/h conversion.
const speedFieldName = "speed"

// telemetryField describes one field of the global telemetry schema. Every
// truck emits the same sensor schema, so the table is not entity-specific.
type telemetryField struct {
	name       string
	valueType  string // "number" or "string"
	unit       string
	variations []string // normalized phrase variations (lowercase, no separators)
}

// telemetryFieldTable lists the known telemetry fields in presentation order.
var telemetryFieldTable = []telemetryField{
	{name: "speed", valueType: "number", unit: "km/h", variations: []string{"velocity", "currentspeed", "groundspeed"}},
	{name: "heading", valueType: "number", unit: "degrees", variations: []string{"bearing", "direction"}},
	{name: "positionX", valueType: "number", unit: "m", variations: []string{"xposition", "easting"}},
	{name: "positionY", valueType: "number", unit: "m", variations: []string{"yposition", "northing"}},
	{name: "engineTemperature", valueType: "number", unit: "°F", variations: []string{"enginetemp", "motortemperature", "motortemp"}},
	{name: "fuelLevel", valueType: "number", unit: "%", variations: []string{"fuel", "fuelpercent", "fuelremaining"}},
	{name: "tirePressureFrontLeft", valueType: "number", unit: "psi", variations: []string{"frontlefttire", "frontlefttirepressure"}},
	{name: "tirePressureFrontRight", valueType: "number", unit: "psi", variations: []string{"frontrighttire", "frontrighttirepressure"}},
	{name: "tirePressureRearLeft", valueType: "number", unit: "psi", variations: []string{"rearlefttire", "rearlefttirepressure"}},
	{name: "tirePressureRearRight", valueType: "number", unit: "psi", variations: []string{"rearrighttire", "rearrighttirepressure"}},
	{name: "payloadTons", valueType: "number", unit: "t", variations: []string{"payload", "load", "tonnage"}},
	{name: "haulPathId", valueType: "string", unit: "", variations: []string{"path", "haulpath", "currentpath"}},
	{name: "haulPhase", valueType: "string", unit: "", variations: []string{"phase", "haulcycle", "cyclephase"}},
}

// telemetryFieldNames returns the field names in table order.
func telemetryFieldNames() []string {
	names := make([]string, len(telemetryFieldTable))
	for i, f := range telemetryFieldTable {
		names[i] = f.name
	}
	return names
}

// inferUnit guesses the unit of an unknown or derived property name by
// substring heuristics. Used when neither the telemetry table nor the twin
// schema declares one.
func inferUnit(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "temp"):
		return "°F"
	case strings.Contains(lower, "speed"):
		return "km/h"
	case strings.Contains(lower, "pressure"):
		return "psi"
	case strings.Contains(lower, "fuel"):
		return "%"
	case strings.Contains(lower, "heading"), strings.Contains(lower, "angle"):
		return "degrees"
	case strings.Contains(lower, "distance"), strings.Contains(lower, "meters"):
		return "m"
	case strings.Contains(lower, "tons"), strings.Contains(lower, "payload"):
		return "t"
	default:
		return ""
	}
}
