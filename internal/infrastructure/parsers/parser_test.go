package parsers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencut/minetwin/internal/domain/entities"
)

const schemaDoc = `[
  {
    "id": "Haul_Truck_CAT_777_2",
    "category": "HaulTruck",
    "content": [
      {"kind": "property", "name": "maxSpeedKph", "type": "number", "value": 60, "min_value": 0, "max_value": 100},
      {"kind": "property", "name": "status", "type": "string", "value": "operational", "allowed_values": ["operational", "maintenance"]},
      {"kind": "relationship", "name": "assignedRoute", "target": "Haul_Route_North"},
      {"kind": "telemetry", "name": "speed", "unit": "km/h"}
    ]
  },
  {
    "id": "Haul_Route_North",
    "category": "HaulRoute",
    "content": [
      {"kind": "property", "name": "gradePercent", "type": "number", "value": 8.5}
    ]
  }
]`

func TestSchemaParserParse(t *testing.T) {
	p := &SchemaParser{}

	raw, err := p.Parse(strings.NewReader(schemaDoc))
	require.NoError(t, err)
	require.Len(t, raw, 2)

	e, err := raw[0].ToEntity()
	require.NoError(t, err)
	assert.Equal(t, "Haul_Truck_CAT_777_2", e.ID)
	assert.Equal(t, entities.CategoryHaulTruck, e.Category)

	st, ok := e.Property("maxSpeedKph")
	require.True(t, ok)
	assert.Equal(t, 60.0, st.Value, "JSON numbers decode as float64")
	require.NotNil(t, st.MinValue)
	assert.Equal(t, 0.0, *st.MinValue)
	require.NotNil(t, st.MaxValue)
	assert.Equal(t, 100.0, *st.MaxValue)

	assert.Equal(t, map[string]string{"assignedRoute": "Haul_Route_North"}, e.Relationships())
	assert.Equal(t, []string{"speed"}, e.TelemetryDefinitions())
}

func TestSchemaParserRejectsMalformedJSON(t *testing.T) {
	p := &SchemaParser{}

	_, err := p.Parse(strings.NewReader(`{"not": "a list"`))
	assert.Error(t, err)
}

func TestToEntityValidation(t *testing.T) {
	tests := []struct {
		name    string
		raw     RawEntity
		wantErr string
	}{
		{
			name:    "empty id",
			raw:     RawEntity{Category: "HaulTruck"},
			wantErr: "empty id",
		},
		{
			name: "unknown kind",
			raw: RawEntity{
				ID:      "x",
				Content: []RawItem{{Kind: "gadget", Name: "n"}},
			},
			wantErr: "unknown kind",
		},
		{
			name: "empty item name",
			raw: RawEntity{
				ID:      "x",
				Content: []RawItem{{Kind: "property"}},
			},
			wantErr: "empty name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.raw.ToEntity()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

const telemetryCSV = `truck_id,haul_path_id,haul_phase,timestamp,speed,fuel_level,payload_tons
Haul_Truck_CAT_777_2,Haul_Route_North,loaded,2026-03-01T08:00:00Z,21.5,88.2,180
Haul_Truck_CAT_777_2,Haul_Route_North,empty,2026-03-01T08:01:00Z,,86.9,
`

func TestTelemetryParserParse(t *testing.T) {
	p := &TelemetryParser{}

	records, err := p.Parse(strings.NewReader(telemetryCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Haul_Truck_CAT_777_2", first.TruckID)
	assert.Equal(t, "Haul_Route_North", first.HaulPathID)
	assert.Equal(t, "loaded", first.HaulPhase)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), first.Timestamp)
	require.NotNil(t, first.Speed)
	assert.Equal(t, 21.5, *first.Speed)
	require.NotNil(t, first.PayloadTons)
	assert.Equal(t, 180.0, *first.PayloadTons)

	second := records[1]
	assert.Nil(t, second.Speed, "blank cell means the sensor did not report")
	assert.Nil(t, second.PayloadTons)
	require.NotNil(t, second.FuelLevel)
	assert.Equal(t, 86.9, *second.FuelLevel)
}

func TestTelemetryParserMissingRequiredColumn(t *testing.T) {
	p := &TelemetryParser{}

	_, err := p.Parse(strings.NewReader("truck_id,speed\nt1,20\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp")
}

func TestTelemetryParserRowErrorsCarryLineNumbers(t *testing.T) {
	p := &TelemetryParser{}

	bad := "truck_id,timestamp,speed\nt1,2026-03-01T08:00:00Z,fast\n"
	_, err := p.Parse(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	empty := "truck_id,timestamp\n,2026-03-01T08:00:00Z\n"
	_, err = p.Parse(strings.NewReader(empty))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty truck_id")
}
