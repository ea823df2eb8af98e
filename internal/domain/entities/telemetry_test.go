package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumericField(t *testing.T) {
	rec := TelemetryRecord{
		Speed:       floatPtr(25.0),
		PayloadTons: floatPtr(180.5),
	}

	v, ok := rec.NumericField("speed")
	assert.True(t, ok)
	assert.Equal(t, 25.0, v)

	v, ok = rec.NumericField("payloadTons")
	assert.True(t, ok)
	assert.Equal(t, 180.5, v)

	_, ok = rec.NumericField("fuelLevel")
	assert.False(t, ok, "unreported sensor must not read as zero")

	_, ok = rec.NumericField("noSuchField")
	assert.False(t, ok)
}

func TestFieldCoversIdentifyingStrings(t *testing.T) {
	rec := TelemetryRecord{
		HaulPathID: "Haul_Route_North",
		HaulPhase:  "loaded",
		Heading:    floatPtr(90.0),
	}

	v, ok := rec.Field("haulPathId")
	assert.True(t, ok)
	assert.Equal(t, "Haul_Route_North", v)

	v, ok = rec.Field("haulPhase")
	assert.True(t, ok)
	assert.Equal(t, "loaded", v)

	v, ok = rec.Field("heading")
	assert.True(t, ok)
	assert.Equal(t, 90.0, v)

	_, ok = rec.Field("speed")
	assert.False(t, ok)
}
