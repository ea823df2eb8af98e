package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencut/minetwin/internal/domain/entities"
)

func testTruck() *entities.Entity {
	model := testModel()
	e, _ := model.Get("Haul_Truck_CAT_777_2")
	return e
}

func TestResolvePropertyExact(t *testing.T) {
	r := NewPropertyResolver()

	desc, err := r.ResolveProperty(testTruck(), "maxSpeedKph")
	require.NoError(t, err)
	assert.Equal(t, "maxSpeedKph", desc.Name)
	assert.Equal(t, entities.SourceSchema, desc.Source)
	assert.Equal(t, entities.TypeNumber, desc.Type)
	assert.Equal(t, "km/h", desc.Unit)
}

func TestResolvePropertyNormalizedPhrase(t *testing.T) {
	r := NewPropertyResolver()

	tests := []struct {
		phrase string
		want   string
	}{
		{"max speed kph", "maxSpeedKph"},
		{"Max-Speed-KPH", "maxSpeedKph"},
		{"operator name", "operatorName"},
	}
	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			desc, err := r.ResolveProperty(testTruck(), tt.phrase)
			require.NoError(t, err)
			assert.Equal(t, tt.want, desc.Name)
		})
	}
}

func TestResolvePropertyVariations(t *testing.T) {
	r := NewPropertyResolver()

	tests := []struct {
		phrase string
		want   string
	}{
		{"speed limit", "maxSpeedKph"},
		{"top speed", "maxSpeedKph"},
		{"driver", "operatorName"},
		{"state", "status"},
	}
	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			desc, err := r.ResolveProperty(testTruck(), tt.phrase)
			require.NoError(t, err)
			assert.Equal(t, tt.want, desc.Name)
			assert.Equal(t, entities.SourceSchema, desc.Source)
		})
	}
}

func TestResolvePropertyTelemetryFallback(t *testing.T) {
	r := NewPropertyResolver()

	desc, err := r.ResolveProperty(testTruck(), "fuel level")
	require.NoError(t, err)
	assert.Equal(t, "fuelLevel", desc.Name)
	assert.Equal(t, entities.SourceTelemetry, desc.Source)
	assert.Equal(t, "%", desc.Unit)

	desc, err = r.ResolveProperty(testTruck(), "payload")
	require.NoError(t, err)
	assert.Equal(t, "payloadTons", desc.Name)
	assert.Equal(t, "t", desc.Unit)
}

func TestResolvePropertySpeedBindsTelemetry(t *testing.T) {
	// "speed" is an exact telemetry field name; it must not fall into
	// maxSpeedKph by substring containment.
	r := NewPropertyResolver()

	desc, err := r.ResolveProperty(testTruck(), "speed")
	require.NoError(t, err)
	assert.Equal(t, "speed", desc.Name)
	assert.Equal(t, entities.SourceTelemetry, desc.Source)
}

func TestResolvePropertySubstring(t *testing.T) {
	r := NewPropertyResolver()

	// Not exact and not a known variation, but a substring of the canonical
	// name.
	desc, err := r.ResolveProperty(testTruck(), "serial")
	require.NoError(t, err)
	assert.Equal(t, "serialNumber", desc.Name)
}

func TestResolvePropertyNotFoundWithSuggestions(t *testing.T) {
	r := NewPropertyResolver()

	_, err := r.ResolveProperty(testTruck(), "spedd")
	require.Error(t, err)
	assert.True(t, entities.IsCode(err, entities.CodePropertyNotFound))

	var de *entities.DomainError
	require.ErrorAs(t, err, &de)
	assert.NotEmpty(t, de.Suggestions)
	assert.LessOrEqual(t, len(de.Suggestions), 5)
	assert.Contains(t, de.Suggestions, "speed")
}

func TestResolvePropertyEmptyPhrase(t *testing.T) {
	r := NewPropertyResolver()

	_, err := r.ResolveProperty(testTruck(), "   ")
	require.Error(t, err)
	assert.True(t, entities.IsCode(err, entities.CodePropertyNotFound))
}

func TestSuggestionsRankSubstringsFirst(t *testing.T) {
	r := NewPropertyResolver()

	// "position" is contained in positionX and positionY; both must outrank
	// any edit-distance candidates and order alphabetically.
	s := r.suggestions(testTruck(), "position")
	require.GreaterOrEqual(t, len(s), 2)
	assert.Equal(t, "positionX", s[0])
	assert.Equal(t, "positionY", s[1])
}

func TestNormalizePhrase(t *testing.T) {
	assert.Equal(t, "maxspeedkph", normalizePhrase("Max Speed-KPH"))
	assert.Equal(t, "fuellevel", normalizePhrase("fuel_level"))
	assert.Equal(t, "", normalizePhrase("  _- "))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"speed", "", 5},
		{"speed", "speed", 0},
		{"speed", "spedd", 1},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshteinDistance(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}
