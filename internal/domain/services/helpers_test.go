package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/opencut/minetwin/internal/domain/entities"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

// testModel builds a small mine-site twin. Insertion order matters for the
// resolver tie-break tests, so keep additions at the end.
func testModel() *entities.Model {
	m := entities.NewModel()

	m.Add(entities.NewEntity("Haul_Truck_CAT_777_2", entities.CategoryHaulTruck, []entities.ContentItem{
		{Kind: entities.ItemProperty, Name: "maxSpeedKph", Type: entities.TypeNumber, Value: 60.0, Default: 40.0, MinValue: floatPtr(0), MaxValue: floatPtr(100)},
		{Kind: entities.ItemProperty, Name: "operatorName", Type: entities.TypeString, Value: "J. Okafor"},
		{Kind: entities.ItemProperty, Name: "status", Type: entities.TypeString, Value: "operational", AllowedValues: []any{"operational", "maintenance", "parked"}},
		{Kind: entities.ItemProperty, Name: "serialNumber", Type: entities.TypeString, Value: "SN-777-2", ReadOnly: true},
		{Kind: entities.ItemRelationship, Name: "assignedRoute", Target: "Haul_Route_North"},
		{Kind: entities.ItemTelemetry, Name: "speed", Unit: "km/h"},
	}))

	m.Add(entities.NewEntity("Haul_Truck_CAT_777_20", entities.CategoryHaulTruck, []entities.ContentItem{
		{Kind: entities.ItemProperty, Name: "maxSpeedKph", Type: entities.TypeNumber, Value: 55.0},
		{Kind: entities.ItemRelationship, Name: "assignedRoute", Target: "Haul_Route_South"},
	}))

	m.Add(entities.NewEntity("Haul_Truck_CAT_785_1", entities.CategoryHaulTruck, []entities.ContentItem{
		{Kind: entities.ItemProperty, Name: "maxSpeedKph", Type: entities.TypeNumber, Value: 50.0},
		{Kind: entities.ItemRelationship, Name: "assignedRoute", Target: "Haul_Route_North"},
	}))

	m.Add(entities.NewEntity("Loader_LT_1", entities.CategoryLoader, []entities.ContentItem{
		{Kind: entities.ItemProperty, Name: "capacityTons", Type: entities.TypeNumber, Value: 35.0},
	}))

	m.Add(entities.NewEntity("Haul_Route_North", entities.CategoryHaulRoute, []entities.ContentItem{
		{Kind: entities.ItemProperty, Name: "gradePercent", Type: entities.TypeNumber, Value: 8.5},
		{Kind: entities.ItemProperty, Name: "focusSnapDistanceMeters", Type: entities.TypeNumber, Value: 12.0},
	}))

	return m
}

// rec builds a telemetry record with the fields the executor tests touch.
func rec(truckID, pathID string, at time.Time, speedMph float64) entities.TelemetryRecord {
	return entities.TelemetryRecord{
		TruckID:    truckID,
		HaulPathID: pathID,
		Timestamp:  at,
		Speed:      floatPtr(speedMph),
	}
}
