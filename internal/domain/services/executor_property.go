package services

import (
	"context"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// noDataValue is returned when a telemetry-backed read has no records in the
// window. An empty window is a defined result, not an error; callers tell it
// apart from a genuine zero via RecordCount.
const noDataValue = "N/A"

// PropertyExecutor serves get_property queries: current value reads from
// either the twin schema or the latest telemetry record.
type PropertyExecutor struct{}

// CanHandle reports whether the intent is get_property.
func (e *PropertyExecutor) CanHandle(intent entities.GenericIntent) bool {
	return intent == entities.IntentGetProperty
}

// Execute reads the resolved property. Schema-sourced properties return the
// cached current value, falling back to the declared default. Telemetry
// properties read the named field of the latest record in the window, with
// speed converted from mph to km/h.
func (e *PropertyExecutor) Execute(_ context.Context, q *entities.ResolvedQuery, records []entities.TelemetryRecord) (*entities.QueryResult, error) {
	desc := q.Property
	if desc == nil {
		return nil, entities.NewValidationError("get_property query resolved without a property")
	}

	if desc.Source == entities.SourceSchema {
		st, ok := q.Entity.Property(desc.Name)
		if !ok {
			return nil, entities.NewPropertyNotFound(desc.Name, nil)
		}
		value := st.Value
		if value == nil {
			value = st.Default
		}
		return &entities.QueryResult{
			Value: value,
			Units: desc.Unit,
			Metadata: map[string]any{
				"source": string(entities.SourceSchema),
				"entity": q.Entity.ID,
			},
		}, nil
	}

	if len(records) == 0 {
		return &entities.QueryResult{
			Value:       noDataValue,
			Units:       desc.Unit,
			RecordCount: 0,
		}, nil
	}

	latest := records[0]
	for _, rec := range records[1:] {
		if !rec.Timestamp.Before(latest.Timestamp) {
			latest = rec
		}
	}

	value, ok := latest.Field(desc.Name)
	if !ok {
		value = noDataValue
	} else if desc.Name == speedFieldName {
		if v, isNum := value.(float64); isNum {
			value = v * MphToKph
		}
	}

	return &entities.QueryResult{
		Value:       value,
		Units:       desc.Unit,
		RecordCount: len(records),
		Metadata: map[string]any{
			"source":    string(entities.SourceTelemetry),
			"timestamp": latest.Timestamp,
		},
	}, nil
}
