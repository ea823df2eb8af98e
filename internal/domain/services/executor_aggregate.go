package services

import (
	"context"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// AggregateExecutor serves aggregate queries: average/max/min/sum over a
// telemetry field, and route utilization.
type AggregateExecutor struct{}

// CanHandle reports whether the intent is aggregate.
func (e *AggregateExecutor) CanHandle(intent entities.GenericIntent) bool {
	return intent == entities.IntentAggregate
}

// Execute reduces the window. A route-utilization query (average operation,
// no explicit property, source path present) computes
// recordCount / windowMinutes * 100, treating each record as one time-unit
// of path occupancy rather than a precise duty cycle.
// Anything else extracts the numeric field (defaulting to speed, converted
// mph→km/h) and applies the operation. Zero extractable values produce 0
// with RecordCount reflecting the raw window, distinguishing "no data" from
// "no numeric data".
func (e *AggregateExecutor) Execute(_ context.Context, q *entities.ResolvedQuery, records []entities.TelemetryRecord) (*entities.QueryResult, error) {
	if q.Operation == entities.OpAverage && q.Property == nil && q.SourcePath != "" {
		return e.utilization(q, records), nil
	}

	field := speedFieldName
	unit := "km/h"
	if q.Property != nil && q.Property.Source == entities.SourceTelemetry {
		field = q.Property.Name
		unit = q.Property.Unit
	}

	var values []float64
	for _, rec := range records {
		v, ok := rec.NumericField(field)
		if !ok {
			continue
		}
		if field == speedFieldName {
			v *= MphToKph
		}
		values = append(values, v)
	}

	result := &entities.QueryResult{
		Units:       unit,
		RecordCount: len(records),
		Metadata:    map[string]any{"operation": string(q.Operation), "field": field},
	}
	if len(values) == 0 {
		result.Value = 0.0
		return result, nil
	}

	switch q.Operation {
	case entities.OpAverage:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		result.Value = sum / float64(len(values))
	case entities.OpMax:
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		result.Value = max
	case entities.OpMin:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		result.Value = min
	case entities.OpSum:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		result.Value = sum
	default:
		return nil, entities.NewValidationError("unsupported aggregate operation %q", q.Operation)
	}

	return result, nil
}

func (e *AggregateExecutor) utilization(q *entities.ResolvedQuery, records []entities.TelemetryRecord) *entities.QueryResult {
	minutes := q.End.Sub(q.Start).Minutes()
	util := 0.0
	if minutes > 0 {
		util = float64(len(records)) / minutes * 100
	}
	return &entities.QueryResult{
		Value:       util,
		Units:       "%",
		RecordCount: len(records),
		Metadata: map[string]any{
			"path":           q.SourcePath,
			"window_minutes": minutes,
		},
	}
}
