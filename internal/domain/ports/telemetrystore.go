package ports

import (
	"context"
	"time"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// TelemetryStore provides windowed access to the append-only telemetry
// series. Both window queries return records whose timestamp falls in
// [start, end], ordered time-ascending.
type TelemetryStore interface {
	// SaveBatch appends a batch of telemetry records.
	SaveBatch(ctx context.Context, records []entities.TelemetryRecord) error

	// FindByEntityAndWindow returns all records for one truck in the window.
	FindByEntityAndWindow(ctx context.Context, truckID string, start, end time.Time) ([]entities.TelemetryRecord, error)

	// FindByPathAndWindow returns all records on one haul path in the window.
	FindByPathAndWindow(ctx context.Context, pathID string, start, end time.Time) ([]entities.TelemetryRecord, error)
}
