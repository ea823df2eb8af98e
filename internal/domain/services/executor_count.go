package services

import (
	"context"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// CountExecutor serves count queries with a deterministic single-pass edge
// detection over the categorical haul-path series. Three sub-cases are
// selected by which path filters are present.
type CountExecutor struct{}

// CanHandle reports whether the intent is count.
func (e *CountExecutor) CanHandle(intent entities.GenericIntent) bool {
	return intent == entities.IntentCount
}

// Execute counts over the time-ordered window:
//   - source and destination both given and distinct: one trip per
//     transition onto the destination while the "on source" flag is armed;
//     the flag clears after each counted trip (one-way transition counting,
//     not simple toggling);
//   - source only: one count per entry into that path;
//   - neither: one count per change of path id.
func (e *CountExecutor) Execute(_ context.Context, q *entities.ResolvedQuery, records []entities.TelemetryRecord) (*entities.QueryResult, error) {
	src, dst := q.SourcePath, q.DestinationPath

	var count int
	var units string
	switch {
	case src != "" && dst != "" && src != dst:
		units = "trips"
		onSource := false
		for _, rec := range records {
			switch rec.HaulPathID {
			case src:
				onSource = true
			case dst:
				if onSource {
					count++
					onSource = false
				}
			}
		}
	case src != "":
		units = "entries"
		onPath := false
		for _, rec := range records {
			if rec.HaulPathID == src {
				if !onPath {
					count++
				}
				onPath = true
			} else {
				onPath = false
			}
		}
	default:
		units = "changes"
		prev := ""
		for i, rec := range records {
			if i > 0 && rec.HaulPathID != prev {
				count++
			}
			prev = rec.HaulPathID
		}
	}

	return &entities.QueryResult{
		Value:       count,
		Units:       units,
		RecordCount: len(records),
		Metadata: map[string]any{
			"source_path":      src,
			"destination_path": dst,
		},
	}, nil
}
