package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// TelemetryStore is a mock implementation of ports.TelemetryStore backed by
// an in-memory slice. Window queries return records time-ascending, matching
// the real store's contract.
type TelemetryStore struct {
	Records []entities.TelemetryRecord
	Err     error
}

// NewTelemetryStore creates a mock telemetry store.
func NewTelemetryStore(records ...entities.TelemetryRecord) *TelemetryStore {
	return &TelemetryStore{Records: records}
}

// SaveBatch appends the records.
func (m *TelemetryStore) SaveBatch(_ context.Context, records []entities.TelemetryRecord) error {
	if m.Err != nil {
		return m.Err
	}
	m.Records = append(m.Records, records...)
	return nil
}

// FindByEntityAndWindow returns the truck's records in the window.
func (m *TelemetryStore) FindByEntityAndWindow(_ context.Context, truckID string, start, end time.Time) ([]entities.TelemetryRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.window(start, end, func(r entities.TelemetryRecord) bool {
		return r.TruckID == truckID
	}), nil
}

// FindByPathAndWindow returns the path's records in the window.
func (m *TelemetryStore) FindByPathAndWindow(_ context.Context, pathID string, start, end time.Time) ([]entities.TelemetryRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.window(start, end, func(r entities.TelemetryRecord) bool {
		return r.HaulPathID == pathID
	}), nil
}

func (m *TelemetryStore) window(start, end time.Time, match func(entities.TelemetryRecord) bool) []entities.TelemetryRecord {
	var out []entities.TelemetryRecord
	for _, r := range m.Records {
		if !match(r) {
			continue
		}
		if r.Timestamp.Before(start) || r.Timestamp.After(end) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
