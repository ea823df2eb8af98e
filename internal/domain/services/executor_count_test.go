package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencut/minetwin/internal/domain/entities"
)

func pathWindow(paths ...string) []entities.TelemetryRecord {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	out := make([]entities.TelemetryRecord, len(paths))
	for i, p := range paths {
		out[i] = rec("Haul_Truck_CAT_777_2", p, base.Add(time.Duration(i)*time.Minute), 15)
	}
	return out
}

func TestCountExecutorTrips(t *testing.T) {
	ex := &CountExecutor{}

	// A, A, B, A, B, B, C: two completed A->B transitions. The second B run
	// does not count twice, and the trailing C never re-arms the source flag.
	records := pathWindow("A", "A", "B", "A", "B", "B", "C")
	q := &entities.ResolvedQuery{
		Intent:          entities.IntentCount,
		SourcePath:      "A",
		DestinationPath: "B",
	}

	res, err := ex.Execute(context.Background(), q, records)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Value)
	assert.Equal(t, "trips", res.Units)
	assert.Equal(t, 7, res.RecordCount)
}

func TestCountExecutorTripsRequireSourceFirst(t *testing.T) {
	ex := &CountExecutor{}

	// Starting on the destination does not count until the truck has been
	// seen on the source.
	records := pathWindow("B", "B", "A", "B")
	q := &entities.ResolvedQuery{
		Intent:          entities.IntentCount,
		SourcePath:      "A",
		DestinationPath: "B",
	}

	res, err := ex.Execute(context.Background(), q, records)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Value)
}

func TestCountExecutorEntries(t *testing.T) {
	ex := &CountExecutor{}

	records := pathWindow("A", "A", "B", "A", "B", "B", "C")
	q := &entities.ResolvedQuery{
		Intent:     entities.IntentCount,
		SourcePath: "A",
	}

	res, err := ex.Execute(context.Background(), q, records)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Value)
	assert.Equal(t, "entries", res.Units)
}

func TestCountExecutorPathChanges(t *testing.T) {
	ex := &CountExecutor{}

	records := pathWindow("A", "A", "B", "A", "B", "B", "C")
	q := &entities.ResolvedQuery{Intent: entities.IntentCount}

	res, err := ex.Execute(context.Background(), q, records)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Value)
	assert.Equal(t, "changes", res.Units)
}

func TestCountExecutorEmptyWindow(t *testing.T) {
	ex := &CountExecutor{}

	q := &entities.ResolvedQuery{
		Intent:          entities.IntentCount,
		SourcePath:      "A",
		DestinationPath: "B",
	}

	res, err := ex.Execute(context.Background(), q, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Value)
	assert.Equal(t, 0, res.RecordCount)
}
