package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencut/minetwin/internal/domain/entities"
	"github.com/opencut/minetwin/internal/domain/mocks"
)

func TestUpdatePropertyRoundTrip(t *testing.T) {
	model := testModel()
	store := mocks.NewTwinStore()
	a := NewCommandApplier(model, store, testLogger())

	update, err := a.UpdateProperty(context.Background(), "Haul_Truck_CAT_777_2", "maxSpeedKph", 55.0)
	require.NoError(t, err)
	assert.True(t, update.OK)
	assert.Equal(t, 60.0, update.OldValue)
	assert.Equal(t, 55.0, update.NewValue)

	// The model mutated and the store saw the mutated entity.
	e, _ := model.Get("Haul_Truck_CAT_777_2")
	st, _ := e.Property("maxSpeedKph")
	assert.Equal(t, 55.0, st.Value)
	require.Len(t, store.Saved, 1)
	assert.Same(t, e, store.Saved[0])

	// The write was audited.
	require.Len(t, store.Audit, 1)
	assert.Equal(t, "update_property", store.Audit[0].Action)
	assert.Equal(t, 55.0, store.Audit[0].Details["new_value"])
}

func TestUpdatePropertyUnknownEntity(t *testing.T) {
	a := NewCommandApplier(testModel(), mocks.NewTwinStore(), testLogger())

	_, err := a.UpdateProperty(context.Background(), "Haul_Truck_CAT_999_9", "maxSpeedKph", 55.0)
	require.Error(t, err)
	assert.True(t, entities.IsCode(err, entities.CodeEntityNotFound))
}

func TestUpdatePropertyUnknownProperty(t *testing.T) {
	a := NewCommandApplier(testModel(), mocks.NewTwinStore(), testLogger())

	_, err := a.UpdateProperty(context.Background(), "Haul_Truck_CAT_777_2", "warpFactor", 9.0)
	require.Error(t, err)
	assert.True(t, entities.IsCode(err, entities.CodePropertyNotFound))
}

func TestUpdatePropertyPersistenceFailureLeavesMutation(t *testing.T) {
	model := testModel()
	store := mocks.NewTwinStore()
	store.SaveErr = errors.New("disk full")
	a := NewCommandApplier(model, store, testLogger())

	_, err := a.UpdateProperty(context.Background(), "Haul_Truck_CAT_777_2", "maxSpeedKph", 55.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	// No rollback: the in-memory model keeps the new value.
	e, _ := model.Get("Haul_Truck_CAT_777_2")
	st, _ := e.Property("maxSpeedKph")
	assert.Equal(t, 55.0, st.Value)
}
