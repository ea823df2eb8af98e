package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencut/minetwin/internal/domain/entities"
	"github.com/opencut/minetwin/internal/domain/mocks"
)

func TestValidateNumberBounds(t *testing.T) {
	v := NewUpdateValidator(mocks.NewConstraintStore())
	truck := testTruck() // maxSpeedKph declares min 0, max 100

	tests := []struct {
		name    string
		value   any
		wantErr string
	}{
		{"below minimum", -10.0, "below the minimum"},
		{"at minimum", 0.0, ""},
		{"in range", 55.0, ""},
		{"at maximum", 100.0, ""},
		{"just above maximum", 100.0001, "exceeds the maximum"},
		{"integer accepted", 50, ""},
		{"wrong type", "fast", "expects a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), truck, "maxSpeedKph", tt.value)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateUnknownProperty(t *testing.T) {
	v := NewUpdateValidator(mocks.NewConstraintStore())

	err := v.Validate(context.Background(), testTruck(), "noSuchProperty", 1.0)
	require.Error(t, err)
	assert.True(t, entities.IsCode(err, entities.CodeValidation))
	assert.Contains(t, err.Error(), "does not exist")
}

func TestValidateReadOnlyProperty(t *testing.T) {
	v := NewUpdateValidator(mocks.NewConstraintStore())

	err := v.Validate(context.Background(), testTruck(), "serialNumber", "SN-X")
	require.Error(t, err)
	assert.True(t, entities.IsCode(err, entities.CodePropertyNotEditable))
	assert.Contains(t, err.Error(), "read-only")
}

func TestValidateAllowedValues(t *testing.T) {
	v := NewUpdateValidator(mocks.NewConstraintStore())
	truck := testTruck()

	assert.NoError(t, v.Validate(context.Background(), truck, "status", "maintenance"))

	err := v.Validate(context.Background(), truck, "status", "flying")
	require.Error(t, err)
	assert.True(t, entities.IsCode(err, entities.CodeInvalidValue))
	assert.Contains(t, err.Error(), "allowed values")
}

func TestValidateConstraintRowIsAuthoritative(t *testing.T) {
	store := mocks.NewConstraintStore()
	require.NoError(t, store.SaveConstraint(context.Background(), &entities.PropertyConstraint{
		EntityType: entities.CategoryHaulTruck,
		Property:   "maxSpeedKph",
		MinValue:   floatPtr(20),
		MaxValue:   floatPtr(80),
		Editable:   true,
	}))
	v := NewUpdateValidator(store)
	truck := testTruck()

	// The row's bounds override the property's declared 0..100.
	err := v.Validate(context.Background(), truck, "maxSpeedKph", 10.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below the minimum 20")

	err = v.Validate(context.Background(), truck, "maxSpeedKph", 90.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds the maximum 80")

	assert.NoError(t, v.Validate(context.Background(), truck, "maxSpeedKph", 50.0))
}

func TestValidateConstraintRowFreezesProperty(t *testing.T) {
	store := mocks.NewConstraintStore()
	require.NoError(t, store.SaveConstraint(context.Background(), &entities.PropertyConstraint{
		EntityType: entities.CategoryHaulTruck,
		Property:   "maxSpeedKph",
		Editable:   false,
	}))
	v := NewUpdateValidator(store)

	err := v.Validate(context.Background(), testTruck(), "maxSpeedKph", 50.0)
	require.Error(t, err)
	assert.True(t, entities.IsCode(err, entities.CodePropertyNotEditable))
}

func TestValidateCachedEditableFlagWithoutRow(t *testing.T) {
	v := NewUpdateValidator(mocks.NewConstraintStore())

	e := entities.NewEntity("Mill_1", entities.CategoryMill, []entities.ContentItem{
		{Kind: entities.ItemProperty, Name: "throughputTons", Type: entities.TypeNumber, Value: 500.0, Editable: boolPtr(false)},
	})

	err := v.Validate(context.Background(), e, "throughputTons", 600.0)
	require.Error(t, err)
	assert.True(t, entities.IsCode(err, entities.CodePropertyNotEditable))
}

func TestValidateBooleanType(t *testing.T) {
	v := NewUpdateValidator(mocks.NewConstraintStore())

	e := entities.NewEntity("Mill_1", entities.CategoryMill, []entities.ContentItem{
		{Kind: entities.ItemProperty, Name: "online", Type: entities.TypeBoolean, Value: true},
	})

	assert.NoError(t, v.Validate(context.Background(), e, "online", false))

	err := v.Validate(context.Background(), e, "online", "yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects a boolean")
}
