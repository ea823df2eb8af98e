package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencut/minetwin/internal/domain/entities"
)

func TestResolveCascade(t *testing.T) {
	model := testModel()
	r := NewEntityResolver()

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"exact id", "Haul_Truck_CAT_777_2", "Haul_Truck_CAT_777_2"},
		{"case insensitive", "haul_truck_cat_777_2", "Haul_Truck_CAT_777_2"},
		{"spaces instead of underscores", "Haul Truck CAT 777 2", "Haul_Truck_CAT_777_2"},
		{"token subset", "777 2 truck", "Haul_Truck_CAT_777_2"},
		{"typed identifier", "truck 785 1", "Haul_Truck_CAT_785_1"},
		{"full phrase", "haul truck cat 785 1", "Haul_Truck_CAT_785_1"},
		{"loader", "loader lt 1", "Loader_LT_1"},
		{"route", "route north", "Haul_Route_North"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := r.Resolve(tt.ref, model)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.ID)
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	model := testModel()
	r := NewEntityResolver()

	first, err := r.Resolve("truck 777 2", model)
	require.NoError(t, err)
	second, err := r.Resolve(first.ID, model)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestResolveNotFound(t *testing.T) {
	model := testModel()
	r := NewEntityResolver()

	_, err := r.Resolve("excavator 9000", model)
	require.Error(t, err)
	assert.True(t, entities.IsCode(err, entities.CodeEntityNotFound))
}

func TestResolveDistinguishesSimilarIDs(t *testing.T) {
	// The decoy comes first, so a resolver that let "2" match inside "20"
	// would land on it before the stricter stages ever ran.
	model := entities.NewModel()
	model.Add(entities.NewEntity("Haul_Truck_CAT_777_20", entities.CategoryHaulTruck, nil))
	model.Add(entities.NewEntity("Haul_Truck_CAT_777_2", entities.CategoryHaulTruck, nil))

	r := NewEntityResolver()
	e, err := r.Resolve("truck 777 2", model)
	require.NoError(t, err)
	assert.Equal(t, "Haul_Truck_CAT_777_2", e.ID)

	e, err = r.Resolve("truck 777 20", model)
	require.NoError(t, err)
	assert.Equal(t, "Haul_Truck_CAT_777_20", e.ID)
}

func TestTypedIdentifierDistinguishesSimilarIDs(t *testing.T) {
	model := entities.NewModel()
	model.Add(entities.NewEntity("Haul_Truck_CAT_777_20", entities.CategoryHaulTruck, nil))
	model.Add(entities.NewEntity("Haul_Truck_CAT_777_2", entities.CategoryHaulTruck, nil))

	r := NewEntityResolver()
	e := r.typedIdentifierMatch("", "truck_777_2", model)
	require.NotNil(t, e)
	assert.Equal(t, "Haul_Truck_CAT_777_2", e.ID)

	e = r.typedIdentifierMatch("", "truck_777_20", model)
	require.NotNil(t, e)
	assert.Equal(t, "Haul_Truck_CAT_777_20", e.ID)
}

func TestTypedIdentifierRespectsCategory(t *testing.T) {
	model := testModel()
	r := NewEntityResolver()

	// "loader 777 2" names a loader category; the truck must not match.
	assert.Nil(t, r.typedIdentifierMatch("", "loader_777_2", model))
}

func TestLooseTokenMatch(t *testing.T) {
	model := testModel()
	r := NewEntityResolver()

	// "the cat 785 unit" survives only via loose token overlap: "the" and
	// "unit" never appear in an id, but "cat" and "785" both do.
	e, err := r.Resolve("the cat 785 unit", model)
	require.NoError(t, err)
	assert.Equal(t, "Haul_Truck_CAT_785_1", e.ID)
}

func TestResolveBulkAll(t *testing.T) {
	model := testModel()
	r := NewEntityResolver()

	all, err := r.ResolveBulk("all trucks", model, &entities.EntityFilter{Type: entities.CategoryHaulTruck})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Haul_Truck_CAT_777_2", all[0].ID)

	unfiltered, err := r.ResolveBulk("all", model, nil)
	require.NoError(t, err)
	assert.Len(t, unfiltered, model.Len())
}

func TestResolveBulkRelationshipFilter(t *testing.T) {
	model := testModel()
	r := NewEntityResolver()

	northbound, err := r.ResolveBulk("all trucks", model, &entities.EntityFilter{
		Type: entities.CategoryHaulTruck,
		Relationship: &entities.RelationshipFilter{
			Name:     "assignedRoute",
			TargetID: "Haul_Route_North",
		},
	})
	require.NoError(t, err)
	require.Len(t, northbound, 2)
	assert.Equal(t, "Haul_Truck_CAT_777_2", northbound[0].ID)
	assert.Equal(t, "Haul_Truck_CAT_785_1", northbound[1].ID)
}

func TestResolveBulkEmptySelection(t *testing.T) {
	model := testModel()
	r := NewEntityResolver()

	_, err := r.ResolveBulk("all mills", model, &entities.EntityFilter{Type: entities.CategoryMill})
	require.Error(t, err)
	assert.True(t, entities.IsCode(err, entities.CodeEntityNotFound))
}

func TestResolveBulkSingleDelegation(t *testing.T) {
	model := testModel()
	r := NewEntityResolver()

	out, err := r.ResolveBulk("truck 785 1", model, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Haul_Truck_CAT_785_1", out[0].ID)
}
