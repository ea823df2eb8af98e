package mocks

import (
	"context"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// ConstraintStore is a mock implementation of ports.ConstraintStore.
type ConstraintStore struct {
	Constraints map[string]*entities.PropertyConstraint
	Err         error
}

// NewConstraintStore creates an empty mock constraint store.
func NewConstraintStore() *ConstraintStore {
	return &ConstraintStore{
		Constraints: make(map[string]*entities.PropertyConstraint),
	}
}

func constraintKey(entityType entities.Category, property string) string {
	return string(entityType) + "/" + property
}

// GetConstraint returns the stored constraint, or nil when absent.
func (m *ConstraintStore) GetConstraint(_ context.Context, entityType entities.Category, property string) (*entities.PropertyConstraint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Constraints[constraintKey(entityType, property)], nil
}

// SaveConstraint inserts or replaces a constraint row.
func (m *ConstraintStore) SaveConstraint(_ context.Context, c *entities.PropertyConstraint) error {
	if m.Err != nil {
		return m.Err
	}
	m.Constraints[constraintKey(c.EntityType, c.Property)] = c
	return nil
}

// ListConstraints returns all stored constraints.
func (m *ConstraintStore) ListConstraints(_ context.Context) ([]entities.PropertyConstraint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]entities.PropertyConstraint, 0, len(m.Constraints))
	for _, c := range m.Constraints {
		out = append(out, *c)
	}
	return out, nil
}
