package ports

import (
	"context"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// ConstraintStore provides access to persisted property constraints.
type ConstraintStore interface {
	// GetConstraint returns the constraint for (entityType, property), or
	// nil when no row exists. Absence is a distinct state from an explicit
	// permissive constraint.
	GetConstraint(ctx context.Context, entityType entities.Category, property string) (*entities.PropertyConstraint, error)

	// SaveConstraint inserts or replaces a constraint row.
	SaveConstraint(ctx context.Context, c *entities.PropertyConstraint) error

	// ListConstraints returns all constraint rows.
	ListConstraints(ctx context.Context) ([]entities.PropertyConstraint, error)
}
