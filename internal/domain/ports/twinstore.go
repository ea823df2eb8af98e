package ports

import (
	"context"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// TwinStore persists twin entities. The canonical content list is the unit
// of persistence; the in-memory property cache is never stored.
type TwinStore interface {
	// Save upserts the full content list for one entity.
	Save(ctx context.Context, e *entities.Entity) error

	// LoadAll returns every persisted entity in model insertion order.
	LoadAll(ctx context.Context) ([]*entities.Entity, error)

	// LogAction appends an entry to the audit log.
	LogAction(ctx context.Context, action, entityID string, details map[string]any) error

	// FindAuditLog returns the audit entries for one entity, newest first.
	FindAuditLog(ctx context.Context, entityID string) ([]entities.AuditEntry, error)
}
