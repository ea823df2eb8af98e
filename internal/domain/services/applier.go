package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/opencut/minetwin/internal/domain/entities"
	"github.com/opencut/minetwin/internal/domain/ports"
)

// CommandApplier applies a validated write to the twin model, keeping the
// property cache and the canonical content list consistent, then asks the
// twin store to persist the content list.
//
// Persistence failure after a successful in-memory mutation is reported as a
// failed operation even though the model already changed. Callers must treat
// a failed command as "state may have changed in memory but not durably".
type CommandApplier struct {
	model *entities.Model
	store ports.TwinStore
	log   *zap.SugaredLogger
}

// NewCommandApplier creates a command applier.
func NewCommandApplier(model *entities.Model, store ports.TwinStore, log *zap.SugaredLogger) *CommandApplier {
	return &CommandApplier{
		model: model,
		store: store,
		log:   log,
	}
}

// UpdateProperty writes value to one entity's property and persists the
// entity's content list.
func (a *CommandApplier) UpdateProperty(ctx context.Context, entityID, property string, value any) (*entities.PropertyUpdate, error) {
	e, ok := a.model.Get(entityID)
	if !ok {
		return nil, entities.NewEntityNotFound(entityID)
	}

	old, itemFound, err := e.SetPropertyValue(property, value)
	if err != nil {
		return nil, entities.NewPropertyNotFound(property, nil)
	}
	if !itemFound {
		// The cache updated but the canonical list has no matching item:
		// persistence will now disagree with the cache.
		a.log.Warnw("property cache and content list have diverged",
			"entity", entityID,
			"property", property,
		)
	}

	if err := a.store.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("persisting entity %q: %w", entityID, err)
	}

	if err := a.store.LogAction(ctx, "update_property", entityID, map[string]any{
		"property":  property,
		"old_value": old,
		"new_value": value,
	}); err != nil {
		a.log.Warnw("writing audit entry failed", "entity", entityID, "error", err)
	}

	return &entities.PropertyUpdate{
		EntityID: entityID,
		Property: property,
		OldValue: old,
		NewValue: value,
		OK:       true,
	}, nil
}
