package mocks

import (
	"context"
	"time"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// TwinStore is a mock implementation of ports.TwinStore. SaveErr fails only
// the Save path, letting tests exercise the partial-failure command contract.
type TwinStore struct {
	Saved   []*entities.Entity
	Audit   []entities.AuditEntry
	Err     error
	SaveErr error
}

// NewTwinStore creates an empty mock twin store.
func NewTwinStore() *TwinStore {
	return &TwinStore{}
}

// Save records the entity as persisted.
func (m *TwinStore) Save(_ context.Context, e *entities.Entity) error {
	if m.Err != nil {
		return m.Err
	}
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, e)
	return nil
}

// LoadAll returns the previously saved entities.
func (m *TwinStore) LoadAll(_ context.Context) ([]*entities.Entity, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Saved, nil
}

// LogAction appends an audit entry.
func (m *TwinStore) LogAction(_ context.Context, action, entityID string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:        int64(len(m.Audit) + 1),
		Action:    action,
		EntityID:  entityID,
		Details:   details,
		CreatedAt: time.Now(),
	})
	return nil
}

// FindAuditLog returns the audit entries for one entity, newest first.
func (m *TwinStore) FindAuditLog(_ context.Context, entityID string) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.AuditEntry
	for i := len(m.Audit) - 1; i >= 0; i-- {
		if m.Audit[i].EntityID == entityID {
			out = append(out, m.Audit[i])
		}
	}
	return out, nil
}
