package entities

// Model owns all twin entities, keyed by id. Insertion order is preserved and
// used as the tie-break order during resolution scans. Entities are created
// at load time and mutated only through the property-update path; they are
// never deleted during normal operation.
type Model struct {
	byID  map[string]*Entity
	order []string
}

// NewModel creates an empty twin model.
func NewModel() *Model {
	return &Model{
		byID: make(map[string]*Entity),
	}
}

// Add registers an entity. Re-adding an id replaces the entity but keeps its
// original position in the scan order.
func (m *Model) Add(e *Entity) {
	if _, ok := m.byID[e.ID]; !ok {
		m.order = append(m.order, e.ID)
	}
	m.byID[e.ID] = e
}

// Get returns the entity with the given id.
func (m *Model) Get(id string) (*Entity, bool) {
	e, ok := m.byID[id]
	return e, ok
}

// All returns every entity in insertion order.
func (m *Model) All() []*Entity {
	out := make([]*Entity, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

// Len returns the number of registered entities.
func (m *Model) Len() int {
	return len(m.order)
}
