// Package entities contains core domain data structures.
package entities

import (
	"fmt"
	"strings"
	"sync"
)

// Category classifies a twin entity by the kind of asset it models.
type Category string

// Built-in asset categories. Schema imports may introduce further categories;
// anything the resolver does not recognize is carried through verbatim.
const (
	CategoryHaulTruck  Category = "HaulTruck"
	CategoryLoader     Category = "Loader"
	CategoryHaulRoute  Category = "HaulRoute"
	CategoryStockpile  Category = "Stockpile"
	CategoryMill       Category = "Mill"
	CategoryMineLayout Category = "MineLayout"
)

// ValueType is the declared type of a twin property value.
type ValueType string

const (
	TypeNumber  ValueType = "number"
	TypeString  ValueType = "string"
	TypeBoolean ValueType = "boolean"
)

// ItemKind tags an entry of an entity's content list.
type ItemKind string

const (
	ItemProperty     ItemKind = "property"
	ItemRelationship ItemKind = "relationship"
	ItemTelemetry    ItemKind = "telemetry"
)

// ContentItem is one entry of an entity's canonical content list. The set of
// meaningful fields depends on Kind: properties carry a type, current value
// and declared constraints; relationships carry a target entity id; telemetry
// definitions carry a unit.
type ContentItem struct {
	Kind ItemKind `json:"kind"`
	Name string   `json:"name"`

	// Property fields.
	Type          ValueType `json:"type,omitempty"`
	Value         any       `json:"value,omitempty"`
	Default       any       `json:"default,omitempty"`
	Editable      *bool     `json:"editable,omitempty"`
	ReadOnly      bool      `json:"read_only,omitempty"`
	MinValue      *float64  `json:"min_value,omitempty"`
	MaxValue      *float64  `json:"max_value,omitempty"`
	AllowedValues []any     `json:"allowed_values,omitempty"`

	// Relationship fields.
	Target string `json:"target,omitempty"`

	// Telemetry definition fields.
	Unit string `json:"unit,omitempty"`
}

// PropertyState is the cached, read-optimized view of one Property content
// item. It is derived from the content list and rebuilt on every mutation.
type PropertyState struct {
	Name          string
	Type          ValueType
	Value         any
	Default       any
	Editable      *bool // nil means the schema did not say either way
	ReadOnly      bool
	MinValue      *float64
	MaxValue      *float64
	AllowedValues []any
}

// Entity is a twin instance. The Content list is the source of truth for
// persistence; the property cache and relationship map are derived from it
// and rebuilt after every successful mutation.
type Entity struct {
	ID       string        `json:"id"`
	Category Category      `json:"category"`
	Content  []ContentItem `json:"content"`

	mu    sync.Mutex
	props map[string]*PropertyState
	rels  map[string]string
}

// NewEntity creates an entity and builds its derived property cache and
// relationship map from the content list.
func NewEntity(id string, category Category, content []ContentItem) *Entity {
	e := &Entity{
		ID:       id,
		Category: category,
		Content:  content,
	}
	e.rebuild()
	return e
}

// rebuild derives the property cache and relationship map from the content
// list. Callers must hold e.mu or have exclusive access to the entity.
func (e *Entity) rebuild() {
	props := make(map[string]*PropertyState)
	rels := make(map[string]string)

	for i := range e.Content {
		item := &e.Content[i]
		switch item.Kind {
		case ItemProperty:
			props[item.Name] = &PropertyState{
				Name:          item.Name,
				Type:          item.Type,
				Value:         item.Value,
				Default:       item.Default,
				Editable:      item.Editable,
				ReadOnly:      item.ReadOnly,
				MinValue:      item.MinValue,
				MaxValue:      item.MaxValue,
				AllowedValues: item.AllowedValues,
			}
		case ItemRelationship:
			rels[item.Name] = item.Target
		}
	}

	e.props = props
	e.rels = rels
}

// Property returns the cached state of the named property.
func (e *Entity) Property(name string) (PropertyState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.props[name]
	if !ok {
		return PropertyState{}, false
	}
	return *st, true
}

// PropertyNames returns the declared property names in content-list order.
func (e *Entity) PropertyNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var names []string
	for _, item := range e.Content {
		if item.Kind == ItemProperty {
			names = append(names, item.Name)
		}
	}
	return names
}

// Relationships returns a copy of the entity's relationship map
// (relationship name to target entity id).
func (e *Entity) Relationships() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.rels))
	for k, v := range e.rels {
		out[k] = v
	}
	return out
}

// TelemetryDefinitions returns the names of the entity's declared telemetry
// streams in content-list order.
func (e *Entity) TelemetryDefinitions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var names []string
	for _, item := range e.Content {
		if item.Kind == ItemTelemetry {
			names = append(names, item.Name)
		}
	}
	return names
}

// SetPropertyValue writes value into the property cache and overwrites the
// matching content item's current value, leaving its declared default
// untouched. It returns the previous value.
//
// If no matching content item exists the cache update still succeeds, but
// itemFound is false: cache and canonical list have diverged and the caller
// must surface that condition, since persistence follows the content list.
func (e *Entity) SetPropertyValue(name string, value any) (old any, itemFound bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.props[name]
	if !ok {
		return nil, false, fmt.Errorf("property %q not found on entity %q", name, e.ID)
	}
	old = st.Value

	for i := range e.Content {
		if e.Content[i].Kind == ItemProperty && e.Content[i].Name == name {
			e.Content[i].Value = value
			e.rebuild()
			return old, true, nil
		}
	}

	// Inconsistent state: cache entry without a content item. Keep the cache
	// usable but report the divergence.
	st.Value = value
	return old, false, nil
}

// NormalizeReference converts a free-text entity reference to the canonical
// form used for matching: lowercased, trimmed, internal whitespace collapsed
// to single underscores.
func NormalizeReference(ref string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(ref))), "_")
}

// CategoryForTypeWord maps a type word from a typed identifier reference
// ("truck 56", "haul route 3") to its canonical category.
func CategoryForTypeWord(word string) Category {
	switch strings.ToLower(word) {
	case "truck":
		return CategoryHaulTruck
	case "loader":
		return CategoryLoader
	case "route":
		return CategoryHaulRoute
	case "stockpile":
		return CategoryStockpile
	case "mill":
		return CategoryMill
	case "layout":
		return CategoryMineLayout
	default:
		if word == "" {
			return ""
		}
		return Category(strings.ToUpper(word[:1]) + strings.ToLower(word[1:]))
	}
}
