// Package parsers provides parsers for importing twin schemas and telemetry
// from external files.
package parsers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// RawEntity represents an entity parsed from a schema document before
// validation.
type RawEntity struct {
	ID       string    `json:"id"`
	Category string    `json:"category"`
	Content  []RawItem `json:"content"`
}

// RawItem is one content-list entry of a schema document.
type RawItem struct {
	Kind          string   `json:"kind"`
	Name          string   `json:"name"`
	Type          string   `json:"type,omitempty"`
	Value         any      `json:"value,omitempty"`
	Default       any      `json:"default,omitempty"`
	Editable      *bool    `json:"editable,omitempty"`
	ReadOnly      bool     `json:"read_only,omitempty"`
	MinValue      *float64 `json:"min_value,omitempty"`
	MaxValue      *float64 `json:"max_value,omitempty"`
	AllowedValues []any    `json:"allowed_values,omitempty"`
	Target        string   `json:"target,omitempty"`
	Unit          string   `json:"unit,omitempty"`
}

// SchemaParser parses twin schema documents from JSON.
type SchemaParser struct{}

// Parse reads a JSON schema document and returns raw entities.
func (p *SchemaParser) Parse(r io.Reader) ([]RawEntity, error) {
	var raw []RawEntity
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return raw, nil
}

// ToEntity validates a raw entity and converts it to the domain type.
func (r RawEntity) ToEntity() (*entities.Entity, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("entity with empty id")
	}

	content := make([]entities.ContentItem, 0, len(r.Content))
	for i, item := range r.Content {
		kind := entities.ItemKind(item.Kind)
		switch kind {
		case entities.ItemProperty, entities.ItemRelationship, entities.ItemTelemetry:
		default:
			return nil, fmt.Errorf("entity %q content[%d]: unknown kind %q", r.ID, i, item.Kind)
		}
		if item.Name == "" {
			return nil, fmt.Errorf("entity %q content[%d]: empty name", r.ID, i)
		}
		content = append(content, entities.ContentItem{
			Kind:          kind,
			Name:          item.Name,
			Type:          entities.ValueType(item.Type),
			Value:         item.Value,
			Default:       item.Default,
			Editable:      item.Editable,
			ReadOnly:      item.ReadOnly,
			MinValue:      item.MinValue,
			MaxValue:      item.MaxValue,
			AllowedValues: item.AllowedValues,
			Target:        item.Target,
			Unit:          item.Unit,
		})
	}

	return entities.NewEntity(r.ID, entities.Category(r.Category), content), nil
}
