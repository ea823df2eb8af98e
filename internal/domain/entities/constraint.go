package entities

// PropertyConstraint is a persisted editability/range rule, unique per
// (entity type, property) pair. Absence of a constraint row is a distinct
// state from an explicit permissive constraint: when no row exists, the
// property's own cached definition decides editability.
type PropertyConstraint struct {
	EntityType    Category `json:"entity_type"`
	Property      string   `json:"property"`
	MinValue      *float64 `json:"min_value,omitempty"`
	MaxValue      *float64 `json:"max_value,omitempty"`
	ReadOnly      bool     `json:"read_only"`
	Editable      bool     `json:"editable"`
	AllowedValues []any    `json:"allowed_values,omitempty"`
}
