package services

import (
	"context"
	"fmt"

	"github.com/opencut/minetwin/internal/domain/entities"
	"github.com/opencut/minetwin/internal/domain/ports"
)

// UpdateValidator performs constraint-driven admission control for property
// writes. Checks run in a fixed order and the first failure wins; every
// rejection carries a distinct human-readable reason, used verbatim in API
// error payloads.
type UpdateValidator struct {
	constraints ports.ConstraintStore
}

// NewUpdateValidator creates a validator over the given constraint store.
func NewUpdateValidator(constraints ports.ConstraintStore) *UpdateValidator {
	return &UpdateValidator{constraints: constraints}
}

// Validate admits or rejects writing value to the entity's property.
func (v *UpdateValidator) Validate(ctx context.Context, e *entities.Entity, property string, value any) error {
	st, ok := e.Property(property)
	if !ok {
		return entities.NewValidationError("property %q does not exist on entity %q", property, e.ID)
	}

	if st.ReadOnly {
		return entities.NewPropertyNotEditable("property %q on entity %q is read-only", property, e.ID)
	}

	// The persisted constraint row, when present, is authoritative for
	// editability. When absent, the property's own cached definition decides.
	c, err := v.constraints.GetConstraint(ctx, e.Category, property)
	if err != nil {
		return fmt.Errorf("loading constraint for %s.%s: %w", e.Category, property, err)
	}
	if c != nil {
		if c.ReadOnly || !c.Editable {
			return entities.NewPropertyNotEditable("property %q is not editable for %s", property, e.Category)
		}
	} else if st.Editable != nil && !*st.Editable {
		return entities.NewPropertyNotEditable("property %q on entity %q is not editable", property, e.ID)
	}

	switch st.Type {
	case entities.TypeNumber:
		num, ok := asNumber(value)
		if !ok {
			return entities.NewInvalidValue("property %q expects a number, got %T", property, value)
		}
		return v.validateNumber(st, c, property, num)
	case entities.TypeString:
		s, ok := value.(string)
		if !ok {
			return entities.NewInvalidValue("property %q expects a string, got %T", property, value)
		}
		return v.validateAllowed(st, c, property, s)
	case entities.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return entities.NewInvalidValue("property %q expects a boolean, got %T", property, value)
		}
		return nil
	default:
		return entities.NewValidationError("property %q has unknown declared type %q", property, st.Type)
	}
}

// validateNumber applies min/max bounds and the allowed-values list. Bounds
// from the constraint row take precedence over the property's own.
func (v *UpdateValidator) validateNumber(st entities.PropertyState, c *entities.PropertyConstraint, property string, num float64) error {
	min, max := st.MinValue, st.MaxValue
	if c != nil {
		if c.MinValue != nil {
			min = c.MinValue
		}
		if c.MaxValue != nil {
			max = c.MaxValue
		}
	}
	if min != nil && num < *min {
		return entities.NewInvalidValue("value %v is below the minimum %v for property %q", num, *min, property)
	}
	if max != nil && num > *max {
		return entities.NewInvalidValue("value %v exceeds the maximum %v for property %q", num, *max, property)
	}
	return v.validateAllowed(st, c, property, num)
}

// validateAllowed checks allowed-values membership. A constraint row's list
// takes precedence over the property's own.
func (v *UpdateValidator) validateAllowed(st entities.PropertyState, c *entities.PropertyConstraint, property string, value any) error {
	allowed := st.AllowedValues
	if c != nil && len(c.AllowedValues) > 0 {
		allowed = c.AllowedValues
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, a := range allowed {
		if valuesEqual(a, value) {
			return nil
		}
	}
	return entities.NewInvalidValue("value %v is not one of the allowed values for property %q", value, property)
}

// asNumber accepts the numeric runtime types a JSON decoder or caller may
// hand us and normalizes them to float64.
func asNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// valuesEqual compares an allowed-list entry with a candidate value,
// tolerating mixed numeric representations.
func valuesEqual(a, b any) bool {
	if an, ok := asNumber(a); ok {
		if bn, ok := asNumber(b); ok {
			return an == bn
		}
		return false
	}
	return a == b
}
