// Condition evaluation for edge routing. The set of condition kinds is
// closed: a handful of typed comparisons plus a custom predicate as the
// escape hatch for arbitrary logic.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// EdgeConditionType represents the kind of condition guarding an edge.
type EdgeConditionType string

const (
	ConditionAlways      EdgeConditionType = "always"
	ConditionEquals      EdgeConditionType = "equals"
	ConditionNotEquals   EdgeConditionType = "not_equals"
	ConditionGreaterThan EdgeConditionType = "greater_than"
	ConditionLessThan    EdgeConditionType = "less_than"
	ConditionContains    EdgeConditionType = "contains"
	ConditionCustom      EdgeConditionType = "custom"
)

var (
	// ErrIncomparableValues indicates an ordering comparison between values
	// with no natural ordering relative to each other.
	ErrIncomparableValues = errors.New("values are not comparable")

	// ErrNotAContainer indicates a contains condition against a field value
	// that does not support membership testing.
	ErrNotAContainer = errors.New("field value does not support membership testing")
)

// EdgeCondition guards traversal of an edge. Field and Value are only
// meaningful for the comparison kinds; Predicate only for custom conditions.
type EdgeCondition struct {
	Type      EdgeConditionType `json:"type"            validate:"required,oneof=always equals not_equals greater_than less_than contains custom"`
	Field     string            `json:"field,omitempty"`
	Value     any               `json:"value,omitempty"`
	Predicate Predicate         `json:"-"`
}

// Always returns a condition that is always satisfied.
func Always() *EdgeCondition {
	return &EdgeCondition{Type: ConditionAlways}
}

// Equals returns a condition satisfied when the context field equals value.
func Equals(field string, value any) *EdgeCondition {
	return &EdgeCondition{Type: ConditionEquals, Field: field, Value: value}
}

// NotEquals returns a condition satisfied when the context field differs
// from value.
func NotEquals(field string, value any) *EdgeCondition {
	return &EdgeCondition{Type: ConditionNotEquals, Field: field, Value: value}
}

// GreaterThan returns a condition satisfied when the context field is
// strictly greater than value under natural ordering.
func GreaterThan(field string, value any) *EdgeCondition {
	return &EdgeCondition{Type: ConditionGreaterThan, Field: field, Value: value}
}

// LessThan returns a condition satisfied when the context field is strictly
// less than value under natural ordering.
func LessThan(field string, value any) *EdgeCondition {
	return &EdgeCondition{Type: ConditionLessThan, Field: field, Value: value}
}

// Contains returns a condition satisfied when value is a member of the
// context field (substring, slice element or map key).
func Contains(field string, value any) *EdgeCondition {
	return &EdgeCondition{Type: ConditionContains, Field: field, Value: value}
}

// Custom returns a condition delegating to an arbitrary predicate.
func Custom(predicate Predicate) *EdgeCondition {
	return &EdgeCondition{Type: ConditionCustom, Predicate: predicate}
}

// Evaluate checks the condition against the execution context.
//
// A missing field makes every comparison kind false rather than an error.
// Errors are reserved for genuine caller mistakes: ordering comparisons
// between incompatible types and membership tests against non-containers.
func (c *EdgeCondition) Evaluate(ctx Context) (bool, error) {
	switch c.Type {
	case ConditionAlways:
		return true, nil
	case ConditionCustom:
		if c.Predicate == nil {
			return false, nil
		}

		return c.Predicate(ctx), nil
	}

	if c.Field == "" {
		return false, nil
	}

	fieldValue, ok := ctx[c.Field]
	if !ok {
		return false, nil
	}

	switch c.Type {
	case ConditionEquals:
		return looseEqual(fieldValue, c.Value), nil
	case ConditionNotEquals:
		return !looseEqual(fieldValue, c.Value), nil
	case ConditionGreaterThan:
		cmp, err := compareOrdered(fieldValue, c.Value)
		if err != nil {
			return false, fmt.Errorf("condition on field %q: %w", c.Field, err)
		}

		return cmp > 0, nil
	case ConditionLessThan:
		cmp, err := compareOrdered(fieldValue, c.Value)
		if err != nil {
			return false, fmt.Errorf("condition on field %q: %w", c.Field, err)
		}

		return cmp < 0, nil
	case ConditionContains:
		found, err := containsMember(fieldValue, c.Value)
		if err != nil {
			return false, fmt.Errorf("condition on field %q: %w", c.Field, err)
		}

		return found, nil
	default:
		return false, nil
	}
}

// looseEqual compares two values, treating numeric types as interchangeable
// so that a context value of int 50 equals a condition value of float64 50.
// JSON round-trips turn every number into float64, so strict == would make
// deserialized workflows behave differently from in-memory ones.
func looseEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}

		return false
	}

	return a == b
}

// compareOrdered returns -1, 0 or 1 for values with a natural ordering.
// Numbers order numerically across integer and float representations;
// strings order lexicographically. Anything else is incomparable.
func compareOrdered(a, b any) (int, error) {
	if af, ok := asFloat(a); ok {
		bf, bok := asFloat(b)
		if !bok {
			return 0, fmt.Errorf("%w: %T and %T", ErrIncomparableValues, a, b)
		}

		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}

	as, aok := a.(string)
	bs, bok := b.(string)

	if aok && bok {
		return strings.Compare(as, bs), nil
	}

	return 0, fmt.Errorf("%w: %T and %T", ErrIncomparableValues, a, b)
}

// containsMember tests membership of item inside container: substring for
// strings, element for slices, key for string-keyed maps.
func containsMember(container, item any) (bool, error) {
	switch c := container.(type) {
	case string:
		s, ok := item.(string)
		if !ok {
			return false, nil
		}

		return strings.Contains(c, s), nil
	case []any:
		for _, v := range c {
			if looseEqual(v, item) {
				return true, nil
			}
		}

		return false, nil
	case []string:
		s, ok := item.(string)
		if !ok {
			return false, nil
		}

		for _, v := range c {
			if v == s {
				return true, nil
			}
		}

		return false, nil
	case map[string]any:
		s, ok := item.(string)
		if !ok {
			return false, nil
		}

		_, found := c[s]

		return found, nil
	case Context:
		s, ok := item.(string)
		if !ok {
			return false, nil
		}

		_, found := c[s]

		return found, nil
	default:
		return false, fmt.Errorf("%w: %T", ErrNotAContainer, container)
	}
}

// asFloat normalizes any numeric value to float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
