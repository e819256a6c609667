// Package scope models what slice of data a caller may touch. A scope is
// either deny-all, unconstrained, or a disjunction of constraints where
// each constraint conjoins property filters.
package scope

import (
	"fmt"

	"github.com/google/uuid"
)

// Well-known constraint properties. They name logical access dimensions,
// not database columns.
const (
	PropertyTenant   = "owner_tenant_id"
	PropertyResource = "id"
	PropertyOwner    = "owner_id"
	PropertyType     = "type"
)

// FilterOp is how a filter matches its values.
type FilterOp string

const (
	OpEq FilterOp = "eq"
	OpIn FilterOp = "in"
)

// Filter restricts one property to a value set. An eq filter carries
// exactly one value, an in filter one or more.
type Filter struct {
	Property string
	Op       FilterOp
	Values   []uuid.UUID
}

func Eq(property string, value uuid.UUID) Filter {
	return Filter{Property: property, Op: OpEq, Values: []uuid.UUID{value}}
}

func In(property string, values ...uuid.UUID) Filter {
	return Filter{Property: property, Op: OpIn, Values: values}
}

// Constraint is a conjunction of filters. A row must satisfy every
// filter of a constraint for the constraint to admit it.
type Constraint struct {
	Filters []Filter
}

func NewConstraint(filters ...Filter) Constraint {
	return Constraint{Filters: filters}
}

// AccessScope is the caller's data visibility. The zero value denies
// everything, which keeps forgotten scopes fail-closed.
type AccessScope struct {
	unconstrained bool
	constraints   []Constraint
}

// DenyAll returns a scope that admits no rows.
func DenyAll() AccessScope {
	return AccessScope{}
}

// AllowAll returns a scope with no restrictions. Reserve it for system
// internal operations.
func AllowAll() AccessScope {
	return AccessScope{unconstrained: true}
}

// ForTenant scopes access to a single tenant.
func ForTenant(tenantID uuid.UUID) AccessScope {
	return FromConstraints(NewConstraint(Eq(PropertyTenant, tenantID)))
}

// ForTenants scopes access to any of the given tenants. An empty list
// yields deny-all.
func ForTenants(tenantIDs ...uuid.UUID) AccessScope {
	if len(tenantIDs) == 0 {
		return DenyAll()
	}

	return FromConstraints(NewConstraint(In(PropertyTenant, tenantIDs...)))
}

// ForResource scopes access to a single resource.
func ForResource(resourceID uuid.UUID) AccessScope {
	return FromConstraints(NewConstraint(Eq(PropertyResource, resourceID)))
}

// ForResources scopes access to any of the given resources. An empty
// list yields deny-all.
func ForResources(resourceIDs ...uuid.UUID) AccessScope {
	if len(resourceIDs) == 0 {
		return DenyAll()
	}

	return FromConstraints(NewConstraint(In(PropertyResource, resourceIDs...)))
}

// FromConstraints builds a scope admitting rows that satisfy at least
// one of the given constraints. Constraints without filters are
// dropped, and no surviving constraints means deny-all.
func FromConstraints(constraints ...Constraint) AccessScope {
	kept := make([]Constraint, 0, len(constraints))

	for _, c := range constraints {
		if len(c.Filters) == 0 {
			continue
		}

		kept = append(kept, c)
	}

	return AccessScope{constraints: kept}
}

// IsDenyAll reports whether the scope admits no rows at all.
func (s AccessScope) IsDenyAll() bool {
	return !s.unconstrained && len(s.constraints) == 0
}

// IsUnconstrained reports whether the scope admits every row.
func (s AccessScope) IsUnconstrained() bool {
	return s.unconstrained
}

// Constraints returns a copy of the scope's constraint list.
func (s AccessScope) Constraints() []Constraint {
	out := make([]Constraint, len(s.constraints))
	copy(out, s.constraints)

	return out
}

// HasProperty reports whether any filter in any constraint references
// the property.
func (s AccessScope) HasProperty(property string) bool {
	for _, c := range s.constraints {
		for _, f := range c.Filters {
			if f.Property == property {
				return true
			}
		}
	}

	return false
}

// AllValuesFor collects every value the scope admits for a property,
// across all constraints, deduplicated in first-seen order.
func (s AccessScope) AllValuesFor(property string) []uuid.UUID {
	var values []uuid.UUID

	seen := make(map[uuid.UUID]struct{})

	for _, c := range s.constraints {
		for _, f := range c.Filters {
			if f.Property != property {
				continue
			}

			for _, v := range f.Values {
				if _, ok := seen[v]; ok {
					continue
				}

				seen[v] = struct{}{}
				values = append(values, v)
			}
		}
	}

	return values
}

// ContainsValue reports whether the scope admits the given value for a
// property. An unconstrained scope admits any value.
func (s AccessScope) ContainsValue(property string, value uuid.UUID) bool {
	if s.unconstrained {
		return true
	}

	for _, c := range s.constraints {
		for _, f := range c.Filters {
			if f.Property != property {
				continue
			}

			for _, v := range f.Values {
				if v == value {
					return true
				}
			}
		}
	}

	return false
}

// ExtractSingleValue returns the one value the scope pins a property to,
// for callers that must stamp exactly one value onto a new row. It fails
// loudly on every ambiguous shape so callers cannot silently pick one:
// no constraints to extract from, the property missing, the property
// referenced by more than one OR-ed constraint even when the values
// agree, the property repeated inside a single constraint, or the
// matching filter carrying several values.
func (s AccessScope) ExtractSingleValue(property string) (uuid.UUID, error) {
	if s.unconstrained || len(s.constraints) == 0 {
		return uuid.Nil, fmt.Errorf("%w: property %q", ErrNoConstraints, property)
	}

	var matches []Filter

	for _, c := range s.constraints {
		var inConstraint []Filter

		for _, f := range c.Filters {
			if f.Property == property {
				inConstraint = append(inConstraint, f)
			}
		}

		if len(inConstraint) > 1 {
			return uuid.Nil, fmt.Errorf("%w: property %q repeated within a constraint", ErrAmbiguousValue, property)
		}

		matches = append(matches, inConstraint...)
	}

	switch {
	case len(matches) == 0:
		return uuid.Nil, fmt.Errorf("%w: property %q", ErrPropertyNotFound, property)
	case len(matches) > 1:
		return uuid.Nil, fmt.Errorf("%w: property %q", ErrAmbiguousConstraints, property)
	case len(matches[0].Values) != 1:
		return uuid.Nil, fmt.Errorf("%w: property %q", ErrAmbiguousValue, property)
	}

	return matches[0].Values[0], nil
}
