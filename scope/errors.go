package scope

import "errors"

var (
	// ErrNoConstraints means the scope is deny-all or unconstrained, so
	// there is no constraint to extract a value from.
	ErrNoConstraints = errors.New("scope carries no constraints to extract from")
	// ErrPropertyNotFound means no filter in any constraint references
	// the requested property.
	ErrPropertyNotFound = errors.New("scope property not found")
	// ErrAmbiguousConstraints means more than one constraint references
	// the property, so no single value can be chosen.
	ErrAmbiguousConstraints = errors.New("scope property is set by multiple constraints")
	// ErrAmbiguousValue means the matching filter admits several values.
	ErrAmbiguousValue = errors.New("scope property admits multiple values")
	// ErrValueNotInScope means a concrete value fell outside the scope.
	ErrValueNotInScope = errors.New("value is not permitted by the scope")
)
