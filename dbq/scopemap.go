package dbq

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/queryscope/scope"
)

type (
	// ScopeMap declares, per record type, which storage column realizes
	// each authorization property. A property can instead be marked as
	// not enforced for the type, and a whole type can be marked
	// unrestricted.
	ScopeMap struct {
		columns      map[string]string
		unenforced   map[string]struct{}
		unrestricted bool
	}
)

func NewScopeMap() *ScopeMap {
	return &ScopeMap{
		columns:    make(map[string]string),
		unenforced: make(map[string]struct{}),
	}
}

// Bind maps an authorization property onto a storage column.
func (m *ScopeMap) Bind(property, column string) *ScopeMap {
	m.columns[property] = column

	return m
}

// Unenforced marks a single property as not applicable to this record
// type. Scope filters on it are skipped instead of failing.
func (m *ScopeMap) Unenforced(property string) *ScopeMap {
	m.unenforced[property] = struct{}{}

	return m
}

// Unrestricted marks the whole record type as exempt from scoping.
func (m *ScopeMap) Unrestricted() *ScopeMap {
	m.unrestricted = true

	return m
}

// Column resolves a property to its column.
func (m *ScopeMap) Column(property string) (string, bool) {
	column, ok := m.columns[property]

	return column, ok
}

// TenantScoped is the common shape of a tenant-owned table.
func TenantScoped(tenantColumn, idColumn string) *ScopeMap {
	return NewScopeMap().
		Bind(scope.PropertyTenant, tenantColumn).
		Bind(scope.PropertyResource, idColumn)
}

// BuildScopeCondition renders an AccessScope into a predicate for the
// record type described by the map. Deny-all renders a predicate that
// matches zero rows rather than no predicate at all, so a scope can
// never silently widen. A scope property with no column binding is an
// error unless the map marks it, or the whole type, as exempt.
func BuildScopeCondition(m *ScopeMap, s scope.AccessScope) (sq.Sqlizer, error) {
	// Deny-all wins over an unrestricted map: a caller permitted to see
	// nothing matches zero rows no matter how the type is marked.
	if s.IsDenyAll() {
		return sq.Expr("1=0"), nil
	}

	if m.unrestricted || s.IsUnconstrained() {
		return sq.Expr("TRUE"), nil
	}

	constraints := s.Constraints()
	branches := make(sq.Or, 0, len(constraints))

	for _, constraint := range constraints {
		branch := make(sq.And, 0, len(constraint.Filters))

		for _, filter := range constraint.Filters {
			column, ok := m.Column(filter.Property)
			if !ok {
				if _, skip := m.unenforced[filter.Property]; skip {
					continue
				}

				return nil, fmt.Errorf("%w: %q", ErrUnmappedScopeColumn, filter.Property)
			}

			branch = append(branch, sq.Eq{column: filter.Values})
		}

		if len(branch) == 0 {
			// Every filter of this constraint is exempt for the type,
			// so the constraint admits all rows.
			branch = append(branch, sq.Expr("TRUE"))
		}

		branches = append(branches, branch)
	}

	return branches, nil
}
