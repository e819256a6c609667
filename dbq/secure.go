package dbq

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/queryscope/scope"
	"github.com/google/uuid"
)

// Bulk mutations are split into an unscoped builder stage and a scoped
// executable stage. Only the scoped types expose Exec, and they can only
// be obtained through ScopeWith, so a mutation that skips the access
// scope does not compile.

type (
	// Update accumulates column assignments for a bulk update. It
	// cannot execute, call ScopeWith to obtain a ScopedUpdate.
	Update struct {
		table         string
		scopes        *ScopeMap
		assignments   []assignment
		tenantTouched bool
	}

	// ScopedUpdate is an update with its access predicate applied.
	ScopedUpdate struct {
		builder       sq.UpdateBuilder
		tenantTouched bool
	}

	// Delete is a bulk delete awaiting its scope.
	Delete struct {
		table  string
		scopes *ScopeMap
	}

	// ScopedDelete is a delete with its access predicate applied.
	ScopedDelete struct {
		builder sq.DeleteBuilder
	}

	assignment struct {
		column string
		value  any
	}
)

func NewUpdate(table string, scopes *ScopeMap) Update {
	return Update{table: table, scopes: scopes}
}

// Set records a column assignment. Assigning the tenant column is
// remembered and rejected at execution time, rows never move between
// tenants through a bulk update.
func (u Update) Set(column string, value any) Update {
	u.assignments = append(u.assignments[:len(u.assignments):len(u.assignments)], assignment{column: column, value: value})

	if tenantColumn, ok := u.scopes.Column(scope.PropertyTenant); ok && tenantColumn == column {
		u.tenantTouched = true
	}

	return u
}

// ScopeWith applies the access scope and yields the executable stage.
// A deny-all scope still yields a runnable statement, its predicate
// just matches zero rows.
func (u Update) ScopeWith(s scope.AccessScope) (ScopedUpdate, error) {
	condition, err := BuildScopeCondition(u.scopes, s)
	if err != nil {
		return ScopedUpdate{}, err
	}

	builder := psql.Update(u.table).Where(condition)

	for _, a := range u.assignments {
		builder = builder.Set(a.column, a.value)
	}

	return ScopedUpdate{builder: builder, tenantTouched: u.tenantTouched}, nil
}

// Filter narrows the update with a validated predicate, ANDed with the
// scope condition.
func (u ScopedUpdate) Filter(node FilterNode) (ScopedUpdate, error) {
	predicate, err := SqlizeFilter(node)
	if err != nil {
		return ScopedUpdate{}, err
	}

	u.builder = u.builder.Where(predicate)

	return u, nil
}

// Exec runs the update and returns the number of affected rows.
func (u ScopedUpdate) Exec(ctx context.Context, pool PoolOps) (int64, error) {
	if u.tenantTouched {
		return 0, ErrTenantImmutable
	}

	query, args, err := u.builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseQuery, err)
	}

	return tag.RowsAffected(), nil
}

func NewDelete(table string, scopes *ScopeMap) Delete {
	return Delete{table: table, scopes: scopes}
}

// ScopeWith applies the access scope and yields the executable stage.
func (d Delete) ScopeWith(s scope.AccessScope) (ScopedDelete, error) {
	condition, err := BuildScopeCondition(d.scopes, s)
	if err != nil {
		return ScopedDelete{}, err
	}

	return ScopedDelete{builder: psql.Delete(d.table).Where(condition)}, nil
}

// Filter narrows the delete with a validated predicate, ANDed with the
// scope condition.
func (d ScopedDelete) Filter(node FilterNode) (ScopedDelete, error) {
	predicate, err := SqlizeFilter(node)
	if err != nil {
		return ScopedDelete{}, err
	}

	d.builder = d.builder.Where(predicate)

	return d, nil
}

// Exec runs the delete and returns the number of affected rows.
func (d ScopedDelete) Exec(ctx context.Context, pool PoolOps) (int64, error) {
	query, args, err := d.builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseQuery, err)
	}

	return tag.RowsAffected(), nil
}

// ValidateInScope checks that a single value is admitted by the scope
// for a property, for callers that target one row by id before writing.
func ValidateInScope(s scope.AccessScope, property string, id uuid.UUID) error {
	if s.IsUnconstrained() {
		return nil
	}

	if s.ContainsValue(property, id) {
		return nil
	}

	return fmt.Errorf("%w: property %q", scope.ErrValueNotInScope, property)
}
