package dbq_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/architeacher/queryscope/dbq"
	"github.com/architeacher/queryscope/odata"
	"github.com/architeacher/queryscope/scope"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func runMutationTest(
	t *testing.T,
	setupMock func(pgxmock.PgxPoolIface),
	testFn func(*testing.T, pgxmock.PgxPoolIface),
) {
	t.Helper()
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	setupMock(mock)
	testFn(t, mock)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScopedUpdateExec(t *testing.T) {
	tenantA := uuid.New()

	runMutationTest(t,
		func(mock pgxmock.PgxPoolIface) {
			mock.ExpectExec(regexp.QuoteMeta(
				`UPDATE players SET name = $1 WHERE ((tenant_id IN ($2)))`,
			)).
				WithArgs("renamed", tenantA).
				WillReturnResult(pgxmock.NewResult("UPDATE", 2))
		},
		func(t *testing.T, mock pgxmock.PgxPoolIface) {
			scoped, err := dbq.NewUpdate("players", dbq.TenantScoped("tenant_id", "id")).
				Set("name", "renamed").
				ScopeWith(scope.ForTenant(tenantA))
			require.NoError(t, err)

			affected, err := scoped.Exec(context.Background(), mock)
			require.NoError(t, err)
			require.Equal(t, int64(2), affected)
		})
}

func TestScopedUpdateExecWithFilter(t *testing.T) {
	tenantA := uuid.New()

	runMutationTest(t,
		func(mock pgxmock.PgxPoolIface) {
			mock.ExpectExec(regexp.QuoteMeta(
				`UPDATE players SET name = $1 WHERE ((tenant_id IN ($2))) AND score > $3`,
			)).
				WithArgs("renamed", tenantA, int64(15)).
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		},
		func(t *testing.T, mock pgxmock.PgxPoolIface) {
			node, err := dbq.Convert(
				odata.Compare("score", odata.CompareGt, odata.Int(15)),
				playerFields(),
			)
			require.NoError(t, err)

			scoped, err := dbq.NewUpdate("players", dbq.TenantScoped("tenant_id", "id")).
				Set("name", "renamed").
				ScopeWith(scope.ForTenant(tenantA))
			require.NoError(t, err)

			scoped, err = scoped.Filter(node)
			require.NoError(t, err)

			affected, err := scoped.Exec(context.Background(), mock)
			require.NoError(t, err)
			require.Equal(t, int64(1), affected)
		})
}

// A deny-all scope still executes, its predicate just matches nothing.
// The statement reaching the database with 1=0 rather than silently
// dropping the predicate is the point.
func TestScopedUpdateExecDenyAll(t *testing.T) {
	runMutationTest(t,
		func(mock pgxmock.PgxPoolIface) {
			mock.ExpectExec(regexp.QuoteMeta(
				`UPDATE players SET name = $1 WHERE 1=0`,
			)).
				WithArgs("renamed").
				WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		},
		func(t *testing.T, mock pgxmock.PgxPoolIface) {
			scoped, err := dbq.NewUpdate("players", dbq.TenantScoped("tenant_id", "id")).
				Set("name", "renamed").
				ScopeWith(scope.DenyAll())
			require.NoError(t, err)

			affected, err := scoped.Exec(context.Background(), mock)
			require.NoError(t, err)
			require.Zero(t, affected)
		})
}

func TestScopedUpdateRefusesTenantReassignment(t *testing.T) {
	runMutationTest(t,
		func(pgxmock.PgxPoolIface) {},
		func(t *testing.T, mock pgxmock.PgxPoolIface) {
			scoped, err := dbq.NewUpdate("players", dbq.TenantScoped("tenant_id", "id")).
				Set("tenant_id", uuid.New()).
				Set("name", "renamed").
				ScopeWith(scope.ForTenant(uuid.New()))
			require.NoError(t, err)

			_, err = scoped.Exec(context.Background(), mock)
			require.ErrorIs(t, err, dbq.ErrTenantImmutable)
		})
}

func TestScopedDeleteExec(t *testing.T) {
	tenantA := uuid.New()

	runMutationTest(t,
		func(mock pgxmock.PgxPoolIface) {
			mock.ExpectExec(regexp.QuoteMeta(
				`DELETE FROM players WHERE ((tenant_id IN ($1))) AND score < $2`,
			)).
				WithArgs(tenantA, int64(5)).
				WillReturnResult(pgxmock.NewResult("DELETE", 3))
		},
		func(t *testing.T, mock pgxmock.PgxPoolIface) {
			node, err := dbq.Convert(
				odata.Compare("score", odata.CompareLt, odata.Int(5)),
				playerFields(),
			)
			require.NoError(t, err)

			scoped, err := dbq.NewDelete("players", dbq.TenantScoped("tenant_id", "id")).
				ScopeWith(scope.ForTenant(tenantA))
			require.NoError(t, err)

			scoped, err = scoped.Filter(node)
			require.NoError(t, err)

			affected, err := scoped.Exec(context.Background(), mock)
			require.NoError(t, err)
			require.Equal(t, int64(3), affected)
		})
}

func TestScopeWithFailsOnUnmappedProperty(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	s := scope.FromConstraints(scope.NewConstraint(scope.Eq(scope.PropertyOwner, owner)))

	_, err := dbq.NewDelete("players", dbq.TenantScoped("tenant_id", "id")).ScopeWith(s)
	require.ErrorIs(t, err, dbq.ErrUnmappedScopeColumn)

	_, err = dbq.NewUpdate("players", dbq.TenantScoped("tenant_id", "id")).
		Set("name", "x").
		ScopeWith(s)
	require.ErrorIs(t, err, dbq.ErrUnmappedScopeColumn)
}

// The unscoped stages deliberately have no Exec method. Reaching one
// takes ScopeWith, which is what makes skipping the scope impossible to
// write rather than merely discouraged.
func TestMutationStagesAreDistinctTypes(t *testing.T) {
	t.Parallel()

	type executable interface {
		Exec(ctx context.Context, pool dbq.PoolOps) (int64, error)
	}

	var (
		update any = dbq.NewUpdate("players", dbq.TenantScoped("tenant_id", "id"))
		del    any = dbq.NewDelete("players", dbq.TenantScoped("tenant_id", "id"))
	)

	_, updateRunnable := update.(executable)
	_, deleteRunnable := del.(executable)
	require.False(t, updateRunnable)
	require.False(t, deleteRunnable)

	scopedUpdate, err := update.(dbq.Update).ScopeWith(scope.AllowAll())
	require.NoError(t, err)

	scopedDelete, err := del.(dbq.Delete).ScopeWith(scope.AllowAll())
	require.NoError(t, err)

	_, updateRunnable = any(scopedUpdate).(executable)
	_, deleteRunnable = any(scopedDelete).(executable)
	require.True(t, updateRunnable)
	require.True(t, deleteRunnable)
}

func TestValidateInScope(t *testing.T) {
	t.Parallel()

	tenantA := uuid.New()
	tenantB := uuid.New()

	cases := []struct {
		name        string
		scope       scope.AccessScope
		value       uuid.UUID
		expectedErr error
	}{
		{
			name:  "value admitted by the scope",
			scope: scope.ForTenant(tenantA),
			value: tenantA,
		},
		{
			name:  "unconstrained admits anything",
			scope: scope.AllowAll(),
			value: tenantB,
		},
		{
			name:        "value outside the scope",
			scope:       scope.ForTenant(tenantA),
			value:       tenantB,
			expectedErr: scope.ErrValueNotInScope,
		},
		{
			name:        "deny-all admits nothing",
			scope:       scope.DenyAll(),
			value:       tenantA,
			expectedErr: scope.ErrValueNotInScope,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := dbq.ValidateInScope(tc.scope, scope.PropertyTenant, tc.value)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)

				return
			}

			require.NoError(t, err)
		})
	}
}
