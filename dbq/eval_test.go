package dbq_test

import (
	"testing"

	"github.com/architeacher/queryscope/dbq"
	"github.com/architeacher/queryscope/odata"
	"github.com/stretchr/testify/require"
)

func accountLookup(name string, balance int64, active bool) dbq.ValueLookup {
	values := map[string]odata.Value{
		"name":    odata.String(name),
		"balance": odata.Int(balance),
		"active":  odata.Bool(active),
	}

	return func(field string) (odata.Value, bool) {
		value, ok := values[field]

		return value, ok
	}
}

func TestEvalMatchesPredicateSemantics(t *testing.T) {
	t.Parallel()

	fields := accountFields()

	cases := []struct {
		name    string
		expr    odata.Expr
		lookup  dbq.ValueLookup
		matches bool
	}{
		{
			name:    "greater-than matches",
			expr:    odata.Compare("balance", odata.CompareGt, odata.Int(100)),
			lookup:  accountLookup("ada", 150, true),
			matches: true,
		},
		{
			name:    "greater-than misses on equality",
			expr:    odata.Compare("balance", odata.CompareGt, odata.Int(100)),
			lookup:  accountLookup("ada", 100, true),
			matches: false,
		},
		{
			name: "and requires both sides",
			expr: odata.And(
				odata.Compare("active", odata.CompareEq, odata.Bool(true)),
				odata.Compare("balance", odata.CompareGe, odata.Int(100)),
			),
			lookup:  accountLookup("ada", 50, true),
			matches: false,
		},
		{
			name: "or needs one side",
			expr: odata.Or(
				odata.Compare("balance", odata.CompareLt, odata.Int(0)),
				odata.Compare("active", odata.CompareEq, odata.Bool(true)),
			),
			lookup:  accountLookup("ada", 50, true),
			matches: true,
		},
		{
			name:    "not flips the inner result",
			expr:    odata.Not(odata.Compare("active", odata.CompareEq, odata.Bool(true))),
			lookup:  accountLookup("ada", 50, true),
			matches: false,
		},
		{
			name:    "contains",
			expr:    odata.Function("contains", odata.Ident("name"), odata.Literal(odata.String("da"))),
			lookup:  accountLookup("ada", 0, false),
			matches: true,
		},
		{
			name:    "startswith misses",
			expr:    odata.Function("startswith", odata.Ident("name"), odata.Literal(odata.String("da"))),
			lookup:  accountLookup("ada", 0, false),
			matches: false,
		},
		{
			name:    "endswith",
			expr:    odata.Function("endswith", odata.Ident("name"), odata.Literal(odata.String("da"))),
			lookup:  accountLookup("ada", 0, false),
			matches: true,
		},
		{
			name:    "null check against present value",
			expr:    odata.Compare("name", odata.CompareNe, odata.Null()),
			lookup:  accountLookup("ada", 0, false),
			matches: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			node, err := dbq.Convert(tc.expr, fields)
			require.NoError(t, err)

			matched, err := dbq.Eval(node, tc.lookup)
			require.NoError(t, err)
			require.Equal(t, tc.matches, matched)
		})
	}
}

func TestEvalNullRecordValue(t *testing.T) {
	t.Parallel()

	fields := accountFields()
	lookup := func(string) (odata.Value, bool) {
		return odata.Null(), true
	}

	node, err := dbq.Convert(odata.Compare("name", odata.CompareEq, odata.Null()), fields)
	require.NoError(t, err)

	matched, err := dbq.Eval(node, lookup)
	require.NoError(t, err)
	require.True(t, matched)

	// Ordinary comparisons never match a null record value.
	node, err = dbq.Convert(odata.Compare("name", odata.CompareEq, odata.String("ada")), fields)
	require.NoError(t, err)

	matched, err = dbq.Eval(node, lookup)
	require.NoError(t, err)
	require.False(t, matched)
}

func TestEvalUnknownFieldInLookup(t *testing.T) {
	t.Parallel()

	node, err := dbq.Convert(
		odata.Compare("balance", odata.CompareGt, odata.Int(1)),
		accountFields(),
	)
	require.NoError(t, err)

	_, err = dbq.Eval(node, func(string) (odata.Value, bool) {
		return odata.Value{}, false
	})
	require.ErrorIs(t, err, dbq.ErrUnknownField)
}
