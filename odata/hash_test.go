package odata_test

import (
	"testing"

	"github.com/architeacher/queryscope/odata"
	"github.com/stretchr/testify/require"
)

func TestShortFilterHash(t *testing.T) {
	t.Parallel()

	t.Run("nil filter hashes to empty", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, odata.ShortFilterHash(nil))
	})

	t.Run("structurally equal filters hash identically", func(t *testing.T) {
		t.Parallel()

		first := odata.And(
			odata.Compare("status", odata.CompareEq, odata.String("active")),
			odata.Compare("score", odata.CompareGt, odata.Int(10)),
		)
		second := odata.And(
			odata.Compare("status", odata.CompareEq, odata.String("active")),
			odata.Compare("score", odata.CompareGt, odata.Int(10)),
		)

		require.Equal(t, odata.ShortFilterHash(first), odata.ShortFilterHash(second))
	})

	t.Run("different literals hash differently", func(t *testing.T) {
		t.Parallel()

		first := odata.Compare("score", odata.CompareGt, odata.Int(10))
		second := odata.Compare("score", odata.CompareGt, odata.Int(11))

		require.NotEqual(t, odata.ShortFilterHash(first), odata.ShortFilterHash(second))
	})

	t.Run("operand order matters", func(t *testing.T) {
		t.Parallel()

		left := odata.Compare("a", odata.CompareEq, odata.Int(1))
		right := odata.Compare("b", odata.CompareEq, odata.Int(2))

		require.NotEqual(t,
			odata.ShortFilterHash(odata.And(left, right)),
			odata.ShortFilterHash(odata.And(right, left)),
		)
	})

	t.Run("hash is sixteen hex characters", func(t *testing.T) {
		t.Parallel()

		hash := odata.ShortFilterHash(odata.Compare("name", odata.CompareEq, odata.String("x")))
		require.Len(t, hash, 16)
		require.Regexp(t, "^[0-9a-f]{16}$", hash)
	})
}
