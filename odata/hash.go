package odata

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ShortFilterHash fingerprints a filter expression. Structurally equal
// filters hash identically regardless of how they were built. A nil
// filter hashes to the empty string.
func ShortFilterHash(expr Expr) string {
	if expr == nil {
		return ""
	}

	return fmt.Sprintf("%016x", xxhash.Sum64String(normalizeExpr(expr)))
}

func normalizeExpr(expr Expr) string {
	switch e := expr.(type) {
	case AndExpr:
		return "and(" + normalizeExpr(e.Left) + "," + normalizeExpr(e.Right) + ")"
	case OrExpr:
		return "or(" + normalizeExpr(e.Left) + "," + normalizeExpr(e.Right) + ")"
	case NotExpr:
		return "not(" + normalizeExpr(e.Inner) + ")"
	case CompareExpr:
		return string(e.Op) + "(" + normalizeExpr(e.Left) + "," + normalizeExpr(e.Right) + ")"
	case InExpr:
		items := make([]string, 0, len(e.List))
		for _, item := range e.List {
			items = append(items, normalizeExpr(item))
		}

		return "in(" + normalizeExpr(e.Target) + ",[" + strings.Join(items, ",") + "])"
	case FunctionExpr:
		args := make([]string, 0, len(e.Args))
		for _, arg := range e.Args {
			args = append(args, normalizeExpr(arg))
		}

		return "fn:" + strings.ToLower(e.Name) + "(" + strings.Join(args, ",") + ")"
	case IdentifierExpr:
		return "id:" + e.Name
	case ValueExpr:
		return "val:" + e.Value.Kind.String() + ":" + e.Value.Canonical()
	default:
		return ""
	}
}
