package dbq

import (
	"fmt"
	"strings"

	"github.com/architeacher/queryscope/odata"
)

// ValueLookup resolves a logical field name to the value a record holds
// for it. The second result is false when the record has no such field.
type ValueLookup func(field string) (odata.Value, bool)

// Eval applies a validated FilterNode to an in-memory record, mirroring
// the SQL the node would render. Useful for cache-side filtering and for
// asserting predicate semantics without a database.
func Eval(node FilterNode, lookup ValueLookup) (bool, error) {
	switch n := node.(type) {
	case BinaryNode:
		return evalBinary(n, lookup)
	case CompositeNode:
		return evalComposite(n, lookup)
	case NotNode:
		inner, err := Eval(n.Inner, lookup)
		if err != nil {
			return false, err
		}

		return !inner, nil
	default:
		return false, ErrInvalidExpression
	}
}

func evalComposite(n CompositeNode, lookup ValueLookup) (bool, error) {
	for _, child := range n.Children {
		matched, err := Eval(child, lookup)
		if err != nil {
			return false, err
		}

		switch n.Op {
		case OpAnd:
			if !matched {
				return false, nil
			}
		case OpOr:
			if matched {
				return true, nil
			}
		default:
			return false, fmt.Errorf("%w: %s", ErrUnsupportedOperation, n.Op)
		}
	}

	return n.Op == OpAnd, nil
}

func evalBinary(n BinaryNode, lookup ValueLookup) (bool, error) {
	actual, ok := lookup(n.Field)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, n.Field)
	}

	if n.Value.IsNull() {
		switch n.Op {
		case OpEq:
			return actual.IsNull(), nil
		case OpNe:
			return !actual.IsNull(), nil
		default:
			return false, fmt.Errorf("%w: %s against null", ErrUnsupportedOperation, n.Op)
		}
	}

	// SQL comparisons against NULL never match.
	if actual.IsNull() {
		return false, nil
	}

	switch n.Op {
	case OpContains:
		return strings.Contains(actual.Str, n.Value.Str), nil
	case OpStartsWith:
		return strings.HasPrefix(actual.Str, n.Value.Str), nil
	case OpEndsWith:
		return strings.HasSuffix(actual.Str, n.Value.Str), nil
	}

	cmp, err := compareValues(n.Kind, actual, n.Value)
	if err != nil {
		return false, err
	}

	switch n.Op {
	case OpEq:
		return cmp == 0, nil
	case OpNe:
		return cmp != 0, nil
	case OpGt:
		return cmp > 0, nil
	case OpGe:
		return cmp >= 0, nil
	case OpLt:
		return cmp < 0, nil
	case OpLe:
		return cmp <= 0, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedOperation, n.Op)
	}
}

func compareValues(kind FieldKind, a, b odata.Value) (int, error) {
	switch kind {
	case FieldString, FieldTime:
		return strings.Compare(a.Str, b.Str), nil
	case FieldInt64, FieldFloat64, FieldDecimal:
		return a.Num.Cmp(b.Num), nil
	case FieldBool:
		switch {
		case a.Flag == b.Flag:
			return 0, nil
		case b.Flag:
			return -1, nil
		default:
			return 1, nil
		}
	case FieldUUID:
		return strings.Compare(a.ID.String(), b.ID.String()), nil
	case FieldDateTime, FieldDate:
		return a.At.Compare(b.At), nil
	default:
		return 0, fmt.Errorf("%w: cannot compare %s values", ErrInvalidExpression, kind)
	}
}
