package dbq

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/queryscope/odata"
)

// SqlizeFilter renders a validated FilterNode as a squirrel predicate.
func SqlizeFilter(node FilterNode) (sq.Sqlizer, error) {
	switch n := node.(type) {
	case BinaryNode:
		return sqlizeBinary(n)
	case CompositeNode:
		return sqlizeComposite(n)
	case NotNode:
		inner, err := SqlizeFilter(n.Inner)
		if err != nil {
			return nil, err
		}

		return sq.Expr("NOT (?)", inner), nil
	default:
		return nil, ErrInvalidExpression
	}
}

func sqlizeBinary(n BinaryNode) (sq.Sqlizer, error) {
	if n.Value.IsNull() {
		switch n.Op {
		case OpEq:
			return sq.Eq{n.Column: nil}, nil
		case OpNe:
			return sq.NotEq{n.Column: nil}, nil
		default:
			return nil, fmt.Errorf("%w: %s against null", ErrUnsupportedOperation, n.Op)
		}
	}

	arg, err := bindValue(n.Field, n.Kind, n.Value)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case OpEq:
		return sq.Eq{n.Column: arg}, nil
	case OpNe:
		return sq.NotEq{n.Column: arg}, nil
	case OpGt:
		return sq.Gt{n.Column: arg}, nil
	case OpGe:
		return sq.GtOrEq{n.Column: arg}, nil
	case OpLt:
		return sq.Lt{n.Column: arg}, nil
	case OpLe:
		return sq.LtOrEq{n.Column: arg}, nil
	case OpContains:
		return sq.Like{n.Column: "%" + escapeLike(n.Value.Str) + "%"}, nil
	case OpStartsWith:
		return sq.Like{n.Column: escapeLike(n.Value.Str) + "%"}, nil
	case OpEndsWith:
		return sq.Like{n.Column: "%" + escapeLike(n.Value.Str)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, n.Op)
	}
}

func sqlizeComposite(n CompositeNode) (sq.Sqlizer, error) {
	children := make([]sq.Sqlizer, 0, len(n.Children))

	for _, child := range n.Children {
		rendered, err := SqlizeFilter(child)
		if err != nil {
			return nil, err
		}

		children = append(children, rendered)
	}

	switch n.Op {
	case OpAnd:
		return sq.And(children), nil
	case OpOr:
		return sq.Or(children), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, n.Op)
	}
}

// bindValue converts a typed literal into the driver value matching the
// field's declared kind.
func bindValue(field string, kind FieldKind, value odata.Value) (any, error) {
	switch kind {
	case FieldString, FieldTime:
		return value.Str, nil
	case FieldInt64:
		if !value.Num.IsInteger() {
			return nil, &TypeMismatchError{Field: field, Expected: kind, Got: "fractional number"}
		}

		return value.Num.IntPart(), nil
	case FieldFloat64:
		return value.Num.InexactFloat64(), nil
	case FieldDecimal:
		return value.Num, nil
	case FieldBool:
		return value.Flag, nil
	case FieldUUID:
		return value.ID, nil
	case FieldDateTime, FieldDate:
		return value.At, nil
	default:
		return nil, &TypeMismatchError{Field: field, Expected: kind, Got: value.Kind.String()}
	}
}

// escapeLike neutralizes LIKE metacharacters in user supplied text so a
// substring filter matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)

	return s
}
