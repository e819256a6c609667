package dbq

import (
	"fmt"
	"strings"

	"github.com/architeacher/queryscope/odata"
)

// FilterOp is a predicate operator after conversion.
type FilterOp string

const (
	OpEq         FilterOp = "eq"
	OpNe         FilterOp = "ne"
	OpGt         FilterOp = "gt"
	OpGe         FilterOp = "ge"
	OpLt         FilterOp = "lt"
	OpLe         FilterOp = "le"
	OpContains   FilterOp = "contains"
	OpStartsWith FilterOp = "startswith"
	OpEndsWith   FilterOp = "endswith"
	OpAnd        FilterOp = "and"
	OpOr         FilterOp = "or"
)

// FilterNode is a validated, typed predicate ready for SQL rendering or
// in-memory evaluation. The set of implementations is closed.
type FilterNode interface {
	isFilterNode()
}

type (
	// BinaryNode compares one resolved field against one literal.
	BinaryNode struct {
		Field  string
		Column string
		Kind   FieldKind
		Op     FilterOp
		Value  odata.Value
	}

	// CompositeNode combines child predicates with and/or.
	CompositeNode struct {
		Op       FilterOp
		Children []FilterNode
	}

	// NotNode negates its inner predicate.
	NotNode struct {
		Inner FilterNode
	}
)

func (BinaryNode) isFilterNode()    {}
func (CompositeNode) isFilterNode() {}
func (NotNode) isFilterNode()       {}

var stringFunctions = map[string]FilterOp{
	"contains":   OpContains,
	"startswith": OpStartsWith,
	"endswith":   OpEndsWith,
}

// Convert type-checks a filter expression against the record's field map
// and produces a FilterNode. It is the only path by which an externally
// supplied filter becomes executable structure, so every unknown field,
// mismatched literal, or unsupported shape is a hard error.
func Convert[R any](expr odata.Expr, fields *FieldMap[R]) (FilterNode, error) {
	switch e := expr.(type) {
	case odata.AndExpr:
		return convertComposite(OpAnd, e.Left, e.Right, fields)
	case odata.OrExpr:
		return convertComposite(OpOr, e.Left, e.Right, fields)
	case odata.NotExpr:
		inner, err := Convert(e.Inner, fields)
		if err != nil {
			return nil, err
		}

		return NotNode{Inner: inner}, nil
	case odata.CompareExpr:
		return convertCompare(e, fields)
	case odata.FunctionExpr:
		return convertFunction(e, fields)
	case odata.InExpr:
		return nil, fmt.Errorf("%w: in", ErrUnsupportedOperation)
	case odata.IdentifierExpr:
		return nil, fmt.Errorf("%w: %q", ErrBareIdentifier, e.Name)
	case odata.ValueExpr:
		return nil, ErrBareLiteral
	default:
		return nil, ErrInvalidExpression
	}
}

func convertComposite[R any](op FilterOp, left, right odata.Expr, fields *FieldMap[R]) (FilterNode, error) {
	leftNode, err := Convert(left, fields)
	if err != nil {
		return nil, err
	}

	rightNode, err := Convert(right, fields)
	if err != nil {
		return nil, err
	}

	return CompositeNode{Op: op, Children: []FilterNode{leftNode, rightNode}}, nil
}

func convertCompare[R any](e odata.CompareExpr, fields *FieldMap[R]) (FilterNode, error) {
	ident, identOK := e.Left.(odata.IdentifierExpr)
	literal, literalOK := e.Right.(odata.ValueExpr)
	op := comparisonOp(e.Op)

	if !identOK || !literalOK {
		// Mirror "literal op field" into the canonical shape.
		ident, identOK = e.Right.(odata.IdentifierExpr)
		literal, literalOK = e.Left.(odata.ValueExpr)
		op = mirrorOp(op)
	}

	if !identOK && !literalOK {
		return nil, ErrInvalidExpression
	}

	if !identOK {
		return nil, ErrBareLiteral
	}

	if !literalOK {
		if _, twoIdents := e.Right.(odata.IdentifierExpr); twoIdents {
			return nil, fmt.Errorf("%w: %q", ErrFieldComparison, ident.Name)
		}

		return nil, ErrInvalidExpression
	}

	field, ok := fields.Resolve(ident.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, ident.Name)
	}

	if literal.Value.IsNull() {
		// Null literals only make sense as presence checks.
		if op != OpEq && op != OpNe {
			return nil, fmt.Errorf("%w: %s against null", ErrUnsupportedOperation, op)
		}
	} else if err := validateValueType(field.Name, field.Kind, literal.Value); err != nil {
		return nil, err
	}

	return BinaryNode{
		Field:  field.Name,
		Column: field.Column,
		Kind:   field.Kind,
		Op:     op,
		Value:  literal.Value,
	}, nil
}

func convertFunction[R any](e odata.FunctionExpr, fields *FieldMap[R]) (FilterNode, error) {
	op, ok := stringFunctions[strings.ToLower(e.Name)]
	if !ok {
		return nil, fmt.Errorf("%w: function %q", ErrUnsupportedOperation, e.Name)
	}

	if len(e.Args) != 2 {
		return nil, fmt.Errorf("%w: %s takes two arguments", ErrInvalidExpression, e.Name)
	}

	ident, ok := e.Args[0].(odata.IdentifierExpr)
	if !ok {
		return nil, fmt.Errorf("%w: %s requires a field as its first argument", ErrInvalidExpression, e.Name)
	}

	literal, ok := e.Args[1].(odata.ValueExpr)
	if !ok || literal.Value.Kind != odata.KindString {
		return nil, fmt.Errorf("%w: %s requires a string literal as its second argument", ErrInvalidExpression, e.Name)
	}

	field, ok := fields.Resolve(ident.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, ident.Name)
	}

	if field.Kind != FieldString {
		return nil, &TypeMismatchError{Field: field.Name, Expected: FieldString, Got: field.Kind.String()}
	}

	return BinaryNode{
		Field:  field.Name,
		Column: field.Column,
		Kind:   field.Kind,
		Op:     op,
		Value:  literal.Value,
	}, nil
}

func comparisonOp(op odata.CompareOperator) FilterOp {
	switch op {
	case odata.CompareEq:
		return OpEq
	case odata.CompareNe:
		return OpNe
	case odata.CompareGt:
		return OpGt
	case odata.CompareGe:
		return OpGe
	case odata.CompareLt:
		return OpLt
	case odata.CompareLe:
		return OpLe
	default:
		return FilterOp(op)
	}
}

func mirrorOp(op FilterOp) FilterOp {
	switch op {
	case OpGt:
		return OpLt
	case OpGe:
		return OpLe
	case OpLt:
		return OpGt
	case OpLe:
		return OpGe
	default:
		return op
	}
}

func validateValueType(field string, kind FieldKind, value odata.Value) error {
	ok := false

	switch kind {
	case FieldString, FieldTime:
		ok = value.Kind == odata.KindString || value.Kind == odata.KindTime
	case FieldInt64, FieldFloat64, FieldDecimal:
		ok = value.Kind == odata.KindNumber
	case FieldBool:
		ok = value.Kind == odata.KindBool
	case FieldUUID:
		ok = value.Kind == odata.KindUUID
	case FieldDateTime:
		ok = value.Kind == odata.KindDateTime
	case FieldDate:
		ok = value.Kind == odata.KindDate
	}

	if !ok {
		return &TypeMismatchError{Field: field, Expected: kind, Got: value.Kind.String()}
	}

	return nil
}
