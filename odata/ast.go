package odata

// CompareOperator is one of the six OData comparison operators.
type CompareOperator string

const (
	CompareEq CompareOperator = "eq"
	CompareNe CompareOperator = "ne"
	CompareGt CompareOperator = "gt"
	CompareGe CompareOperator = "ge"
	CompareLt CompareOperator = "lt"
	CompareLe CompareOperator = "le"
)

// Expr is a node of a parsed $filter expression. The set of
// implementations is closed.
type Expr interface {
	isExpr()
}

type (
	// AndExpr joins two expressions with logical AND.
	AndExpr struct {
		Left  Expr
		Right Expr
	}

	// OrExpr joins two expressions with logical OR.
	OrExpr struct {
		Left  Expr
		Right Expr
	}

	// NotExpr negates its inner expression.
	NotExpr struct {
		Inner Expr
	}

	// CompareExpr applies a comparison operator to two operands.
	CompareExpr struct {
		Left  Expr
		Op    CompareOperator
		Right Expr
	}

	// InExpr tests membership of Target in List.
	InExpr struct {
		Target Expr
		List   []Expr
	}

	// FunctionExpr is a call such as contains(name, 'abc').
	FunctionExpr struct {
		Name string
		Args []Expr
	}

	// IdentifierExpr references a logical field by name.
	IdentifierExpr struct {
		Name string
	}

	// ValueExpr wraps a typed literal.
	ValueExpr struct {
		Value Value
	}
)

func (AndExpr) isExpr()        {}
func (OrExpr) isExpr()         {}
func (NotExpr) isExpr()        {}
func (CompareExpr) isExpr()    {}
func (InExpr) isExpr()         {}
func (FunctionExpr) isExpr()   {}
func (IdentifierExpr) isExpr() {}
func (ValueExpr) isExpr()      {}

func And(left, right Expr) Expr {
	return AndExpr{Left: left, Right: right}
}

func Or(left, right Expr) Expr {
	return OrExpr{Left: left, Right: right}
}

func Not(inner Expr) Expr {
	return NotExpr{Inner: inner}
}

// Compare builds the common field-vs-literal comparison.
func Compare(field string, op CompareOperator, value Value) Expr {
	return CompareExpr{
		Left:  IdentifierExpr{Name: field},
		Op:    op,
		Right: ValueExpr{Value: value},
	}
}

func Function(name string, args ...Expr) Expr {
	return FunctionExpr{Name: name, Args: args}
}

func Ident(name string) Expr {
	return IdentifierExpr{Name: name}
}

func Literal(value Value) Expr {
	return ValueExpr{Value: value}
}

// CountNodes walks the expression tree and returns the total node count,
// used to enforce complexity limits before conversion.
func CountNodes(expr Expr) int {
	if expr == nil {
		return 0
	}

	switch e := expr.(type) {
	case AndExpr:
		return 1 + CountNodes(e.Left) + CountNodes(e.Right)
	case OrExpr:
		return 1 + CountNodes(e.Left) + CountNodes(e.Right)
	case NotExpr:
		return 1 + CountNodes(e.Inner)
	case CompareExpr:
		return 1 + CountNodes(e.Left) + CountNodes(e.Right)
	case InExpr:
		count := 1 + CountNodes(e.Target)
		for _, item := range e.List {
			count += CountNodes(item)
		}

		return count
	case FunctionExpr:
		count := 1
		for _, arg := range e.Args {
			count += CountNodes(arg)
		}

		return count
	default:
		return 1
	}
}
