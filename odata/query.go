package odata

import "fmt"

// Query carries the resolved query options of a list request. Build one
// with NewQuery and the With* methods, then hand it to a pager.
type Query struct {
	Filter     Expr
	FilterHash string
	Order      OrderBy
	Limit      uint64
	Cursor     *CursorV1
	Select     []string
}

func NewQuery() Query {
	return Query{}
}

// WithFilter attaches a parsed filter and records its fingerprint so
// cursors issued for this query can detect filter drift.
func (q Query) WithFilter(expr Expr) Query {
	q.Filter = expr
	q.FilterHash = ShortFilterHash(expr)

	return q
}

func (q Query) WithOrder(order OrderBy) Query {
	q.Order = order

	return q
}

func (q Query) WithLimit(limit uint64) Query {
	q.Limit = limit

	return q
}

func (q Query) WithCursor(cursor CursorV1) Query {
	q.Cursor = &cursor

	return q
}

// WithCursorToken decodes a wire token and attaches it. Tokens longer
// than limits.MaxCursorLength are rejected before any decode work.
func (q Query) WithCursorToken(token string, limits Limits) (Query, error) {
	if limits.MaxCursorLength > 0 && len(token) > limits.MaxCursorLength {
		return q, fmt.Errorf("%w: token exceeds %d bytes", ErrInvalidCursor, limits.MaxCursorLength)
	}

	cursor, err := DecodeCursor(token)
	if err != nil {
		return q, err
	}

	q.Cursor = &cursor

	return q, nil
}

func (q Query) WithSelect(fields ...string) Query {
	q.Select = fields

	return q
}

func (q Query) HasFilter() bool {
	return q.Filter != nil
}

// Validate enforces request-level limits and the rule that a cursor and
// an explicit $orderby never travel together, the cursor already owns
// the ordering.
func (q Query) Validate(limits Limits) error {
	if q.Cursor != nil && len(q.Order) > 0 {
		return ErrOrderWithCursor
	}

	if limits.MaxTop > 0 && q.Limit > limits.MaxTop {
		return fmt.Errorf("%w: %d exceeds the limit of %d", ErrInvalidLimit, q.Limit, limits.MaxTop)
	}

	if limits.MaxOrderFields > 0 && len(q.Order) > limits.MaxOrderFields {
		return fmt.Errorf("%w: %d sort fields exceed the limit of %d", ErrInvalidOrderBy, len(q.Order), limits.MaxOrderFields)
	}

	if limits.MaxFilterNodes > 0 {
		if nodes := CountNodes(q.Filter); nodes > limits.MaxFilterNodes {
			return fmt.Errorf("%w: %d nodes exceed the limit of %d", ErrInvalidFilter, nodes, limits.MaxFilterNodes)
		}
	}

	return nil
}
