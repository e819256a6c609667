package odata

import (
	"fmt"
	"strings"
)

// SortDir is a sort direction as it appears on the wire.
type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

func (d SortDir) Reverse() SortDir {
	if d == Asc {
		return Desc
	}

	return Asc
}

// OrderKey is a single $orderby component.
type OrderKey struct {
	Field string
	Dir   SortDir
}

// OrderBy is the ordered list of sort keys applied to a query.
type OrderBy []OrderKey

// ParseOrderBy parses a raw $orderby string such as "score desc,name".
// A missing direction defaults to ascending.
func ParseOrderBy(raw string) (OrderBy, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	var order OrderBy

	for _, part := range strings.Split(trimmed, ",") {
		tokens := strings.Fields(part)

		switch len(tokens) {
		case 1:
			order = append(order, OrderKey{Field: tokens[0], Dir: Asc})
		case 2:
			dir := SortDir(strings.ToLower(tokens[1]))
			if dir != Asc && dir != Desc {
				return nil, fmt.Errorf("%w: %q", ErrInvalidOrderBy, part)
			}

			order = append(order, OrderKey{Field: tokens[0], Dir: dir})
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidOrderBy, part)
		}
	}

	return order, nil
}

// SignedTokens renders the order as the compact "+field,-field" form
// embedded in cursors.
func (o OrderBy) SignedTokens() string {
	if len(o) == 0 {
		return ""
	}

	tokens := make([]string, 0, len(o))

	for _, key := range o {
		sign := "+"
		if key.Dir == Desc {
			sign = "-"
		}

		tokens = append(tokens, sign+key.Field)
	}

	return strings.Join(tokens, ",")
}

// OrderByFromSignedTokens is the inverse of SignedTokens.
func OrderByFromSignedTokens(signature string) (OrderBy, error) {
	if signature == "" {
		return nil, nil
	}

	var order OrderBy

	for _, token := range strings.Split(signature, ",") {
		if len(token) < 2 {
			return nil, fmt.Errorf("%w: malformed sort token %q", ErrInvalidCursor, token)
		}

		switch token[0] {
		case '+':
			order = append(order, OrderKey{Field: token[1:], Dir: Asc})
		case '-':
			order = append(order, OrderKey{Field: token[1:], Dir: Desc})
		default:
			return nil, fmt.Errorf("%w: malformed sort token %q", ErrInvalidCursor, token)
		}
	}

	return order, nil
}

// EnsureTiebreaker appends the given key unless it is already present,
// guaranteeing a total order for keyset pagination.
func (o OrderBy) EnsureTiebreaker(field string, dir SortDir) OrderBy {
	for _, key := range o {
		if key.Field == field {
			return o
		}
	}

	extended := make(OrderBy, len(o), len(o)+1)
	copy(extended, o)

	return append(extended, OrderKey{Field: field, Dir: dir})
}

// ReverseDirections flips every key's direction, used to walk a page
// backwards with the same boundary semantics.
func (o OrderBy) ReverseDirections() OrderBy {
	reversed := make(OrderBy, len(o))

	for i, key := range o {
		reversed[i] = OrderKey{Field: key.Field, Dir: key.Dir.Reverse()}
	}

	return reversed
}

func (o OrderBy) String() string {
	parts := make([]string, 0, len(o))

	for _, key := range o {
		parts = append(parts, key.Field+" "+string(key.Dir))
	}

	return strings.Join(parts, ",")
}
