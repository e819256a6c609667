package odata

import "errors"

var (
	ErrInvalidFilter   = errors.New("invalid $filter expression")
	ErrInvalidOrderBy  = errors.New("invalid $orderby clause")
	ErrInvalidLimit    = errors.New("invalid page limit")
	ErrInvalidCursor   = errors.New("invalid pagination cursor")
	ErrOrderWithCursor = errors.New("$orderby cannot be combined with a cursor")
	ErrOrderMismatch   = errors.New("cursor sort order does not match the request")
	ErrFilterMismatch  = errors.New("cursor filter does not match the request")
)
