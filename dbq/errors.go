package dbq

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField         = errors.New("unknown filter field")
	ErrUnsupportedOperation = errors.New("unsupported filter operation")
	ErrInvalidExpression    = errors.New("invalid filter expression")
	ErrFieldComparison      = errors.New("field-to-field comparisons are not supported")
	ErrBareIdentifier       = errors.New("bare identifier outside a comparison")
	ErrBareLiteral          = errors.New("bare literal outside a comparison")
	ErrUnmappedScopeColumn  = errors.New("scope property has no column for this record type")
	ErrTenantImmutable      = errors.New("tenant column cannot be updated")
	ErrDatabaseQuery        = errors.New("database query error")
)

// TypeMismatchError reports a literal whose type does not fit the
// declared kind of the field it is compared against.
type TypeMismatchError struct {
	Field    string
	Expected FieldKind
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch on field %q: expected %s, got %s", e.Field, e.Expected, e.Got)
}
