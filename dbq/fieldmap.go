// Package dbq turns filter expressions, access scopes, and cursors into
// typed SQL predicates and drives keyset pagination and scoped bulk
// writes over pgx.
package dbq

import "strings"

// FieldKind is the declared storage type of a filterable field. Every
// literal compared against the field must fit this kind.
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldInt64
	FieldFloat64
	FieldDecimal
	FieldBool
	FieldUUID
	FieldDateTime
	FieldDate
	FieldTime
)

func (k FieldKind) String() string {
	switch k {
	case FieldString:
		return "string"
	case FieldInt64:
		return "int64"
	case FieldFloat64:
		return "float64"
	case FieldDecimal:
		return "decimal"
	case FieldBool:
		return "bool"
	case FieldUUID:
		return "uuid"
	case FieldDateTime:
		return "datetime"
	case FieldDate:
		return "date"
	case FieldTime:
		return "time"
	default:
		return "unknown"
	}
}

type (
	// Field binds a logical field name to its storage column and kind.
	// CursorKey, when set, renders the field's value on a row into the
	// canonical string form embedded in cursors.
	Field[R any] struct {
		Name      string
		Column    string
		Kind      FieldKind
		CursorKey func(record R) string
	}

	// FieldMap is the allow-list of fields a record type exposes to
	// filtering and sorting. Lookups are case-insensitive.
	FieldMap[R any] struct {
		fields map[string]Field[R]
	}
)

func NewFieldMap[R any]() *FieldMap[R] {
	return &FieldMap[R]{fields: make(map[string]Field[R])}
}

// Insert registers a filterable field. Re-inserting a name replaces the
// previous binding.
func (m *FieldMap[R]) Insert(name, column string, kind FieldKind) *FieldMap[R] {
	m.fields[strings.ToLower(name)] = Field[R]{
		Name:   name,
		Column: column,
		Kind:   kind,
	}

	return m
}

// InsertWithCursorKey registers a field that can also serve as a sort
// key for keyset pagination.
func (m *FieldMap[R]) InsertWithCursorKey(name, column string, kind FieldKind, cursorKey func(record R) string) *FieldMap[R] {
	m.fields[strings.ToLower(name)] = Field[R]{
		Name:      name,
		Column:    column,
		Kind:      kind,
		CursorKey: cursorKey,
	}

	return m
}

// Resolve looks a logical field name up.
func (m *FieldMap[R]) Resolve(name string) (Field[R], bool) {
	field, ok := m.fields[strings.ToLower(name)]

	return field, ok
}

// CursorKey renders the named field of a record into its cursor string.
// The second result is false when the field is unknown or has no
// extractor.
func (m *FieldMap[R]) CursorKey(record R, name string) (string, bool) {
	field, ok := m.fields[strings.ToLower(name)]
	if !ok || field.CursorKey == nil {
		return "", false
	}

	return field.CursorKey(record), true
}
