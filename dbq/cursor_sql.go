package dbq

import (
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/queryscope/odata"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// parseCursorKey turns a cursor's canonical string back into a driver
// value of the field's kind.
func parseCursorKey(kind FieldKind, raw string) (any, error) {
	switch kind {
	case FieldString, FieldTime:
		return raw, nil
	case FieldInt64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q is not an integer", odata.ErrInvalidCursor, raw)
		}

		return v, nil
	case FieldFloat64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q is not a float", odata.ErrInvalidCursor, raw)
		}

		return v, nil
	case FieldDecimal:
		// Validated then bound as the canonical string: squirrel
		// unwraps driver.Valuer types in Gt/Lt but not in Eq, and the
		// boundary uses the same key in both positions.
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q is not a decimal", odata.ErrInvalidCursor, raw)
		}

		return v.String(), nil
	case FieldBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q is not a bool", odata.ErrInvalidCursor, raw)
		}

		return v, nil
	case FieldUUID:
		// Bound as the canonical string, same reason as FieldDecimal.
		v, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q is not a uuid", odata.ErrInvalidCursor, raw)
		}

		return v.String(), nil
	case FieldDateTime:
		v, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q is not a timestamp", odata.ErrInvalidCursor, raw)
		}

		return v, nil
	case FieldDate:
		v, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q is not a date", odata.ErrInvalidCursor, raw)
		}

		return v, nil
	default:
		return nil, fmt.Errorf("%w: unsupported key kind %s", odata.ErrInvalidCursor, kind)
	}
}

// cursorBoundary builds the lexicographic keyset predicate that resumes
// after (forward) or before (backward) the cursor position:
//
//	(k1 > v1) OR (k1 = v1 AND k2 > v2) OR ...
//
// with each comparison flipped for descending keys, and the whole
// direction flipped for backward paging.
func cursorBoundary[R any](cursor odata.CursorV1, order odata.OrderBy, fields *FieldMap[R]) (sq.Sqlizer, error) {
	if len(cursor.Keys) != len(order) {
		return nil, fmt.Errorf("%w: %d key values for %d sort fields", odata.ErrInvalidCursor, len(cursor.Keys), len(order))
	}

	backward := cursor.Direction == odata.DirectionBackward

	branches := make(sq.Or, 0, len(order))

	for i, key := range order {
		field, ok := fields.Resolve(key.Field)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, key.Field)
		}

		bound, err := parseCursorKey(field.Kind, cursor.Keys[i])
		if err != nil {
			return nil, err
		}

		branch := make(sq.And, 0, i+1)

		for j := 0; j < i; j++ {
			prefix, ok := fields.Resolve(order[j].Field)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownField, order[j].Field)
			}

			prefixBound, err := parseCursorKey(prefix.Kind, cursor.Keys[j])
			if err != nil {
				return nil, err
			}

			branch = append(branch, sq.Eq{prefix.Column: prefixBound})
		}

		after := key.Dir == odata.Asc
		if backward {
			after = !after
		}

		if after {
			branch = append(branch, sq.Gt{field.Column: bound})
		} else {
			branch = append(branch, sq.Lt{field.Column: bound})
		}

		branches = append(branches, branch)
	}

	return branches, nil
}

// cursorForRow captures a row's sort key values into a cursor pointing
// in the given paging direction.
func cursorForRow[R any](record R, order odata.OrderBy, fields *FieldMap[R], filterHash, direction string) (odata.CursorV1, error) {
	keys := make([]string, 0, len(order))

	for _, key := range order {
		value, ok := fields.CursorKey(record, key.Field)
		if !ok {
			return odata.CursorV1{}, fmt.Errorf("%w: field %q has no cursor key extractor", ErrUnknownField, key.Field)
		}

		keys = append(keys, value)
	}

	return odata.CursorV1{
		Keys:          keys,
		Dir:           order[0].Dir,
		SortSignature: order.SignedTokens(),
		FilterHash:    filterHash,
		Direction:     direction,
	}, nil
}
