package odata

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValueKind discriminates the typed literals a filter expression can carry.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindUUID
	KindDateTime
	KindDate
	KindTime
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindUUID:
		return "uuid"
	case KindDateTime:
		return "datetime"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a typed literal. Only the slot matching Kind is meaningful,
// Time literals keep their "15:04:05" text in Str.
type Value struct {
	Kind ValueKind
	Str  string
	Num  decimal.Decimal
	Flag bool
	ID   uuid.UUID
	At   time.Time
}

func Null() Value {
	return Value{Kind: KindNull}
}

func Bool(v bool) Value {
	return Value{Kind: KindBool, Flag: v}
}

func Number(v decimal.Decimal) Value {
	return Value{Kind: KindNumber, Num: v}
}

func Int(v int64) Value {
	return Value{Kind: KindNumber, Num: decimal.NewFromInt(v)}
}

func Float(v float64) Value {
	return Value{Kind: KindNumber, Num: decimal.NewFromFloat(v)}
}

func String(v string) Value {
	return Value{Kind: KindString, Str: v}
}

func UUID(v uuid.UUID) Value {
	return Value{Kind: KindUUID, ID: v}
}

func DateTime(v time.Time) Value {
	return Value{Kind: KindDateTime, At: v.UTC()}
}

func Date(v time.Time) Value {
	return Value{Kind: KindDate, At: v}
}

func TimeOfDay(v string) Value {
	return Value{Kind: KindTime, Str: v}
}

func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Canonical renders the literal in a stable textual form, used for
// filter fingerprinting.
func (v Value) Canonical() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.Flag {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.Num.String()
	case KindUUID:
		return v.ID.String()
	case KindDateTime:
		return v.At.UTC().Format(time.RFC3339Nano)
	case KindDate:
		return v.At.Format("2006-01-02")
	case KindTime, KindString:
		return v.Str
	default:
		return ""
	}
}
