package normalize

import (
	"strconv"
	"time"
)

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind is the type of a normalized Value.
type Kind int

const (
	KindMissing Kind = iota
	KindString
	KindInt
	KindTime
)

// Value is a normalized property value. The zero Value is Missing, which is
// distinct from an empty string.
type Value struct {
	kind Kind
	str  string
	num  int64
	when time.Time
}

// Missing returns the missing value.
func Missing() Value {
	return Value{}
}

// Text returns a string value. Text("") is an empty string, not Missing.
func Text(s string) Value {
	return Value{kind: KindString, str: s}
}

// Integer returns an integer value.
func Integer(n int64) Value {
	return Value{kind: KindInt, num: n}
}

// Timestamp returns a time value.
func Timestamp(t time.Time) Value {
	return Value{kind: KindTime, when: t}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsMissing reports whether the value is Missing.
func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// Any returns the value as nil, string, int64 or time.Time.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindTime:
		return v.when
	default:
		return nil
	}
}

// String returns the wire representation of the value. Times are RFC 3339
// with their zone offset; Missing is the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindTime:
		return v.when.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.num == other.num
	case KindTime:
		return v.when.Equal(other.when)
	default:
		return true
	}
}
