package vm

import (
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindUndefined ValueKind = iota
	KindNumber
	KindBool
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	default:
		return "undefined"
	}
}

// Value represents a dynamically-typed value in the VM.
// The zero Value is undefined.
type Value struct {
	Kind ValueKind
	Num  float64
	Bool bool
	Str  string
}

// Undefined is the value of absent variables and of functions that fall off their end.
var Undefined = Value{}

// NewNumber creates a new number Value.
func NewNumber(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// NewBool creates a new boolean Value.
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NewString creates a new string Value.
func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

func (Value) isEnvEntry() {}

// IsUndefined reports whether v is the undefined value.
func (v Value) IsUndefined() bool {
	return v.Kind == KindUndefined
}

// String renders the value the way scripts see it when concatenated.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return formatNumber(v.Num)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindString:
		return v.Str
	default:
		return "undefined"
	}
}

// Truthy reports whether the value counts as true in a condition.
// 0, NaN, "", false and undefined are falsy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNumber:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case KindBool:
		return v.Bool
	case KindString:
		return v.Str != ""
	default:
		return false
	}
}

// AsFloat64 converts the value to a number. Strings that are not numeric and
// undefined convert to NaN.
func (v Value) AsFloat64() float64 {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindString:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

// Equal implements loose equality: numbers and numeric strings compare by
// value, booleans compare as 0/1, undefined equals only undefined.
func (v Value) Equal(o Value) bool {
	if v.Kind == o.Kind {
		switch v.Kind {
		case KindNumber:
			return v.Num == o.Num
		case KindBool:
			return v.Bool == o.Bool
		case KindString:
			return v.Str == o.Str
		default:
			return true
		}
	}

	if v.Kind == KindUndefined || o.Kind == KindUndefined {
		return false
	}
	if v.Kind == KindBool {
		return NewNumber(v.AsFloat64()).Equal(o)
	}
	if o.Kind == KindBool {
		return v.Equal(NewNumber(o.AsFloat64()))
	}

	// number vs string
	return v.AsFloat64() == o.AsFloat64()
}

// ParseLiteral converts a host-supplied string into a number when it is
// numeric and into a string otherwise.
func ParseLiteral(s string) Value {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return NewNumber(f)
	}
	return NewString(s)
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
