package table

import (
	"math"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindNull is the explicit marker for absent or unmatched cells.
	// It is distinct from an empty string.
	KindNull Kind = iota
	// KindString is a text cell
	KindString
	// KindNumber is a numeric cell
	KindNumber
)

// Value is a tagged scalar cell: string, number, or null. The coercion
// decision is made once at read time and carried through the engine.
//
// A number keeps its original lexeme so that serialization and key
// comparison are exact: a cell read as "1.0" stays "1.0", it does not
// become "1".
type Value struct {
	kind Kind
	raw  string
	num  float64
}

// Null is the zero Value, the explicit null marker.
var Null = Value{}

// String creates a string Value
func String(s string) Value {
	return Value{kind: KindString, raw: s}
}

// Number creates a numeric Value from a lexeme and its parsed form
func Number(raw string, f float64) Value {
	return Value{kind: KindNumber, raw: raw, num: f}
}

// Coerce converts a raw text cell into a Value. The cell becomes a number
// only when it parses unambiguously as one; everything else, including the
// empty string, stays a string. Best-effort and lossy for values such as
// leading-zero identifiers, which parse as numbers but keep their lexeme.
func Coerce(cell string) Value {
	if cell == "" {
		return String("")
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Number(cell, f)
	}
	return String(cell)
}

// FromAny converts a decoded JSON scalar into a Value. Non-scalar values
// are flattened to their JSON text.
func FromAny(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Null
	case string:
		return String(x)
	case gojson.Number:
		f, err := x.Float64()
		if err != nil {
			return String(x.String())
		}
		return Number(x.String(), f)
	case float64:
		raw := strconv.FormatFloat(x, 'g', -1, 64)
		return Number(raw, x)
	case bool:
		if x {
			return String("true")
		}
		return String("false")
	default:
		b, err := gojson.Marshal(x)
		if err != nil {
			return Null
		}
		return String(string(b))
	}
}

// Kind returns the variant tag
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is the null marker
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// String returns the cell text: the original lexeme for strings and
// numbers, "" for null.
func (v Value) String() string {
	return v.raw
}

// Float returns the parsed numeric value and whether v is a number
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Equal compares two values the way the join engine does: by string
// lexeme. Numbers are compared as text, so "1" and "1.0" are not equal.
// Two nulls are equal; null never equals a non-null.
func (v Value) Equal(o Value) bool {
	if v.kind == KindNull || o.kind == KindNull {
		return v.kind == o.kind
	}
	return v.raw == o.raw
}

// MarshalJSON implements json.Marshaler. Null encodes as JSON null,
// numbers as bare numbers using their original lexeme, strings as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindNumber:
		// Lexemes like "007" parse as numbers but are not valid JSON;
		// fall back to the parsed value for those.
		if gojson.Valid([]byte(v.raw)) {
			return []byte(v.raw), nil
		}
		return []byte(strconv.FormatFloat(v.num, 'g', -1, 64)), nil
	default:
		return gojson.Marshal(v.raw)
	}
}
