package dtype

import "strconv"

// Kind tags the variant held by a Value.
type Kind uint8

const (
	// KindMissing means the address lies outside complete file data.
	KindMissing Kind = iota
	// KindInt holds a signed integer widened to 64 bits.
	KindInt
	// KindFloat holds a float32 or float64 widened to float64.
	KindFloat
	// KindText holds the rendering of a single text byte.
	KindText
	// KindError means the read failed.
	KindError
)

// Value is one decoded element.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Text  string
	// Bits is 32 or 64 for KindFloat.
	Bits int
	// Err is set for KindError.
	Err error
}

// Missing is the value for addresses beyond complete file data.
var Missing = Value{Kind: KindMissing}

// ErrorValue wraps a read failure.
func ErrorValue(err error) Value {
	return Value{Kind: KindError, Err: err}
}

// IntValue returns an integer value.
func IntValue(v int64) Value {
	return Value{Kind: KindInt, Int: v}
}

// FloatValue returns a float value decoded from bits-wide storage.
func FloatValue(v float64, bits int) Value {
	return Value{Kind: KindFloat, Float: v, Bits: bits}
}

// TextValue returns a text value.
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// IsMissing reports whether v is the Missing sentinel.
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// IsError reports whether v records a read failure.
func (v Value) IsError() bool { return v.Kind == KindError }

// Number returns v as a float64. ok is false for non-numeric kinds.
func (v Value) Number() (n float64, ok bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	}
	return 0, false
}

// String renders v in its canonical decimal form. Missing renders as the
// empty string and errors as "Error".
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		bits := v.Bits
		if bits != 32 {
			bits = 64
		}
		return strconv.FormatFloat(v.Float, 'g', -1, bits)
	case KindText:
		return v.Text
	case KindError:
		return "Error"
	}
	return ""
}
