package dtype

import (
	"fmt"
	"strings"
)

// ElementType selects how a run of bytes is reinterpreted.
type ElementType uint8

const (
	Text ElementType = iota
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64

	numTypes
)

// widths is indexed by ElementType.
var widths = [numTypes]int{1, 1, 2, 4, 8, 4, 8}

var names = [numTypes]string{"text", "int8", "int16", "int32", "int64", "float32", "float64"}

// Types lists every element type in declaration order.
var Types = []ElementType{Text, Int8, Int16, Int32, Int64, Float32, Float64}

// NumericTypes lists the element types that decode to numbers.
var NumericTypes = []ElementType{Int8, Int16, Int32, Int64, Float32, Float64}

// Valid reports whether t is one of the declared element types.
func (t ElementType) Valid() bool {
	return t < numTypes
}

// Width returns the size of one element in bytes.
func (t ElementType) Width() int {
	if !t.Valid() {
		return 0
	}
	return widths[t]
}

// IsInteger reports whether t is a signed integer type.
func (t ElementType) IsInteger() bool {
	return t >= Int8 && t <= Int64
}

// IsFloat reports whether t is an IEEE-754 floating-point type.
func (t ElementType) IsFloat() bool {
	return t == Float32 || t == Float64
}

func (t ElementType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("ElementType(%d)", uint8(t))
	}
	return names[t]
}

// Parse returns the element type named s. Matching ignores case, and the
// aliases "double32" and "double64" are accepted for the float types.
func Parse(s string) (ElementType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "double32":
		return Float32, nil
	case "double64", "double":
		return Float64, nil
	case "string", "char":
		return Text, nil
	}
	for i, n := range names {
		if n == name {
			return ElementType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown element type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ElementType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid element type %d", uint8(t))
	}
	return []byte(names[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ElementType) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
