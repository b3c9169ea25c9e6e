package dtype

// Decoding
//
// Decode reinterprets exactly Width() bytes as the element type, little
// endian, with no alignment or padding:
//
//   - Int8/16/32/64: two's complement, sign-extended to int64
//   - Float32/64:    IEEE-754 binary32/binary64, widened to float64
//   - Text:          the byte passed through the text rendering table
//
// # Text Rendering
//
// Binary dumps rendered as text replace unprintable bytes so that line
// structure survives and the result can be searched:
//
//	byte >= 32     kept verbatim (space included)
//	'\n' (10)      kept
//	'\r' (13)      dropped
//	'\t' (9)       four spaces
//	anything else  '*'

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Placeholder replaces control bytes in rendered text.
const Placeholder = '*'

const tabExpansion = "    "

// Decode converts the little-endian bytes in buf to a Value of type t.
// buf must hold exactly t.Width() bytes.
func Decode(t ElementType, buf []byte) (Value, error) {
	if len(buf) != t.Width() {
		return Value{}, fmt.Errorf("decoding %s: got %d bytes, want %d", t, len(buf), t.Width())
	}

	switch t {
	case Int8:
		return IntValue(int64(int8(buf[0]))), nil
	case Int16:
		return IntValue(int64(int16(binary.LittleEndian.Uint16(buf)))), nil
	case Int32:
		return IntValue(int64(int32(binary.LittleEndian.Uint32(buf)))), nil
	case Int64:
		return IntValue(int64(binary.LittleEndian.Uint64(buf))), nil
	case Float32:
		bits := binary.LittleEndian.Uint32(buf)
		return FloatValue(float64(math.Float32frombits(bits)), 32), nil
	case Float64:
		bits := binary.LittleEndian.Uint64(buf)
		return FloatValue(math.Float64frombits(bits), 64), nil
	case Text:
		return TextValue(string(AppendText(nil, buf))), nil
	default:
		return Value{}, fmt.Errorf("unsupported element type: %d", t)
	}
}

// DecodeFloat64s decodes every complete element of t in buf as float64.
// Text is not a numeric type and yields an error.
func DecodeFloat64s(t ElementType, buf []byte, dst []float64) ([]float64, error) {
	w := t.Width()
	if t == Text || w == 0 {
		return nil, fmt.Errorf("%s is not numeric", t)
	}
	for off := 0; off+w <= len(buf); off += w {
		v, err := Decode(t, buf[off:off+w])
		if err != nil {
			return nil, err
		}
		n, _ := v.Number()
		dst = append(dst, n)
	}
	return dst, nil
}

// AppendText appends the text rendering of src to dst.
func AppendText(dst, src []byte) []byte {
	for _, c := range src {
		switch {
		case c >= 32:
			dst = append(dst, c)
		case c == '\n':
			dst = append(dst, '\n')
		case c == '\r':
		case c == '\t':
			dst = append(dst, tabExpansion...)
		default:
			dst = append(dst, Placeholder)
		}
	}
	return dst
}

// TextWidth returns how many characters byte c renders to: 0 for '\r',
// the tab expansion for '\t' and 1 for everything else.
func TextWidth(c byte) int {
	switch c {
	case '\r':
		return 0
	case '\t':
		return len(tabExpansion)
	}
	return 1
}

// Encode writes v to buf as t in little-endian order. It is the inverse of
// Decode for numeric types and is used to build fixtures.
func Encode(t ElementType, buf []byte, v float64) error {
	if len(buf) < t.Width() {
		return fmt.Errorf("encoding %s: buffer of %d bytes too small", t, len(buf))
	}
	switch t {
	case Int8:
		buf[0] = byte(int8(v))
	case Int16:
		binary.LittleEndian.PutUint16(buf, uint16(int16(v)))
	case Int32:
		binary.LittleEndian.PutUint32(buf, uint32(int32(v)))
	case Int64:
		binary.LittleEndian.PutUint64(buf, uint64(int64(v)))
	case Float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
	case Float64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	default:
		return fmt.Errorf("cannot encode numbers as %s", t)
	}
	return nil
}
