// Package layout maps logical (row, column) coordinates onto file byte offsets.
package layout

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/binscope/internal/dtype"
)

// ErrInvalid is returned for layouts that cannot address any data.
var ErrInvalid = errors.New("invalid layout")

// Layout describes how file bytes map to rows and columns of one element type.
// It is an immutable value: change a parameter by building a new Layout.
type Layout struct {
	start   int64
	phase   int64
	columns int64
	typ     dtype.ElementType
}

// New validates the parameters and returns a Layout.
//
// start is counted in elements, phase in bytes. columns must be at least 1.
func New(start int64, phase int32, columns int32, typ dtype.ElementType) (Layout, error) {
	if start < 0 {
		return Layout{}, fmt.Errorf("%w: negative start %d", ErrInvalid, start)
	}
	if phase < 0 {
		return Layout{}, fmt.Errorf("%w: negative phase %d", ErrInvalid, phase)
	}
	if columns < 1 {
		return Layout{}, fmt.Errorf("%w: column count %d must be at least 1", ErrInvalid, columns)
	}
	if !typ.Valid() {
		return Layout{}, fmt.Errorf("%w: unknown element type %d", ErrInvalid, typ)
	}
	return Layout{
		start:   start,
		phase:   int64(phase),
		columns: int64(columns),
		typ:     typ,
	}, nil
}

// MustNew is like New but panics on invalid parameters.
func MustNew(start int64, phase int32, columns int32, typ dtype.ElementType) Layout {
	l, err := New(start, phase, columns, typ)
	if err != nil {
		panic(err)
	}
	return l
}

// WithType returns a copy of l reinterpreted as typ.
func (l Layout) WithType(typ dtype.ElementType) (Layout, error) {
	return New(l.start, int32(l.phase), int32(l.columns), typ)
}

// Start returns the element-count offset applied before the first row.
func (l Layout) Start() int64 {
	return l.start
}

// Phase returns the byte skip applied once before striding.
func (l Layout) Phase() int64 {
	return l.phase
}

// Columns returns the number of elements per row.
func (l Layout) Columns() int64 {
	return l.columns
}

// Type returns the element type.
func (l Layout) Type() dtype.ElementType {
	return l.typ
}

// Width returns the element size in bytes.
func (l Layout) Width() int64 {
	return int64(l.typ.Width())
}

// RowStride returns the number of bytes per row.
func (l Layout) RowStride() int64 {
	return l.columns * l.Width()
}

// IsZero reports whether l is the zero Layout, which addresses nothing.
func (l Layout) IsZero() bool {
	return l.columns == 0
}

func (l Layout) String() string {
	return fmt.Sprintf("%s start=%d phase=%d columns=%d", l.typ, l.start, l.phase, l.columns)
}

// ByteOffset returns the file offset of the element at (row, col):
//
//	phase + (row*columns + col + start) * width
func (l Layout) ByteOffset(row, col int64) int64 {
	return l.phase + (row*l.columns+col+l.start)*l.Width()
}

// RowOf returns the row containing the element at byte offset off.
func (l Layout) RowOf(off int64) int64 {
	return (off - l.phase - l.start*l.Width()) / l.RowStride()
}

// Rows returns the number of addressable rows in a file of size bytes.
//
// A trailing partial row is included when it holds at least one complete
// element; its cells past the end decode as Missing.
func (l Layout) Rows(size int64) int64 {
	if l.IsZero() {
		return 0
	}
	w := l.Width()
	usable := size - l.phase - l.start*w
	if usable <= 0 {
		return 0
	}
	stride := l.RowStride()
	rows := usable / stride
	if usable-rows*stride >= w {
		rows++
	}
	return rows
}

// Candidates returns how many element-aligned window starts of length
// window fit in a file of size bytes, counted from the first element.
func (l Layout) Candidates(size int64, window int) int64 {
	return (size-l.phase)/l.Width() - l.start - int64(window)
}
