package binscope

import (
	"github.com/robert-malhotra/binscope/internal/aoi"
	"github.com/robert-malhotra/binscope/internal/dtype"
	"github.com/robert-malhotra/binscope/internal/layout"
	"github.com/robert-malhotra/binscope/internal/scan"
)

// ElementType selects how bytes are reinterpreted.
type ElementType = dtype.ElementType

// Element types.
const (
	Text    = dtype.Text
	Int8    = dtype.Int8
	Int16   = dtype.Int16
	Int32   = dtype.Int32
	Int64   = dtype.Int64
	Float32 = dtype.Float32
	Float64 = dtype.Float64
)

// Value is a decoded element: a number, a text cell, Missing or Error.
type Value = dtype.Value

// Value kinds.
const (
	KindMissing = dtype.KindMissing
	KindInt     = dtype.KindInt
	KindFloat   = dtype.KindFloat
	KindText    = dtype.KindText
	KindError   = dtype.KindError
)

// Layout maps (row, column) pairs to byte offsets for one element type.
type Layout = layout.Layout

// ScanResult summarizes an AOI scan.
type ScanResult = scan.Result

// Thresholds are the AOI admissibility limits.
type Thresholds = aoi.Thresholds

// DefaultThresholds returns the tuned AOI thresholds.
func DefaultThresholds() Thresholds {
	return aoi.DefaultThresholds()
}

// ParseElementType returns the element type with the given name.
func ParseElementType(name string) (ElementType, error) {
	return dtype.Parse(name)
}

// NewLayout validates the layout parameters. start counts elements, phase
// counts bytes, and columns must be at least 1.
func NewLayout(start int64, phase, columns int32, typ ElementType) (Layout, error) {
	return layout.New(start, phase, columns, typ)
}

// IsTextAOI reports whether s consists only of ASCII letters, digits, '_',
// '.' and ','.
func IsTextAOI(s string) bool {
	return aoi.IsTextAOI(s)
}

// Cursor is the last matched position of a search. Pos is a row for
// numeric types and a character index into the rendered text for Text.
// A negative Pos means there is no previous match.
type Cursor struct {
	Pos  int64
	Type ElementType
}

// NewCursor returns a cursor with no previous match.
func NewCursor(typ ElementType) Cursor {
	return Cursor{Pos: -1, Type: typ}
}

// Hit is a search result. Its Cursor can be passed back to continue.
type Hit struct {
	Cursor
	// Offset is the file byte offset of the matching element, or of the
	// byte that renders to the first matched character in text mode.
	Offset int64
	// Line is the 1-based line of a text match. It is 0 for numeric types.
	Line int64
}
