package layout

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/binscope/internal/binary"
	"github.com/robert-malhotra/binscope/internal/dtype"
)

// ErrInvalidCoordinate is returned for negative rows or columns outside the layout.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Decoder reads decoded values through a Layout. It does not own the source.
type Decoder struct {
	src *binary.Source
}

// NewDecoder returns a Decoder reading from src.
func NewDecoder(src *binary.Source) *Decoder {
	return &Decoder{src: src}
}

// ValueAt decodes the element at (row, col).
//
// Addresses whose element does not fit in the file return dtype.Missing.
// Read failures, and any read on a source that has already faulted, return
// an Error value. The returned error is reserved for invalid coordinates.
func (d *Decoder) ValueAt(l Layout, row, col int64) (dtype.Value, error) {
	if l.IsZero() {
		return dtype.Value{}, ErrInvalid
	}
	if row < 0 || col < 0 || col >= l.columns {
		return dtype.Value{}, fmt.Errorf("%w: row %d column %d with %d columns",
			ErrInvalidCoordinate, row, col, l.columns)
	}
	if err := d.src.Err(); err != nil {
		return dtype.ErrorValue(err), nil
	}

	pos := l.ByteOffset(row, col)
	if pos < 0 {
		return dtype.Value{}, fmt.Errorf("%w: negative offset %d", ErrInvalidCoordinate, pos)
	}
	w := l.Width()
	if pos+w > d.src.Size() {
		return dtype.Missing, nil
	}

	d.src.Seek(pos)
	buf, err := d.src.ReadFixed(int(w))
	if errors.Is(err, binary.ErrEOF) {
		return dtype.Missing, nil
	}
	if err != nil {
		return dtype.ErrorValue(err), nil
	}
	v, err := dtype.Decode(l.typ, buf)
	if err != nil {
		return dtype.ErrorValue(err), nil
	}
	return v, nil
}

// Row decodes every column of row into dst.
func (d *Decoder) Row(l Layout, row int64, dst []dtype.Value) ([]dtype.Value, error) {
	for col := int64(0); col < l.columns; col++ {
		v, err := d.ValueAt(l, row, col)
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}
