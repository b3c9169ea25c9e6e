// Package layout maps logical (row, column) coordinates onto file byte
// offsets and decodes the elements found there.
//
// # Layout Parameters
//
// A [Layout] is built from four parameters:
//
//   - start: an element count skipped before the first row
//   - phase: a byte count skipped once, before any striding (a header)
//   - columns: elements per row, at least 1
//   - type: the [dtype.ElementType] that fixes the element width
//
// Elements are laid out row-major:
//
//	ByteOffset(row, col) = phase + (row*columns + col + start) * width
//
// Layouts are immutable values. Callers rebuild one whenever a parameter
// changes and pass it to every call; no layout state is kept between calls.
//
// # Row Count
//
// [Layout.Rows] counts the complete rows in the usable bytes
// (size - phase - start*width) plus one more when the remainder holds at
// least one complete element. Cells of that last row that run past the end
// decode as Missing, and no row at or beyond the count decodes to anything
// else.
//
// # Decoding
//
// [Decoder.ValueAt] computes the offset, returns Missing when the element
// does not fit in the file, and otherwise reads and decodes it. A failed
// read marks the source as faulted; from then on every decode returns an
// Error value until the file is opened again.
//
// # Text
//
// [RenderText] and [WriteText] render the bytes from phase+start to the
// end of the file through the table in [dtype.AppendText].
package layout
