package binscope

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/zeebo/xxh3"

	"github.com/robert-malhotra/binscope/internal/binary"
	"github.com/robert-malhotra/binscope/internal/layout"
	"github.com/robert-malhotra/binscope/internal/scan"
	"github.com/robert-malhotra/binscope/internal/search"
)

// File is an open binary file viewed through layouts.
//
// A File is not safe for concurrent use. ScanAll parallelizes internally.
type File struct {
	path   string
	src    *binary.Source
	opts   *options
	closed bool

	// Rendered text of the last text search, keyed by its first byte.
	text      string
	textStart int64
	textValid bool
}

// Open opens the file at path for reading.
func Open(path string, opts ...Option) (*File, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	f := &File{path: path, opts: o}
	if err := f.open(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) open() error {
	src, err := binary.Open(f.path)
	if err != nil {
		return err
	}
	src.OnFault = func(err error) {
		f.opts.logger.Warn().Err(err).Str("path", f.path).Msg("read fault; further reads report Error")
	}
	f.src = src
	f.textValid = false
	f.opts.logger.Debug().Str("path", f.path).Int64("size", src.Size()).Msg("opened file")
	return nil
}

// Close closes the file. Closing twice is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.textValid = false
	f.text = ""
	return f.src.Close()
}

// Reopen closes and reopens the underlying file, clearing any read fault
// and picking up a new size.
func (f *File) Reopen() error {
	if !f.closed {
		if err := f.src.Close(); err != nil {
			f.opts.logger.Warn().Err(err).Str("path", f.path).Msg("closing before reopen")
		}
	}
	f.closed = false
	if err := f.open(); err != nil {
		f.closed = true
		return err
	}
	return nil
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Size returns the file size in bytes, as seen when it was opened.
func (f *File) Size() int64 {
	return f.src.Size()
}

// Err returns the sticky read fault, or nil.
func (f *File) Err() error {
	return f.src.Err()
}

// Fingerprint returns the xxh3 hash of the file contents as 16 hex digits.
func (f *File) Fingerprint() (string, error) {
	if f.closed {
		return "", ErrClosed
	}
	h := xxh3.New()
	buf := make([]byte, 64*1024)
	for off := int64(0); off < f.src.Size(); {
		n, err := f.src.ReadAt(buf, off)
		if err != nil && !errors.Is(err, binary.ErrEOF) {
			return "", fmt.Errorf("fingerprint: %w", err)
		}
		if n == 0 {
			break
		}
		_, _ = h.Write(buf[:n])
		off += int64(n)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// ValueAt decodes the element at (row, col). Elements that do not fit in
// the file are Missing; read failures yield an Error value.
func (f *File) ValueAt(l Layout, row, col int64) (Value, error) {
	if f.closed {
		return Value{}, ErrClosed
	}
	return layout.NewDecoder(f.src).ValueAt(l, row, col)
}

// Row decodes every column of row.
func (f *File) Row(l Layout, row int64) ([]Value, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return layout.NewDecoder(f.src).Row(l, row, make([]Value, 0, l.Columns()))
}

// Rows returns the number of addressable rows under l.
func (f *File) Rows(l Layout) int64 {
	return l.Rows(f.src.Size())
}

// RowOffset returns the byte offset of the first element of row.
func (f *File) RowOffset(l Layout, row int64) int64 {
	return l.ByteOffset(row, 0)
}

// Text renders the file as text starting at byte phase+start.
func (f *File) Text(l Layout) (string, error) {
	if f.closed {
		return "", ErrClosed
	}
	if f.textValid && f.textStart == l.TextStart() {
		return f.text, nil
	}
	s, err := layout.RenderText(f.src, l)
	if err != nil {
		return "", err
	}
	f.text, f.textStart, f.textValid = s, l.TextStart(), true
	return s, nil
}

// WriteText streams the text rendering to w without holding it in memory.
func (f *File) WriteText(w io.Writer, l Layout) error {
	if f.closed {
		return ErrClosed
	}
	return layout.WriteText(w, f.src, l)
}

func (f *File) scanOptions() scan.Options {
	return scan.Options{
		SampleBudget:    f.opts.sampleBudget,
		AlignedSampling: f.opts.aligned,
		Window:          f.opts.window,
		Thresholds:      f.opts.thresholds,
		Logger:          f.opts.logger,
	}
}

func (f *File) searchOptions() search.Options {
	return search.Options{
		AllColumns: f.opts.allColumns,
		Window:     f.opts.window,
		Thresholds: f.opts.thresholds,
		Logger:     f.opts.logger,
	}
}

// Scan samples l for areas of interest.
func (f *File) Scan(ctx context.Context, l Layout) (ScanResult, error) {
	if f.closed {
		return ScanResult{}, ErrClosed
	}
	if l.IsZero() {
		return ScanResult{}, ErrInvalidLayout
	}
	return scan.Scan(ctx, f.src.At(0), l, f.scanOptions())
}

// ScanAll scans every numeric element type under the same start, phase
// and columns. Results are in Int8, Int16, Int32, Int64, Float32, Float64
// order.
func (f *File) ScanAll(ctx context.Context, start int64, phase, columns int32) ([]ScanResult, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return scan.ScanAll(ctx, f.src, start, phase, columns, f.scanOptions())
}

// textHit locates character pos of the text rendering in the file.
func (f *File) textHit(l Layout, text string, pos int64) (Hit, error) {
	off, err := layout.TextOffset(f.src, l, pos)
	if err != nil {
		return Hit{}, fmt.Errorf("locating text position %d: %w", pos, err)
	}
	return Hit{
		Cursor: Cursor{Pos: pos, Type: Text},
		Offset: off,
		Line:   layout.TextLine(text, pos),
	}, nil
}

// cursorPos returns the position to continue after. A cursor recorded for
// a different element type does not carry over.
func cursorPos(l Layout, c Cursor) int64 {
	if c.Type != l.Type() || c.Pos < 0 {
		return -1
	}
	return c.Pos
}

// Search finds the next occurrence of term after cursor. Text layouts
// search the rendered text; numeric layouts search the rendered values.
func (f *File) Search(ctx context.Context, l Layout, term string, cursor Cursor) (Hit, error) {
	if f.closed {
		return Hit{}, ErrClosed
	}
	if l.IsZero() {
		return Hit{}, ErrInvalidLayout
	}
	pos := cursorPos(l, cursor)

	if l.Type() == Text {
		text, err := f.Text(l)
		if err != nil {
			return Hit{}, err
		}
		m, err := search.Text(text, term, pos)
		if err != nil {
			return Hit{}, err
		}
		return f.textHit(l, text, m.Pos)
	}

	m, err := search.Typed(ctx, f.src.At(0), l, term, pos, f.searchOptions())
	if err != nil {
		return Hit{}, err
	}
	return Hit{Cursor: Cursor{Pos: m.Pos, Type: l.Type()}, Offset: m.Offset}, nil
}

// NextAOI finds the next area of interest after cursor. Int8 and Int16
// layouts have no classifier and return ErrNotFound.
func (f *File) NextAOI(ctx context.Context, l Layout, cursor Cursor) (Hit, error) {
	if f.closed {
		return Hit{}, ErrClosed
	}
	if l.IsZero() {
		return Hit{}, ErrInvalidLayout
	}
	pos := cursorPos(l, cursor)

	if l.Type() == Text {
		text, err := f.Text(l)
		if err != nil {
			return Hit{}, err
		}
		m, err := search.NextTextAOI(text, pos, f.opts.window)
		if err != nil {
			return Hit{}, err
		}
		return f.textHit(l, text, m.Pos)
	}

	m, err := search.NextAOI(ctx, f.src.At(0), l, pos, f.searchOptions())
	if err != nil {
		return Hit{}, err
	}
	return Hit{Cursor: Cursor{Pos: m.Pos, Type: l.Type()}, Offset: m.Offset}, nil
}
