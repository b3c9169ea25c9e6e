// Package search implements forward search over decoded text and typed
// element streams.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robert-malhotra/binscope/internal/aoi"
	"github.com/robert-malhotra/binscope/internal/binary"
	"github.com/robert-malhotra/binscope/internal/dtype"
	"github.com/robert-malhotra/binscope/internal/layout"
)

var (
	// ErrNotFound is returned when a search reaches the end of the data.
	ErrNotFound = errors.New("not found")
	// ErrEmptyTerm is returned for blank search terms.
	ErrEmptyTerm = errors.New("empty search term")
)

// cancelCheckInterval is how many offsets are visited between context checks.
const cancelCheckInterval = 1024

// Match locates a search hit.
type Match struct {
	// Pos is the matching row for typed searches and the character index in
	// the rendered text for text searches.
	Pos int64
	// Offset is the byte offset of the matching element. Text searches see
	// only the rendered text and set it to Pos; layout.TextOffset maps a
	// text position back to a file byte.
	Offset int64
}

// Options configures typed searches.
type Options struct {
	// AllColumns tests every element of each row instead of column 0 only.
	AllColumns bool
	Window     int
	Thresholds aoi.Thresholds
	Logger     zerolog.Logger
}

// DefaultOptions returns the default search options with logging disabled.
func DefaultOptions() Options {
	return Options{
		Window:     aoi.DefaultWindow,
		Thresholds: aoi.DefaultThresholds(),
		Logger:     zerolog.Nop(),
	}
}

// firstPos returns the position after cursor, or 0 when there is no cursor.
func firstPos(cursor int64) int64 {
	if cursor < 0 {
		return 0
	}
	return cursor + 1
}

// normalizeTerm trims the term and rejects blank ones.
func normalizeTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", ErrEmptyTerm
	}
	return term, nil
}

// Text finds the first occurrence of term in text starting after cursor.
// A negative cursor starts at the beginning. Matching is literal and case
// sensitive.
func Text(text, term string, cursor int64) (Match, error) {
	term, err := normalizeTerm(term)
	if err != nil {
		return Match{}, err
	}
	start := firstPos(cursor)
	if start >= int64(len(text)) {
		return Match{}, ErrNotFound
	}
	i := strings.Index(text[start:], term)
	if i < 0 {
		return Match{}, ErrNotFound
	}
	pos := start + int64(i)
	return Match{Pos: pos, Offset: pos}, nil
}

// NextTextAOI finds the first run of window characters after cursor that
// satisfies aoi.IsTextAOI.
func NextTextAOI(text string, cursor int64, window int) (Match, error) {
	if window <= 0 {
		window = aoi.DefaultWindow
	}
	run := 0
	for p := firstPos(cursor); p < int64(len(text)); p++ {
		if !aoi.IsTextAOI(text[p : p+1]) {
			run = 0
			continue
		}
		run++
		if run == window {
			pos := p - int64(window) + 1
			return Match{Pos: pos, Offset: pos}, nil
		}
	}
	return Match{}, ErrNotFound
}

// Typed finds the first row after cursor whose element renders to a string
// containing term. Only column 0 is tested unless opts.AllColumns is set.
// The sweep stops before any element that would end past the file.
func Typed(ctx context.Context, src *binary.Source, l layout.Layout, term string, cursor int64, opts Options) (Match, error) {
	term, err := normalizeTerm(term)
	if err != nil {
		return Match{}, err
	}
	if l.Type() == dtype.Text {
		return Match{}, fmt.Errorf("typed search needs a numeric layout, got %s", l.Type())
	}

	size, w := src.Size(), l.Width()
	row := firstPos(cursor)
	if row >= l.Rows(size) {
		return Match{}, ErrNotFound
	}

	cols := int64(1)
	if opts.AllColumns {
		cols = l.Columns()
	}

	dec := layout.NewDecoder(src)
	visited := 0
	for ; ; row++ {
		for col := int64(0); col < cols; col++ {
			off := l.ByteOffset(row, col)
			if off > size-w {
				opts.Logger.Debug().Str("term", term).Int("visited", visited).Msg("typed search exhausted")
				return Match{}, ErrNotFound
			}
			if visited++; visited%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return Match{}, err
				}
			}

			v, err := dec.ValueAt(l, row, col)
			if err != nil {
				return Match{}, err
			}
			if v.IsError() {
				return Match{}, v.Err
			}
			if strings.Contains(v.String(), term) {
				return Match{Pos: row, Offset: off}, nil
			}
		}
	}
}

// NextAOI finds the row containing the first AOI window after cursor. The
// sweep starts at the first element of the row after cursor and advances
// one element at a time, regardless of column alignment.
func NextAOI(ctx context.Context, src *binary.Source, l layout.Layout, cursor int64, opts Options) (Match, error) {
	if !aoi.Classifiable(l.Type()) {
		return Match{}, ErrNotFound
	}

	size, w := src.Size(), l.Width()
	row := firstPos(cursor)
	if row >= l.Rows(size) {
		return Match{}, ErrNotFound
	}

	det := aoi.NewDetector()
	if opts.Window > 0 {
		det.Window = opts.Window
	}
	if opts.Thresholds != (aoi.Thresholds{}) {
		det.Thresholds = opts.Thresholds
	}
	span := w * int64(det.Window)

	visited := 0
	for off := l.ByteOffset(row, 0); off+span <= size; off += w {
		if visited++; visited%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Match{}, err
			}
		}
		ok, err := det.IsAOI(src, off, l.Type())
		if err != nil {
			return Match{}, err
		}
		if ok {
			return Match{Pos: l.RowOf(off), Offset: off}, nil
		}
	}
	opts.Logger.Debug().Stringer("layout", l).Int("visited", visited).Msg("no AOI found")
	return Match{}, ErrNotFound
}
