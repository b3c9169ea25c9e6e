// Package binary provides the random-access byte source that every decode,
// scan and search reads through.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrEOF is returned when a read would run past the end of the source.
// It is not a fault and does not set the sticky error state.
var ErrEOF = errors.New("read past end of data")

// fault is the sticky error state shared by a Source and all of its cursors.
type fault struct {
	mu  sync.Mutex
	err error
}

func (f *fault) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// set records err unless a fault is already recorded. It reports whether
// this call recorded it.
func (f *fault) set(err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false
	}
	f.err = err
	return true
}

// Source reads fixed-width little-endian values from an io.ReaderAt.
//
// A Source has its own read position. Cursors created with At share the
// underlying reader and the fault state but move independently, so separate
// goroutines may each use their own cursor.
type Source struct {
	r      io.ReaderAt
	closer io.Closer
	size   int64
	pos    int64
	fault  *fault

	// OnFault, if set, is called once when the first fault is recorded.
	OnFault func(err error)
}

// Open opens the file at path for reading.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	src := NewSource(f, info.Size())
	src.closer = f
	return src, nil
}

// NewSource creates a Source over r holding size bytes.
func NewSource(r io.ReaderAt, size int64) *Source {
	return &Source{
		r:     r,
		size:  size,
		fault: &fault{},
	}
}

// At returns a cursor positioned at offset. The cursor shares the reader and
// the fault state with s but has an independent position.
func (s *Source) At(offset int64) *Source {
	return &Source{
		r:       s.r,
		size:    s.size,
		pos:     offset,
		fault:   s.fault,
		OnFault: s.OnFault,
	}
}

// Size returns the number of bytes in the source.
func (s *Source) Size() int64 {
	return s.size
}

// Pos returns the current read position.
func (s *Source) Pos() int64 {
	return s.pos
}

// Seek moves the read position to offset.
func (s *Source) Seek(offset int64) {
	s.pos = offset
}

// Err returns the sticky fault, or nil if no read has failed.
func (s *Source) Err() error {
	return s.fault.get()
}

// IsError reports whether a read has failed since the source was opened.
func (s *Source) IsError() bool {
	return s.fault.get() != nil
}

// ReadFixed reads exactly width bytes at the current position and advances it.
func (s *Source) ReadFixed(width int) ([]byte, error) {
	if width <= 0 {
		return nil, nil
	}
	if s.pos < 0 || s.pos+int64(width) > s.size {
		return nil, ErrEOF
	}
	buf := make([]byte, width)
	n, err := s.r.ReadAt(buf, s.pos)
	if n == width {
		// io.ReaderAt may return io.EOF together with a full read.
		err = nil
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			// The size was taken at open time; the file has shrunk since.
			err = io.ErrUnexpectedEOF
		}
		err = fmt.Errorf("reading %d bytes at %d: %w", width, s.pos, err)
		if s.fault.set(err) && s.OnFault != nil {
			s.OnFault(err)
		}
		return nil, err
	}
	s.pos += int64(width)
	return buf, nil
}

// ReadAt fills p from offset without touching the position. Short reads at
// the end of the source return the bytes read and ErrEOF.
func (s *Source) ReadAt(p []byte, offset int64) (int, error) {
	if offset >= s.size {
		return 0, ErrEOF
	}
	want := len(p)
	if rem := s.size - offset; int64(want) > rem {
		want = int(rem)
	}
	n, err := s.r.ReadAt(p[:want], offset)
	if n == want {
		err = nil
	}
	if err != nil {
		err = fmt.Errorf("reading %d bytes at %d: %w", want, offset, err)
		if s.fault.set(err) && s.OnFault != nil {
			s.OnFault(err)
		}
		return n, err
	}
	if want < len(p) {
		return n, ErrEOF
	}
	return n, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (s *Source) ReadUint8() (uint8, error) {
	buf, err := s.ReadFixed(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads a little-endian unsigned 16-bit integer.
func (s *Source) ReadUint16() (uint16, error) {
	buf, err := s.ReadFixed(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadUint32 reads a little-endian unsigned 32-bit integer.
func (s *Source) ReadUint32() (uint32, error) {
	buf, err := s.ReadFixed(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadUint64 reads a little-endian unsigned 64-bit integer.
func (s *Source) ReadUint64() (uint64, error) {
	buf, err := s.ReadFixed(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// Close closes the underlying file, if the source owns one.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}
