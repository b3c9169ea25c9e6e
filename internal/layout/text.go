package layout

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/robert-malhotra/binscope/internal/binary"
	"github.com/robert-malhotra/binscope/internal/dtype"
)

// textBlockSize is the read size used while rendering text.
const textBlockSize = 64 * 1024

// TextStart returns the first byte rendered in text mode. Start is applied
// as a byte count here, not an element count.
func (l Layout) TextStart() int64 {
	return l.phase + l.start
}

// WriteText renders the bytes from TextStart to the end of the source
// through the text table and writes them to w.
func WriteText(w io.Writer, src *binary.Source, l Layout) error {
	if err := src.Err(); err != nil {
		return err
	}
	buf := make([]byte, textBlockSize)
	out := make([]byte, 0, textBlockSize)
	for off := l.TextStart(); off < src.Size(); {
		n, err := src.ReadAt(buf, off)
		if err != nil && !errors.Is(err, binary.ErrEOF) {
			return err
		}
		out = dtype.AppendText(out[:0], buf[:n])
		if _, err := w.Write(out); err != nil {
			return err
		}
		if n == 0 {
			break
		}
		off += int64(n)
	}
	return nil
}

// TextOffset returns the file byte that renders to character pos of the
// text rendering of src under l. Characters of an expanded tab all map to
// the tab byte. A pos past the end of the rendering returns binary.ErrEOF.
func TextOffset(src *binary.Source, l Layout, pos int64) (int64, error) {
	if pos < 0 {
		return 0, fmt.Errorf("negative text position %d", pos)
	}
	buf := make([]byte, textBlockSize)
	for off := l.TextStart(); off < src.Size(); {
		n, err := src.ReadAt(buf, off)
		if err != nil && !errors.Is(err, binary.ErrEOF) {
			return 0, err
		}
		if n == 0 {
			break
		}
		for i, c := range buf[:n] {
			w := int64(dtype.TextWidth(c))
			if pos < w {
				return off + int64(i), nil
			}
			pos -= w
		}
		off += int64(n)
	}
	return 0, binary.ErrEOF
}

// TextLine returns the 1-based line of character pos in text.
func TextLine(text string, pos int64) int64 {
	pos = min(max(pos, 0), int64(len(text)))
	return int64(strings.Count(text[:pos], "\n")) + 1
}

// RenderText returns the full text rendering of src under l.
func RenderText(src *binary.Source, l Layout) (string, error) {
	var sb strings.Builder
	if n := src.Size() - l.TextStart(); n > 0 {
		sb.Grow(int(n))
	}
	if err := WriteText(&sb, src, l); err != nil {
		return "", err
	}
	return sb.String(), nil
}
