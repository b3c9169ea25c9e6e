// Package binscope reinterprets arbitrary binary files as grids of
// fixed-width numbers or as text, and finds areas of interest in them.
package binscope

import (
	"errors"

	"github.com/robert-malhotra/binscope/internal/binary"
	"github.com/robert-malhotra/binscope/internal/layout"
	"github.com/robert-malhotra/binscope/internal/search"
)

// Common errors
var (
	ErrClosed            = errors.New("file is closed")
	ErrInvalidLayout     = layout.ErrInvalid
	ErrInvalidCoordinate = layout.ErrInvalidCoordinate
	ErrNotFound          = search.ErrNotFound
	ErrEmptyTerm         = search.ErrEmptyTerm
	ErrEOF               = binary.ErrEOF
)
