// Package aoi classifies windows of decoded values as areas of interest.
package aoi

import (
	"errors"
	"math"

	"github.com/robert-malhotra/binscope/internal/binary"
	"github.com/robert-malhotra/binscope/internal/dtype"
)

// DefaultWindow is the number of consecutive elements classified at once.
const DefaultWindow = 10

// Thresholds are the admissibility limits applied to a numeric window.
// They are empirical; DefaultThresholds holds the tuned values.
type Thresholds struct {
	// Float windows are rejected when the smallest magnitude is below
	// FloatMinTiny, the largest magnitude exceeds FloatMaxMagnitude, or the
	// range falls outside [FloatMinRange, FloatMaxRange].
	FloatMinTiny      float64 `yaml:"float_min_tiny"`
	FloatMaxMagnitude float64 `yaml:"float_max_magnitude"`
	FloatMinRange     float64 `yaml:"float_min_range"`
	FloatMaxRange     float64 `yaml:"float_max_range"`

	// Integer windows are rejected when the largest magnitude exceeds
	// IntMaxMagnitude or the range exceeds IntMaxRange.
	IntMaxMagnitude float64 `yaml:"int_max_magnitude"`
	IntMaxRange     float64 `yaml:"int_max_range"`
}

// DefaultThresholds returns the tuned thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FloatMinTiny:      1e-40,
		FloatMaxMagnitude: 1e20,
		FloatMinRange:     1e-20,
		FloatMaxRange:     1e30,
		IntMaxMagnitude:   1e10,
		IntMaxRange:       1e20,
	}
}

// Classifiable reports whether windows of t can be classified at all.
// Text, Int8 and Int16 carry too little information per element.
func Classifiable(t dtype.ElementType) bool {
	switch t {
	case dtype.Int32, dtype.Int64, dtype.Float32, dtype.Float64:
		return true
	}
	return false
}

// Detector classifies numeric windows read from a source. It reuses its
// buffers and is not safe for concurrent use.
type Detector struct {
	Thresholds Thresholds
	Window     int

	buf  []byte
	vals []float64
}

// NewDetector returns a Detector with the default window and thresholds.
func NewDetector() *Detector {
	return &Detector{
		Thresholds: DefaultThresholds(),
		Window:     DefaultWindow,
	}
}

func (d *Detector) window() int {
	if d.Window <= 0 {
		return DefaultWindow
	}
	return d.Window
}

// IsAOI reports whether the window of d.Window elements of type t starting
// at byte offset pos looks like deliberately written numeric data.
//
// It returns false without reading for unclassifiable types and when fewer
// than a full window of elements remain. A read failure is returned as an
// error and leaves the source faulted.
func (d *Detector) IsAOI(src *binary.Source, pos int64, t dtype.ElementType) (bool, error) {
	if !Classifiable(t) {
		return false, nil
	}
	n := d.window()
	w := int64(t.Width())
	if pos < 0 || (src.Size()-pos)/w < int64(n) {
		return false, nil
	}
	if err := src.Err(); err != nil {
		return false, err
	}

	size := n * int(w)
	if cap(d.buf) < size {
		d.buf = make([]byte, size)
	}
	buf := d.buf[:size]
	if _, err := src.ReadAt(buf, pos); err != nil {
		if errors.Is(err, binary.ErrEOF) {
			return false, nil
		}
		return false, err
	}

	vals, err := dtype.DecodeFloat64s(t, buf, d.vals[:0])
	if err != nil {
		return false, err
	}
	d.vals = vals
	return d.Thresholds.Admit(t, vals), nil
}

// Admit applies the numeric checks to a decoded window of type t.
func (th Thresholds) Admit(t dtype.ElementType, vals []float64) bool {
	if !Classifiable(t) || len(vals) == 0 {
		return false
	}

	zero := false
	mx, mn := math.Inf(-1), math.Inf(1)
	tiny := math.Inf(1)
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
		if v == 0 {
			zero = true
		}
		mx = math.Max(mx, v)
		mn = math.Min(mn, v)
		tiny = math.Min(tiny, math.Abs(v))
	}
	if zero {
		return false
	}

	rng := mx - mn
	magnitude := math.Max(math.Abs(mx), math.Abs(mn))

	if t.IsInteger() {
		return magnitude <= th.IntMaxMagnitude && rng <= th.IntMaxRange
	}
	return tiny >= th.FloatMinTiny &&
		magnitude <= th.FloatMaxMagnitude &&
		rng >= th.FloatMinRange &&
		rng <= th.FloatMaxRange
}

// IsTextAOI reports whether every byte of s is an ASCII letter or digit,
// '_', '.' or ','.
func IsTextAOI(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isTextAOIByte(s[i]) {
			return false
		}
	}
	return true
}

func isTextAOIByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
	case c >= 'a' && c <= 'z':
	case c >= 'A' && c <= 'Z':
	case c == '_', c == '.', c == ',':
	default:
		return false
	}
	return true
}
