package aoi

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/binscope/internal/binary"
	"github.com/robert-malhotra/binscope/internal/dtype"
)

type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, nil
	}
	n := copy(p, b[off:])
	return n, nil
}

type failingReaderAt struct{}

func (failingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return 0, errors.New("bad sector")
}

func encode(t *testing.T, typ dtype.ElementType, vals []float64) *binary.Source {
	t.Helper()
	w := typ.Width()
	data := make([]byte, len(vals)*w)
	for i, v := range vals {
		require.NoError(t, dtype.Encode(typ, data[i*w:], v))
	}
	return binary.NewSource(bytesReaderAt(data), int64(len(data)))
}

// plausibleFloats returns n non-zero values in [1e-10, 1e5] with range below 1.
func plausibleFloats(rng *rand.Rand, n int) []float64 {
	base := 1 + rng.Float64()*1000
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = base + rng.Float64()*0.5
	}
	return vals
}

func TestAcceptsPlausibleFloat64Window(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := NewDetector()

	for trial := 0; trial < 50; trial++ {
		vals := plausibleFloats(rng, DefaultWindow)
		ok, err := d.IsAOI(encode(t, dtype.Float64, vals), 0, dtype.Float64)
		require.NoError(t, err)
		require.True(t, ok, "window %v should be accepted", vals)

		for _, bad := range []float64{0, 1e25} {
			mutated := append([]float64(nil), vals...)
			mutated[rng.Intn(len(mutated))] = bad
			ok, err := d.IsAOI(encode(t, dtype.Float64, mutated), 0, dtype.Float64)
			require.NoError(t, err)
			require.False(t, ok, "window with %g should be rejected", bad)
		}
	}
}

func TestRejectsZeroForEveryClassifiableType(t *testing.T) {
	d := NewDetector()
	for _, typ := range []dtype.ElementType{dtype.Int32, dtype.Int64, dtype.Float32, dtype.Float64} {
		t.Run(typ.String(), func(t *testing.T) {
			vals := []float64{5, 6, 7, 8, 9, 10, 11, 12, 13, 14}
			ok, err := d.IsAOI(encode(t, typ, vals), 0, typ)
			require.NoError(t, err)
			assert.True(t, ok)

			vals[4] = 0
			ok, err = d.IsAOI(encode(t, typ, vals), 0, typ)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestRejectsUnclassifiableTypes(t *testing.T) {
	d := NewDetector()
	vals := []float64{5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	for _, typ := range []dtype.ElementType{dtype.Text, dtype.Int8, dtype.Int16} {
		var src *binary.Source
		if typ == dtype.Text {
			src = binary.NewSource(bytesReaderAt("abcdefghijklmnop"), 16)
		} else {
			src = encode(t, typ, vals)
		}
		ok, err := d.IsAOI(src, 0, typ)
		require.NoError(t, err)
		assert.False(t, ok, "%s must never be an AOI", typ)
	}
}

func TestRejectsShortTail(t *testing.T) {
	d := NewDetector()
	src := encode(t, dtype.Int32, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})

	ok, err := d.IsAOI(src, 0, dtype.Int32)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.IsAOI(src, 8, dtype.Int32)
	require.NoError(t, err)
	assert.False(t, ok, "only 9 elements remain")
}

func TestUnalignedWindow(t *testing.T) {
	d := NewDetector()
	src := encode(t, dtype.Int32, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})

	// Offsets that are not multiples of the width still decode a window.
	_, err := d.IsAOI(src, 2, dtype.Int32)
	require.NoError(t, err)
}

func TestThresholdsAdmit(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name string
		typ  dtype.ElementType
		vals []float64
		want bool
	}{
		{"float constant window has no range", dtype.Float64, []float64{2, 2, 2}, false},
		{"float tiny magnitude", dtype.Float64, []float64{1e-41, 1, 2}, false},
		{"float negative values allowed", dtype.Float64, []float64{-3.5, -2.5, -1.5}, true},
		{"float huge range", dtype.Float64, []float64{-1e19, 1e19}, true},
		{"float magnitude limit", dtype.Float32, []float64{1, 2e20}, false},
		{"int magnitude limit", dtype.Int64, []float64{1, 2e10}, false},
		{"int constant window ok", dtype.Int32, []float64{7, 7, 7}, true},
		{"int negative", dtype.Int32, []float64{-7, 3, -1}, true},
		{"empty", dtype.Int32, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := th.Admit(tt.typ, tt.vals); got != tt.want {
				t.Errorf("Admit(%v) = %v, want %v", tt.vals, got, tt.want)
			}
		})
	}
}

func TestCustomThresholds(t *testing.T) {
	d := NewDetector()
	d.Thresholds.IntMaxMagnitude = 100

	src := encode(t, dtype.Int32, []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 200})
	ok, err := d.IsAOI(src, 0, dtype.Int32)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNonFiniteFloatsRejected(t *testing.T) {
	d := NewDetector()
	data := make([]byte, 4*DefaultWindow)
	for i := 0; i < DefaultWindow; i++ {
		require.NoError(t, dtype.Encode(dtype.Float32, data[i*4:], 1.5))
	}
	// 0x7FC00000 is a float32 quiet NaN.
	copy(data[8:], []byte{0x00, 0x00, 0xC0, 0x7F})
	src := binary.NewSource(bytesReaderAt(data), int64(len(data)))

	ok, err := d.IsAOI(src, 0, dtype.Float32)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAOIReadFault(t *testing.T) {
	d := NewDetector()
	src := binary.NewSource(failingReaderAt{}, 1024)

	_, err := d.IsAOI(src, 0, dtype.Int64)
	assert.Error(t, err)
	assert.True(t, src.IsError())
}

func TestIsTextAOI(t *testing.T) {
	const s = "JSONCFG_v2,rev3"

	for i := 0; i+10 <= len(s); i++ {
		assert.True(t, IsTextAOI(s[i:i+10]), "substring %q", s[i:i+10])
	}
	assert.True(t, IsTextAOI("v2.1,a_b"))
	assert.False(t, IsTextAOI("JSON CFG"))
	assert.False(t, IsTextAOI("JSON\x01CFG"))
	assert.False(t, IsTextAOI("cfg-v2"))
	assert.False(t, IsTextAOI("caf\xc3\xa9"))
}
