package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/binscope/internal/binary"
	"github.com/robert-malhotra/binscope/internal/dtype"
	"github.com/robert-malhotra/binscope/internal/layout"
)

type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, nil
	}
	n := copy(p, b[off:])
	return n, nil
}

func int32Source(t *testing.T, vals []float64) *binary.Source {
	t.Helper()
	data := make([]byte, 4*len(vals))
	for i, v := range vals {
		require.NoError(t, dtype.Encode(dtype.Int32, data[i*4:], v))
	}
	return binary.NewSource(bytesReaderAt(data), int64(len(data)))
}

func TestCandidatesExhaustive(t *testing.T) {
	l := layout.MustNew(2, 4, 1, dtype.Int32)
	// (404-4)/4 - 2 - 10 = 88 candidates
	offs := Candidates(l, 404, 10, 1000)
	require.Len(t, offs, 88)
	assert.Equal(t, int64(4+2*4), offs[0])
	assert.Equal(t, int64(4+(2+87)*4), offs[87])
}

func TestCandidatesTooSmall(t *testing.T) {
	l := layout.MustNew(0, 0, 1, dtype.Int64)
	assert.Nil(t, Candidates(l, 8*19, 10, 1000), "9 candidates is below the minimum")
	assert.Len(t, Candidates(l, 8*20, 10, 1000), 10)
}

func TestCandidatesSampled(t *testing.T) {
	l := layout.MustNew(0, 16, 1, dtype.Float64)
	// (size-16)/8 - 0 - 10 = 100000 candidates
	size := int64(16 + 8*100010)
	offs := Candidates(l, size, 10, 1000)

	require.Len(t, offs, 1000)
	assert.Equal(t, int64(16), offs[0])
	assert.Equal(t, int64(16+100), offs[1])
	assert.Equal(t, int64(16+50000), offs[500])
	assert.Equal(t, int64(16+99900), offs[999])
	for i := 1; i < len(offs); i++ {
		require.Greater(t, offs[i], offs[i-1])
	}
}

func TestCandidatesSampledIgnoresStart(t *testing.T) {
	l := layout.MustNew(7, 3, 1, dtype.Int32)
	// (3+4*5017-3)/4 - 7 - 10 = 5000 candidates
	size := int64(3 + 4*5017)
	offs := Candidates(l, size, 10, 1000)

	require.Len(t, offs, 1000)
	assert.Equal(t, int64(3), offs[0])
	assert.Equal(t, int64(3+5), offs[1])
	assert.Equal(t, int64(3+5*999), offs[999])
}

func TestAlignedCandidatesSampled(t *testing.T) {
	l := layout.MustNew(0, 16, 1, dtype.Float64)
	size := int64(16 + 8*100010)
	offs := AlignedCandidates(l, size, 10, 1000)

	require.Len(t, offs, 1000)
	assert.Equal(t, int64(16), offs[0])
	assert.Equal(t, int64(16+8*50000), offs[500])
	for i := 1; i < len(offs); i++ {
		require.Greater(t, offs[i], offs[i-1])
		require.Zero(t, (offs[i]-16)%8, "sampled offsets stay element aligned")
	}
	last := offs[len(offs)-1]
	assert.Greater(t, last, size*99/100-8*10)
	assert.LessOrEqual(t, last+8*10, size)

	// Below the budget both forms are exhaustive and identical.
	small := int64(16 + 8*500)
	assert.Equal(t, Candidates(l, small, 10, 1000), AlignedCandidates(l, small, 10, 1000))
}

func TestScanSampledOffsets(t *testing.T) {
	vals := make([]float64, 2010)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	src := int32Source(t, vals)
	l := layout.MustNew(0, 0, 1, dtype.Int32)

	res, err := Scan(context.Background(), src, l, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1000, res.SampleCount)
	// num = 2000, so sample i sits at byte 2*i.
	for _, p := range res.Positions {
		assert.Zero(t, p%2)
		assert.Less(t, p, int64(2000))
	}

	opts := DefaultOptions()
	opts.AlignedSampling = true
	res, err = Scan(context.Background(), src, l, opts)
	require.NoError(t, err)
	assert.Equal(t, 1000, res.SampleCount)
	assert.Equal(t, 1000, res.Count, "aligned windows of 1..2010 are all plausible")
	assert.Equal(t, int64(4*1998), res.Positions[999])
}

func TestScanZeroInMiddle(t *testing.T) {
	vals := make([]float64, 1000)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	vals[500] = 0
	src := int32Source(t, vals)

	res, err := Scan(context.Background(), src, layout.MustNew(0, 0, 1, dtype.Int32), DefaultOptions())
	require.NoError(t, err)

	require.True(t, res.Scanned)
	assert.Equal(t, 990, res.SampleCount)
	// Windows starting at 491..500 contain index 500.
	assert.Equal(t, 990-10, res.Count)
	assert.True(t, res.Found())

	accepted := make(map[int64]bool, len(res.Positions))
	for _, p := range res.Positions {
		accepted[p] = true
	}
	for i := int64(0); i < 990; i++ {
		overlaps := i >= 491 && i <= 500
		assert.Equal(t, !overlaps, accepted[i*4], "window at element %d", i)
	}
}

func TestScanUnclassifiable(t *testing.T) {
	src := int32Source(t, make([]float64, 200))
	for _, typ := range []dtype.ElementType{dtype.Text, dtype.Int8, dtype.Int16} {
		res, err := Scan(context.Background(), src, layout.MustNew(0, 0, 1, typ), DefaultOptions())
		require.NoError(t, err)
		assert.False(t, res.Scanned)
		assert.Zero(t, res.Count)
	}
}

func TestScanTooLittleData(t *testing.T) {
	src := int32Source(t, []float64{1, 2, 3, 4, 5})
	res, err := Scan(context.Background(), src, layout.MustNew(0, 0, 1, dtype.Int32), Options{})
	require.NoError(t, err)
	assert.False(t, res.Scanned)
	assert.Zero(t, res.SampleCount)
}

func TestScanCancelled(t *testing.T) {
	vals := make([]float64, 500)
	for i := range vals {
		vals[i] = 3
	}
	src := int32Source(t, vals)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Scan(ctx, src, layout.MustNew(0, 0, 1, dtype.Int32), DefaultOptions())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestScanAll(t *testing.T) {
	vals := make([]float64, 400)
	for i := range vals {
		vals[i] = float64(100 + i)
	}
	src := int32Source(t, vals)

	results, err := ScanAll(context.Background(), src, 0, 0, 1, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, len(dtype.NumericTypes))

	byType := make(map[dtype.ElementType]Result)
	for _, r := range results {
		byType[r.Type] = r
	}
	assert.False(t, byType[dtype.Int8].Scanned)
	assert.False(t, byType[dtype.Int16].Scanned)

	int32Res := byType[dtype.Int32]
	require.True(t, int32Res.Scanned)
	assert.Equal(t, int32Res.SampleCount, int32Res.Count, "every int32 window is plausible")

	// The same scan run alone gives the same answer.
	alone, err := Scan(context.Background(), src, layout.MustNew(0, 0, 1, dtype.Int32), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, alone, int32Res)
}

func TestScanAllInvalidLayout(t *testing.T) {
	src := int32Source(t, make([]float64, 100))
	_, err := ScanAll(context.Background(), src, 0, 0, 0, DefaultOptions())
	assert.ErrorIs(t, err, layout.ErrInvalid)
}
