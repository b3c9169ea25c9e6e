// Package scan sweeps a file for areas of interest.
package scan

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robert-malhotra/binscope/internal/aoi"
	"github.com/robert-malhotra/binscope/internal/binary"
	"github.com/robert-malhotra/binscope/internal/dtype"
	"github.com/robert-malhotra/binscope/internal/layout"
)

const (
	// DefaultSampleBudget is the most candidate offsets tested per scan.
	DefaultSampleBudget = 1000

	// minCandidates is the fewest candidate offsets worth scanning.
	minCandidates = 10
)

// Options configures a scan.
type Options struct {
	SampleBudget int
	// AlignedSampling keeps sampled offsets on element boundaries; see
	// AlignedCandidates.
	AlignedSampling bool
	Window          int
	Thresholds      aoi.Thresholds
	Logger          zerolog.Logger
}

// DefaultOptions returns the default scan options with logging disabled.
func DefaultOptions() Options {
	return Options{
		SampleBudget: DefaultSampleBudget,
		Window:       aoi.DefaultWindow,
		Thresholds:   aoi.DefaultThresholds(),
		Logger:       zerolog.Nop(),
	}
}

func (o Options) withDefaults() Options {
	if o.SampleBudget <= 0 {
		o.SampleBudget = DefaultSampleBudget
	}
	if o.Window <= 0 {
		o.Window = aoi.DefaultWindow
	}
	if o.Thresholds == (aoi.Thresholds{}) {
		o.Thresholds = aoi.DefaultThresholds()
	}
	return o
}

// Result summarizes one scan.
type Result struct {
	Type dtype.ElementType
	// Scanned is false when the file held too little data to scan.
	Scanned bool
	// SampleCount is the number of candidate offsets tested.
	SampleCount int
	// Count is the number of tested offsets classified as AOI.
	Count int
	// Positions are the byte offsets of accepted windows, ascending.
	Positions []int64
}

// Found reports whether any AOI was found.
func (r Result) Found() bool {
	return r.Count > 0
}

// Candidates returns the byte offsets a scan of l over size bytes tests.
//
// With num = (size-phase)/width - start - window candidate windows, nothing
// is returned when num < 10. Below the sample budget every element-aligned
// window start is returned. Otherwise exactly budget offsets are returned,
// phase + num*i/budget for i in [0, budget). These sampled offsets count
// bytes from phase and are not element aligned.
func Candidates(l layout.Layout, size int64, window, budget int) []int64 {
	return candidates(l, size, window, budget, false)
}

// AlignedCandidates is Candidates with the sampled offsets kept on element
// boundaries, starting at the first element and spread over the whole
// candidate range: phase + (start + num*i/budget)*width.
func AlignedCandidates(l layout.Layout, size int64, window, budget int) []int64 {
	return candidates(l, size, window, budget, true)
}

func candidates(l layout.Layout, size int64, window, budget int, aligned bool) []int64 {
	if budget <= 0 {
		budget = DefaultSampleBudget
	}
	num := l.Candidates(size, window)
	if num < minCandidates {
		return nil
	}

	w := l.Width()
	first := l.Phase() + l.Start()*w
	if num < int64(budget) {
		offs := make([]int64, num)
		for i := range offs {
			offs[i] = first + int64(i)*w
		}
		return offs
	}

	offs := make([]int64, budget)
	for i := range offs {
		step := num * int64(i) / int64(budget)
		if aligned {
			offs[i] = first + step*w
		} else {
			offs[i] = l.Phase() + step
		}
	}
	return offs
}

// Scan classifies the candidate windows of l and returns the summary.
// The context is checked between candidates.
func Scan(ctx context.Context, src *binary.Source, l layout.Layout, opts Options) (Result, error) {
	opts = opts.withDefaults()
	res := Result{Type: l.Type()}
	if !aoi.Classifiable(l.Type()) {
		return res, nil
	}

	offs := candidates(l, src.Size(), opts.Window, opts.SampleBudget, opts.AlignedSampling)
	if offs == nil {
		opts.Logger.Debug().
			Stringer("layout", l).
			Int64("size", src.Size()).
			Msg("too little data to scan")
		return res, nil
	}
	res.Scanned = true

	det := aoi.NewDetector()
	det.Thresholds = opts.Thresholds
	det.Window = opts.Window

	for _, off := range offs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		ok, err := det.IsAOI(src, off, l.Type())
		if err != nil {
			return res, fmt.Errorf("classifying window at %d: %w", off, err)
		}
		res.SampleCount++
		if ok {
			res.Count++
			res.Positions = append(res.Positions, off)
		}
	}

	opts.Logger.Debug().
		Stringer("layout", l).
		Int("samples", res.SampleCount).
		Int("aoi", res.Count).
		Msg("scan complete")
	return res, nil
}

// ScanAll scans every classifiable element type under the shared start,
// phase and column parameters. Types are scanned concurrently, each on its
// own cursor of src. Results are ordered as dtype.NumericTypes, with
// unclassifiable types reported as not scanned.
func ScanAll(ctx context.Context, src *binary.Source, start int64, phase, columns int32, opts Options) ([]Result, error) {
	results := make([]Result, len(dtype.NumericTypes))
	g, ctx := errgroup.WithContext(ctx)
	for i, typ := range dtype.NumericTypes {
		i, typ := i, typ
		l, err := layout.New(start, phase, columns, typ)
		if err != nil {
			return nil, err
		}
		results[i] = Result{Type: typ}
		if !aoi.Classifiable(typ) {
			continue
		}
		g.Go(func() error {
			res, err := Scan(ctx, src.At(0), l, opts)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", typ, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
