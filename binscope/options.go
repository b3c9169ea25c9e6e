package binscope

import (
	"github.com/rs/zerolog"

	"github.com/robert-malhotra/binscope/internal/aoi"
	"github.com/robert-malhotra/binscope/internal/scan"
)

// Option configures a File.
type Option func(*options)

type options struct {
	logger       zerolog.Logger
	thresholds   aoi.Thresholds
	sampleBudget int
	aligned      bool
	window       int
	allColumns   bool
}

func defaultOptions() *options {
	return &options{
		logger:       zerolog.Nop(),
		thresholds:   aoi.DefaultThresholds(),
		sampleBudget: scan.DefaultSampleBudget,
		window:       aoi.DefaultWindow,
	}
}

// WithLogger sets the logger used for faults and scan summaries.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithThresholds replaces the AOI admissibility thresholds.
func WithThresholds(th Thresholds) Option {
	return func(o *options) {
		o.thresholds = th
	}
}

// WithSampleBudget sets the number of offsets a scan tests before it
// switches from exhaustive to sampled mode.
func WithSampleBudget(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sampleBudget = n
		}
	}
}

// WithAlignedSampling keeps sampled scan offsets on element boundaries and
// spreads them from the first element over the whole candidate range. By
// default a sampled scan tests phase + num*i/budget, counted in bytes.
func WithAlignedSampling() Option {
	return func(o *options) {
		o.aligned = true
	}
}

// WithWindow sets the number of consecutive elements classified as one window.
func WithWindow(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.window = n
		}
	}
}

// WithAllColumns makes typed search test every column instead of column 0.
func WithAllColumns() Option {
	return func(o *options) {
		o.allColumns = true
	}
}
