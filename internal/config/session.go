// Package config loads and saves the binscope session file.
package config

import (
	"fmt"

	"github.com/robert-malhotra/binscope/internal/aoi"
	"github.com/robert-malhotra/binscope/internal/dtype"
	"github.com/robert-malhotra/binscope/internal/layout"
	"github.com/robert-malhotra/binscope/internal/scan"
)

// SchemaVersion is written to every saved session.
const SchemaVersion = "1"

// Session is the state carried between invocations: the last file viewed,
// its layout, and the AOI tuning.
type Session struct {
	Version string `yaml:"version"`

	File string `yaml:"file,omitempty"`
	// Fingerprint is the content hash of File when the session was saved.
	Fingerprint string `yaml:"fingerprint,omitempty"`

	Start   int64             `yaml:"start"`
	Phase   int32             `yaml:"phase"`
	Columns int32             `yaml:"columns"`
	Type    dtype.ElementType `yaml:"type"`

	SampleBudget int            `yaml:"sample_budget"`
	Window       int            `yaml:"window"`
	Thresholds   aoi.Thresholds `yaml:"thresholds"`
}

// DefaultSession returns the session used when none has been saved.
func DefaultSession() *Session {
	return &Session{
		Version:      SchemaVersion,
		Columns:      1,
		Type:         dtype.Int32,
		SampleBudget: scan.DefaultSampleBudget,
		Window:       aoi.DefaultWindow,
		Thresholds:   aoi.DefaultThresholds(),
	}
}

// Layout builds the layout described by the session.
func (s *Session) Layout() (layout.Layout, error) {
	return layout.New(s.Start, s.Phase, s.Columns, s.Type)
}

// Validate checks that the session describes a usable layout.
func (s *Session) Validate() error {
	if _, err := s.Layout(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}
	if s.SampleBudget < 0 {
		return fmt.Errorf("invalid session: negative sample budget %d", s.SampleBudget)
	}
	if s.Window < 0 {
		return fmt.Errorf("invalid session: negative window %d", s.Window)
	}
	return nil
}

// Stale reports whether the session was saved for different contents of
// File. Sessions without a recorded fingerprint are never stale.
func (s *Session) Stale(fingerprint string) bool {
	return s.Fingerprint != "" && s.Fingerprint != fingerprint
}
