package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/binscope/internal/aoi"
	"github.com/robert-malhotra/binscope/internal/dtype"
)

func TestLoader_SaveAndLoad(t *testing.T) {
	loader := NewLoaderAt(filepath.Join(t.TempDir(), "nested", "session.yaml"))

	s := DefaultSession()
	s.File = "/data/dump.bin"
	s.Fingerprint = "0123456789abcdef"
	s.Start = 12
	s.Phase = 3
	s.Columns = 4
	s.Type = dtype.Float64
	s.Thresholds.IntMaxMagnitude = 5e9

	require.NoError(t, loader.Save(s))
	assert.FileExists(t, loader.Path())

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoader_Load_NotExists(t *testing.T) {
	loader := NewLoaderAt(filepath.Join(t.TempDir(), "session.yaml"))

	s, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSession(), s)
	assert.Equal(t, dtype.Int32, s.Type)
	assert.Equal(t, int32(1), s.Columns)
}

func TestLoader_Load_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns: 3\ntype: double\n"), 0644))

	s, err := NewLoaderAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, int32(3), s.Columns)
	assert.Equal(t, dtype.Float64, s.Type)
	assert.Equal(t, aoi.DefaultThresholds(), s.Thresholds)
	assert.Equal(t, aoi.DefaultWindow, s.Window)
}

func TestLoader_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "columns: [oops"},
		{"unknown type", "type: complex128\n"},
		{"zero columns", "columns: 0\n"},
		{"negative phase", "phase: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := NewLoaderAt(path).Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLoader_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(EnvConfig, path)
	assert.Equal(t, path, NewLoader().Path())
}

func TestSession_Stale(t *testing.T) {
	s := DefaultSession()
	assert.False(t, s.Stale("anything"), "no recorded fingerprint")

	s.Fingerprint = "aaaa"
	assert.False(t, s.Stale("aaaa"))
	assert.True(t, s.Stale("bbbb"))
}
