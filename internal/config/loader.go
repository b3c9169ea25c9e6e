package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfig overrides the session file location.
const EnvConfig = "BINSCOPE_CONFIG"

// Loader reads and writes the session file.
type Loader struct {
	path string
}

// NewLoader creates a loader for the default session file.
// The path is resolved in this order:
//  1. BINSCOPE_CONFIG environment variable.
//  2. <user config dir>/binscope/session.yaml.
//  3. <temp dir>/binscope/session.yaml when no config dir is known.
func NewLoader() *Loader {
	if path := os.Getenv(EnvConfig); path != "" {
		return &Loader{path: path}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return &Loader{path: filepath.Join(dir, "binscope", "session.yaml")}
}

// NewLoaderAt creates a loader for the session file at path.
func NewLoaderAt(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the session file path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads the session. A missing file yields DefaultSession, and fields
// absent from the file keep their defaults.
func (l *Loader) Load() (*Session, error) {
	s := DefaultSession()

	//nolint:gosec // G304: path is chosen by the user.
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", l.path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return s, nil
}

// Save writes the session, creating its directory if needed.
func (l *Loader) Save(s *Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.Version = SchemaVersion

	//nolint:gosec // G301: directory needs standard permissions for traversal
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	//nolint:gosec // G306: session file is not sensitive
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}
