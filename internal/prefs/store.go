// Package prefs persists small user preferences, such as the selected hand
// speed, across runs.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Preference keys.
const (
	KeySpeed = "speed"
	KeyTheme = "theme"
)

// Store is a write-through key/value store backed by a YAML file. Values are
// strings; use the typed helpers for conversion. Not safe for concurrent use.
type Store struct {
	path   string
	values map[string]string
}

// DefaultPath places the preferences file in the XDG state directory.
func DefaultPath() (string, error) {
	return xdg.StateFile("sweephand/prefs.yaml")
}

// Open loads the store at path. A missing or unreadable file yields an empty
// store rather than an error; preferences are a convenience, not a
// requirement.
func Open(path string) *Store {
	s := &Store{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := yaml.Unmarshal(data, &s.values); err != nil {
		// A corrupt file is discarded; the next Set rewrites it.
		s.values = make(map[string]string)
	}
	return s
}

// Get returns the stored value for key, or "" when unset.
func (s *Store) Get(key string) string {
	return s.values[key]
}

// Float returns the stored value for key parsed as a float64. The second
// return is false when the key is unset or unparseable.
func (s *Store) Float(key string) (float64, bool) {
	raw, ok := s.values[key]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Set stores a value and writes the file immediately.
func (s *Store) Set(key, value string) error {
	s.values[key] = value
	return s.write()
}

// SetFloat stores a float value and writes the file immediately.
func (s *Store) SetFloat(key string, value float64) error {
	return s.Set(key, strconv.FormatFloat(value, 'g', -1, 64))
}

func (s *Store) write() error {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}
