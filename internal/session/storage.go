package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStore resolves artifact names to files under one output directory
type LocalStore struct {
	basePath string
}

// NewLocalStore creates the output directory if needed
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

// BasePath returns the output directory
func (s *LocalStore) BasePath() string {
	return s.basePath
}

// Path maps an artifact name to its file path. The name is sanitized so a
// feature name can never escape the output directory.
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.basePath, SanitizeFilename(name))
}

// Exists reports whether the named artifact is on disk
func (s *LocalStore) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// List returns artifact names with the given prefix, sorted
func (s *LocalStore) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.basePath, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

var filenameReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_")

// SanitizeFilename replaces spaces and path separators with underscores
func SanitizeFilename(name string) string {
	return filenameReplacer.Replace(name)
}
