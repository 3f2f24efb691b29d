// Package workdir manages the on-disk layout of a build run. Every
// collaborator receives its working directory explicitly from here; nothing
// outside the root is ever touched.
package workdir

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Manager implements ports.Workspace on a single root directory.
type Manager struct {
	root string
}

// NewManager creates a Manager rooted at root. The root is created on
// first use.
func NewManager(root string) *Manager {
	return &Manager{root: root}
}

// Root returns the workspace root.
func (m *Manager) Root() string {
	return m.root
}

// ScopedDir returns root/parts..., creating it if needed. Parts must be
// plain path segments; separators and parent references are rejected so a
// hostile project name cannot escape the root.
func (m *Manager) ScopedDir(parts ...string) (string, error) {
	dir := m.root
	for _, part := range parts {
		if part == "" || part == "." || part == ".." ||
			strings.ContainsAny(part, `/\`) {
			return "", zerr.With(zerr.New("invalid workspace path segment"), "segment", part)
		}
		dir = filepath.Join(dir, part)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", zerr.Wrap(err, "failed to create workspace directory")
	}
	return dir, nil
}
