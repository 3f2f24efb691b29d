package ports

// Workspace allocates the per-run directory tree. Every concurrent worker
// operates in a dedicated subdirectory so no two workers ever write into
// the same path.
//
//go:generate mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks
type Workspace interface {
	// ScopedDir returns the directory for the given key parts, creating it
	// if necessary. The same key always maps to the same directory and
	// distinct keys never share one.
	ScopedDir(parts ...string) (string, error)

	// Root returns the workspace root directory.
	Root() string
}
