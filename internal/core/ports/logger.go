package ports

// Logger defines the interface for hierarchical logging. Nested loggers are
// created once per build run (keyed by input-config hash), once per
// analyzed build (keyed by build hash), and once per project (keyed by
// project name).
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string, args ...any)
	Error(err error)
	// Nested returns a child logger scoped to a sub-operation.
	Nested(key string) Logger
}
