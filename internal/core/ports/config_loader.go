package ports

import "github.com/weft-build/weft/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads and validates the distributed build configuration at path.
	Load(path string) (*domain.BuildConfig, error)
}
