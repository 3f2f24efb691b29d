// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/weft-build/weft/internal/adapters/announce"
	_ "github.com/weft-build/weft/internal/adapters/buildsys"
	_ "github.com/weft-build/weft/internal/adapters/buildsys/script"
	_ "github.com/weft-build/weft/internal/adapters/cas"
	_ "github.com/weft-build/weft/internal/adapters/config"
	_ "github.com/weft-build/weft/internal/adapters/deploy"
	_ "github.com/weft-build/weft/internal/adapters/git"
	_ "github.com/weft-build/weft/internal/adapters/journal"
	_ "github.com/weft-build/weft/internal/adapters/logger"
	_ "github.com/weft-build/weft/internal/adapters/metrics"
	_ "github.com/weft-build/weft/internal/adapters/mirror"
	_ "github.com/weft-build/weft/internal/adapters/telemetry"
	_ "github.com/weft-build/weft/internal/adapters/workdir"
	// Register app and engine nodes.
	_ "github.com/weft-build/weft/internal/app"
	_ "github.com/weft-build/weft/internal/engine/extraction"
	_ "github.com/weft-build/weft/internal/engine/orchestrator"
)
