// Package app implements the application layer for weft: it connects the
// CLI to the orchestration engine and serves the read-side commands from
// the published records and the run journal.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"github.com/weft-build/weft/internal/adapters/announce"
	"github.com/weft-build/weft/internal/adapters/config"
	"github.com/weft-build/weft/internal/adapters/deploy"
	"github.com/weft-build/weft/internal/adapters/journal"
	"github.com/weft-build/weft/internal/adapters/metrics"
	"github.com/weft-build/weft/internal/core/domain"
	"github.com/weft-build/weft/internal/core/ports"
	"github.com/weft-build/weft/internal/engine/extraction"
	"github.com/weft-build/weft/internal/engine/orchestrator"
)

// RunOptions carry the per-invocation knobs of a build run. Zero values
// fall back to the environment settings.
type RunOptions struct {
	// ConfigPath locates the distributed build configuration file.
	ConfigPath string
	// Timeout bounds the whole pipeline.
	Timeout time.Duration
	// Parallelism caps concurrent project builds.
	Parallelism int
}

// App represents the main application logic.
type App struct {
	loader      ports.ConfigLoader
	orch        *orchestrator.Orchestrator
	coordinator *extraction.Coordinator
	repo        ports.MetadataRepository
	journal     *journal.Store
	metrics     *metrics.Service
	announcer   *announce.Publisher
	settings    *config.Settings
	log         ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	orch *orchestrator.Orchestrator,
	coordinator *extraction.Coordinator,
	repo ports.MetadataRepository,
	store *journal.Store,
	svc *metrics.Service,
	announcer *announce.Publisher,
	settings *config.Settings,
	log ports.Logger,
) *App {
	return &App{
		loader:      loader,
		orch:        orch,
		coordinator: coordinator,
		repo:        repo,
		journal:     store,
		metrics:     svc,
		announcer:   announcer,
		settings:    settings,
		log:         log,
	}
}

// Run executes the full build pipeline for the configuration named in
// opts. The metrics listener, when configured, serves for the duration of
// the run. The result carries every project's outcome and the rendered
// report whenever the build phase was reached, even for failed runs.
func (a *App) Run(ctx context.Context, opts RunOptions) (*orchestrator.RunResult, error) {
	cfg, err := a.loader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := a.metrics.Serve(ctx, a.log); err != nil {
			a.log.Error(zerr.Wrap(err, "metrics listener failed"))
		}
	}()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = a.settings.Timeout
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = a.settings.Parallelism
	}

	return a.orch.Run(ctx, cfg, a.log, orchestrator.Options{
		Timeout:     timeout,
		Parallelism: parallelism,
	})
}

// Analyze runs extraction and assembly for the configuration at path
// without dispatching any build: the dry-run behind the graph command.
func (a *App) Analyze(ctx context.Context, configPath string) (*domain.RepeatableBuild, error) {
	cfg, err := a.loader.Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	cfgHash, err := domain.BuildConfigHash(cfg)
	if err != nil {
		return nil, err
	}

	extractions, err := a.coordinator.ExtractAll(ctx, domain.ShortHash(cfgHash), cfg.Projects, a.log)
	if err != nil {
		return nil, err
	}
	return domain.AssembleRepeatable(extractions)
}

// ShowRecord returns the canonical serialization of a published build
// record.
func (a *App) ShowRecord(ctx context.Context, uuid string) (string, error) {
	rec, err := a.repo.Get(ctx, uuid)
	if err != nil {
		return "", err
	}
	data, err := rec.Canonical()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Events returns the recorded journal events of a run, oldest first.
func (a *App) Events(ctx context.Context, runID string) ([]domain.BuildEvent, error) {
	return a.journal.EventsForRun(ctx, runID)
}

// Export writes the bundle of a published record to path and returns the
// written location. Outcomes are not persisted with records, so exported
// bundles carry the record only.
func (a *App) Export(ctx context.Context, uuid, path string) (string, error) {
	rec, err := a.repo.Get(ctx, uuid)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = deploy.BundleName(rec.UUID)
	}
	f, err := os.Create(path) //nolint:gosec // Export destination is operator input.
	if err != nil {
		return "", zerr.Wrap(err, "creating export file")
	}
	if err := deploy.WriteBundle(f, rec, nil); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", zerr.Wrap(err, "closing export file")
	}

	a.log.Info("record exported", "uuid", rec.UUID, "path", path)
	return path, nil
}

// Close releases the long-lived resources behind the app: the journal
// database and the announcer connection.
func (a *App) Close() error {
	var errs error
	if err := a.journal.Close(); err != nil {
		errs = errors.Join(errs, err)
	}
	if err := a.announcer.Close(); err != nil {
		errs = errors.Join(errs, err)
	}
	return errs
}

// FormatGraph renders an analyzed build: the overall identity followed by
// one line per project with its identity and resolved dependencies, in
// input-config order.
func FormatGraph(rb *domain.RepeatableBuild) string {
	var b strings.Builder
	fmt.Fprintf(&b, "build %s\n", rb.UUID)

	width := 0
	for _, pb := range rb.Builds {
		if n := len(pb.Name()); n > width {
			width = n
		}
	}
	for _, pb := range rb.Builds {
		deps := "no dependencies"
		if len(pb.Dependencies) > 0 {
			deps = strings.Join(pb.Dependencies, ", ")
		}
		fmt.Fprintf(&b, "%-*s %s : %s\n", width, pb.Name(), domain.ShortHash(pb.UUID), deps)
	}
	return b.String()
}

// FormatEvents renders journal events one per line, oldest first.
func FormatEvents(events []domain.BuildEvent) string {
	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "%s %-19s %s", e.Time.Format(time.RFC3339), e.Type, e.Project)
		for _, k := range sortedKeys(e.Detail) {
			fmt.Fprintf(&b, " %s=%s", k, e.Detail[k])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
