// Package orchestrator coordinates the full build pipeline: analyze,
// publish, build, report, deploy. It owns outcome aggregation and
// dependency-failure propagation; workers only ever see their own project.
package orchestrator

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/zerr"

	"github.com/weft-build/weft/internal/core/domain"
	"github.com/weft-build/weft/internal/core/ports"
	"github.com/weft-build/weft/internal/engine/extraction"
	"github.com/weft-build/weft/internal/engine/scheduler"
)

// DefaultTimeout bounds a whole run, extraction through deploy.
const DefaultTimeout = 4 * time.Hour

// Options tune one run.
type Options struct {
	// Timeout for the whole pipeline. Zero means DefaultTimeout.
	Timeout time.Duration
	// Parallelism caps concurrent project builds. Zero means the graph's
	// intrinsic parallelism.
	Parallelism int
	// RunID identifies the run in the journal. Generated when empty.
	RunID string
}

// RunResult is a completed (possibly unsuccessfully completed) run: the
// published repeatable build, one outcome per project in input-config
// order, and the rendered report.
type RunResult struct {
	RunID    string
	Build    *domain.RepeatableBuild
	Outcomes []domain.ProjectOutcome
	Report   string
}

// Orchestrator drives distributed builds end to end.
type Orchestrator struct {
	coordinator *extraction.Coordinator
	builder     ports.Builder
	repo        ports.MetadataRepository
	workspace   ports.Workspace
	deployer    ports.Deployer
	tracer      ports.Tracer
	metrics     ports.Metrics
	sinks       []ports.EventSink
}

// New creates an Orchestrator.
func New(
	coordinator *extraction.Coordinator,
	builder ports.Builder,
	repo ports.MetadataRepository,
	workspace ports.Workspace,
	deployer ports.Deployer,
	tracer ports.Tracer,
	metrics ports.Metrics,
	sinks []ports.EventSink,
) *Orchestrator {
	return &Orchestrator{
		coordinator: coordinator,
		builder:     builder,
		repo:        repo,
		workspace:   workspace,
		deployer:    deployer,
		tracer:      tracer,
		metrics:     metrics,
		sinks:       sinks,
	}
}

// Run executes the pipeline for cfg under a single global timeout.
//
// A pipeline-level failure (invalid configuration, extraction failure,
// dependency cycle, publish failure) returns a nil result. Once the build
// phase starts the result is always returned, with every project's outcome
// resolved; the error then classifies the run: nil for full success,
// domain.ErrBuildIncomplete when any project failed or was skipped, and
// domain.ErrPipelineTimeout (joined with the deadline error) when the
// global timeout cut the run short. There is no separate timeout channel;
// expiry surfaces through this same return path.
func (o *Orchestrator) Run(ctx context.Context, cfg *domain.BuildConfig, log ports.Logger, opts Options) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	cfgHash, err := domain.BuildConfigHash(cfg)
	if err != nil {
		return nil, err
	}
	runLog := log.Nested(domain.ShortHash(cfgHash))
	runLog.Info("starting distributed build",
		"run_id", runID, "projects", len(cfg.Projects), "timeout", timeout.String())

	o.emit(ctx, runLog, domain.BuildEvent{
		RunID: runID,
		Type:  domain.EventRunStarted,
		Detail: map[string]string{
			"config_hash": cfgHash,
			"projects":    strconv.Itoa(len(cfg.Projects)),
		},
	})
	o.tracer.EmitPlan(ctx, cfg.ProjectNames())

	// Analyze.
	rb, expected, err := o.analyze(ctx, runID, cfgHash, cfg, runLog)
	if err != nil {
		o.finishRun(ctx, runLog, runID, "failed")
		return nil, err
	}
	buildLog := runLog.Nested(domain.ShortHash(rb.UUID))
	buildLog.Info("analysis complete", "uuid", rb.UUID)

	// Publish before building: the record must exist even if the build
	// fails or is interrupted.
	if err := o.publish(ctx, runID, rb, buildLog); err != nil {
		o.finishRun(ctx, runLog, runID, "failed")
		return nil, err
	}

	// Build.
	outcomes, buildErr := o.buildAll(ctx, runID, rb, expected, opts.Parallelism, buildLog)

	res := &RunResult{
		RunID:    runID,
		Build:    rb,
		Outcomes: o.orderedOutcomes(rb, outcomes),
	}
	res.Report = domain.RenderReport(res.Outcomes)

	// Report.
	succeeded, failed, skipped := tally(res.Outcomes)
	buildLog.Info("build finished",
		"succeeded", succeeded, "failed", failed, "skipped", skipped)

	if buildErr != nil {
		if errors.Is(buildErr, context.DeadlineExceeded) {
			o.metrics.IncRunOutcome("timeout")
			o.finishRun(ctx, runLog, runID, "timeout")
			return res, errors.Join(
				zerr.With(domain.ErrPipelineTimeout, "timeout", timeout.String()), buildErr)
		}
		o.metrics.IncRunOutcome("failed")
		o.finishRun(ctx, runLog, runID, "failed")
		return res, buildErr
	}

	// Deploy, gated on configured targets, only after the full outcome set
	// is known.
	deployErr := o.deployAll(ctx, runID, cfg.Deploy, rb, res.Outcomes, runLog)

	runErr := deployErr
	if failed > 0 || skipped > 0 {
		incomplete := zerr.With(domain.ErrBuildIncomplete, "failed", strconv.Itoa(failed))
		runErr = errors.Join(runErr, zerr.With(incomplete, "skipped", strconv.Itoa(skipped)))
	}

	if runErr != nil {
		o.metrics.IncRunOutcome("failed")
		o.finishRun(ctx, runLog, runID, "failed")
	} else {
		o.metrics.IncRunOutcome("success")
		o.finishRun(ctx, runLog, runID, "success")
	}
	return res, runErr
}

// analyze extracts every project and assembles the repeatable build.
func (o *Orchestrator) analyze(ctx context.Context, runID, cfgHash string, cfg *domain.BuildConfig, log ports.Logger) (*domain.RepeatableBuild, map[string][]string, error) {
	start := time.Now()
	_, span := o.tracer.Start(ctx, "analyze")
	defer span.End()

	extractions, err := o.coordinator.ExtractAll(ctx, domain.ShortHash(cfgHash), cfg.Projects, log)
	if err != nil {
		span.RecordError(err)
		o.metrics.ObservePhaseDuration("analyze", time.Since(start))
		return nil, nil, err
	}

	rb, err := domain.AssembleRepeatable(extractions)
	if err != nil {
		span.RecordError(err)
		o.metrics.ObservePhaseDuration("analyze", time.Since(start))
		return nil, nil, err
	}

	expected := make(map[string][]string, len(extractions))
	for _, ex := range extractions {
		var names []string
		for _, mod := range ex.Meta.Modules {
			for _, p := range mod.Projects {
				names = append(names, p.Name)
			}
		}
		expected[ex.Config.Name] = names
	}

	span.SetAttribute("uuid", rb.UUID)
	o.metrics.ObservePhaseDuration("analyze", time.Since(start))
	o.emit(ctx, log, domain.BuildEvent{
		RunID:  runID,
		Type:   domain.EventAnalysisCompleted,
		Detail: map[string]string{"uuid": rb.UUID},
	})
	return rb, expected, nil
}

// publish persists the canonical record before any build dispatch.
func (o *Orchestrator) publish(ctx context.Context, runID string, rb *domain.RepeatableBuild, log ports.Logger) error {
	start := time.Now()
	_, span := o.tracer.Start(ctx, "publish")
	defer span.End()
	defer func() { o.metrics.ObservePhaseDuration("publish", time.Since(start)) }()

	if err := o.repo.Publish(ctx, rb); err != nil {
		span.RecordError(err)
		return zerr.With(zerr.Wrap(err, "publishing build record"), "uuid", rb.UUID)
	}

	log.Info("build record published", "uuid", rb.UUID)
	o.emit(ctx, log, domain.BuildEvent{
		RunID:  runID,
		Type:   domain.EventRecordPublished,
		Detail: map[string]string{"uuid": rb.UUID},
	})
	return nil
}

// buildAll traverses the dependency graph dispatching builder requests.
// Outcome aggregation happens here: a node with a non-succeeded dependency
// becomes BuildDidNotRun without the builder ever being invoked for it.
func (o *Orchestrator) buildAll(ctx context.Context, runID string, rb *domain.RepeatableBuild, expected map[string][]string, parallelism int, log ports.Logger) (map[string]domain.Outcome, error) {
	start := time.Now()
	defer func() { o.metrics.ObservePhaseDuration("build", time.Since(start)) }()

	compute := func(ctx context.Context, node *domain.ProjectBuild, deps []scheduler.DepResult[domain.Outcome]) (domain.Outcome, error) {
		depOutcomes := make([]domain.DependencyOutcome, len(deps))
		blocked := false
		for i, d := range deps {
			depOutcomes[i] = domain.DependencyOutcome{Build: *d.Build, Outcome: d.Value}
			if !d.Value.Succeeded() {
				blocked = true
			}
		}

		plog := log.Nested(node.Name())
		if blocked {
			out := domain.BuildDidNotRun{Dependencies: depOutcomes}
			plog.Info("skipping build",
				"failed_dependencies", strings.Join(out.FailedUpstream(), ", "))
			o.recordOutcome(ctx, runID, node, out, 0, log)
			return out, nil
		}

		return o.buildOne(ctx, runID, node, expected[node.Name()], plog, log)
	}

	return scheduler.Traverse(ctx, rb.Graph(), scheduler.Options{Parallelism: parallelism}, compute)
}

// buildOne dispatches a single project to the builder worker and adopts its
// outcome. Worker errors become BuildFailed; only context cancellation
// escapes as an error.
func (o *Orchestrator) buildOne(ctx context.Context, runID string, node *domain.ProjectBuild, expected []string, plog, log ports.Logger) (domain.Outcome, error) {
	dir, err := o.workspace.ScopedDir("build", node.UUID)
	if err != nil {
		return nil, zerr.Wrap(err, "allocating build directory")
	}
	// The per-identity local artifact repository; builder workers resolve
	// dependency artifacts from and publish into it.
	if _, err := o.workspace.ScopedDir("artifacts", node.UUID); err != nil {
		return nil, zerr.Wrap(err, "allocating artifact repository directory")
	}

	_, span := o.tracer.Start(ctx, node.Name())
	defer span.End()
	span.SetAttribute("uuid", node.UUID)

	plog.Info("building project", "uuid", node.UUID, "system", node.Config.EffectiveSystem())

	start := time.Now()
	out, err := o.builder.Build(ctx, dir, *node, expected, plog)
	elapsed := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			span.RecordError(ctx.Err())
			return nil, ctx.Err()
		}
		out = domain.BuildFailed{Cause: err.Error()}
	}

	switch v := out.(type) {
	case domain.BuildSuccess:
		if v.Cached {
			span.SetCached()
		}
	case domain.BuildFailed:
		span.RecordError(errors.New(v.Cause))
	}
	_, _ = span.Write([]byte(out.Summary() + "\n"))

	o.recordOutcome(ctx, runID, node, out, elapsed, log)
	return out, nil
}

// recordOutcome feeds metrics and event sinks for one terminal outcome.
func (o *Orchestrator) recordOutcome(ctx context.Context, runID string, node *domain.ProjectBuild, out domain.Outcome, elapsed time.Duration, log ports.Logger) {
	o.metrics.IncProjectOutcome(out.Kind())
	if elapsed > 0 {
		o.metrics.ObserveProjectDuration(node.Name(), out.Kind(), elapsed)
	}

	detail := map[string]string{
		"uuid":    node.UUID,
		"outcome": string(out.Kind()),
	}
	switch v := out.(type) {
	case domain.BuildFailed:
		detail["cause"] = v.Cause
	case domain.BuildDidNotRun:
		detail["failed_dependencies"] = strings.Join(v.FailedUpstream(), ", ")
	case domain.BuildSuccess:
		if v.Cached {
			detail["cached"] = "true"
		}
	}
	o.emit(ctx, log, domain.BuildEvent{
		RunID:   runID,
		Type:    domain.EventProjectCompleted,
		Project: node.Name(),
		Detail:  detail,
	})
}

// orderedOutcomes materializes one outcome per constituent build in
// input-config order. Projects the traversal never resolved (aborted or
// timed-out runs) terminate as BuildDidNotRun carrying whatever dependency
// outcomes are known.
func (o *Orchestrator) orderedOutcomes(rb *domain.RepeatableBuild, outcomes map[string]domain.Outcome) []domain.ProjectOutcome {
	ordered := make([]domain.ProjectOutcome, 0, len(rb.Builds))
	for _, b := range rb.Builds {
		out, ok := outcomes[b.Name()]
		if !ok {
			out = unresolvedOutcome(rb, b, outcomes)
		}
		ordered = append(ordered, domain.ProjectOutcome{Build: b, Outcome: out})
	}
	return ordered
}

func unresolvedOutcome(rb *domain.RepeatableBuild, b domain.ProjectBuild, outcomes map[string]domain.Outcome) domain.BuildDidNotRun {
	var deps []domain.DependencyOutcome
	for _, dep := range b.Dependencies {
		depOut, ok := outcomes[dep]
		if !ok {
			continue
		}
		depBuild, _ := rb.BuildFor(dep)
		deps = append(deps, domain.DependencyOutcome{Build: *depBuild, Outcome: depOut})
	}
	return domain.BuildDidNotRun{Dependencies: deps}
}

// deployAll invokes the deployer once per configured target.
func (o *Orchestrator) deployAll(ctx context.Context, runID string, targets []domain.DeployTarget, rb *domain.RepeatableBuild, outcomes []domain.ProjectOutcome, log ports.Logger) error {
	if len(targets) == 0 {
		return nil
	}

	start := time.Now()
	_, span := o.tracer.Start(ctx, "deploy")
	defer span.End()
	defer func() { o.metrics.ObservePhaseDuration("deploy", time.Since(start)) }()

	dlog := log.Nested("deploy")
	var errs error
	for _, target := range targets {
		location, err := o.deployer.Deploy(ctx, target, rb, outcomes, dlog)
		if err != nil {
			derr := zerr.With(zerr.Wrap(err, "deploy failed"), "target", target.URI)
			span.RecordError(err)
			dlog.Error(derr)
			errs = errors.Join(errs, derr)
			continue
		}
		dlog.Info("deployed build record", "target", target.URI, "location", location)
		o.emit(ctx, dlog, domain.BuildEvent{
			RunID:  runID,
			Type:   domain.EventDeployCompleted,
			Detail: map[string]string{"target": target.URI, "location": location},
		})
	}
	return errs
}

// emit records an event on every sink. Sinks are best-effort; failures are
// logged and never escalate into a run failure.
func (o *Orchestrator) emit(ctx context.Context, log ports.Logger, e domain.BuildEvent) {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	for _, sink := range o.sinks {
		if err := sink.Record(ctx, e); err != nil {
			log.Error(zerr.With(zerr.Wrap(err, "recording build event"), "event", string(e.Type)))
		}
	}
}

// finishRun emits the terminal run event.
func (o *Orchestrator) finishRun(ctx context.Context, log ports.Logger, runID, result string) {
	o.emit(ctx, log, domain.BuildEvent{
		RunID:  runID,
		Type:   domain.EventRunCompleted,
		Detail: map[string]string{"result": result},
	})
}

func tally(outcomes []domain.ProjectOutcome) (succeeded, failed, skipped int) {
	for _, po := range outcomes {
		switch po.Outcome.Kind() {
		case domain.OutcomeSuccess:
			succeeded++
		case domain.OutcomeFailed:
			failed++
		case domain.OutcomeSkipped:
			skipped++
		}
	}
	return succeeded, failed, skipped
}
