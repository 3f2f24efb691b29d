package domain

import (
	"slices"
	"strings"
)

// OutcomeKind labels the closed set of per-project terminal states.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailed  OutcomeKind = "failed"
	OutcomeSkipped OutcomeKind = "skipped"
)

// Outcome is the terminal state of one project for one build run: built,
// failed, or skipped because a dependency failed. The set is closed; write
// once per project per run, never mutated. Builder workers produce only
// BuildSuccess and BuildFailed; BuildDidNotRun is produced by the
// orchestrator when propagating dependency failures.
type Outcome interface {
	Kind() OutcomeKind
	// Succeeded reports whether dependents of this project may build.
	Succeeded() bool
	// Summary is the deterministic one-line report form of the outcome.
	Summary() string

	outcome()
}

// BuildSuccess reports a completed build. Cached marks a build satisfied
// from previously published artifacts without running the build tool.
type BuildSuccess struct {
	Info   string `yaml:"info,omitempty"`
	Cached bool   `yaml:"cached,omitempty"`
}

func (BuildSuccess) outcome()          {}
func (BuildSuccess) Kind() OutcomeKind { return OutcomeSuccess }
func (BuildSuccess) Succeeded() bool   { return true }

func (o BuildSuccess) Summary() string {
	if o.Cached {
		return "SUCCESS (cached)"
	}
	return "SUCCESS"
}

// BuildFailed reports a build that was dispatched and failed.
type BuildFailed struct {
	Cause string `yaml:"cause"`
}

func (BuildFailed) outcome()          {}
func (BuildFailed) Kind() OutcomeKind { return OutcomeFailed }
func (BuildFailed) Succeeded() bool   { return false }

func (o BuildFailed) Summary() string {
	if o.Cause == "" {
		return "FAILED"
	}
	return "FAILED: " + o.Cause
}

// DependencyOutcome pairs a dependency with the outcome it reached, in the
// run this outcome belongs to.
type DependencyOutcome struct {
	Build   ProjectBuild
	Outcome Outcome
}

// BuildDidNotRun reports a project that was never dispatched because at
// least one dependency did not succeed. It carries the full ordered set of
// direct dependency outcomes, so the originating failure is traceable
// transitively through nested BuildDidNotRun values.
type BuildDidNotRun struct {
	Dependencies []DependencyOutcome
}

func (BuildDidNotRun) outcome()          {}
func (BuildDidNotRun) Kind() OutcomeKind { return OutcomeSkipped }
func (BuildDidNotRun) Succeeded() bool   { return false }

// FailedUpstream returns the names of the projects whose BuildFailed
// outcome caused this skip, walking nested skips transitively. Sorted,
// unique. Empty when the project never resolved at all (aborted run).
func (o BuildDidNotRun) FailedUpstream() []string {
	set := make(map[string]struct{})
	var collect func(deps []DependencyOutcome)
	collect = func(deps []DependencyOutcome) {
		for _, d := range deps {
			switch out := d.Outcome.(type) {
			case BuildFailed:
				set[d.Build.Name()] = struct{}{}
			case BuildDidNotRun:
				collect(out.Dependencies)
			}
		}
	}
	collect(o.Dependencies)

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (o BuildDidNotRun) Summary() string {
	failed := o.FailedUpstream()
	if len(failed) == 0 {
		return "DID NOT RUN"
	}
	return "DID NOT RUN (failed dependencies: " + strings.Join(failed, ", ") + ")"
}

// ProjectOutcome is one row of the final report: a constituent build and
// the outcome it reached.
type ProjectOutcome struct {
	Build   ProjectBuild
	Outcome Outcome
}
