package domain

import "go.trai.ch/zerr"

var (
	// ErrDuplicateProject is returned when two projects in the same build share a name.
	ErrDuplicateProject = zerr.New("duplicate project name")

	// ErrUnknownDependency is returned when a graph node references a project that is not part of the build.
	ErrUnknownDependency = zerr.New("unknown dependency")

	// ErrDependencyCycle is returned when the cross-project dependency graph contains a cycle.
	ErrDependencyCycle = zerr.New("dependency cycle detected")

	// ErrAmbiguousDependency is returned when an extracted dependency is published
	// by more than one project in the same build.
	ErrAmbiguousDependency = zerr.New("ambiguous dependency resolution")

	// ErrProjectNotFound is returned when a requested project is not part of the build.
	ErrProjectNotFound = zerr.New("project not found")

	// ErrInvalidConfig is returned for a build configuration that fails validation.
	ErrInvalidConfig = zerr.New("invalid build configuration")

	// ErrUnknownBuildSystem is returned when a project names a build system no adapter is registered for.
	ErrUnknownBuildSystem = zerr.New("unknown build system")

	// ErrExtractionFailed is returned when any project's metadata extraction fails.
	// The whole analysis phase aborts; no build is dispatched.
	ErrExtractionFailed = zerr.New("metadata extraction failed")

	// ErrPipelineTimeout is returned when the global build deadline expires before
	// every project reached a terminal outcome.
	ErrPipelineTimeout = zerr.New("build pipeline timed out")

	// ErrBuildIncomplete is returned when the run finished but at least one project
	// failed or did not run. The per-project outcome list is still complete.
	ErrBuildIncomplete = zerr.New("build completed with failures")

	// ErrRecordNotFound is returned when the metadata repository has no record for a build identity.
	ErrRecordNotFound = zerr.New("build record not found")

	// ErrRecordConflict is returned when a publish would overwrite an existing record
	// with different content under the same build identity.
	ErrRecordConflict = zerr.New("build record conflict")
)
