package script

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/weft-build/weft/internal/core/domain"
	"github.com/weft-build/weft/internal/core/ports"
)

// buildInfoFile marks a completed build in an artifact directory.
const buildInfoFile = ".weft-build-info"

// System implements the script build system.
type System struct {
	fetcher   ports.SourceFetcher
	workspace ports.Workspace
}

// New creates a System.
func New(fetcher ports.SourceFetcher, workspace ports.Workspace) *System {
	return &System{fetcher: fetcher, workspace: workspace}
}

// Name returns the system tag.
func (s *System) Name() string { return domain.DefaultSystem }

// Extract fetches the project's sources into dir and reads its manifests:
// the root module and, breadth-first, every nested module it declares.
func (s *System) Extract(ctx context.Context, cfg domain.ProjectConfig, dir string, log ports.Logger) (domain.ExtractedMeta, error) {
	if err := s.fetcher.Fetch(ctx, cfg.URI, dir, log); err != nil {
		return domain.ExtractedMeta{}, err
	}

	extra := cfg.EffectiveExtra()
	root := dir
	if extra.Directory != "" {
		if !isCleanRelative(extra.Directory) {
			return domain.ExtractedMeta{}, errors.Join(domain.ErrInvalidConfig,
				zerr.With(zerr.New("project directory must be a clean relative path"), "directory", extra.Directory))
		}
		root = filepath.Join(dir, extra.Directory)
	}

	meta, err := readModules(root)
	if err != nil {
		return domain.ExtractedMeta{}, err
	}

	if len(extra.Projects) > 0 {
		meta, err = filterProjects(meta, extra.Projects)
		if err != nil {
			return domain.ExtractedMeta{}, err
		}
	}

	projects := 0
	for _, mod := range meta.Modules {
		projects += len(mod.Projects)
	}
	log.Info("extracted metadata", "modules", len(meta.Modules), "projects", projects)
	return meta, nil
}

// readModules loads the manifest at root and walks nested modules
// breadth-first. Module paths are de-duplicated so a manifest cycle cannot
// loop the walk.
func readModules(root string) (domain.ExtractedMeta, error) {
	var meta domain.ExtractedMeta

	visited := map[string]struct{}{".": {}}
	queue := []string{"."}
	for len(queue) > 0 {
		rel := queue[0]
		queue = queue[1:]

		m, err := LoadManifest(filepath.Join(root, rel))
		if err != nil {
			return domain.ExtractedMeta{}, err
		}
		meta.Modules = append(meta.Modules, m.Module())

		for _, sub := range m.Modules {
			child := filepath.Clean(filepath.Join(rel, sub))
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return meta, nil
}

// filterProjects keeps only the named projects. Every requested name must
// exist; modules left without projects are dropped.
func filterProjects(meta domain.ExtractedMeta, names []string) (domain.ExtractedMeta, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = false
	}

	var out domain.ExtractedMeta
	for _, mod := range meta.Modules {
		kept := mod
		kept.Projects = nil
		for _, p := range mod.Projects {
			if _, ok := want[p.Name]; !ok {
				continue
			}
			want[p.Name] = true
			kept.Projects = append(kept.Projects, p)
		}
		if len(kept.Projects) > 0 {
			out.Modules = append(out.Modules, kept)
		}
	}

	var missing []string
	for n, found := range want {
		if !found {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return domain.ExtractedMeta{}, errors.Join(domain.ErrInvalidConfig,
			zerr.With(zerr.New("projects filter names unknown projects"), "missing", strings.Join(missing, ", ")))
	}
	return out, nil
}

// Build fetches the pinned sources into dir and runs the manifest's
// commands. Command failures come back as a BuildFailed outcome; returned
// errors are reserved for infrastructure problems and cancellation.
func (s *System) Build(ctx context.Context, dir string, build domain.ProjectBuild, expected []string, log ports.Logger) (domain.Outcome, error) {
	artifactsDir, err := s.workspace.ScopedDir("artifacts", build.UUID)
	if err != nil {
		return nil, err
	}

	if satisfiedFromArtifacts(artifactsDir, build.UUID, expected) {
		log.Info("build satisfied from published artifacts", "uuid", build.UUID)
		return domain.BuildSuccess{Cached: true}, nil
	}

	if err := s.fetcher.Fetch(ctx, build.Config.URI, dir, log); err != nil {
		return nil, err
	}

	extra := build.Config.EffectiveExtra()
	root := dir
	if extra.Directory != "" {
		root = filepath.Join(dir, extra.Directory)
	}

	manifest, err := LoadManifest(root)
	if err != nil {
		return nil, err
	}

	env, err := s.buildEnv(build, artifactsDir, manifest.Build.Env, &extra)
	if err != nil {
		return nil, err
	}

	commands := slices.Clone(manifest.Build.Commands)
	if extra.RunTests {
		commands = append(commands, manifest.Build.TestCommands...)
	}

	r := runner{log: log, measure: extra.MeasurePerformance}
	for _, command := range commands {
		if err := r.run(ctx, root, env, command); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return domain.BuildFailed{Cause: err.Error()}, nil
		}
	}

	if missing := missingArtifacts(artifactsDir, expected); len(missing) > 0 {
		return domain.BuildFailed{
			Cause: "missing expected artifacts: " + strings.Join(missing, ", "),
		}, nil
	}

	if err := writeBuildInfo(artifactsDir, build.UUID, expected); err != nil {
		return nil, err
	}
	return domain.BuildSuccess{
		Info: fmt.Sprintf("%d commands, %d artifacts", len(commands), len(expected)),
	}, nil
}

// buildEnv assembles the command environment: the process environment, the
// manifest's env block, then the WEFT_* contract variables.
func (s *System) buildEnv(build domain.ProjectBuild, artifactsDir string, manifestEnv map[string]string, extra *domain.ExtraConfig) ([]string, error) {
	envMap := make(map[string]string)
	for _, entry := range os.Environ() {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range manifestEnv {
		envMap[k] = v
	}

	envMap["WEFT_PROJECT"] = build.Name()
	envMap["WEFT_UUID"] = build.UUID
	envMap["WEFT_ARTIFACTS_DIR"] = artifactsDir
	envMap["WEFT_BUILD_TOOL_VERSION"] = extra.BuildToolVersion
	envMap["WEFT_OPTIONS"] = strings.Join(extra.Options, " ")
	envMap["WEFT_PROJECTS"] = strings.Join(extra.Projects, ",")

	depDirs := make([]string, len(build.Dependencies))
	for i, dep := range build.Dependencies {
		depDir, err := s.workspace.ScopedDir("artifacts", build.DependencyUUIDs[i])
		if err != nil {
			return nil, err
		}
		depDirs[i] = depDir
		envMap["WEFT_DEP_DIR_"+envKey(dep)] = depDir
	}
	envMap["WEFT_DEP_DIRS"] = strings.Join(depDirs, string(os.PathListSeparator))

	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	env := make([]string, len(keys))
	for i, k := range keys {
		env[i] = k + "=" + envMap[k]
	}
	return env, nil
}

// envKey turns a project name into an environment variable suffix.
func envKey(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

// satisfiedFromArtifacts reports whether a previous run already produced
// this exact build: the marker records the identity and all expected
// entries are still present.
func satisfiedFromArtifacts(artifactsDir, uuid string, expected []string) bool {
	data, err := os.ReadFile(filepath.Join(artifactsDir, buildInfoFile)) //nolint:gosec // path is workspace-scoped
	if err != nil {
		return false
	}
	var info struct {
		UUID string `yaml:"uuid"`
	}
	if err := yaml.Unmarshal(data, &info); err != nil || info.UUID != uuid {
		return false
	}
	return len(missingArtifacts(artifactsDir, expected)) == 0
}

func missingArtifacts(artifactsDir string, expected []string) []string {
	var missing []string
	for _, name := range expected {
		if _, err := os.Stat(filepath.Join(artifactsDir, name)); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, name)
		}
	}
	return missing
}

func writeBuildInfo(artifactsDir, uuid string, expected []string) error {
	info := struct {
		UUID      string   `yaml:"uuid"`
		Artifacts []string `yaml:"artifacts"`
	}{UUID: uuid, Artifacts: expected}

	data, err := yaml.Marshal(info)
	if err != nil {
		return zerr.Wrap(err, "failed to encode build info")
	}
	path := filepath.Join(artifactsDir, buildInfoFile)
	//nolint:gosec // path is workspace-scoped
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write build info")
	}
	return nil
}

