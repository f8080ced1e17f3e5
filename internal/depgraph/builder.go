package depgraph

import (
	"context"
	"sync"

	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/internal/tfsource"
	"github.com/gruntwork-io/terradeps/internal/worker"
	"github.com/gruntwork-io/terradeps/pkg/log"
	"github.com/gruntwork-io/terradeps/util"
	"github.com/puzpuzpuz/xsync/v3"
)

// Builder builds the dependency map for a set of discovered roots by expanding
// each root's declared module sources and following local ones.
type Builder struct {
	logger      log.Logger
	startDir    string
	roots       []string
	parallelism int
}

// edge is one recorded relationship: dependent declares dependency as a module
// source. Both sides are identities relative to the start directory.
type edge struct {
	dependency string
	dependent  string
}

// NewBuilder creates a Builder whose identities are relative to startDir.
func NewBuilder(l log.Logger, startDir string) *Builder {
	return &Builder{
		logger:      l,
		startDir:    startDir,
		parallelism: 1,
	}
}

// WithRoots sets the root directories that seed the build. Paths may be absolute
// or relative to the start directory.
func (builder *Builder) WithRoots(roots ...string) *Builder {
	builder.roots = roots
	return builder
}

// WithParallelism sets how many directories may expand concurrently. Values
// below two select the sequential build.
func (builder *Builder) WithParallelism(parallelism int) *Builder {
	builder.parallelism = parallelism
	return builder
}

// Build expands every root and returns the completed dependency map. A missing
// root fails before any expansion. Unreadable or malformed files, unresolvable
// sources, and missing module directories do not stop the build: they are
// warn-logged, collected, and returned alongside the map.
func (builder *Builder) Build(ctx context.Context) (DependencyMap, error) {
	rootDirs := make([]string, 0, len(builder.roots))

	for _, root := range builder.roots {
		rootDir, err := util.CanonicalPath(root, builder.startDir)
		if err != nil {
			return nil, err
		}

		if !util.IsDir(rootDir) {
			return nil, NewMissingRootError(root)
		}

		rootDirs = append(rootDirs, rootDir)
	}

	rootDirs = util.RemoveDuplicates(rootDirs)

	if builder.parallelism > 1 {
		return builder.buildParallel(ctx, rootDirs)
	}

	return builder.buildSequential(ctx, rootDirs)
}

// buildSequential expands directories depth first off an explicit work stack.
// The stack rather than native recursion keeps memory flat on deep module
// chains, and the visited set guarantees every directory expands exactly once
// however many declarations point at it.
func (builder *Builder) buildSequential(ctx context.Context, rootDirs []string) (DependencyMap, error) {
	var (
		deps    = make(DependencyMap)
		visited = NewSet()
		stack   = append([]string(nil), rootDirs...)
		errs    *errors.MultiError
	)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStackTrace(err)
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited.Contains(dir) {
			continue
		}

		visited.Add(dir)

		edges, next, err := builder.expand(dir)
		if err != nil {
			errs = errs.Append(err)
		}

		for _, edge := range edges {
			deps.AddDependent(edge.dependency, edge.dependent)
		}

		stack = append(stack, next...)
	}

	return deps, errs.ErrorOrNil()
}

// buildParallel expands distinct directories concurrently. The atomic
// load-or-store on the visited map settles which task expands a directory, so
// the exactly-once invariant holds without locking whole subtrees, and the map
// itself is the only shared structure behind a mutex. Results are identical to
// the sequential build.
func (builder *Builder) buildParallel(ctx context.Context, rootDirs []string) (DependencyMap, error) {
	var (
		deps    = make(DependencyMap)
		depsMu  sync.Mutex
		visited = xsync.NewMapOf[string, struct{}]()
		pool    = worker.NewWorkerPool(builder.parallelism)
	)

	// Every task submits its children before returning, which is what lets the
	// pool's Wait observe the whole expansion tree.
	var expandDir func(dir string)

	expandDir = func(dir string) {
		pool.Submit(func() error {
			if err := ctx.Err(); err != nil {
				return errors.WithStackTrace(err)
			}

			if _, loaded := visited.LoadOrStore(dir, struct{}{}); loaded {
				return nil
			}

			edges, next, err := builder.expand(dir)

			depsMu.Lock()

			for _, edge := range edges {
				deps.AddDependent(edge.dependency, edge.dependent)
			}

			depsMu.Unlock()

			for _, nextDir := range next {
				expandDir(nextDir)
			}

			return err
		})
	}

	for _, rootDir := range rootDirs {
		expandDir(rootDir)
	}

	// Wait, not GracefulStop: a stopping pool drops submissions, and tasks
	// keep submitting children until the whole tree is expanded.
	return deps, pool.Wait()
}

// expand extracts the module sources declared in dir and resolves each local
// one into a reversed edge plus the next directory to expand. dir is always an
// absolute path; resolution happens against it, never the process working
// directory.
func (builder *Builder) expand(dir string) ([]edge, []string, error) {
	if !util.IsDir(dir) {
		builder.logger.Warnf("Module directory %s does not exist, nothing to expand", dir)

		return nil, nil, NewMissingModuleDirectoryError(dir)
	}

	var errs []error

	sources, err := tfsource.ExtractSources(builder.logger, dir)
	if err != nil {
		errs = append(errs, err)
	}

	dependent, err := util.GetPathRelativeTo(dir, builder.startDir)
	if err != nil {
		errs = append(errs, err)

		return nil, nil, errors.Join(errs...)
	}

	var (
		edges []edge
		next  []string
	)

	for _, source := range sources {
		if !tfsource.IsLocalSource(source) {
			builder.logger.Tracef("Skipping non-local module source %q declared in %s", source, dir)
			continue
		}

		moduleDir, err := util.CanonicalPath(source, dir)
		if err != nil {
			builder.logger.Warnf("Cannot resolve module source %q declared in %s: %v", source, dir, err)
			errs = append(errs, NewUnresolvableSourceError(dir, source, err))

			continue
		}

		dependency, err := util.ResolveModuleSource(dir, source, builder.startDir)
		if err != nil {
			builder.logger.Warnf("Cannot resolve module source %q declared in %s: %v", source, dir, err)
			errs = append(errs, NewUnresolvableSourceError(dir, source, err))

			continue
		}

		builder.logger.Debugf("%s depends on %s", dependent, dependency)

		edges = append(edges, edge{dependency: dependency, dependent: dependent})
		next = append(next, moduleDir)
	}

	return edges, next, errors.Join(errs...)
}
