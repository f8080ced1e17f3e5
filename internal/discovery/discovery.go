// Package discovery finds the deployable roots under a search path.
//
// A directory counts as a root when one of its Terraform configuration files
// declares a backend or a Terraform Cloud block, the markers that state lives
// there. Everything else under the search path is treated as reusable module
// code that only enters the picture through the dependency graph.
package discovery

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/internal/tfsource"
	"github.com/gruntwork-io/terradeps/options"
	"github.com/gruntwork-io/terradeps/pkg/log"
	"github.com/gruntwork-io/terradeps/util"
	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"
)

// defaultClassifyWorkers bounds concurrent backend classification when the
// caller does not choose a worker count.
const defaultClassifyWorkers = 1

// ignoredDirs are tool-local working state, never deployable configuration.
var ignoredDirs = []string{
	".terraform",
	".terragrunt-cache",
}

// Root is one discovered deployable root.
type Root struct {
	// Path is the absolute path of the root directory.
	Path string

	// Identity is the path relative to the start directory, the name the
	// dependency map uses for it.
	Identity string
}

// RootList is the collection of discovered roots, sorted by path.
type RootList []Root

// Paths returns the absolute paths of the roots.
func (roots RootList) Paths() []string {
	paths := make([]string, 0, len(roots))

	for _, root := range roots {
		paths = append(paths, root.Path)
	}

	return paths
}

// Identities returns the identities of the roots.
func (roots RootList) Identities() []string {
	identities := make([]string, 0, len(roots))

	for _, root := range roots {
		identities = append(identities, root.Identity)
	}

	return identities
}

// Sort sorts the roots by path.
func (roots RootList) Sort() RootList {
	slices.SortFunc(roots, func(a, b Root) int {
		return strings.Compare(a.Path, b.Path)
	})

	return roots
}

// Discovery is the configuration for a root scan.
type Discovery struct {
	// searchPath is the directory tree to scan for deployable roots.
	searchPath string

	// excludeDirs are glob patterns, relative to the search path, of directories
	// to skip.
	excludeDirs []string

	// maxDepth bounds how many levels below the search path the walk descends.
	// Zero or negative means unbounded.
	maxDepth int

	// numWorkers is the number of concurrent classification workers.
	numWorkers int

	// hidden determines whether hidden directories are scanned.
	hidden bool
}

// NewDiscovery creates a new Discovery for the given search path.
func NewDiscovery(searchPath string) *Discovery {
	return &Discovery{
		searchPath: searchPath,
		numWorkers: defaultClassifyWorkers,
	}
}

// Discover walks the search path and returns every deployable root under it.
// The search path must exist; anything that goes wrong while classifying an
// individual directory is warn-logged and the scan continues.
func (d *Discovery) Discover(
	ctx context.Context,
	l log.Logger,
	opts *options.TerradepsOptions,
) (RootList, error) {
	searchPath, err := util.CanonicalPath(d.searchPath, opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	if !util.IsDir(searchPath) {
		return nil, NewInvalidInputPathError(d.searchPath)
	}

	excludeGlobs, err := compileExcludeGlobs(d.excludeDirs)
	if err != nil {
		return nil, err
	}

	candidates, err := d.collectCandidateDirs(ctx, l, searchPath, excludeGlobs)
	if err != nil {
		return nil, err
	}

	roots, err := d.classifyCandidates(ctx, l, opts, candidates)
	if err != nil {
		return nil, err
	}

	return roots.Sort(), nil
}

// collectCandidateDirs walks the tree and returns every directory that could be
// a root, pruning ignored, hidden, excluded, and too-deep subtrees.
func (d *Discovery) collectCandidateDirs(
	ctx context.Context,
	l log.Logger,
	searchPath string,
	excludeGlobs []glob.Glob,
) ([]string, error) {
	var candidates []string

	walkErr := filepath.WalkDir(searchPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			l.Warnf("Cannot read %s, skipping: %v", path, err)

			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		select {
		case <-ctx.Done():
			return errors.WithStackTrace(ctx.Err())
		default:
		}

		if !entry.IsDir() {
			return nil
		}

		if path == searchPath {
			candidates = append(candidates, path)
			return nil
		}

		if reason := d.skipDir(searchPath, path, excludeGlobs); reason != "" {
			l.Debugf("Skipping directory %s: %s", path, reason)
			return filepath.SkipDir
		}

		candidates = append(candidates, path)

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return candidates, nil
}

// skipDir returns a non-empty reason when the directory and everything under it
// should be pruned from the walk.
func (d *Discovery) skipDir(searchPath, path string, excludeGlobs []glob.Glob) string {
	base := filepath.Base(path)

	if slices.Contains(ignoredDirs, base) {
		return "tool working state"
	}

	if !d.hidden && strings.HasPrefix(base, ".") {
		return "hidden"
	}

	relPath, err := filepath.Rel(searchPath, path)
	if err != nil {
		return "outside the search path"
	}

	relPath = filepath.ToSlash(relPath)

	if d.maxDepth > 0 && strings.Count(relPath, "/")+1 > d.maxDepth {
		return "deeper than the depth limit"
	}

	for _, excludeGlob := range excludeGlobs {
		if excludeGlob.Match(relPath) {
			return "matches an exclude pattern"
		}
	}

	return ""
}

// classifyCandidates checks candidate directories for backend markers
// concurrently, since classification is file I/O bound.
func (d *Discovery) classifyCandidates(
	ctx context.Context,
	l log.Logger,
	opts *options.TerradepsOptions,
	candidates []string,
) (RootList, error) {
	var (
		roots RootList
		mu    sync.Mutex
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(d.numWorkers, 1))

	for _, candidate := range candidates {
		group.Go(func() error {
			select {
			case <-groupCtx.Done():
				return errors.WithStackTrace(groupCtx.Err())
			default:
			}

			hasBackend, err := tfsource.HasBackendConfig(candidate)
			if err != nil {
				l.Warnf("Cannot classify directory %s, skipping: %v", candidate, err)
				return nil
			}

			if !hasBackend {
				return nil
			}

			identity, err := util.GetPathRelativeTo(candidate, opts.WorkingDir)
			if err != nil {
				l.Warnf("Cannot determine the identity of root %s, skipping: %v", candidate, err)
				return nil
			}

			mu.Lock()
			roots = append(roots, Root{Path: candidate, Identity: identity})
			mu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return roots, nil
}

func compileExcludeGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		compiled, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		globs = append(globs, compiled)
	}

	return globs, nil
}
