// Package depgraph builds the reversed module dependency map for a tree of
// Terraform roots and answers reachability queries against it.
//
// The map is keyed by dependency: for every module it holds the set of modules
// and roots whose configuration declares it as a module source. "What is
// affected by a change to X" is then a direct lookup plus a transitive
// closure, no forward graph needed.
//
// Identities are directory paths relative to a single fixed start directory,
// normalized to forward slashes, so the two sides of an edge live in one
// namespace and a root can itself appear as a dependency.
package depgraph

import (
	"sort"
)

// Set is an unordered collection of module identities.
type Set map[string]struct{}

// NewSet creates a Set holding the given identities.
func NewSet(identities ...string) Set {
	set := make(Set, len(identities))

	for _, identity := range identities {
		set.Add(identity)
	}

	return set
}

// Add inserts the identity into the set.
func (set Set) Add(identity string) {
	set[identity] = struct{}{}
}

// Contains returns true if the identity is in the set.
func (set Set) Contains(identity string) bool {
	_, ok := set[identity]
	return ok
}

// Sorted returns the identities in lexicographical order.
func (set Set) Sorted() []string {
	identities := make([]string, 0, len(set))

	for identity := range set {
		identities = append(identities, identity)
	}

	sort.Strings(identities)

	return identities
}

// DependencyMap maps every known dependency to the set of modules and roots
// that directly declare it as a module source. It is mutated only while the
// builder runs and is read-only afterwards.
type DependencyMap map[string]Set

// AddDependent records that dependent declares dependency as a module source.
func (deps DependencyMap) AddDependent(dependency, dependent string) {
	set, ok := deps[dependency]
	if !ok {
		set = NewSet()
		deps[dependency] = set
	}

	set.Add(dependent)
}

// Dependents returns the direct dependents of the given identity. An identity
// nobody depends on yields an empty set.
func (deps DependencyMap) Dependents(dependency string) Set {
	if set, ok := deps[dependency]; ok {
		return set
	}

	return NewSet()
}

// Dependencies returns every dependency in the map in lexicographical order.
func (deps DependencyMap) Dependencies() []string {
	dependencies := make([]string, 0, len(deps))

	for dependency := range deps {
		dependencies = append(dependencies, dependency)
	}

	sort.Strings(dependencies)

	return dependencies
}

// Sorted returns the map with every dependent set expanded to a sorted slice,
// the shape reports and JSON output use.
func (deps DependencyMap) Sorted() map[string][]string {
	sorted := make(map[string][]string, len(deps))

	for dependency, dependents := range deps {
		sorted[dependency] = dependents.Sorted()
	}

	return sorted
}

// AffectedBy returns every module and root that directly or transitively
// depends on subject, breadth first. A subject nobody depends on yields an
// empty set. The subject itself appears in the result only when a dependency
// cycle makes it reachable from its own dependents, in which case it genuinely
// is affected by a change to itself.
func (deps DependencyMap) AffectedBy(subject string) Set {
	affected := NewSet()

	queue := deps.Dependents(subject).Sorted()

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if affected.Contains(current) {
			continue
		}

		affected.Add(current)

		for dependent := range deps[current] {
			if !affected.Contains(dependent) {
				queue = append(queue, dependent)
			}
		}
	}

	return affected
}
