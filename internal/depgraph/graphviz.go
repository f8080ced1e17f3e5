package depgraph

import (
	"fmt"
	"io"

	"github.com/gruntwork-io/terradeps/internal/errors"
)

// WriteDot emits the dependency map as a GraphViz compatible definition for a
// directed graph. It can be used to dump a .dot file. Edges point from a
// dependency to its dependents, the direction a change propagates, and both
// nodes and edges are sorted so the output is deterministic.
func WriteDot(w io.Writer, deps DependencyMap) error {
	if _, err := fmt.Fprint(w, "digraph {\n"); err != nil {
		return errors.WithStackTrace(err)
	}

	for _, dependency := range deps.Dependencies() {
		if _, err := fmt.Fprintf(w, "\t%q;\n", dependency); err != nil {
			return errors.WithStackTrace(err)
		}

		for _, dependent := range deps[dependency].Sorted() {
			if _, err := fmt.Fprintf(w, "\t%q -> %q;\n", dependency, dependent); err != nil {
				return errors.WithStackTrace(err)
			}
		}
	}

	if _, err := fmt.Fprint(w, "}\n"); err != nil {
		return errors.WithStackTrace(err)
	}

	return nil
}
