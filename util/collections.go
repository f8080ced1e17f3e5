package util

import (
	"cmp"
	"slices"
)

// RemoveDuplicates returns a new slice with duplicates removed.
// Note: This function sorts the result, so original order is not preserved.
func RemoveDuplicates[S ~[]E, E cmp.Ordered](list S) S {
	result := slices.Clone(list)
	slices.Sort(result)

	return slices.Compact(result)
}
