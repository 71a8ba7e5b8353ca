package gpu

import (
	"slices"
	"strings"
)

// SortedNames returns a sorted copy of names with duplicates removed.
func SortedNames(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	return slices.Compact(out)
}

// Intersect returns the names present in both lists, sorted and without
// duplicates. Neither input needs to be sorted.
func Intersect(wanted, installed []string) []string {
	a := SortedNames(wanted)
	b := SortedNames(installed)

	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := strings.Compare(a[i], b[j]); {
		case c == 0:
			out = append(out, a[i])
			i++
			j++
		case c < 0:
			i++
		default:
			j++
		}
	}
	return out
}

// Missing returns the wanted names absent from installed, sorted.
func Missing(wanted, installed []string) []string {
	have := SortedNames(installed)

	var out []string
	for _, name := range SortedNames(wanted) {
		if _, found := slices.BinarySearch(have, name); !found {
			out = append(out, name)
		}
	}
	return out
}
