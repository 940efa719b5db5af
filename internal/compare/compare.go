// Package compare finds the differences between two digest reports.
package compare

import "github.com/IvanShishkin/fdigest/pkg/models"

// Change is a file present in both reports whose content differs
type Change struct {
	Old models.DigestRecord
	New models.DigestRecord
}

// Result lists what changed from the old report to the new one.
// Added and Modified follow the order of the new report, Removed the order of the old one.
type Result struct {
	Added     []models.DigestRecord
	Removed   []models.DigestRecord
	Modified  []Change
	Unchanged int
}

// HasDifferences reports whether the two reports describe different trees
func (r *Result) HasDifferences() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0 || len(r.Modified) > 0
}

// Diff matches records by file path. A record is modified when its digest or
// size changed; timestamps alone do not count. Within each report only the
// first record of a path is considered.
func Diff(older, newer []models.DigestRecord) *Result {
	result := &Result{}

	oldByPath := make(map[string]int, len(older))
	for i, r := range older {
		if _, dup := oldByPath[r.Path]; !dup {
			oldByPath[r.Path] = i
		}
	}

	matched := make(map[int]bool, len(older))
	seen := make(map[string]bool, len(newer))
	for _, n := range newer {
		// A path listed twice counts once, by its first row
		if seen[n.Path] {
			continue
		}
		seen[n.Path] = true

		i, ok := oldByPath[n.Path]
		if !ok {
			result.Added = append(result.Added, n)
			continue
		}
		matched[i] = true

		o := older[i]
		if o.Digest != n.Digest || o.Size != n.Size {
			result.Modified = append(result.Modified, Change{Old: o, New: n})
		} else {
			result.Unchanged++
		}
	}

	for i, o := range older {
		if !matched[i] && oldByPath[o.Path] == i {
			result.Removed = append(result.Removed, o)
		}
	}

	return result
}
