package hasher

import (
	"sort"

	"oshash/internal/oshash"
)

type dupeKey struct {
	fp   oshash.Fingerprint
	size int64
}

// Duplicates groups successful results that share a fingerprint and size.
// Only groups with at least two members are returned, ordered by
// fingerprint and then by path.
func Duplicates(results []Result) [][]Result {
	groups := make(map[dupeKey][]Result)
	for _, r := range results {
		if !r.OK() {
			continue
		}
		k := dupeKey{fp: r.Fingerprint, size: r.Size}
		groups[k] = append(groups[k], r)
	}

	var out [][]Result
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].Path < members[j].Path })
		out = append(out, members)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0].Fingerprint != out[j][0].Fingerprint {
			return out[i][0].Fingerprint < out[j][0].Fingerprint
		}
		return out[i][0].Path < out[j][0].Path
	})
	return out
}
