package algo

import (
	"sort"

	"github.com/huangsam/analyzer/schema"
)

// RankDatasets sorts datasets in place and assigns dense ranks 1..N.
// Scored datasets come first by value descending; ties are broken by
// specimen name in ascending byte order, then by prior position.
func RankDatasets(datasets []*schema.Dataset) {
	sort.SliceStable(datasets, func(i, j int) bool {
		a, b := datasets[i], datasets[j]
		if a.Scored != b.Scored {
			return a.Scored
		}
		if a.Scored && a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Name() < b.Name()
	})
	for i, d := range datasets {
		d.Rank = i + 1
	}
}

// TopN returns at most limit datasets from an already ranked slice.
// A limit of zero or less returns everything.
func TopN(datasets []*schema.Dataset, limit int) []*schema.Dataset {
	if limit > 0 && len(datasets) > limit {
		return datasets[:limit]
	}
	return datasets
}
