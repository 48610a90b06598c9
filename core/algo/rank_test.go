package algo

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/huangsam/analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataset(name string, value float64, scored bool) *schema.Dataset {
	return &schema.Dataset{Specimen: schema.NewSpecimen(name), Value: value, Scored: scored}
}

func names(datasets []*schema.Dataset) []string {
	out := make([]string, len(datasets))
	for i, d := range datasets {
		out[i] = d.Name()
	}
	return out
}

func TestRankDatasets_Order(t *testing.T) {
	datasets := []*schema.Dataset{
		dataset("b", 0.5, true),
		dataset("z", 0, false),
		dataset("a", 0.5, true),
		dataset("c", 0.9, true),
		dataset("B", 0.5, true),
		dataset("m", 0, false),
	}
	RankDatasets(datasets)

	assert.Equal(t, []string{"c", "B", "a", "b", "m", "z"}, names(datasets))
	for i, d := range datasets {
		assert.Equal(t, i+1, d.Rank)
	}
}

func TestRankDatasets_Empty(t *testing.T) {
	var datasets []*schema.Dataset
	RankDatasets(datasets)
	assert.Empty(t, datasets)
}

func TestRankDatasets_DensePermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 40; n++ {
		datasets := make([]*schema.Dataset, n)
		for i := range datasets {
			datasets[i] = dataset(fmt.Sprintf("s%d", rng.Intn(5)), float64(rng.Intn(4))/4, rng.Intn(6) > 0)
		}
		RankDatasets(datasets)

		seen := make(map[int]bool, n)
		for _, d := range datasets {
			require.False(t, seen[d.Rank], "duplicate rank %d", d.Rank)
			seen[d.Rank] = true
			assert.GreaterOrEqual(t, d.Rank, 1)
			assert.LessOrEqual(t, d.Rank, n)
		}
		for i := 1; i < len(datasets); i++ {
			prev, cur := datasets[i-1], datasets[i]
			if prev.Scored == cur.Scored && prev.Value == cur.Value {
				assert.LessOrEqual(t, prev.Name(), cur.Name())
			}
		}
	}
}

func TestTopN(t *testing.T) {
	datasets := []*schema.Dataset{dataset("a", 1, true), dataset("b", 0, true), dataset("c", 0, true)}
	assert.Len(t, TopN(datasets, 2), 2)
	assert.Len(t, TopN(datasets, 0), 3)
	assert.Len(t, TopN(datasets, 10), 3)
}
