package stats

import (
	"sort"

	"github.com/verte-zerg/freqprofile/internal/model"
)

// TopLabels returns the n most frequently chosen labels.
func TopLabels(aggs []model.LabelAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.LabelAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count == sorted[j].Count {
			return sorted[i].Label < sorted[j].Label
		}
		return sorted[i].Count > sorted[j].Count
	})
	return labelNames(sorted, n)
}

// FavoriteLabels returns the n labels attached to the best-liked
// frequencies on average.
func FavoriteLabels(aggs []model.LabelAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.LabelAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ai, aj := AverageLike(sorted[i]), AverageLike(sorted[j])
		if ai == aj {
			return sorted[i].Label < sorted[j].Label
		}
		return ai > aj
	})
	return labelNames(sorted, n)
}

// AverageLike is the mean like rating behind a label.
func AverageLike(agg model.LabelAggregate) float64 {
	if agg.Count == 0 {
		return 0
	}
	return agg.LikeSum / float64(agg.Count)
}

func labelNames(aggs []model.LabelAggregate, n int) []string {
	n = min(n, len(aggs))
	out := make([]string, n)
	for i := range out {
		out[i] = aggs[i].Label
	}
	return out
}
