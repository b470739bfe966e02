package pattern

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/stats"
)

// ErrUnknownCorrelationMethod is returned for methods outside
// pearson/spearman/kendall.
var ErrUnknownCorrelationMethod = errors.New("unknown correlation method")

func correlationFunc(method string) (func(x, y []float64) float64, error) {
	switch method {
	case "pearson":
		return stats.Pearson, nil
	case "spearman":
		return stats.Spearman, nil
	case "kendall":
		return stats.KendallTau, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCorrelationMethod, method)
	}
}

// FindCorrelations computes the pre-feature x post-metric correlation block
// over pairwise-complete observations, keeps |r| >= minCorrelation, and sorts
// descending by |r| (ties by pre-feature, then post-metric name).
//
// A column is usable when it has at least 2 observations; fewer than 2 usable
// pre- or post-columns yield an empty result.
func FindCorrelations(ds *Dataset, minCorrelation float64, method string) ([]domain.CorrelationResult, error) {
	corr, err := correlationFunc(method)
	if err != nil {
		return nil, err
	}

	pre := usableColumns(ds, ds.PreFeatureNames())
	post := usableColumns(ds, ds.PostMetricNames())
	if len(pre) < 2 || len(post) < 2 {
		return nil, nil
	}

	var results []domain.CorrelationResult
	for _, p := range pre {
		pCol := ds.Column(p)
		for _, q := range post {
			qCol := ds.Column(q)

			x := make([]float64, 0, len(pCol))
			y := make([]float64, 0, len(qCol))
			for i := range pCol {
				if math.IsNaN(pCol[i]) || math.IsNaN(qCol[i]) {
					continue
				}
				x = append(x, pCol[i])
				y = append(y, qCol[i])
			}
			if len(x) < 2 {
				continue
			}

			r := corr(x, y)
			if math.IsNaN(r) || math.Abs(r) < minCorrelation {
				continue
			}
			results = append(results, domain.CorrelationResult{
				PreFeature:  p,
				PostMetric:  q,
				Correlation: r,
				SampleSize:  len(x),
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		ai := math.Abs(results[i].Correlation)
		aj := math.Abs(results[j].Correlation)
		if ai != aj {
			return ai > aj
		}
		if results[i].PreFeature != results[j].PreFeature {
			return results[i].PreFeature < results[j].PreFeature
		}
		return results[i].PostMetric < results[j].PostMetric
	})
	return results, nil
}

func usableColumns(ds *Dataset, names []string) []string {
	var out []string
	for _, name := range names {
		observed := 0
		for _, v := range ds.Column(name) {
			if !math.IsNaN(v) {
				observed++
			}
		}
		if observed >= 2 {
			out = append(out, name)
		}
	}
	return out
}
