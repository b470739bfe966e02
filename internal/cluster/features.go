package cluster

import (
	"math"

	"dividend-recovery-lab/internal/pattern"
	"dividend-recovery-lab/internal/stats"
)

// clusterFeatureCandidates is the fixed clustering feature set, intersected
// with the columns actually observed in the dataset.
var clusterFeatureCandidates = []string{
	"trend_pre",
	"vol_pre",
	"rsi_d1",
	"stoch_k_d1",
	"gap_pct",
	"volume_mean_pre",
}

const minClusterFeatures = 3

// prepareFeatures builds the scaled feature matrix: available candidate
// columns, median-imputed and robust-scaled ((x - median) / IQR, unit scale
// when the IQR collapses).
func prepareFeatures(ds *pattern.Dataset) ([][]float64, []string, error) {
	var names []string
	var columns [][]float64
	for _, name := range clusterFeatureCandidates {
		col := ds.Column(name)
		if len(stats.Finite(col)) == 0 {
			continue
		}
		names = append(names, name)
		columns = append(columns, col)
	}
	if len(names) < minClusterFeatures {
		return nil, nil, ErrInsufficientFeatures
	}

	for _, col := range columns {
		observed := stats.Finite(col)
		median := stats.Median(observed)
		iqr := stats.IQR(observed)
		if iqr == 0 {
			iqr = 1
		}
		for i, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = median
			}
			col[i] = (v - median) / iqr
		}
	}

	points := make([][]float64, ds.Len())
	for i := range points {
		points[i] = make([]float64, len(columns))
		for j := range columns {
			points[i][j] = columns[j][i]
		}
	}
	return points, names, nil
}
