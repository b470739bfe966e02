package cluster

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/pattern"
	"dividend-recovery-lab/internal/stats"
)

// Errors returned by AnalyzeDividendClusters.
var (
	ErrInsufficientSamples  = errors.New("too few samples for clustering")
	ErrInsufficientFeatures = errors.New("too few feature columns for clustering")
	ErrUnknownClusterMethod = errors.New("unknown clustering method")
)

const (
	minClusterSamples = 5
	maxAutoK          = 8

	defaultDBSCANEps        = 0.5
	defaultDBSCANMinSamples = 5
)

// Options selects and parameterizes the clustering run.
type Options struct {
	Method      domain.ClusterMethod
	NumClusters int     // KMeans; 0 selects k by silhouette sweep
	Eps         float64 // DBSCAN radius; 0 uses the default
	MinSamples  int     // DBSCAN density; 0 uses the default
	Logger      *log.Logger
}

// AnalyzeDividendClusters clusters the analysis dataset over the fixed
// feature set and aggregates recovery behavior per cluster.
func AnalyzeDividendClusters(ds *pattern.Dataset, opts Options) (*domain.ClusteringResult, error) {
	if ds.Len() < minClusterSamples {
		return nil, fmt.Errorf("%w: %d samples, need %d", ErrInsufficientSamples, ds.Len(), minClusterSamples)
	}

	points, names, err := prepareFeatures(ds)
	if err != nil {
		return nil, err
	}

	var labels []int
	switch opts.Method {
	case domain.ClusterKMeans, "":
		k := opts.NumClusters
		if k <= 0 {
			k = findOptimalK(points, opts.Logger)
		}
		labels = fitKMeans(points, k).labels
	case domain.ClusterDBSCAN:
		eps := opts.Eps
		if eps <= 0 {
			eps = defaultDBSCANEps
		}
		minSamples := opts.MinSamples
		if minSamples <= 0 {
			minSamples = defaultDBSCANMinSamples
		}
		labels = runDBSCAN(points, eps, minSamples)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownClusterMethod, opts.Method)
	}

	return buildResult(ds, points, names, labels, opts.Method), nil
}

// findOptimalK sweeps k in [2, min(8, n-1)] and keeps the best silhouette.
// Falls back to k=2 when no sweep produces a valid score.
func findOptimalK(points [][]float64, logger *log.Logger) int {
	maxK := maxAutoK
	if n := len(points) - 1; n < maxK {
		maxK = n
	}

	bestK := 2
	bestScore := math.Inf(-1)
	found := false
	for k := 2; k <= maxK; k++ {
		res := fitKMeans(points, k)
		if distinctClusters(res.labels) < 2 {
			continue
		}
		score := silhouetteScore(points, res.labels)
		if math.IsNaN(score) {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestK = k
			found = true
		}
	}
	if logger != nil {
		if found {
			logger.Printf("kmeans model selection: k=%d silhouette=%.4f", bestK, bestScore)
		} else {
			logger.Printf("kmeans model selection inconclusive, defaulting to k=2")
		}
	}
	return bestK
}

func distinctClusters(labels []int) int {
	return len(groupByCluster(labels))
}

func buildResult(ds *pattern.Dataset, points [][]float64, names []string, labels []int, method domain.ClusterMethod) *domain.ClusteringResult {
	if method == "" {
		method = domain.ClusterKMeans
	}
	idxByCluster := groupByCluster(labels)

	ids := make([]int, 0, len(idxByCluster))
	for id := range idxByCluster {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	result := &domain.ClusteringResult{
		Method:           method,
		NumClusters:      len(ids),
		Labels:           labels,
		Silhouette:       silhouetteScore(points, labels),
		CalinskiHarabasz: calinskiHarabasz(points, labels),
		FeatureNames:     names,
		BestClusterID:    domain.NoiseClusterID,
		WorstClusterID:   domain.NoiseClusterID,
	}

	for _, id := range ids {
		result.Clusters = append(result.Clusters, clusterStats(ds, points, id, idxByCluster[id]))
	}
	result.FeatureImportance = featureImportance(points, names, idxByCluster)

	bestMean := math.Inf(-1)
	worstMean := math.Inf(1)
	for _, cs := range result.Clusters {
		if math.IsNaN(cs.AvgRecoveryD10Pct) {
			continue
		}
		if cs.AvgRecoveryD10Pct > bestMean {
			bestMean = cs.AvgRecoveryD10Pct
			result.BestClusterID = cs.ClusterID
		}
		if cs.AvgRecoveryD10Pct < worstMean {
			worstMean = cs.AvgRecoveryD10Pct
			result.WorstClusterID = cs.ClusterID
		}
	}
	return result
}

// clusterStats aggregates one cluster. The D+30 columns fall back to the
// D+15 checkpoint when the dataset carries no 30-day recovery column.
func clusterStats(ds *pattern.Dataset, points [][]float64, id int, members []int) domain.ClusterStats {
	gap := ds.Column("gap_pct")
	d5 := ds.Column("recovery_d5_pct")
	d10 := ds.Column("recovery_d10_pct")
	d15 := ds.Column("recovery_d15_pct")
	d30 := ds.Column("recovery_d30_pct")
	if len(stats.Finite(d30)) == 0 {
		d30 = d15
	}

	cs := domain.ClusterStats{
		ClusterID:  id,
		NumSamples: len(members),

		AvgGapPct:         memberMean(gap, members),
		AvgRecoveryD5Pct:  memberMean(d5, members),
		AvgRecoveryD10Pct: memberMean(d10, members),
		AvgRecoveryD15Pct: memberMean(d15, members),
		AvgRecoveryD30Pct: memberMean(d30, members),

		AvgTrendPre: memberMean(ds.Column("trend_pre"), members),
		AvgVolPre:   memberMean(ds.Column("vol_pre"), members),
		AvgRSID1:    memberMean(ds.Column("rsi_d1"), members),
		AvgStochKD1: memberMean(ds.Column("stoch_k_d1"), members),
	}

	cs.PctPositiveD5 = memberShare(members, func(i int) bool { return d5[i] > 0 })
	cs.PctPositiveD10 = memberShare(members, func(i int) bool { return d10[i] > 0 })
	cs.PctPositiveD15 = memberShare(members, func(i int) bool { return d15[i] > 0 })
	cs.PctGapHalfByD10 = memberShare(members, func(i int) bool {
		return !math.IsNaN(d10[i]) && d10[i] >= 0.5*math.Abs(gap[i])
	})
	cs.PctGapFullByD30 = memberShare(members, func(i int) bool {
		return !math.IsNaN(d30[i]) && d30[i] >= math.Abs(gap[i])
	})

	centroid := meanPoint(points, members)
	var distSum float64
	for _, i := range members {
		distSum += stats.Euclidean(points[i], centroid)
	}
	cs.Cohesion = distSum / float64(len(members))

	return cs
}

func memberMean(col []float64, members []int) float64 {
	vals := make([]float64, 0, len(members))
	for _, i := range members {
		if !math.IsNaN(col[i]) {
			vals = append(vals, col[i])
		}
	}
	return stats.Mean(vals) // NaN when nothing observed
}

// memberShare is the fraction of members satisfying pred, in percent.
func memberShare(members []int, pred func(i int) bool) float64 {
	count := 0
	for _, i := range members {
		if pred(i) {
			count++
		}
	}
	return float64(count) / float64(len(members)) * 100
}

// featureImportance scores each scaled feature by its one-way ANOVA F across
// clusters, normalized by the largest F observed.
func featureImportance(points [][]float64, names []string, idxByCluster map[int][]int) map[string]float64 {
	fvalues := make(map[string]float64, len(names))
	maxF := 0.0
	for j, name := range names {
		groups := make([][]float64, 0, len(idxByCluster))
		for _, members := range idxByCluster {
			g := make([]float64, 0, len(members))
			for _, i := range members {
				g = append(g, points[i][j])
			}
			groups = append(groups, g)
		}
		f := stats.FOneWay(groups)
		if math.IsNaN(f) {
			f = 0
		}
		fvalues[name] = f
		if f > maxF {
			maxF = f
		}
	}
	if maxF > 0 {
		for name := range fvalues {
			fvalues[name] /= maxF
		}
	}
	return fvalues
}
