package cluster

import (
	"math"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/stats"
)

// silhouetteScore averages the per-point silhouette (b-a)/max(a,b), where a
// is the mean distance to the point's own cluster and b the lowest mean
// distance to any other cluster. Noise points are ignored. Returns NaN with
// fewer than 2 clusters or fewer than 3 scored points.
func silhouetteScore(points [][]float64, labels []int) float64 {
	idxByCluster := groupByCluster(labels)
	if len(idxByCluster) < 2 {
		return math.NaN()
	}

	var sum float64
	var scored int
	for i, label := range labels {
		if label == domain.NoiseClusterID {
			continue
		}
		own := idxByCluster[label]
		if len(own) < 2 {
			// singleton clusters score 0 by convention
			scored++
			continue
		}

		a := meanDistance(points, i, own)
		b := math.Inf(1)
		for other, members := range idxByCluster {
			if other == label {
				continue
			}
			if d := meanDistance(points, i, members); d < b {
				b = d
			}
		}

		max := a
		if b > max {
			max = b
		}
		if max > 0 {
			sum += (b - a) / max
		}
		scored++
	}
	if scored < 3 {
		return math.NaN()
	}
	return sum / float64(scored)
}

// calinskiHarabasz computes the between/within variance ratio
// (B/(k-1)) / (W/(n-k)) over non-noise points. NaN when undefined.
func calinskiHarabasz(points [][]float64, labels []int) float64 {
	idxByCluster := groupByCluster(labels)
	k := len(idxByCluster)
	if k < 2 {
		return math.NaN()
	}

	var members []int
	for _, idx := range idxByCluster {
		members = append(members, idx...)
	}
	n := len(members)
	if n <= k {
		return math.NaN()
	}

	dim := len(points[0])
	overall := make([]float64, dim)
	for _, i := range members {
		for j, v := range points[i] {
			overall[j] += v
		}
	}
	for j := range overall {
		overall[j] /= float64(n)
	}

	var between, within float64
	for _, idx := range idxByCluster {
		centroid := meanPoint(points, idx)
		d := stats.Euclidean(centroid, overall)
		between += float64(len(idx)) * d * d
		for _, i := range idx {
			dd := stats.Euclidean(points[i], centroid)
			within += dd * dd
		}
	}
	if within == 0 {
		return math.NaN()
	}
	return (between / float64(k-1)) / (within / float64(n-k))
}

// groupByCluster maps cluster ID to member indices, dropping noise.
func groupByCluster(labels []int) map[int][]int {
	out := make(map[int][]int)
	for i, label := range labels {
		if label == domain.NoiseClusterID {
			continue
		}
		out[label] = append(out[label], i)
	}
	return out
}

func meanDistance(points [][]float64, i int, members []int) float64 {
	var sum float64
	count := 0
	for _, j := range members {
		if j == i {
			continue
		}
		sum += stats.Euclidean(points[i], points[j])
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func meanPoint(points [][]float64, members []int) []float64 {
	dim := len(points[0])
	out := make([]float64, dim)
	for _, i := range members {
		for j, v := range points[i] {
			out[j] += v
		}
	}
	for j := range out {
		out[j] /= float64(len(members))
	}
	return out
}
