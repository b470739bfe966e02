// Package cluster groups analyzed dividend events by pre/post-dividend
// behavior and scores the grouping quality.
package cluster

import (
	"math"
	"math/rand"

	"dividend-recovery-lab/internal/stats"
)

// Fixed seeding keeps clustering reproducible across runs; restart r uses
// kmeansSeed+r and the best inertia wins.
const (
	kmeansSeed     = 42
	kmeansRestarts = 10
	kmeansMaxIter  = 300
)

type kmeansResult struct {
	labels    []int
	centroids [][]float64
	inertia   float64
}

// fitKMeans runs seeded multi-restart KMeans and returns the lowest-inertia
// fit. points must be non-empty with uniform dimension; k in [1, len(points)].
func fitKMeans(points [][]float64, k int) kmeansResult {
	best := kmeansResult{inertia: math.Inf(1)}
	for r := 0; r < kmeansRestarts; r++ {
		res := runKMeans(points, k, kmeansSeed+int64(r))
		if res.inertia < best.inertia {
			best = res
		}
	}
	return best
}

// runKMeans is one Lloyd iteration sequence from a kmeans++ style seeding.
func runKMeans(points [][]float64, k int, seed int64) kmeansResult {
	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(points, k, rng)
	labels := make([]int, len(points))

	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, p := range points {
			c := nearestCentroid(p, centroids)
			if labels[i] != c {
				labels[i] = c
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}
		recomputeCentroids(points, labels, centroids, rng)
	}

	inertia := 0.0
	for i, p := range points {
		d := stats.Euclidean(p, centroids[labels[i]])
		inertia += d * d
	}
	return kmeansResult{labels: labels, centroids: centroids, inertia: inertia}
}

// seedCentroids picks k initial centroids: the first uniformly, the rest
// weighted by squared distance to the nearest chosen centroid.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))

	dist2 := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := stats.Euclidean(p, centroids[0])
			min := d * d
			for _, c := range centroids[1:] {
				d = stats.Euclidean(p, c)
				if d*d < min {
					min = d * d
				}
			}
			dist2[i] = min
			total += min
		}
		if total == 0 {
			// all remaining points coincide with a centroid
			centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))
			continue
		}
		target := rng.Float64() * total
		acc := 0.0
		chosen := len(points) - 1
		for i, d := range dist2 {
			acc += d
			if acc >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, clonePoint(points[chosen]))
	}
	return centroids
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := stats.Euclidean(p, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := stats.Euclidean(p, centroids[c]); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// recomputeCentroids moves each centroid to its members' mean. An empty
// cluster is reseeded on a random point to keep k stable.
func recomputeCentroids(points [][]float64, labels []int, centroids [][]float64, rng *rand.Rand) {
	dim := len(points[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := labels[i]
		counts[c]++
		for j, v := range p {
			sums[c][j] += v
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			centroids[c] = clonePoint(points[rng.Intn(len(points))])
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
