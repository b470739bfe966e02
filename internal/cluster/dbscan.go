package cluster

import (
	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/stats"
)

const dbscanUnvisited = -2

// runDBSCAN labels points by density: core points (>= minSamples neighbors
// within eps, self included) grow clusters, unreachable points become noise
// (domain.NoiseClusterID).
func runDBSCAN(points [][]float64, eps float64, minSamples int) []int {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = dbscanUnvisited
	}

	cluster := 0
	for i := range points {
		if labels[i] != dbscanUnvisited {
			continue
		}
		neighbors := regionQuery(points, i, eps)
		if len(neighbors) < minSamples {
			labels[i] = domain.NoiseClusterID
			continue
		}

		labels[i] = cluster
		queue := append([]int(nil), neighbors...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if labels[j] == domain.NoiseClusterID {
				labels[j] = cluster // border point
			}
			if labels[j] != dbscanUnvisited {
				continue
			}
			labels[j] = cluster
			jNeighbors := regionQuery(points, j, eps)
			if len(jNeighbors) >= minSamples {
				queue = append(queue, jNeighbors...)
			}
		}
		cluster++
	}
	return labels
}

func regionQuery(points [][]float64, i int, eps float64) []int {
	var neighbors []int
	for j := range points {
		if stats.Euclidean(points[i], points[j]) <= eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}
