package stats

import "math"

// FOneWay calculates the one-way ANOVA F statistic over k groups:
// between-group mean square over within-group mean square.
// Returns NaN when fewer than 2 non-empty groups, when the total sample size
// does not exceed the group count, or when the within-group variance is zero.
func FOneWay(groups [][]float64) float64 {
	var nonEmpty [][]float64
	total := 0
	for _, g := range groups {
		if len(g) > 0 {
			nonEmpty = append(nonEmpty, g)
			total += len(g)
		}
	}
	k := len(nonEmpty)
	if k < 2 || total <= k {
		return math.NaN()
	}

	var grandSum float64
	for _, g := range nonEmpty {
		for _, v := range g {
			grandSum += v
		}
	}
	grandMean := grandSum / float64(total)

	var ssBetween, ssWithin float64
	for _, g := range nonEmpty {
		gm := Mean(g)
		d := gm - grandMean
		ssBetween += float64(len(g)) * d * d
		for _, v := range g {
			dv := v - gm
			ssWithin += dv * dv
		}
	}

	msBetween := ssBetween / float64(k-1)
	msWithin := ssWithin / float64(total-k)
	if msWithin == 0 {
		return math.NaN()
	}
	return msBetween / msWithin
}
