package pattern

import (
	"errors"
	"math"
	"sort"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/stats"
)

// ErrTargetOutOfRange is returned when the similarity target index does not
// address a dataset row.
var ErrTargetOutOfRange = errors.New("target index out of range")

// Match is one historical pattern ranked by similarity to the target event.
type Match struct {
	Index      int
	Similarity float64
	Record     *domain.DividendAnalysisRecord
}

// Price anchors carry absolute levels, not pattern shape; they are excluded
// from the similarity space.
var similarityExcluded = map[string]struct{}{
	"D0_open":   {},
	"D-1_close": {},
}

// FindSimilarPatterns ranks historical events by cosine similarity to the
// target row over standardized pre-dividend features. Each column is scaled
// to zero mean and unit variance over its observed values; missing values
// become 0 after standardization. Rows at or above threshold are returned
// sorted descending by similarity (ties keep ascending row order), capped at
// topN, with the target row itself excluded.
func FindSimilarPatterns(ds *Dataset, targetIndex int, threshold float64, topN int) ([]Match, error) {
	if targetIndex < 0 || targetIndex >= ds.Len() {
		return nil, ErrTargetOutOfRange
	}

	var cols []string
	for _, name := range ds.PreFeatureNames() {
		if _, excluded := similarityExcluded[name]; !excluded {
			cols = append(cols, name)
		}
	}
	if len(cols) == 0 {
		return nil, nil
	}

	// rows x cols matrix of standardized features
	matrix := make([][]float64, ds.Len())
	for i := range matrix {
		matrix[i] = make([]float64, len(cols))
	}
	for j, name := range cols {
		col := ds.Column(name)
		observed := stats.Finite(col)
		mean := stats.Mean(observed)
		std := stats.PopulationStddev(observed)
		for i, v := range col {
			if math.IsNaN(v) || std == 0 {
				matrix[i][j] = 0
				continue
			}
			matrix[i][j] = (v - mean) / std
		}
	}

	target := matrix[targetIndex]
	var matches []Match
	for i := range matrix {
		if i == targetIndex {
			continue
		}
		sim := stats.Cosine(target, matrix[i])
		if sim >= threshold {
			matches = append(matches, Match{
				Index:      i,
				Similarity: sim,
				Record:     ds.Records[i],
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if topN > 0 && len(matches) > topN {
		matches = matches[:topN]
	}
	return matches, nil
}
