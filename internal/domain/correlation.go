package domain

// CorrelationResult represents one mined correlation between a pre-dividend
// feature column and a post-dividend recovery metric column.
type CorrelationResult struct {
	PreFeature  string
	PostMetric  string
	Correlation float64 // in [-1, 1]
	SampleSize  int     // pairwise-complete observations used
}
