package domain

// ClusterMethod selects the clustering algorithm.
type ClusterMethod string

const (
	ClusterKMeans ClusterMethod = "kmeans"
	ClusterDBSCAN ClusterMethod = "dbscan"
)

// DBSCAN labels noise points with this cluster ID.
const NoiseClusterID = -1

// ClusterStats represents aggregate recovery behavior of one cluster.
// Averages over columns with no observations in the cluster are NaN.
type ClusterStats struct {
	ClusterID  int
	NumSamples int

	AvgGapPct         float64
	AvgRecoveryD5Pct  float64
	AvgRecoveryD10Pct float64
	AvgRecoveryD15Pct float64
	AvgRecoveryD30Pct float64

	PctPositiveD5  float64 // share of events with recovery_d5_pct > 0
	PctPositiveD10 float64
	PctPositiveD15 float64

	PctGapHalfByD10 float64 // share with recovery_d10_pct >= 0.5 * |gap_pct|
	PctGapFullByD30 float64 // share with recovery_d30_pct >= |gap_pct|

	AvgTrendPre float64
	AvgVolPre   float64
	AvgRSID1    float64
	AvgStochKD1 float64

	Cohesion float64 // mean euclidean distance to the cluster centroid (scaled space)
}

// ClusteringResult represents one clustering run over the analysis dataset.
type ClusteringResult struct {
	Method      ClusterMethod
	NumClusters int   // excludes DBSCAN noise
	Labels      []int // per dataset row; NoiseClusterID marks DBSCAN noise

	Silhouette       float64 // NaN when undefined (fewer than 2 clusters)
	CalinskiHarabasz float64

	FeatureNames      []string
	FeatureImportance map[string]float64 // ANOVA F per feature, normalized to [0, 1]

	Clusters []ClusterStats

	// Best/worst by mean recovery at D+10; NoiseClusterID when no cluster qualifies.
	BestClusterID  int
	WorstClusterID int
}
