package domain

// WindowFeatureSet represents statistics computed over one relative-day window
// around a dividend ex-date (e.g. D-15..D-5).
type WindowFeatureSet struct {
	TrendPct       float64 // (lastClose/firstClose - 1) * 100
	Volatility     float64 // sample stddev of daily close-to-close returns * 100
	AvgVolume      float64
	VolumeTrendPct float64 // (lastVolume/firstVolume - 1) * 100, 0 if firstVolume == 0
	MaxDrawdownPct float64 // (min(close)/max(close) - 1) * 100, <= 0
	NumUpDays      int     // returns > 0
	NumDownDays    int     // returns < 0
}
