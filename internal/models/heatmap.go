package models

import "math"

// HeatmapCell is one hour-of-week bucket. The upstream grid is sparse:
// a missing cell means count 0.
type HeatmapCell struct {
	Dow   int `json:"dow"`
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

const (
	heatmapDays  = 7
	heatmapHours = 24

	// emptyCellWeight keeps "no activity" visually distinct from "low
	// activity", which never drops below minCellWeight.
	emptyCellWeight = 0.05
	minCellWeight   = 0.1
)

// HeatmapGrid is the dense 7x24 weight grid derived from sparse cells.
type HeatmapGrid [heatmapDays][heatmapHours]float64

// MapIntensity converts a sparse cell list into per-cell visual weights.
// Counts are log-compressed against the grid maximum so a single outlier
// hour does not flatten everything else.
func MapIntensity(cells []HeatmapCell) HeatmapGrid {
	counts := [heatmapDays][heatmapHours]int{}
	maxCount := 0
	for _, c := range cells {
		if c.Dow < 0 || c.Dow >= heatmapDays || c.Hour < 0 || c.Hour >= heatmapHours {
			continue
		}
		counts[c.Dow][c.Hour] = c.Count
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}

	var grid HeatmapGrid
	for dow := range counts {
		for hour := range counts[dow] {
			grid[dow][hour] = CellWeight(counts[dow][hour], maxCount)
		}
	}
	return grid
}

// CellWeight maps a single count to [emptyCellWeight, 1]. With count > 0
// maxCount is at least count, so the log denominator is never zero.
func CellWeight(count, maxCount int) float64 {
	if count <= 0 {
		return emptyCellWeight
	}
	w := math.Log(float64(count)+1) / math.Log(float64(maxCount)+1)
	return math.Max(minCellWeight, math.Min(1, w))
}
