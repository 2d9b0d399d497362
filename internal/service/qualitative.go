package service

import "github.com/noah-isme/pjbl-tracker-api/internal/models"

// QualitativeBandSpec is one band of the performance scale: scores at or
// above Threshold (and below the next band up) fall into it.
type QualitativeBandSpec struct {
	Threshold float64
	Code      string
	Label     string
}

// qualitativeBands partitions [0,100] top-down. The thresholds are the
// images of the 1-4 raw scale cut points under the same /4*100
// normalization the aggregator applies.
var qualitativeBands = []QualitativeBandSpec{
	{Threshold: 81.25, Code: "SB", Label: "Sangat Baik (SB)"},
	{Threshold: 43.75, Code: "B", Label: "Baik (B)"},
	{Threshold: 6.25, Code: "C", Label: "Cukup (C)"},
	{Threshold: 0, Code: "R", Label: "Kurang (R)"},
}

// NoDataLabel is reported when no answered questions back a score.
const NoDataLabel = "Tidak Ada Data"

// QualitativeBand maps a 0-100 score onto its performance label and code.
// Out-of-range inputs are clamped, so the function is total.
func QualitativeBand(score float64) (label, code string) {
	if score < 0 {
		score = 0
	}
	if score > models.MaxDimensionScore {
		score = models.MaxDimensionScore
	}
	for _, band := range qualitativeBands {
		if score >= band.Threshold {
			return band.Label, band.Code
		}
	}
	// unreachable: the last band's threshold is 0
	last := qualitativeBands[len(qualitativeBands)-1]
	return last.Label, last.Code
}

// QualitativeBands exposes the band table for report rendering.
func QualitativeBands() []QualitativeBandSpec {
	bands := make([]QualitativeBandSpec, len(qualitativeBands))
	copy(bands, qualitativeBands)
	return bands
}

// ApplyQualitative annotates dimension scores with their band. Dimensions
// without any answered question keep empty qualitative fields so a zero
// score is distinguishable from a genuine "Kurang".
func ApplyQualitative(scores []models.DimensionScore) []models.DimensionScore {
	for i := range scores {
		if scores[i].TotalSubmissions == 0 {
			continue
		}
		scores[i].QualitativeScore, scores[i].QualitativeCode = QualitativeBand(scores[i].AverageScore)
	}
	return scores
}
