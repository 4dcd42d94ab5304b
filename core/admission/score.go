package admission

import (
	"math"
	"sort"
)

// Weights parameterise the composite score formula.
type Weights struct {
	AptitudeWeight     float64 // share of the aptitude test in the total
	AcademicWeight     float64 // share of the academic record in the total
	AccommodationBonus float64
	AptitudeMax        float64 // maximum aptitude test score
	AcademicMax        float64 // maximum academic points (BestOf x A1)
	BestOf             int     // number of subjects counted
}

// DefaultWeights: 75% aptitude over 400, 25% best five grades over 400, 5 bonus points.
var DefaultWeights = Weights{
	AptitudeWeight:     75,
	AcademicWeight:     25,
	AccommodationBonus: 5,
	AptitudeMax:        400,
	AcademicMax:        400,
	BestOf:             5,
}

// CompositeScore is the breakdown of an applicant's admission score.
type CompositeScore struct {
	AptitudeComponent float64 `json:"aptitude_component"`
	AcademicRaw       int     `json:"academic_raw"`
	AcademicComponent float64 `json:"academic_component"`
	Bonus             float64 `json:"bonus"`
	Total             float64 `json:"total"`
}

// ComputeScore computes the composite score with DefaultWeights.
func ComputeScore(aptitude int, grades []SubjectGrade, accommodation bool) CompositeScore {
	return DefaultWeights.ComputeScore(aptitude, grades, accommodation)
}

// ComputeScore computes the composite score of an applicant.
// Only the best w.BestOf grades count; fewer grades are summed as is.
// The aptitude score is not range checked.
func (w Weights) ComputeScore(aptitude int, grades []SubjectGrade, accommodation bool) CompositeScore {
	points := make([]int, 0, len(grades))
	for _, sg := range grades {
		points = append(points, sg.Grade.Points())
	}
	sort.Sort(sort.Reverse(sort.IntSlice(points)))
	if w.BestOf >= 0 && len(points) > w.BestOf {
		points = points[:w.BestOf]
	}

	var raw int
	for _, p := range points {
		raw += p
	}

	score := CompositeScore{AcademicRaw: raw}
	if w.AptitudeMax > 0 {
		score.AptitudeComponent = float64(aptitude) / w.AptitudeMax * w.AptitudeWeight
	}
	if w.AcademicMax > 0 {
		score.AcademicComponent = float64(raw) / w.AcademicMax * w.AcademicWeight
	}
	if accommodation {
		score.Bonus = w.AccommodationBonus
	}
	score.Total = round2(score.AptitudeComponent + score.AcademicComponent + score.Bonus)
	return score
}

// round2 rounds half-up to 2 decimal places.
func round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
