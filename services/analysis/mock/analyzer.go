package mockanalyzer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/unimatric/admissions/core/analysis"
)

var numberRegex = regexp.MustCompile(`-?\d+(\.\d+)?`)

// Analyzer answers without any model. Used when no Gemini API key is configured.
type Analyzer struct{}

var _ analysis.Analyzer = Analyzer{}

func New() Analyzer { return Analyzer{} }

// VerifyScore accepts score data whose numbers all lie within the aptitude range (0 to 400).
func (Analyzer) VerifyScore(_ context.Context, in analysis.ScoreVerificationInput) (analysis.ScoreVerification, error) {
	matches := numberRegex.FindAllString(in.ScoreData, -1)
	if len(matches) == 0 {
		return analysis.ScoreVerification{
			Analysis: "No numerical score could be found in the score data.",
		}, nil
	}

	var outOfRange []string
	for _, m := range matches {
		n, err := strconv.ParseFloat(m, 64)
		if err != nil || n < 0 || n > 400 {
			outOfRange = append(outOfRange, m)
		}
	}
	if len(outOfRange) > 0 {
		return analysis.ScoreVerification{
			Analysis: fmt.Sprintf("Score data contains values outside the 0-400 range: %s.", strings.Join(outOfRange, ", ")),
		}, nil
	}
	return analysis.ScoreVerification{
		IsValid:  true,
		Analysis: fmt.Sprintf("All %d score value(s) lie within the expected range.", len(matches)),
	}, nil
}

// SummarizeEligibility grades the predicted score into a prospect band.
func (Analyzer) SummarizeEligibility(_ context.Context, in analysis.SummaryInput) (analysis.Summary, error) {
	score := *in.PredictedScore
	var band string
	switch {
	case score >= 70:
		band = "strong"
	case score >= 50:
		band = "competitive"
	default:
		band = "weak"
	}
	return analysis.Summary{
		EligibilitySummary: fmt.Sprintf(
			"With a predicted score of %.2f the applicant is a %s candidate. "+
				"Academic background, extracurricular activities and personal statement were provided for review.",
			score, band),
	}, nil
}
