package analysis_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimatric/admissions/core/analysis"
	mockanalyzer "github.com/unimatric/admissions/services/analysis/mock"
	"github.com/unimatric/admissions/tests"
)

type failingAnalyzer struct{}

func (failingAnalyzer) VerifyScore(context.Context, analysis.ScoreVerificationInput) (analysis.ScoreVerification, error) {
	return analysis.ScoreVerification{}, errors.New("model unavailable")
}

func (failingAnalyzer) SummarizeEligibility(context.Context, analysis.SummaryInput) (analysis.Summary, error) {
	return analysis.Summary{}, errors.New("model unavailable")
}

func newService(a analysis.Analyzer) *analysis.Service {
	conf := testutil.NewConfig()
	return analysis.NewService(a, testutil.NewLogger(conf), testutil.NewActivityLogger())
}

func TestService(t *testing.T) {
	ctx := context.Background()
	score := 64.0
	summaryIn := analysis.SummaryInput{PredictedScore: &score}
	verifyIn := analysis.ScoreVerificationInput{ScoreData: "aptitude 250"}

	svc := newService(mockanalyzer.New())
	res, err := svc.VerifyScore(ctx, verifyIn, "admin@futa.edu.ng")
	require.NoError(t, err)
	assert.True(t, res.IsValid)

	sum, err := svc.SummarizeEligibility(ctx, summaryIn, "admin@futa.edu.ng")
	require.NoError(t, err)
	assert.Contains(t, sum.EligibilitySummary, "competitive")

	svc = newService(failingAnalyzer{})
	_, err = svc.VerifyScore(ctx, verifyIn, "admin@futa.edu.ng")
	assert.Equal(t, analysis.ErrProcessing, err)
	_, err = svc.SummarizeEligibility(ctx, summaryIn, "admin@futa.edu.ng")
	assert.Equal(t, analysis.ErrProcessing, err)
}

func TestValidation(t *testing.T) {
	validate, translator := testutil.NewValidator()
	score := 120.0
	long := "Five credits including mathematics and English."

	tests := []struct {
		name    string
		input   interface{}
		wantErr map[string]string
	}{
		{
			name: "blank score data",
			input: analysis.ScoreVerificationInput{
				ScoreData:           "   ",
				ApplicantResponses:  long,
				ApplicantBackground: long,
			},
			wantErr: map[string]string{"score_data": "score_data cannot be blank"},
		},
		{
			name:  "short responses",
			input: analysis.ScoreVerificationInput{ScoreData: "250", ApplicantResponses: "short", ApplicantBackground: long},
			wantErr: map[string]string{
				"applicant_responses": "applicant_responses must be at least 20 characters in length",
			},
		},
		{
			name: "score out of range",
			input: analysis.SummaryInput{
				PredictedScore:            &score,
				AcademicBackground:        long,
				ExtracurricularActivities: long,
				PersonalStatement:         long + " " + long,
			},
			wantErr: map[string]string{"predicted_score": "predicted_score must be 100 or less"},
		},
		{
			name:    "missing score",
			input:   analysis.SummaryInput{AcademicBackground: long, ExtracurricularActivities: long, PersonalStatement: long + long},
			wantErr: map[string]string{"predicted_score": "this field is required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.input)
			require.Error(t, err)
			got := make(map[string]string)
			for _, fe := range err.(validator.ValidationErrors) {
				got[fe.Field()] = fe.Translate(translator)
			}
			assert.Equal(t, tt.wantErr, got)
		})
	}
}
