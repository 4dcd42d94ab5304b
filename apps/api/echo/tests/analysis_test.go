package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"

	"github.com/unimatric/admissions/core/analysis"
	"github.com/unimatric/admissions/core/user"
)

type brokenAnalyzer struct{}

func (brokenAnalyzer) VerifyScore(context.Context, analysis.ScoreVerificationInput) (analysis.ScoreVerification, error) {
	return analysis.ScoreVerification{}, errors.New("quota exceeded")
}

func (brokenAnalyzer) SummarizeEligibility(context.Context, analysis.SummaryInput) (analysis.Summary, error) {
	return analysis.Summary{}, errors.New("quota exceeded")
}

func Test_analysisApi(t *testing.T) {
	app := setup(t)
	broken := setup(t, withAnalyzer(brokenAnalyzer{}))

	applicant := app.createApplicant(t, "12345678ab", "John Doe", "john@example.com", user.GenderMale)
	admin := app.createAdmin(t, "admin@futa.edu.ng")
	brokenAdmin := broken.createAdmin(t, "admin@futa.edu.ng")
	adminToken := app.getToken(t, admin)

	score := func(f float64) *float64 { return &f }
	verification := analysis.ScoreVerificationInput{
		ScoreData:           "UTME 250, post-UTME 68",
		ApplicantResponses:  "Answered every screening question.",
		ApplicantBackground: "Science student from a public school.",
	}
	summary := analysis.SummaryInput{
		PredictedScore:            score(72.5),
		AcademicBackground:        "Five credits including mathematics.",
		ExtracurricularActivities: "Debate club and football team captain.",
		PersonalStatement:         "I want to study computer science to build software for farmers in my state.",
	}
	processingErr := marchallObj(t, httpErr{Error: analysis.ErrProcessing.Error()})

	tests := []struct {
		httpTest
		app *testApp
	}{
		{
			httpTest: httpTest{
				name:     "applicant",
				path:     "/v1/analysis/verify-score",
				body:     marchallObj(t, verification),
				token:    app.getToken(t, applicant),
				wantCode: http.StatusForbidden,
				wantData: marchallObj(t, httpErr{Error: "permission denied"}),
			},
			app: app,
		},
		{
			httpTest: httpTest{
				name: "invalid verification",
				path: "/v1/analysis/verify-score",
				body: marchallObj(t, analysis.ScoreVerificationInput{
					ScoreData:           "   ",
					ApplicantResponses:  "short",
					ApplicantBackground: verification.ApplicantBackground,
				}),
				token:    adminToken,
				wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, map[string]string{
					"score_data":          "score_data cannot be blank",
					"applicant_responses": "applicant_responses must be at least 20 characters in length",
				}),
			},
			app: app,
		},
		{
			httpTest: httpTest{
				name:     "verification",
				path:     "/v1/analysis/verify-score",
				body:     marchallObj(t, verification),
				token:    adminToken,
				wantCode: http.StatusOK,
				wantData: marchallObj(t, analysis.ScoreVerification{
					IsValid:  true,
					Analysis: "All 2 score value(s) lie within the expected range.",
				}),
			},
			app: app,
		},
		{
			httpTest: httpTest{
				name:     "verification failure",
				path:     "/v1/analysis/verify-score",
				body:     marchallObj(t, verification),
				token:    broken.getToken(t, brokenAdmin),
				wantCode: http.StatusServiceUnavailable,
				wantData: processingErr,
			},
			app: broken,
		},
		{
			httpTest: httpTest{
				name:     "missing predicted score",
				path:     "/v1/analysis/eligibility-summary",
				body:     marchallObj(t, analysis.SummaryInput{AcademicBackground: summary.AcademicBackground, ExtracurricularActivities: summary.ExtracurricularActivities, PersonalStatement: summary.PersonalStatement}),
				token:    adminToken,
				wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, map[string]string{"predicted_score": "this field is required"}),
			},
			app: app,
		},
		{
			httpTest: httpTest{
				name:     "summary",
				path:     "/v1/analysis/eligibility-summary",
				body:     marchallObj(t, summary),
				token:    adminToken,
				wantCode: http.StatusOK,
				wantData: marchallObj(t, analysis.Summary{
					EligibilitySummary: "With a predicted score of 72.50 the applicant is a strong candidate. " +
						"Academic background, extracurricular activities and personal statement were provided for review.",
				}),
			},
			app: app,
		},
		{
			httpTest: httpTest{
				name:     "summary failure",
				path:     "/v1/analysis/eligibility-summary",
				body:     marchallObj(t, summary),
				token:    broken.getToken(t, brokenAdmin),
				wantCode: http.StatusServiceUnavailable,
				wantData: processingErr,
			},
			app: broken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token, tt.body)
			tt.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt.httpTest, rec)
		})
	}
}
