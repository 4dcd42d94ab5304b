package analysis

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/unimatric/admissions/core"
)

// ErrProcessing is reported to clients whenever the analyzer fails.
var ErrProcessing = errors.New("An AI processing error occurred. Please try again.")

// Analyzer is an AI assistant for admins. Admission decisions never depend on it.
type Analyzer interface {
	VerifyScore(ctx context.Context, in ScoreVerificationInput) (ScoreVerification, error)
	SummarizeEligibility(ctx context.Context, in SummaryInput) (Summary, error)
}

type Service struct {
	analyzer Analyzer
	logger   core.Logger
	activity core.ActivityLogger
}

func NewService(analyzer Analyzer, logger core.Logger, activity core.ActivityLogger) *Service {
	return &Service{analyzer: analyzer, logger: logger, activity: activity}
}

// VerifyScore runs the score verification analysis of a validated input on behalf of admin.
func (svc *Service) VerifyScore(ctx context.Context, in ScoreVerificationInput, admin string) (ScoreVerification, error) {
	svc.activity.Info(core.Activity{User: admin, Role: "admin", Action: "get_score_verification_start"})

	res, err := svc.analyzer.VerifyScore(ctx, in)
	if err != nil {
		failure := core.Activity{
			User:    admin,
			Role:    "admin",
			Action:  "get_score_verification_ai_error",
			Details: map[string]interface{}{"error": err.Error()},
		}
		svc.logger.Error(fmt.Sprintf("analysis.VerifyScore: %v", err), err, failure)
		svc.activity.Error(failure)
		return ScoreVerification{}, ErrProcessing
	}

	svc.activity.Info(core.Activity{
		User:    admin,
		Role:    "admin",
		Action:  "get_score_verification_success",
		Details: map[string]interface{}{"is_valid": res.IsValid},
	})
	return res, nil
}

// SummarizeEligibility summarizes the admission prospects of a validated applicant profile on behalf of admin.
func (svc *Service) SummarizeEligibility(ctx context.Context, in SummaryInput, admin string) (Summary, error) {
	details := map[string]interface{}{"predicted_score": *in.PredictedScore}
	svc.activity.Info(core.Activity{User: admin, Role: "admin", Action: "get_admission_summary_start", Details: details})

	res, err := svc.analyzer.SummarizeEligibility(ctx, in)
	if err != nil {
		failure := core.Activity{
			User:    admin,
			Role:    "admin",
			Action:  "get_admission_summary_ai_error",
			Details: map[string]interface{}{"error": err.Error()},
		}
		svc.logger.Error(fmt.Sprintf("analysis.SummarizeEligibility: %v", err), err, failure)
		svc.activity.Error(failure)
		return Summary{}, ErrProcessing
	}

	svc.activity.Info(core.Activity{User: admin, Role: "admin", Action: "get_admission_summary_success", Details: details})
	return res, nil
}
