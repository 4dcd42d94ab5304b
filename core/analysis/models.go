package analysis

// ScoreVerificationInput is the material an admin submits for an AI check of an applicant's score.
type ScoreVerificationInput struct {
	ScoreData           string `json:"score_data" validate:"required,notblank"`
	ApplicantResponses  string `json:"applicant_responses" validate:"required,min=20"`
	ApplicantBackground string `json:"applicant_background" validate:"required,min=20"`
}

type ScoreVerification struct {
	IsValid  bool   `json:"is_valid"`
	Analysis string `json:"analysis"`
}

// SummaryInput is the applicant profile summarized by SummarizeEligibility.
type SummaryInput struct {
	PredictedScore            *float64 `json:"predicted_score" validate:"required,min=0,max=100"`
	AcademicBackground        string   `json:"academic_background" validate:"required,min=20"`
	ExtracurricularActivities string   `json:"extracurricular_activities" validate:"required,min=20"`
	PersonalStatement         string   `json:"personal_statement" validate:"required,min=50"`
}

type Summary struct {
	EligibilitySummary string `json:"eligibility_summary"`
}
