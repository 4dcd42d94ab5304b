package admission

import (
	"time"

	"github.com/unimatric/admissions/core"
)

// Application statuses
const (
	StatusEligible    = "eligible"
	StatusNotEligible = "not_eligible"
)

// Orderable application fields
var ApplicationOrderings = []string{"total", "aptitude_score", "applicant_name", "department", "created_at"}

// Applicant identifies who submits an application.
type Applicant struct {
	ID     string
	Name   string
	Email  string
	Gender string
}

// Application is an assessed, stored submission.
type Application struct {
	ID            string         `json:"id"`
	ApplicantID   string         `json:"applicant_id"`
	ApplicantName string         `json:"applicant_name"`
	Gender        string         `json:"gender"`
	Department    string         `json:"department"`
	AptitudeScore int            `json:"aptitude_score"`
	Grades        Transcript     `json:"grades"`
	Accommodation bool           `json:"accommodation"`
	Score         CompositeScore `json:"score"`
	Verdict       Verdict        `json:"verdict"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"` // UTC
}

func statusOf(v Verdict) string {
	if v.Eligible {
		return StatusEligible
	}
	return StatusNotEligible
}

// Assessment is the result of scoring and evaluating a submission without storing it.
type Assessment struct {
	Score         CompositeScore `json:"score"`
	Verdict       Verdict        `json:"verdict"`
	Supplementary []Option       `json:"supplementary"`
}

type QueryFilter struct {
	Search      string   `query:"search"`
	Departments []string `query:"department"`
	Status      string   `query:"status"`
	ApplicantID string   `query:"applicant_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Departments == nil && qf.Status == "" && qf.ApplicantID == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.ApplicantID = core.CleanString(qf.ApplicantID, true /* lower */)
	for i, d := range qf.Departments {
		qf.Departments[i] = core.CleanString(d, true /* lower */)
	}
}

// Match reports whether app satisfies every set filter field.
// Search is a case-insensitive match on the applicant's name or id.
func (qf *QueryFilter) Match(app Application) bool {
	if qf == nil {
		return true
	}
	if qf.ApplicantID != "" && app.ApplicantID != qf.ApplicantID {
		return false
	}
	if qf.Status != "" && app.Status != qf.Status {
		return false
	}
	if len(qf.Departments) > 0 {
		var found bool
		for _, d := range qf.Departments {
			if app.Department == d {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if qf.Search != "" {
		search := core.CleanString(qf.Search, true /* lower */)
		if !containsFold(app.ApplicantName, search) && !containsFold(app.ApplicantID, search) {
			return false
		}
	}
	return true
}
