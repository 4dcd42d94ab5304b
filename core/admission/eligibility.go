package admission

// Rules are the eligibility thresholds.
type Rules struct {
	MinAptitude int `json:"min_aptitude"`
	MinCredits  int `json:"min_credits"`
}

var DefaultRules = Rules{MinAptitude: 180, MinCredits: 5}

// Verdict is the outcome of an eligibility check against one department.
type Verdict struct {
	Department  string `json:"department"`
	Eligible    bool   `json:"eligible"`
	CreditCount int    `json:"credit_count"`
	AptitudeOK  bool   `json:"aptitude_ok"`
	CreditsOK   bool   `json:"credits_ok"`
}

// Option is a department checked during a supplementary scan.
type Option struct {
	Department Department `json:"department"`
	Verdict    Verdict    `json:"verdict"`
}

// EvaluateEligibility checks an applicant against dept with DefaultRules.
func EvaluateEligibility(aptitude int, grades Transcript, dept Department) Verdict {
	return DefaultRules.Evaluate(aptitude, grades, dept)
}

// FindSupplementaryOptions evaluates every other department with DefaultRules.
func FindSupplementaryOptions(aptitude int, grades Transcript, departments []Department, exclude string) []Option {
	return DefaultRules.FindSupplementaryOptions(aptitude, grades, departments, exclude)
}

// Evaluate checks an applicant against dept.
// Only credits in the subjects required by dept count.
// A department without required subjects (unknown) is never satisfied.
func (r Rules) Evaluate(aptitude int, grades Transcript, dept Department) Verdict {
	v := Verdict{
		Department: dept.ID,
		AptitudeOK: aptitude >= r.MinAptitude,
	}
	for _, sub := range dept.Subjects {
		if g, ok := grades[sub]; ok && g.IsCredit() {
			v.CreditCount++
		}
	}
	v.CreditsOK = len(dept.Subjects) > 0 && v.CreditCount >= r.MinCredits
	v.Eligible = v.AptitudeOK && v.CreditsOK
	return v
}

// FindSupplementaryOptions evaluates every department but exclude, in the given order.
func (r Rules) FindSupplementaryOptions(aptitude int, grades Transcript, departments []Department, exclude string) []Option {
	options := make([]Option, 0, len(departments))
	for _, dept := range departments {
		if dept.ID == exclude {
			continue
		}
		options = append(options, Option{
			Department: dept,
			Verdict:    r.Evaluate(aptitude, grades, dept),
		})
	}
	return options
}
