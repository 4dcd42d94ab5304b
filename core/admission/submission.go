package admission

import (
	"github.com/go-playground/validator/v10"

	"github.com/unimatric/admissions/core"
)

// Submission is an applicant's score sheet as received from a client.
type Submission struct {
	AptitudeScore int        `json:"aptitude_score" validate:"min=0,max=400"`
	Department    string     `json:"department" validate:"required"`
	Accommodation bool       `json:"accommodation"`
	Grades        Transcript `json:"grades" validate:"required,dive,keys,subject,endkeys,grade"`
}

func (s *Submission) Validate(validate *validator.Validate) error {
	s.Department = core.CleanString(s.Department, true /* lower */)
	return validate.Struct(s)
}
