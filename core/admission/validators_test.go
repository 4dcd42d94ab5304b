package admission

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimatric/admissions/core"
)

func newValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, translator
}

func validTranscript() Transcript {
	return Transcript{Math: A1, English: B2, Physics: B3, Chemistry: C4, Biology: C5}
}

func TestSubmission_Validate(t *testing.T) {
	validate, translator := newValidator()

	withGrade := func(sub Subject, g Grade) Transcript {
		tr := validTranscript()
		tr[sub] = g
		return tr
	}
	without := func(sub Subject) Transcript {
		tr := validTranscript()
		delete(tr, sub)
		return tr
	}

	tests := []struct {
		name     string
		sub      Submission
		wantErrs map[string]string // field: message
	}{
		{
			name: "valid",
			sub:  Submission{AptitudeScore: 300, Department: " Computer-Science-SOC ", Grades: validTranscript()},
		},
		{
			name: "optional subjects",
			sub:  Submission{AptitudeScore: 0, Department: "x", Grades: withGrade(Geography, F9)},
		},
		{
			name:     "aptitude too high",
			sub:      Submission{AptitudeScore: 401, Department: "x", Grades: validTranscript()},
			wantErrs: map[string]string{"aptitude_score": "aptitude_score must be 400 or less"},
		},
		{
			name:     "negative aptitude",
			sub:      Submission{AptitudeScore: -1, Department: "x", Grades: validTranscript()},
			wantErrs: map[string]string{"aptitude_score": "aptitude_score must be 0 or greater"},
		},
		{
			name:     "no department",
			sub:      Submission{AptitudeScore: 200, Department: "   ", Grades: validTranscript()},
			wantErrs: map[string]string{"department": "this field is required"},
		},
		{
			name:     "no grades",
			sub:      Submission{AptitudeScore: 200, Department: "x"},
			wantErrs: map[string]string{"grades": "this field is required"},
		},
		{
			name:     "missing core subject",
			sub:      Submission{AptitudeScore: 200, Department: "x", Grades: without(Biology)},
			wantErrs: map[string]string{"grades": coreSubjectsText},
		},
		{
			name:     "unknown grade",
			sub:      Submission{AptitudeScore: 200, Department: "x", Grades: withGrade(Math, "A+")},
			wantErrs: map[string]string{"grades[math]": gradeText},
		},
		{
			name:     "unknown subject",
			sub:      Submission{AptitudeScore: 200, Department: "x", Grades: withGrade("latin", A1)},
			wantErrs: map[string]string{"grades[latin]": subjectText},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate(validate)
			if tt.wantErrs == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "%T", err)
			got := make(map[string]string, len(vErrs))
			for _, fe := range vErrs {
				got[fe.Field()] = fe.Translate(translator)
			}
			assert.Equal(t, tt.wantErrs, got)
		})
	}
}

func TestSubmission_Validate_cleansDepartment(t *testing.T) {
	validate, _ := newValidator()
	sub := Submission{AptitudeScore: 300, Department: " Computer-Science-SOC ", Grades: validTranscript()}
	require.NoError(t, sub.Validate(validate))
	assert.Equal(t, "computer-science-soc", sub.Department)
}
