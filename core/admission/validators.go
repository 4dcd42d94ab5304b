package admission

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/unimatric/admissions/core"
)

var (
	subjectTag  = "subject"
	subjectText = "unknown subject"

	gradeTag  = "grade"
	gradeText = "grade must be one of A1, B2, B3, C4, C5, C6, D7, E8, F9"

	// subjects every transcript must grade
	coreSubjects     = []Subject{Math, English, Physics, Chemistry, Biology}
	coreSubjectsTag  = "coresubjects"
	coreSubjectsText = "grades are required for " + joinSubjects(coreSubjects)
)

// InitValidators registers the admission validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(subjectTag, subjectValidation)
	core.RegisterCustomTranslation(validate, translator, subjectTag, subjectText)

	_ = validate.RegisterValidation(gradeTag, gradeValidation)
	core.RegisterCustomTranslation(validate, translator, gradeTag, gradeText)

	validate.RegisterStructValidation(submissionStructValidation, Submission{})
	core.RegisterCustomTranslation(validate, translator, coreSubjectsTag, coreSubjectsText)
}

func subjectValidation(fl validator.FieldLevel) bool {
	return Subject(fl.Field().String()).Valid()
}

func gradeValidation(fl validator.FieldLevel) bool {
	return Grade(fl.Field().String()).Valid()
}

// submissionStructValidation checks that the core subjects are graded.
func submissionStructValidation(sl validator.StructLevel) {
	sub, ok := sl.Current().Interface().(Submission)
	if !ok || len(sub.Grades) == 0 {
		return // reported by `required`
	}
	for _, s := range coreSubjects {
		if _, ok := sub.Grades[s]; !ok {
			sl.ReportError(sub.Grades, "grades", "Grades", coreSubjectsTag, "")
			return
		}
	}
}

func joinSubjects(subjects []Subject) string {
	names := make([]string, len(subjects))
	for i, s := range subjects {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
