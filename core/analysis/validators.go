package analysis

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/unimatric/admissions/core"
)

var (
	notBlankTag  = "notblank"
	notBlankText = "{0} cannot be blank"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	core.RegisterCustomTranslation(validate, translator, notBlankTag, notBlankText)
}
