package content

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/smkpelita/backend/core"
)

var (
	newsCategoryTag  = "newscategory"
	newsCategoryText = "invalid news category"

	appStatusTag  = "appstatus"
	appStatusText = "invalid application status"
)

// InitValidators registers this package's validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(newsCategoryTag, oneOf(NewsCategories))
	core.RegisterCustomTranslation(validate, translator, newsCategoryTag, newsCategoryText)

	_ = validate.RegisterValidation(appStatusTag, oneOf(ApplicationStatuses))
	core.RegisterCustomTranslation(validate, translator, appStatusTag, appStatusText)
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, s := range allowed {
			if val == s {
				return true
			}
		}
		return false
	}
}
