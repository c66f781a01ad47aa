package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/mwalimu/edusight/core"
)

// custom validation tags
const (
	genderTag      = "gender"
	involvementTag = "involvement"
)

func init() {
	_ = core.Validate.RegisterValidation(genderTag, oneOfValidation(Genders))
	core.RegisterCustomTranslation(genderTag, "must be one of: female, male, other")

	_ = core.Validate.RegisterValidation(involvementTag, oneOfValidation(InvolvementLevels))
	core.RegisterCustomTranslation(involvementTag, "must be one of: low, medium, high")
}

func oneOfValidation(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		for _, a := range allowed {
			if val == a {
				return true
			}
		}
		return false
	}
}
