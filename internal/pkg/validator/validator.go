package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// entityIDPattern accepts UUIDs as well as the short ids used by the seeder.
var entityIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,36}$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("entity_id", func(fl validator.FieldLevel) bool {
		return entityIDPattern.MatchString(fl.Field().String())
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		errors[err.Field()] = err.Tag()
	}
	return errors
}

// Var validates a single value against tag and returns the failing tag, or "".
func Var(value any, tag string) string {
	err := validate.Var(value, tag)
	if err == nil {
		return ""
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return tag
}

// IsEntityID reports whether id is a well-formed path identifier.
func IsEntityID(id string) bool {
	return entityIDPattern.MatchString(id)
}
