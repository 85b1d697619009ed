package events

import (
	"errors"
	"fmt"
	"strings"

	"stb-telemetry/internal/shared/validators"
)

var validate = validators.New()

// Validate checks that every required envelope and variant field is set and that enum
// fields hold known values.
func Validate(ev Event) error {
	if ev == nil {
		return errValidationFailed("event is nil", nil)
	}
	err := validate.Struct(ev)
	if err == nil {
		return nil
	}

	var fieldErrors validators.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return errValidationFailed(fmt.Sprintf("%s: %v", ev.Kind(), err), err)
	}
	fields := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		fields = append(fields, formatFieldError(fe))
	}
	return errValidationFailed(fmt.Sprintf("%s: invalid fields: %s", ev.Kind(), strings.Join(fields, ", ")), err)
}

// formatFieldError renders "LivePlay.Programme.Title" as "programme.title (required)".
func formatFieldError(e validators.FieldError) string {
	field := e.Field()
	if parts := strings.Split(e.StructNamespace(), "."); len(parts) >= 2 {
		field = strings.ToLower(strings.Join(parts[1:], "."))
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s (required)", field)
	case "min", "max", "oneof":
		return fmt.Sprintf("%s (%s=%s)", field, e.Tag(), e.Param())
	default:
		return fmt.Sprintf("%s (%s)", field, e.Tag())
	}
}
