package session

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/freqprofile/internal/model"
)

// ErrInvalid reports a session that failed validation.
var ErrInvalid = errors.New("invalid session")

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("feel", validateFeel)
	_ = validate.RegisterValidation("locus", validateLocus)
}

func validateFeel(fl validator.FieldLevel) bool {
	return model.FeelType(fl.Field().String()).Valid()
}

func validateLocus(fl validator.FieldLevel) bool {
	return model.BodyLocusType(fl.Field().String()).Valid()
}

// Validate checks ranges, list sizes and label values.
func Validate(s model.Session) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Session.")
	switch fe.Tag() {
	case "feel":
		return fmt.Sprintf("%s: unknown feeling %q", field, fe.Value())
	case "locus":
		return fmt.Sprintf("%s: unknown body location %q", field, fe.Value())
	case "max":
		return fmt.Sprintf("%s: at most %s allowed", field, fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s: must be %s %s, got %v", field, fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Sprintf("%s: failed %s", field, fe.Tag())
	}
}
