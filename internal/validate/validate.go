// Package validate holds the input-shape checks shared by handlers and
// services. Struct rules live in `validate` tags on the payload types.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"carpool/internal/domain"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct runs tag validation and translates the first failure into a
// domain.ValidationError.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return domain.ValidationError{
			Field: strings.ToLower(fe.Field()),
			Msg:   "failed " + fe.Tag() + " check",
			Err:   err,
		}
	}
	return domain.ValidationError{Msg: "invalid payload", Err: err}
}

// UUID reports whether s parses as a well-formed UUID.
func UUID(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}
