package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"klickjet-storefront/internal/utils"

	"github.com/go-playground/validator/v10"
)

var personNameRegex = regexp.MustCompile(`^[A-Za-z]+( [A-Za-z]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNameRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("district", func(fl validator.FieldLevel) bool {
		return IsDistrict(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		digits := utils.NormalizePhone(fl.Field().String())
		return utils.IsDigits(digits) && len(digits) >= 10 && len(digits) <= 15
	})

	return v
}

// normalize trims the form values before validation.
func (d ShippingDraft) normalize() ShippingDraft {
	return ShippingDraft{
		FirstName:  utils.CollapseSpaces(d.FirstName),
		LastName:   utils.CollapseSpaces(d.LastName),
		Address:    strings.TrimSpace(d.Address),
		District:   strings.TrimSpace(d.District),
		PostalCode: strings.TrimSpace(d.PostalCode),
		Phone:      utils.NormalizePhone(d.Phone),
	}
}

// Validate normalizes d and checks it, returning field messages as a
// *ValidationError.
func (d ShippingDraft) Validate() (ShippingDraft, error) {
	n := d.normalize()
	if err := validate.Struct(n); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return n, err
		}
		return n, &ValidationError{Fields: formatValidationErrors(verrs)}
	}
	return n, nil
}

func formatValidationErrors(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		label := strings.ReplaceAll(field, "_", " ")

		switch fe.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", label)
		case "max":
			fields[field] = fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		case "personname":
			fields[field] = fmt.Sprintf("%s may contain only letters and spaces", label)
		case "number":
			fields[field] = fmt.Sprintf("%s must be numeric", label)
		case "phone":
			fields[field] = fmt.Sprintf("%s must have 10 to 15 digits", label)
		case "district":
			fields[field] = fmt.Sprintf("%s must be one of the listed districts", label)
		default:
			fields[field] = fmt.Sprintf("%s is invalid", label)
		}
	}
	return fields
}
