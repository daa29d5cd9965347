package validation

import (
	"reflect"
	"strings"

	"finance-tracker/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	// decimal.Decimal fields are validated through their string form.
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("hexcolor6", validateHexColor)
	_ = v.RegisterValidation("yearmonth", validateYearMonth)
	_ = v.RegisterValidation("recurrence", validateRecurrence)
	_ = v.RegisterValidation("oauth_provider", validateOAuthProvider)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates a struct against its validate tags.
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// validateMoney accepts a decimal string greater than zero with at most two
// fraction digits.
func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return models.IsValidAmount(d)
}

// validateHexColor accepts #RRGGBB.
func validateHexColor(fl validator.FieldLevel) bool {
	return models.IsValidHexColor(fl.Field().String())
}

// validateYearMonth accepts YYYY-MM with a month between 01 and 12.
func validateYearMonth(fl validator.FieldLevel) bool {
	_, err := models.ParseMonth(fl.Field().String())
	return err == nil
}

func validateRecurrence(fl validator.FieldLevel) bool {
	return models.Recurrence(fl.Field().String()).IsValid()
}

func validateOAuthProvider(fl validator.FieldLevel) bool {
	return models.IsValidOAuthProvider(fl.Field().String())
}
