package validator

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	AlphaNumberSpaceRegex = regexp.MustCompile("^[a-zA-Z0-9 ]+$")
)

// MoneyScale is the number of decimal places a money field may carry.
const MoneyScale = 2

// Validator is a validator that validates the given struct.
type Validator interface {
	// Validate validates the given struct
	Validate(s any) error
}

type DefaultValidator struct {
	v *validator.Validate
}

// NewDefaultValidator creates a new default validator.
// It returns a new DefaultValidator and an error if the validator registration fails.
func NewDefaultValidator() (*DefaultValidator, error) {
	v := validator.New()

	// Money fields are validated through their float value so gt/gte/lte work on them.
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	// Register custom validators
	if err := v.RegisterValidation("alphanumspace", validateAlphanumspace); err != nil {
		return nil, fmt.Errorf("register alphanumspace validator: %w", err)
	}

	if err := v.RegisterValidation("enum", validateEnum); err != nil {
		return nil, fmt.Errorf("register enum validator: %w", err)
	}

	if err := v.RegisterValidation("money", validateMoney); err != nil {
		return nil, fmt.Errorf("register money validator: %w", err)
	}

	return &DefaultValidator{v: v}, nil
}

// MustNewDefaultValidator is like NewDefaultValidator but panics on error.
func MustNewDefaultValidator() *DefaultValidator {
	v, err := NewDefaultValidator()
	if err != nil {
		panic(err)
	}
	return v
}

func (v DefaultValidator) Validate(s any) error {
	return v.v.Struct(s)
}

// IsValidationError checks if the given error is a validation error
func IsValidationError(err error) bool {
	_, ok := err.(validator.ValidationErrors)
	return ok
}

func ValidationErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "uuid":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "alphanumspace":
		return "must contain only alphanumeric characters and spaces"
	case "money":
		return fmt.Sprintf("must have at most %d decimal places", MoneyScale)
	case "enum":
		return fmt.Sprintf("invalid enum value: %v", fe.Value())
	case "dive":
		return "contains an invalid item"
	default:
		return "is invalid"
	}
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateAlphanumspace(fl validator.FieldLevel) bool {
	return AlphaNumberSpaceRegex.MatchString(fl.Field().String())
}

func validateEnum(fl validator.FieldLevel) bool {
	type Enum interface {
		Validate() error
	}

	value, ok := fl.Field().Interface().(Enum)
	if !ok {
		return false
	}

	return value.Validate() == nil
}

// validateMoney reads the decimal from the parent struct since the custom
// type func has already turned the field into a float.
func validateMoney(fl validator.FieldLevel) bool {
	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return false
	}

	field := parent.FieldByName(fl.StructFieldName())
	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}

	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return false
	}

	return d.Equal(d.Round(MoneyScale))
}
