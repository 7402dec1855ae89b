package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	registerCustomValidations()
}

func registerCustomValidations() {
	// Loyalty tier validation
	validate.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		tier := fl.Field().String()
		validTiers := []string{"bronze", "silver", "gold", "platinum", ""}
		for _, t := range validTiers {
			if tier == t {
				return true
			}
		}
		return false
	})

	// Reward type validation
	validate.RegisterValidation("reward_type", func(fl validator.FieldLevel) bool {
		rewardType := fl.Field().String()
		validTypes := []string{"discount_percentage", "discount_fixed", "free_shipping", "gift"}
		for _, t := range validTypes {
			if rewardType == t {
				return true
			}
		}
		return false
	})

	// Order status validation
	validate.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		validStatuses := []string{"pending", "processing", "shipped", "completed", "cancelled"}
		for _, s := range validStatuses {
			if status == s {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "uuid":
			errors[field] = "Invalid UUID format"
		case "tier":
			errors[field] = "Invalid tier. Must be: bronze, silver, gold, or platinum"
		case "reward_type":
			errors[field] = "Invalid reward type. Must be: discount_percentage, discount_fixed, free_shipping, or gift"
		case "order_status":
			errors[field] = "Invalid status. Must be: pending, processing, shipped, completed, or cancelled"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
