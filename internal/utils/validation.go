package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	emailRegex          = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	indianPhoneRegex    = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodeRegex        = regexp.MustCompile(`^\d{6}$`)
	aadhaarRegex        = regexp.MustCompile(`^\d{12}$`)
	panRegex            = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
	registrationRegex   = regexp.MustCompile(`^[A-Z]{2}[ -]?[0-9]{1,2}[ -]?[A-Z]{1,3}[ -]?[0-9]{1,4}$`)
	timeOfDayRegex      = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

func init() {
	validate = validator.New()

	validate.RegisterValidation("indian_phone", validatePhone)
	validate.RegisterValidation("pincode", validatePincode)
	validate.RegisterValidation("coordinates", validateCoordinates)
	validate.RegisterValidation("time_of_day", validateTimeOfDay)
}

// ValidateStruct runs the tag validators and folds the first failure into
// a ValidationError so callers can map it to a 400.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return NewValidationError(strings.ToLower(first.Field()), "failed "+first.Tag()+" validation")
	}

	return err
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsValidPhone(fl.Field().String())
}

func validatePincode(fl validator.FieldLevel) bool {
	return IsValidPincode(fl.Field().String())
}

func validateCoordinates(fl validator.FieldLevel) bool {
	coords, ok := fl.Field().Interface().([]float64)
	if !ok || len(coords) != 2 {
		return false
	}

	lng, lat := coords[0], coords[1]
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	return timeOfDayRegex.MatchString(fl.Field().String())
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhone accepts 10-digit Indian mobile numbers.
func IsValidPhone(phone string) bool {
	return indianPhoneRegex.MatchString(phone)
}

func IsValidPincode(pincode string) bool {
	return pincodeRegex.MatchString(pincode)
}

func IsValidAadhaar(number string) bool {
	return aadhaarRegex.MatchString(number)
}

func IsValidPAN(number string) bool {
	return panRegex.MatchString(strings.ToUpper(number))
}

func IsValidRegistrationNumber(number string) bool {
	return registrationRegex.MatchString(strings.ToUpper(strings.TrimSpace(number)))
}

func IsValidTimeOfDay(value string) bool {
	return timeOfDayRegex.MatchString(value)
}

func IsValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return len(trimmed) >= 2 && len(trimmed) <= 100
}

func SanitizeString(input string) string {
	htmlRegex := regexp.MustCompile(`<[^>]*>`)
	cleaned := htmlRegex.ReplaceAllString(input, "")

	return strings.TrimSpace(cleaned)
}
