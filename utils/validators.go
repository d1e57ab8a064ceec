package utils

import (
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	postalCodeRe = regexp.MustCompile(`^\d{2}-\d{3}$`)
	phoneRe      = regexp.MustCompile(`^\d{9}$`)
	streetRe     = regexp.MustCompile(`^[\w\s.\-]+$`)
)

var registerOnce sync.Once

// RegisterValidators adds the project's custom binding tags to gin's validator engine.
// Field errors report the json name of the field.
func RegisterValidators() {
	registerOnce.Do(registerValidators)
}

func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("postalcode", func(fl validator.FieldLevel) bool {
		return postalCodeRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("street", func(fl validator.FieldLevel) bool {
		return streetRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("letters", func(fl validator.FieldLevel) bool {
		return IsLetters(fl.Field().String())
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := ParseClock(fl.Field().String())
		return err == nil
	})
}

func IsLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// HasStreetNumber reports whether the address contains at least one digit.
func HasStreetNumber(address string) bool {
	return strings.IndexFunc(address, unicode.IsDigit) >= 0
}

// ParseClock parses "HH:MM" into a duration since midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// IsMoney reports a non-negative amount with at most two fractional digits.
func IsMoney(v float64) bool {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return math.Abs(v*100-math.Round(v*100)) < 1e-6
}

// Validation messages for the custom tags, keyed by tag name.
var ValidationMessages = map[string]string{
	"postalcode": "Postal code must be in format XX-XXX",
	"phone":      "Phone number must contain 9 digits",
	"street":     "Street contains wrong characters.",
	"letters":    "Can only contain letters.",
	"clock":      "Time must be in format HH:MM",
	"required":   "This field is required.",
	"email":      "Enter a valid email address.",
	"min":        "Ensure this field is long enough.",
	"max":        "Ensure this field is not too long.",
}
