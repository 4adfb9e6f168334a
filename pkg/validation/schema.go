// Package validation holds the rules applied to the registration form before
// anything is sent to the backend.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/gss/competition-registration/pkg/models"
)

// Form field names, in the order they are rendered
const (
	FieldFullName     = "full_name"
	FieldEmail        = "email"
	FieldPhoneNumber  = "phone_number"
	FieldReferralCode = "referral_code"
)

// Fields lists the validated fields in display order
var Fields = []string{FieldFullName, FieldEmail, FieldPhoneNumber}

var messages = map[string]string{
	FieldFullName:    "Full name must be at least 3 characters long",
	FieldEmail:       "Please enter a valid email address",
	FieldPhoneNumber: "Phone number must be at least 10 characters long",
}

// one "@", no whitespace, and at least one dot in the domain
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@.]+(\.[^\s@.]+)+$`)

// FieldErrors maps a form field name to the message shown next to it
type FieldErrors map[string]string

// Error implements error so a failed validation can travel as one
func (fe FieldErrors) Error() string {
	for _, field := range Fields {
		if msg, ok := fe[field]; ok {
			return msg
		}
	}
	return "invalid input"
}

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			return name
		})
		_ = validate.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Validate checks the input against the registration rules.
// It returns nil when the input is valid.
func Validate(input models.RegistrationInput) FieldErrors {
	err := engine().Struct(input)
	if err == nil {
		return nil
	}
	return fieldErrors(err)
}

// fieldErrors maps validator failures to form messages. Any other error means
// the engine was misused, which no user input can cause.
func fieldErrors(err error) FieldErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		panic(fmt.Sprintf("validation: %v", err))
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if msg, ok := messages[fe.Field()]; ok {
			out[fe.Field()] = msg
			continue
		}
		out[fe.Field()] = fe.Error()
	}
	return out
}
