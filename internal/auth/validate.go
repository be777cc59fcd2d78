package auth

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Username: 3-30 characters, letters, digits and underscores only.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return v
}

var validate = newValidator()

var (
	lowerRe   = regexp.MustCompile(`[a-z]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[^A-Za-z0-9]`)
	mobileRe  = regexp.MustCompile(`^\d{10}$`)
)

// ValidatePassword checks password strength and returns every unmet rule.
func ValidatePassword(password string) []string {
	var errs []string
	if len(password) < 8 {
		errs = append(errs, "Password must be at least 8 characters long")
	}
	if !lowerRe.MatchString(password) {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}
	if !upperRe.MatchString(password) {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if !digitRe.MatchString(password) {
		errs = append(errs, "Password must contain at least one number")
	}
	if !specialRe.MatchString(password) {
		errs = append(errs, "Password must contain at least one special character")
	}
	return errs
}

// IsValidEmail reports whether s has an email shape. The full check is left
// to the validator tag; this helper classifies free-form login identifiers.
func IsValidEmail(s string) bool {
	return validate.Var(s, "email") == nil
}

// IsValidMobile reports whether s is a 10-digit mobile number.
func IsValidMobile(s string) bool {
	return mobileRe.MatchString(s)
}

// IsValidUsername reports whether s satisfies the username shape.
func IsValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}
