// Package forms holds the signup and login forms and their syntactic
// validation.  Checks that need the database (email and username
// uniqueness) are left to the handlers so this package stays pure.
package forms

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldError is one user-facing validation failure.
type FieldError struct {
	Field   string // form field name, e.g. "confirm_password"
	Label   string // human label, e.g. "Confirm Password"
	Message string
}

// String renders the error the way the pages display it.
func (e FieldError) String() string {
	return "Error in the " + e.Label + " field - " + e.Message
}

// Errors is an ordered list of field errors; order follows the form layout.
type Errors []FieldError

// Has reports whether field has at least one error.
func (es Errors) Has(field string) bool {
	for _, e := range es {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Messages returns the rendered messages in order.
func (es Errors) Messages() []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.String())
	}
	return out
}

// SignupForm is bound from the signup POST body.
type SignupForm struct {
	Email           string `form:"email" validate:"required,email,max=150"`
	Username        string `form:"username" validate:"required,min=4,max=20"`
	Password        string `form:"password" validate:"required,min=8,password_strength"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginForm is bound from the login POST body.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Normalize trims whitespace from the identity fields.  Passwords are kept
// verbatim.
func (f *SignupForm) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
	f.Username = strings.TrimSpace(f.Username)
}

// Normalize trims whitespace from the email.
func (f *LoginForm) Normalize() { f.Email = strings.TrimSpace(f.Email) }

type fieldMeta struct {
	name  string
	label string
}

var fields = map[string]fieldMeta{
	"Email":           {"email", "Email"},
	"Username":        {"username", "Username"},
	"Password":        {"password", "Password"},
	"ConfirmPassword": {"confirm_password", "Confirm Password"},
}

// Validator wraps a configured go-playground validator.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the password_strength rule registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return passwordStrengthMessage(fl.Field().String()) == ""
	})
	return &Validator{v: v}
}

// Validate satisfies echo.Validator; it returns an Errors value on failure.
func (fv *Validator) Validate(i interface{}) error {
	err := fv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := make(Errors, 0, len(ves))
	for _, fe := range ves {
		meta, ok := fields[fe.StructField()]
		if !ok {
			meta = fieldMeta{strings.ToLower(fe.StructField()), fe.StructField()}
		}
		out = append(out, FieldError{Field: meta.name, Label: meta.label, Message: message(fe)})
	}
	return out
}

// Error makes Errors usable as an error value.
func (es Errors) Error() string { return strings.Join(es.Messages(), "; ") }

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "min":
		if fe.StructField() == "Password" {
			return "Password must be at least 8 characters long."
		}
		return "Field must be between 4 and 20 characters long."
	case "max":
		if fe.StructField() == "Email" {
			return "Email must be at most 150 characters long."
		}
		return "Field must be between 4 and 20 characters long."
	case "eqfield":
		return "Passwords must match."
	case "password_strength":
		return passwordStrengthMessage(fe.Value().(string))
	}
	return "Invalid value."
}

// passwordStrengthMessage returns "" when s has at least one digit and one
// uppercase letter, else the message for the first missing class.
func passwordStrengthMessage(s string) string {
	var digit, upper bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	if !digit {
		return "Password must contain at least one digit."
	}
	if !upper {
		return "Password must contain at least one uppercase letter."
	}
	return ""
}
