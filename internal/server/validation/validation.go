// Package validation checks signup and login input and reports every
// violated field at once.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/go-playground/validator/v10"
)

// SignupInput is the raw signup payload.
type SignupInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

// LoginInput is the raw login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Result is either a normalized value or the list of violations.
type Result[T any] struct {
	Value      T
	Violations []common.Violation
}

func (r Result[T]) Valid() bool { return len(r.Violations) == 0 }

// Err returns nil for a valid result and a VALIDATION_ERROR otherwise.
func (r Result[T]) Err() error {
	if r.Valid() {
		return nil
	}
	return common.Validation(r.Violations)
}

type signupRules struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6,max=100"`
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
}

type loginRules struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// messages is keyed by "<field>.<tag>".
var messages = map[string]string{
	"email.required":    "Email is required",
	"email.email":       "Invalid email format",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
	"password.max":      "Password too long",
	"name.min":          "Name must be at least 2 characters",
	"name.max":          "Name too long",
}

// Validator is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// NormalizeEmail trims and lowercases an address before it is checked or stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup validates a signup payload. An empty name counts as no name.
func (v *Validator) Signup(in SignupInput) Result[SignupInput] {
	out := SignupInput{Email: NormalizeEmail(in.Email), Password: in.Password}
	if in.Name != nil && *in.Name != "" {
		name := *in.Name
		out.Name = &name
	}

	rules := signupRules{Email: out.Email, Password: out.Password, Name: out.Name}
	return Result[SignupInput]{Value: out, Violations: v.check(rules)}
}

// Login validates a login payload. Only presence is required of the password.
func (v *Validator) Login(in LoginInput) Result[LoginInput] {
	out := LoginInput{Email: NormalizeEmail(in.Email), Password: in.Password}
	rules := loginRules{Email: out.Email, Password: out.Password}
	return Result[LoginInput]{Value: out, Violations: v.check(rules)}
}

func (v *Validator) check(s any) []common.Violation {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []common.Violation{{Field: "", Message: err.Error()}}
	}

	out := make([]common.Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, common.Violation{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	if m, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	return fe.Field() + " is invalid"
}
