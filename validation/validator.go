package validation

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
)

// Validator checks decoded request bodies field by field. Each field keeps
// only its first failure, so chained checks on one field read naturally:
//
//	err := validation.New().
//	    Required("email", req.Email).
//	    Email("email", req.Email).
//	    Err()
type Validator struct {
	fields []FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

func (v *Validator) fail(field, format string, args ...any) *Validator {
	if !slices.ContainsFunc(v.fields, func(f FieldError) bool { return f.Field == field }) {
		v.fields = append(v.fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	return v
}

// Err returns the collected failures as an *Error, or nil.
func (v *Validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &Error{Fields: slices.Clone(v.fields)}
}

// Required rejects empty and whitespace-only values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.fail(field, "is required")
	}
	return v
}

// Email rejects a non-empty value that is not a bare address.
func (v *Validator) Email(field, value string) *Validator {
	if value == "" {
		return v
	}
	if addr, err := mail.ParseAddress(value); err != nil || addr.Address != value {
		return v.fail(field, "must be a valid email address")
	}
	return v
}

// Range requires lo <= value <= hi.
func (v *Validator) Range(field string, value, lo, hi int) *Validator {
	if value < lo || value > hi {
		return v.fail(field, "must be between %d and %d", lo, hi)
	}
	return v
}

// OneOf rejects a non-empty value outside allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value != "" && !slices.Contains(allowed, value) {
		return v.fail(field, "must be one of: %s", strings.Join(allowed, ", "))
	}
	return v
}
