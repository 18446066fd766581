// Package forms validates user input before any store mutation happens.
//
// Every form is a plain struct plus a rule table ([]Rule) that lists, per field, the
// go-playground/validator tag to apply and the message to show when it fails. A single
// engine (Validator.Validate) walks the table and collects every failure, so a form is
// always re-rendered with the complete list of problems rather than the first one.
package forms

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/user/tareas-go/apperror"
)

// ReservedUsername can never be registered, whatever its case.
const ReservedUsername = "codi"

// InvalidFormMessage is the top-level message of a failed validation.
const InvalidFormMessage = "Please correct the errors in the form."

// Rule is one declarative constraint of a form.
type Rule struct {
	// Field is the form field name (the `form` struct tag), also used as the error key.
	Field string
	// Tag is a validator tag expression, e.g. "min=4,max=50", "email", "notreserved".
	Tag string
	// Other names a second field for cross-field tags such as "eqcsfield".
	Other string
	// Message is what the user sees when the rule fails.
	Message string
	// Stop discards earlier messages for the field and skips its remaining rules,
	// like a "required" check that makes the other complaints pointless.
	Stop bool
}

// Form is implemented by every input struct that can be validated.
type Form interface {
	Rules() []Rule
}

// Errors maps a field name to its messages, in rule order.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has reports whether field already has at least one message.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Err converts the collection into an apperror ValidationError, or nil when empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return apperror.NewValidationError(InvalidFormMessage, e)
}

// Validator is the generic validation engine shared by all forms.
// It is safe for concurrent use; build one at startup and inject it.
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the application's custom tags on a fresh validator instance.
func NewValidator() *Validator {
	v := validator.New()
	// Registration of a constant function never fails; the errors are ignored on purpose.
	_ = v.RegisterValidation("notreserved", func(fl validator.FieldLevel) bool {
		return !strings.EqualFold(strings.TrimSpace(fl.Field().String()), ReservedUsername)
	})
	_ = v.RegisterValidation("honeypot", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == ""
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Validator{v: v}
}

// Validate runs every rule of the form and returns all failures (nil when the form is valid).
func (v *Validator) Validate(f Form) Errors {
	values := fieldValues(f)
	errs := Errors{}
	stopped := map[string]bool{}

	for _, rule := range f.Rules() {
		if stopped[rule.Field] {
			continue
		}

		var err error
		if rule.Other != "" {
			err = v.v.VarWithValue(values[rule.Field], values[rule.Other], rule.Tag)
		} else {
			err = v.v.Var(values[rule.Field], rule.Tag)
		}
		if err == nil {
			continue
		}

		if rule.Stop {
			errs[rule.Field] = nil
			stopped[rule.Field] = true
		}
		errs.Add(rule.Field, rule.Message)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// fieldValues reads the exported fields of a form struct keyed by their `form` tag.
func fieldValues(f Form) map[string]any {
	rv := reflect.Indirect(reflect.ValueOf(f))
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := sf.Tag.Get("form")
		if name == "" || name == "-" {
			continue
		}
		out[name] = rv.Field(i).Interface()
	}
	return out
}
