package courier

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"service-courier/internal/apperr"
	"service-courier/internal/domain"
)

const timestampTag = "timestamp"

// Accepted registered_at formats, tried in order.
var timestampLayouts = [...]string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(timestampTag, func(fl validator.FieldLevel) bool {
		_, err := ParseTimestamp(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// ParseTimestamp parses registered_at input. Values without a zone are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", s)
}

// stringField describes the rules of one string attribute.
// nullTag is the failing rule reported for an explicit null when the field is not nullable.
type stringField struct {
	name     string
	rule     string
	nullable bool
	nullTag  string
}

var (
	nameField         = stringField{name: "name", rule: "max=255", nullTag: "required"}
	phoneField        = stringField{name: "phone", rule: "max=32", nullable: true}
	emailField        = stringField{name: "email", rule: "email,max=255", nullable: true}
	statusField       = stringField{name: "status", rule: "oneof=active inactive", nullTag: "oneof"}
	registeredAtField = stringField{name: "registered_at", rule: timestampTag, nullTag: timestampTag}
)

var levelRule = fmt.Sprintf("min=%d,max=%d", domain.MinLevel, domain.MaxLevel)

// check validates o and returns its value when it is present and valid.
func (f stringField) check(verr *apperr.ValidationError, o domain.Optional[string], required bool) (string, bool) {
	switch {
	case !o.Set:
		if required {
			verr.Add(f.name, requiredMessage(f.name))
		}
		return "", false
	case o.Invalid != "":
		verr.Add(f.name, o.Invalid)
		return "", false
	case o.Null:
		if !f.nullable {
			verr.Add(f.name, message(f.name, f.nullTag, ""))
		}
		return "", false
	}
	if err := validate.Var(o.Value, f.rule); err != nil {
		verr.Add(f.name, fieldMessage(f.name, err))
		return "", false
	}
	return o.Value, true
}

func checkLevel(verr *apperr.ValidationError, o domain.Optional[int], required bool) (int, bool) {
	const field = "level"
	if !o.Set {
		if required {
			verr.Add(field, requiredMessage(field))
		}
		return 0, false
	}
	if o.Invalid != "" {
		verr.Add(field, o.Invalid)
		return 0, false
	}
	if o.Null {
		verr.Add(field, requiredMessage(field))
		return 0, false
	}
	if err := validate.Var(o.Value, levelRule); err != nil {
		verr.Add(field, fieldMessage(field, err))
		return 0, false
	}
	return o.Value, true
}

// validateCreate builds a new courier from in. The returned courier is only
// meaningful when the ValidationError is empty.
func validateCreate(in domain.CourierInput) (*domain.Courier, *apperr.ValidationError) {
	verr := apperr.NewValidationError()
	c := &domain.Courier{Status: domain.DefaultStatus}

	if v, ok := nameField.check(verr, in.Name, true); ok {
		c.Name = v
	}
	if v, ok := phoneField.check(verr, in.Phone, false); ok {
		c.Phone = &v
	}
	if v, ok := emailField.check(verr, in.Email, false); ok {
		c.Email = &v
	}
	if v, ok := checkLevel(verr, in.Level, true); ok {
		c.Level = v
	}
	if v, ok := statusField.check(verr, in.Status, false); ok {
		c.Status = domain.CourierStatus(v)
	}
	if v, ok := registeredAtField.check(verr, in.RegisteredAt, false); ok {
		c.RegisteredAt, _ = ParseTimestamp(v)
	}
	return c, verr
}

// validateUpdate turns the present fields of in into a partial update.
func validateUpdate(id int64, in domain.CourierInput) (domain.PartialCourierUpdate, *apperr.ValidationError) {
	verr := apperr.NewValidationError()
	u := domain.PartialCourierUpdate{ID: id}

	if v, ok := nameField.check(verr, in.Name, false); ok {
		u.Name = &v
	}
	if v, ok := phoneField.check(verr, in.Phone, false); ok {
		u.Phone = domain.Some(v)
	} else if in.Phone.Set && in.Phone.Null {
		u.Phone = domain.Null[string]()
	}
	if v, ok := emailField.check(verr, in.Email, false); ok {
		u.Email = domain.Some(v)
	} else if in.Email.Set && in.Email.Null {
		u.Email = domain.Null[string]()
	}
	if v, ok := checkLevel(verr, in.Level, false); ok {
		u.Level = &v
	}
	if v, ok := statusField.check(verr, in.Status, false); ok {
		st := domain.CourierStatus(v)
		u.Status = &st
	}
	if v, ok := registeredAtField.check(verr, in.RegisteredAt, false); ok {
		t, _ := ParseTimestamp(v)
		u.RegisteredAt = &t
	}
	return u, verr
}

func requiredMessage(field string) string {
	return message(field, "required", "")
}

func fieldMessage(field string, err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return message(field, errs[0].Tag(), errs[0].Param())
	}
	return fmt.Sprintf("The %s field is invalid.", field)
}

func message(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case timestampTag:
		return fmt.Sprintf("The %s field must be a valid date.", field)
	case "max":
		if field != "level" {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, param)
		}
		fallthrough
	case "min":
		return fmt.Sprintf("The %s field must be between %d and %d.", field, domain.MinLevel, domain.MaxLevel)
	}
	return fmt.Sprintf("The %s field is invalid.", field)
}
