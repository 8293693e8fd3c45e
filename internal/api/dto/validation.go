package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/synchrony/student-management/internal/domain"
	apperrors "github.com/synchrony/student-management/pkg/util"
)

const passwordSpecials = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "course", func(fl validator.FieldLevel) bool {
		return domain.AcademicCourse(fl.Field().String()).Valid()
	})
	mustRegister(v, "past", func(fl validator.FieldLevel) bool {
		t, ok := asTime(fl.Field())
		return ok && t.Before(today())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func asTime(v reflect.Value) (time.Time, bool) {
	switch t := v.Interface().(type) {
	case Date:
		return time.Time(t), true
	case time.Time:
		return t, true
	}
	return time.Time{}, false
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// IsStrongPassword reports whether p has at least 8 characters including a lowercase
// letter, an uppercase letter, a digit and a special character.
func IsStrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// Validate runs struct validation and converts failures into a flat field -> message map
// wrapped in a VALIDATION_FAILED error.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewBadRequest(err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldPath(fe)
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = message(fe)
	}
	return apperrors.NewValidationError(fields)
}

// fieldPath strips the top level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "alpha":
		return field + " must contain only letters"
	case "email":
		return field + " must be a valid email address"
	case "phone":
		return field + " must be 10 to 15 digits, optionally prefixed with +"
	case "strongpassword":
		return field + " must be at least 8 characters long and contain an uppercase letter, a lowercase letter, a digit and a special character"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "past":
		return field + " must be a date in the past"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "course":
		return field + " is not a known academic course"
	default:
		return field + " is invalid"
	}
}
