// Package schema declares the form payloads accepted by the back-office and
// the rules used to normalize and validate them.
//
// Validate is pure: it normalizes the form in place (trimmed strings,
// lower-cased emails, title-cased names...) and then checks its `validate`
// tags. Failures are reported as *domain.ValidationError keyed by the JSON
// name of each invalid field, e.g. "email" or "items[0].quantity".
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/contalink/backoffice/internal/core/domain"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	skuPattern   = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{2,31}$`)
)

// normalizer is implemented by forms that clean their fields before validation.
type normalizer interface {
	normalize()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return ""
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		return skuPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate normalizes form and checks its constraints. form must be a
// pointer to a struct declared in this package.
func Validate(form any) error {
	if n, ok := form.(normalizer); ok {
		n.normalize()
	}

	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &domain.ValidationError{Fields: make(map[string]string, len(ve))}
	for _, fe := range ve {
		field := fieldPath(fe.Namespace())
		if _, seen := out.Fields[field]; seen {
			continue
		}
		out.Fields[field] = message(fe)
	}
	return out
}

// fieldPath drops the root struct name and any embedded struct names from a
// validator namespace, leaving only JSON field names.
func fieldPath(namespace string) string {
	segments := strings.Split(namespace, ".")
	kept := make([]string, 0, len(segments))
	for _, s := range segments[1:] {
		if s == "" || unicode.IsUpper([]rune(s)[0]) {
			continue
		}
		kept = append(kept, s)
	}
	return strings.Join(kept, ".")
}

// message converts a single FieldError into the text shown next to the input.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un correo electrónico válido"
	case "phone":
		return "debe ser un teléfono válido"
	case "sku":
		return "debe contener solo letras, números y guiones (3 a 32)"
	case "uuid4", "uuid":
		return "debe ser un identificador válido"
	case "alphanum":
		return "solo puede contener letras y números"
	case "len":
		return fmt.Sprintf("debe tener exactamente %s caracteres", fe.Param())
	case "datetime":
		return fmt.Sprintf("debe tener el formato %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("debe contener al menos %s elementos", fe.Param())
		default:
			return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
		}
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("debe tener como máximo %s caracteres", fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("debe contener como máximo %s elementos", fe.Param())
		default:
			return fmt.Sprintf("debe ser menor o igual a %s", fe.Param())
		}
	default:
		return fmt.Sprintf("no es válido (%s)", fe.Tag())
	}
}
