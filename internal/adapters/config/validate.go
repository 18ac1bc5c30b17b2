package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
	"go.trai.ch/fnspec/internal/core/domain"
	"go.trai.ch/zerr"
)

// bracketKeyPattern matches validator namespace segments such as [name] that address map keys rather than indexes.
var bracketKeyPattern = regexp.MustCompile(`\[([^\]]*[^0-9\]][^\]]*)\]`)

// fieldValidator checks field-level constraints on a projected Descriptor.
// The wrapped validator caches struct metadata and is safe for concurrent use.
type fieldValidator struct {
	v *validator.Validate
}

func newFieldValidator() (*fieldValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	custom := map[string]validator.Func{
		"memory_size": func(fl validator.FieldLevel) bool {
			return domain.IsAllowedMemorySize(int(fl.Field().Int()))
		},
		"runtime": func(fl validator.FieldLevel) bool {
			return domain.RuntimePattern.MatchString(fl.Field().String())
		},
		"project_id": func(fl validator.FieldLevel) bool {
			return domain.ProjectIDPattern.MatchString(fl.Field().String())
		},
		"topic_path": func(fl validator.FieldLevel) bool {
			return domain.IsTopicPath(fl.Field().String())
		},
		"glob": func(fl validator.FieldLevel) bool {
			_, err := glob.Compile(fl.Field().String(), '/')
			return err == nil
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to register validation"), "tag", tag)
		}
	}

	return &fieldValidator{v: v}, nil
}

// validate checks the top-level sections first, then each function in document order.
func (fv *fieldValidator) validate(desc *Descriptor) error {
	if err := fv.check(desc, ""); err != nil {
		return err
	}
	for _, fn := range desc.Functions {
		if err := fv.check(fn, keyPath("functions", fn.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (fv *fieldValidator) check(s any, prefix string) error {
	err := fv.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return zerr.Wrap(err, "field validation failed")
	}

	fe := fieldErrs[0]
	return &domain.SchemaError{
		FieldPath: fieldPath(prefix, fe.Namespace()),
		Expected:  expectation(fe),
		Actual:    actual(fe),
	}
}

// fieldPath turns a validator namespace like FunctionDTO.labels[team] into labels.team under prefix.
func fieldPath(prefix, namespace string) string {
	_, rest, _ := strings.Cut(namespace, ".")
	rest = bracketKeyPattern.ReplaceAllString(rest, ".$1")
	if rest == "" {
		return prefix
	}
	return keyPath(prefix, rest)
}

func expectation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "a value"
	case "min":
		return fmt.Sprintf("at least %s item(s)", fe.Param())
	case "gt":
		return "a value greater than " + fe.Param()
	case "lte":
		return "a value of at most " + fe.Param()
	case "email":
		return "an email address"
	case "unique":
		return "unique entries"
	case "memory_size":
		return fmt.Sprintf("one of %v", domain.AllowedMemorySizes)
	case "runtime":
		return "a runtime tag matching " + domain.RuntimePattern.String()
	case "project_id":
		return "a project id matching " + domain.ProjectIDPattern.String()
	case "topic_path":
		return "a topic path of the form projects/<project>/topics/<topic>"
	case "glob":
		return "a valid glob pattern"
	default:
		return fe.ActualTag()
	}
}

func actual(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "nothing"
	case "unique":
		return "duplicate entries"
	}

	rv := reflect.ValueOf(fe.Value())
	switch rv.Kind() {
	case reflect.String:
		return strconv.Quote(rv.String())
	case reflect.Slice, reflect.Map:
		return fmt.Sprintf("%d item(s)", rv.Len())
	default:
		return fmt.Sprint(fe.Value())
	}
}
