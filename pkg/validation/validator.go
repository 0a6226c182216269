package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxRecords bounds any single generated table.
	MaxRecords = 10_000_000

	bucketPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.\-]{1,61}[a-z0-9]$`)
	levelNames    = map[string]struct{}{"debug": {}, "info": {}, "warn": {}, "warning": {}, "error": {}}
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their YAML key, which is what users edit.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister("s3bucket", func(fl validator.FieldLevel) bool {
		return bucketPattern.MatchString(fl.Field().String())
	})
	mustRegister("loglevel", func(fl validator.FieldLevel) bool {
		_, ok := levelNames[strings.ToLower(fl.Field().String())]
		return ok
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Struct validates v against its `validate` tags and returns the first
// failure in a readable form.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateCount checks a requested table size.
func ValidateCount(field string, n int) error {
	if n < 0 {
		return fmt.Errorf("%s: must be non-negative, got %d", field, n)
	}
	if n > MaxRecords {
		return fmt.Errorf("%s: must not exceed %d, got %d", field, MaxRecords, n)
	}
	return nil
}

// ValidateBucket checks an S3 bucket name.
func ValidateBucket(name string) error {
	if !bucketPattern.MatchString(name) {
		return fmt.Errorf("bucket %q is not a valid S3 bucket name", name)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		// Drop the root struct name: "Config.s3.bucket" -> "s3.bucket".
		field := e.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "url":
			return fmt.Errorf("%s: %q is not a valid URL", field, e.Value())
		case "s3bucket":
			return fmt.Errorf("%s: %q is not a valid S3 bucket name", field, e.Value())
		case "loglevel":
			return fmt.Errorf("%s: unknown log level %q", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
