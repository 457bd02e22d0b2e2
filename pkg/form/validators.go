package form

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator checks a field value.
// values is a snapshot of every field in the form; most validators ignore it.
// Validate returns nil if valid, or an error carrying the message if not.
// Validators must be pure: the same input always gives the same result.
type Validator interface {
	Validate(value any, values Values) error
}

// ValidatorFunc is a function that implements Validator.
type ValidatorFunc func(value any, values Values) error

func (f ValidatorFunc) Validate(value any, values Values) error {
	return f(value, values)
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// MessageOf returns the user-facing message of a validator error.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// ----------------------------------------------------------------------------
// String Validators
// ----------------------------------------------------------------------------

// Required fails on empty values: nil, false, zero numbers, "" and strings
// that are blank after trimming.
func Required(msg string) Validator {
	if msg == "" {
		msg = "This field is required"
	}
	return ValidatorFunc(func(value any, _ Values) error {
		if isFalsy(value) || isBlank(value) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// emailPattern accepts a single @ with a dotted domain. It is deliberately
// permissive and admits some invalid addresses such as "a@b..c".
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email validates that the value looks like an email address.
// Empty values pass; combine with Required to demand a value.
func Email(msg string) Validator {
	if msg == "" {
		msg = "Please enter a valid email address"
	}
	return ValidatorFunc(func(value any, _ Values) error {
		if isFalsy(value) {
			return nil
		}
		if !emailPattern.MatchString(toString(value)) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// MinLength validates that a string has at least n characters.
// Empty values pass.
func MinLength(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %d characters", n)
	}
	return ValidatorFunc(func(value any, _ Values) error {
		if isFalsy(value) {
			return nil
		}
		if utf8.RuneCountInString(toString(value)) < n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// MaxLength validates that a string has at most n characters.
// Empty values pass.
func MaxLength(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be no more than %d characters", n)
	}
	return ValidatorFunc(func(value any, _ Values) error {
		if isFalsy(value) {
			return nil
		}
		if utf8.RuneCountInString(toString(value)) > n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Pattern validates that a string matches re. Empty values pass.
func Pattern(re *regexp.Regexp, msg string) Validator {
	if re == nil {
		panic("form: Pattern requires a non-nil regexp")
	}
	if msg == "" {
		msg = "Invalid format"
	}
	return ValidatorFunc(func(value any, _ Values) error {
		if isFalsy(value) {
			return nil
		}
		if !re.MatchString(toString(value)) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// PatternString compiles expr and returns Pattern for it.
// It panics if expr is not a valid regular expression.
func PatternString(expr string, msg string) Validator {
	return Pattern(regexp.MustCompile(expr), msg)
}

// ----------------------------------------------------------------------------
// Comparison Validators
// ----------------------------------------------------------------------------

// MatchField fails unless the value strictly equals the current value of
// the field named other. Two empty strings match; a missing field is nil.
func MatchField(other string, msg string) Validator {
	if msg == "" {
		msg = "Fields do not match"
	}
	return ValidatorFunc(func(value any, values Values) error {
		if !strictEqual(value, values[other]) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// NotMatchField fails when the value strictly equals the field named other.
// Empty values pass.
func NotMatchField(other string, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must not match %s", other)
	}
	return ValidatorFunc(func(value any, values Values) error {
		if isFalsy(value) {
			return nil
		}
		if strictEqual(value, values[other]) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// ----------------------------------------------------------------------------
// Composition
// ----------------------------------------------------------------------------

// Compose runs validators in order and returns the first failure.
// Nil entries are skipped.
func Compose(validators ...Validator) Validator {
	chain := make([]Validator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			chain = append(chain, v)
		}
	}
	return ValidatorFunc(func(value any, values Values) error {
		for _, v := range chain {
			if err := v.Validate(value, values); err != nil {
				return err
			}
		}
		return nil
	})
}

// Custom creates a validator from a single-value function.
func Custom(fn func(value any) error) Validator {
	return ValidatorFunc(func(value any, _ Values) error {
		return fn(value)
	})
}

// ----------------------------------------------------------------------------
// Helper Functions
// ----------------------------------------------------------------------------

// isFalsy reports whether value counts as empty: nil, nil pointers and
// collections, false, zero or NaN numbers, and "".
func isFalsy(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case bool:
		return !v
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.String:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	default:
		return false
	}
}

// isBlank reports whether value is a string of only whitespace.
func isBlank(value any) bool {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(rv.String()) == ""
}

// toString converts a value to a string.
func toString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprintf("%v", value)
}

// strictEqual compares two values without type coercion.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}
