package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is one violation reported back to the client.
type FieldError struct {
	Field string `json:"field,omitempty"`
	Msg   string `json:"msg"`
}

var (
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
	initOnce      sync.Once
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON (then form) tag names in errors.
// - Registers the custom tags used by request structs.
// Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			register(v)
		}
	})
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	// exactly ten ASCII digits
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterAlias("pwd", "min=6") // password minimum length
}

// Validate runs the struct rules of obj and returns every violation in field order.
// A nil result means obj is valid.
func Validate(obj any) []FieldError {
	Init()
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return ToDetails(err)
	}
	return nil
}

// ToDetails converts validation/binding errors into an ordered list suitable for the
// API `errors` array. Every violation is kept; nothing fails fast.
func ToDetails(err error) []FieldError {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return []FieldError{{Field: "payload", Msg: "invalid json"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fe.Field(), Msg: label(fe.Field()) + " " + formatFieldError(fe)})
		}
		return out
	}

	// Fallback
	return []FieldError{{Field: "payload", Msg: "invalid payload"}}
}

func label(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	if r == utf8.RuneError {
		return field
	}
	return string(unicode.ToUpper(r)) + field[size:]
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	kind := fe.Kind()

	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email"
	case "mobile":
		return "must be a valid 10-digit number"
	case "pwd":
		return "must be at least 6 characters long"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		switch {
		case kind == reflect.Slice:
			return "must contain at least " + param + " item(s)"
		case isNumberKind(kind):
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		switch {
		case kind == reflect.Slice:
			return "must contain at most " + param + " item(s)"
		case isNumberKind(kind):
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "dive":
		return "contains an invalid item"
	default:
		if param != "" {
			return fmt.Sprintf("failed '%s' with parameter '%s'", fe.Tag(), param)
		}
		return fmt.Sprintf("failed '%s'", fe.Tag())
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
