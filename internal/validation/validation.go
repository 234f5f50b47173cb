// Package validation binds request bodies and query strings and turns
// binding failures into field-level error details.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yukikurage/taskflow/internal/dto"
	apierrors "github.com/yukikurage/taskflow/internal/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var setupOnce sync.Once

// Setup registers the custom rules on gin's validator. It is safe to call
// more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("validation: gin validator engine is not go-playground/validator")
		}
		v.RegisterTagNameFunc(fieldName)
		mustRegister(v, "slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "rfc3339", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(time.RFC3339, fl.Field().String())
			return err == nil
		})
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// fieldName reports a field by its JSON name, then its form name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// BindJSON binds the JSON body into obj. The body is cached on the context so
// it can be bound again. On failure it writes a validation error response and
// returns false.
func BindJSON(c *gin.Context, obj any) bool {
	Setup()
	err := c.ShouldBindBodyWith(obj, binding.JSON)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err != nil {
		apierrors.ValidationFailed(c, Details(err, obj))
		return false
	}
	return true
}

// BindQuery binds the query string into obj, responding like BindJSON.
func BindQuery(c *gin.Context, obj any) bool {
	Setup()
	if err := c.ShouldBindQuery(obj); err != nil {
		apierrors.ValidationFailed(c, Details(err, obj))
		return false
	}
	return true
}

// NullFields reports the top-level fields of a body already bound by BindJSON
// that were sent as an explicit JSON null.
func NullFields(c *gin.Context) map[string]bool {
	nulls := map[string]bool{}
	body, ok := c.Get(gin.BodyBytesKey)
	if !ok {
		return nulls
	}
	raw, ok := body.([]byte)
	if !ok {
		return nulls
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nulls
	}
	for name, value := range fields {
		if string(value) == "null" {
			nulls[name] = true
		}
	}
	return nulls
}

// Details converts a binding error into one entry per rejected field.
func Details(err error, obj any) []dto.FieldError {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &verrs):
		details := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, dto.FieldError{
				Path:    []string{fe.Field()},
				Message: message(fe, obj),
			})
		}
		return details
	case errors.As(err, &typeErr):
		return []dto.FieldError{{
			Path:    strings.Split(typeErr.Field, "."),
			Message: fmt.Sprintf("Expected %s, received %s", jsonKind(typeErr.Type), typeErr.Value),
		}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return []dto.FieldError{{Path: []string{}, Message: "Malformed JSON body"}}
	default:
		return []dto.FieldError{{Path: []string{}, Message: err.Error()}}
	}
}

// message picks the text for a failed rule. A field's `message` tag either
// holds one text for every rule except required, or rule=text pairs
// separated by ";".
func message(fe validator.FieldError, obj any) string {
	if custom, ok := customMessage(fe, obj); ok {
		return custom
	}

	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "oneof":
		return "Invalid enum value. Expected " + strings.Join(quoted(strings.Fields(fe.Param())), " | ")
	case "slug":
		return "Can only contain lowercase letters, numbers, and hyphens"
	case "rfc3339":
		return "Invalid datetime"
	default:
		return fmt.Sprintf("Failed on the %q rule", fe.Tag())
	}
}

func customMessage(fe validator.FieldError, obj any) (string, bool) {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return "", false
	}
	field, ok := t.FieldByName(fe.StructField())
	if !ok {
		return "", false
	}
	tag := field.Tag.Get("message")
	if tag == "" {
		return "", false
	}

	if !strings.Contains(tag, "=") {
		if fe.Tag() == "required" {
			return "", false
		}
		return tag, true
	}
	for _, pair := range strings.Split(tag, ";") {
		rule, text, ok := strings.Cut(pair, "=")
		if ok && strings.TrimSpace(rule) == fe.Tag() {
			return strings.TrimSpace(text), true
		}
	}
	return "", false
}

func quoted(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = "'" + v + "'"
	}
	return out
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
