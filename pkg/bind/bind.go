// Package bind decodes and validates an HTTP request body into a struct.
//
// Validation uses go-playground/validator struct tags; error keys are the
// json field names:
//
//	type Input struct {
//	    Name  string  `json:"name"  validate:"required"`
//	    Price float64 `json:"price" validate:"gte=0"`
//	}
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/sadekstore/storefront/config"
)

// ErrBodyTooLarge is returned when the body exceeds MAX_BODY_BYTES.
var ErrBodyTooLarge = errors.New("request body too large")

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return v
}

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w (max %d bytes)", ErrBodyTooLarge, maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return Struct(dest), nil
}

// Struct validates an already-populated struct. A nil map means valid.
func Struct(s interface{}) map[string]string {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

// First returns the message of the alphabetically first field, so the
// summary line is stable across runs.
func First(errs map[string]string) string {
	first := ""
	for k := range errs {
		if first == "" || k < first {
			first = k
		}
	}
	return errs[first]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
