package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const MAX_BODY_BYTES = 1 << 20

// InputError is returned for request bodies that cannot be decoded or
// validated. Detail is safe to show to the client.
type InputError struct {
	Detail string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Detail
}

func inputErrorf(format string, args ...any) error {
	return &InputError{Detail: fmt.Sprintf(format, args...)}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

func initValidator() {
	validateOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		translator, _ = uni.GetTranslator("en")

		validate = validator.New(validator.WithRequiredStructEnabled())

		// report json names, not Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
			slog.Error("[API] Failed to register validator translations",
				slog.String("error", err.Error()))
		}
		registerShortMax(validate, translator)
	})
}

func registerShortMax(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterTranslation("max", trans,
		func(ut ut.Translator) error {
			return ut.Add("max", "{0} must be at most {1} characters", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("max", fe.Field(), fe.Param())
			return msg
		},
	)
}

// ParseJSON decodes the request body into T and validates it. Every failure
// is an *InputError.
func ParseJSON[T any](r *http.Request) (T, error) {
	initValidator()

	var zero T
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, MAX_BODY_BYTES))

	var dst T
	if err := dec.Decode(&dst); err != nil {
		if errors.Is(err, io.EOF) {
			return zero, inputErrorf("empty body")
		}
		return zero, inputErrorf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, inputErrorf("unexpected trailing data")
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return zero, inputErrorf("%s", verrs[0].Translate(translator))
		}
		return zero, inputErrorf("%v", err)
	}

	return dst, nil
}
