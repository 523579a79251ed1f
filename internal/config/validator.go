package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance with the custom rules
// registered.
var validate = newValidator()

// telegramBotTokenRegex matches the id:secret shape of bot tokens,
// e.g. "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11".
var telegramBotTokenRegex = regexp.MustCompile(`^\d{3,20}:[a-zA-Z0-9_-]{30,50}$`)

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names (generate.count) instead of Go field names
	// (Count) in validation errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("telegram_bot_token", validateTelegramBotToken); err != nil {
		panic(fmt.Sprintf("failed to register the 'telegram_bot_token' validation: %v", err))
	}

	return v
}

func validateTelegramBotToken(fl validator.FieldLevel) bool {
	return telegramBotTokenRegex.MatchString(fl.Field().String())
}

// validateStruct runs the tag-based rules on s and converts the first
// failure into an InvalidInput error naming the offending field.
func validateStruct(s interface{}, contextName string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		firstErr := validationErrors[0]
		return apperrors.New(apperrors.InvalidInput,
			fmt.Sprintf("%s.%s is invalid: failed the %q rule (value: %v)",
				contextName, firstErr.Field(), firstErr.Tag(), firstErr.Value()))
	}

	return apperrors.Wrapf(err, apperrors.InvalidInput, "%s failed validation", contextName)
}
