package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"taskmanager/model"
	"taskmanager/services"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rivo/uniseg"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags (emoji, palette,
// isodate) on gin's validator and makes field errors report JSON names.
// It is safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(fieldName)
		for tag, fn := range map[string]validator.Func{
			"emoji":   validateEmoji,
			"palette": validatePalette,
			"isodate": validateISODate,
		} {
			if err = v.RegisterValidation(tag, fn); err != nil {
				err = fmt.Errorf("register %s validator: %w", tag, err)
				return
			}
		}
	})
	return err
}

func fieldName(fld reflect.StructField) string {
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
}

// validateEmoji accepts exactly one user-perceived character, so flags and
// ZWJ sequences count as one.
func validateEmoji(fl validator.FieldLevel) bool {
	return uniseg.GraphemeClusterCount(fl.Field().String()) == 1
}

func validatePalette(fl validator.FieldLevel) bool {
	return model.IsPaletteColor(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := services.ParseDateTime(fl.Field().String())
	return err == nil
}

// BindError turns a ShouldBind failure into a ValidationError whose detail
// maps every offending field to a message.
func BindError(message string, err error) error {
	return bindError(message, err, map[string]any{"body": "invalid JSON payload"})
}

// QueryError is BindError for query-string binding.
func QueryError(message string, err error) error {
	return bindError(message, err, map[string]any{"query": "invalid query parameters"})
}

func bindError(message string, err error, fallback map[string]any) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return services.ValidationError(message, fallback)
	}
	detail := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		detail[fe.Field()] = fieldMessage(fe)
	}
	return services.ValidationError(message, detail)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "email":
		return "Invalid email address"
	case "emoji":
		return "Only 1 Emoji Allowed"
	case "palette":
		return "color must be one of " + strings.Join(model.PriorityColors, ", ")
	case "isodate":
		return "Invalid date format for " + field
	}
	return field + " is invalid"
}
