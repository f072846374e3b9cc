package middleware

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator and
// makes field errors report JSON names.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("binding validator is not go-playground/validator")
			return
		}

		v.RegisterTagNameFunc(jsonFieldName)

		custom := map[string]validator.Func{
			"notblank":        validators.NotBlank,
			"post_category":   postCategory,
			"thread_category": threadCategory,
		}
		for tag, fn := range custom {
			if err = v.RegisterValidation(tag, fn); err != nil {
				return
			}
		}
	})
	return err
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func postCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).Valid()
}

func threadCategory(fl validator.FieldLevel) bool {
	return models.ThreadCategory(fl.Field().String()).Valid()
}
