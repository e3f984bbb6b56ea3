package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	cpfRe      = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	telefoneRe = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)
	cepRe      = regexp.MustCompile(`^\d{5}-\d{3}$`)
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()

	// report json names so details line up with the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// decimal.Decimal as float64 so min/max apply to preco
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	for tag, re := range map[string]*regexp.Regexp{
		"cpf":      cpfRe,
		"telefone": telefoneRe,
		"cep":      cepRe,
	} {
		re := re
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}

	return v
}

// Struct runs the validate tags of s and returns per-field messages, or nil.
func Struct(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return map[string]string{"_": err.Error()}
	}

	errs := make(map[string]string, len(ves))
	for _, fe := range ves {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email format"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "cpf":
		return "must match 000.000.000-00"
	case "telefone":
		return "must match (00) 0000-0000 or (00) 00000-0000"
	case "cep":
		return "must match 00000-000"
	}
	return "failed on " + fe.Tag()
}
