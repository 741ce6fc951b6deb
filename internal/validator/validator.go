package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"bellyfied/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// リクエストの検証と、メール・電話番号の正規化。
// echo.Validatorとしても使う
type Validator struct {
	v      *validator.Validate
	region string
}

func New(region string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	//エラーのキーはjsonの名前にする
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

	x := &Validator{v: v, region: strings.ToUpper(region)}

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := x.NormalizePhone(s)
		return err == nil
	})
	//"07:00"形式
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.Parse("15:04", s)
		return err == nil
	})
	return x
}

// 失敗したらapperr.Validation（項目ごとの理由付き）
func (x *Validator) Validate(i interface{}) error {
	err := x.v.Struct(i)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return apperr.BadRequest("invalid request")
	}

	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		fields[fe.Field()] = message(fe)
	}
	return apperr.Validation(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "phone":
		return "enter a valid phone number"
	case "hhmm":
		return "use the HH:MM format"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "latitude":
		return "enter a valid latitude"
	case "longitude":
		return "enter a valid longitude"
	default:
		return "invalid value"
	}
}

func (x *Validator) NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// E.164（+<国番号><番号>）にする。国番号が無ければregionで補う
func (x *Validator) NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPhone
	}
	num, err := phonenumbers.Parse(raw, x.region)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
