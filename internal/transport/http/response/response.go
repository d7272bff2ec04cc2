package response

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Body 统一响应信封
type Body struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    any          `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func OK(message string, data any) Body {
	return Body{Success: true, Message: message, Data: data}
}

func Fail(message string) Body {
	return Body{Success: false, Message: message}
}

func FailDetail(message, detail string) Body {
	return Body{Success: false, Message: message, Error: detail}
}

func FailFields(message string, fields []FieldError) Body {
	return Body{Success: false, Message: message, Errors: fields}
}

// BindingFields 把 gin 绑定校验错误转成 {field, message} 列表；非校验错误返回 nil
func BindingFields(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
