package response

// Resp is the error body.
type Resp struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Msg is the body of writes that only acknowledge.
type Msg struct {
	Message string `json:"message"`
}

// Error builds an error body; an empty msg falls back to the code's default.
func Error(code, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return Resp{Code: code, Message: msg}
}

func Validation(errs []FieldError) Resp {
	r := Error(CodeValidation, "")
	r.Errors = errs
	return r
}
