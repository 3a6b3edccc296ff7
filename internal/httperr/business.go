package httperr

import "errors"

const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeValidation         = "validation_error"
	CodeForbidden          = "forbidden"
	CodeOrderNotFound      = "order_not_found"
	CodeInvalidState       = "invalid_state"
)

// BusinessError is an expected failure the user can act on. Message is safe to
// show on a page.
type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func Validation(message string) error {
	return BusinessError{Code: CodeValidation, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// AsBusiness unwraps err into a BusinessError when it is one.
func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
