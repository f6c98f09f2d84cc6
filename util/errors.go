package util

import "github.com/infigaming-com/go-money/errors"

type UtilError struct {
	baseErr *errors.Error
}

const (
	ErrCodeValueNotFoundInContext = 10100 + iota
	ErrCodeInvalidValueInContext
	ErrCodeInvalidDecimal
)

func NewUtilError(code int64, message string, cause error, details any) *UtilError {
	baseErr := errors.NewError(code, message, cause)
	if details != nil {
		baseErr = baseErr.WithDetails(details)
	}
	return &UtilError{baseErr: baseErr}
}

func (e *UtilError) Error() string {
	return e.baseErr.Error()
}

func (e *UtilError) GetCode() int64 {
	return e.baseErr.GetCode()
}

func (e *UtilError) GetMessage() string {
	return e.baseErr.GetMessage()
}

func (e *UtilError) Unwrap() error {
	return e.baseErr.Unwrap()
}

func (e *UtilError) GetDetails() any {
	return e.baseErr.GetDetails()
}
