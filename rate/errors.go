package rate

import "github.com/infigaming-com/go-money/errors"

const (
	ErrCodeUnexpectedStatus = 21000 + iota
	ErrCodeInvalidResponse
	ErrCodeRateNotFound
)

var (
	ErrUnexpectedStatus = errors.NewError(ErrCodeUnexpectedStatus, "rate: unexpected status code", nil)
	ErrInvalidResponse  = errors.NewError(ErrCodeInvalidResponse, "rate: invalid response", nil)
	ErrRateNotFound     = errors.NewError(ErrCodeRateNotFound, "rate: no rate found", nil)
)
