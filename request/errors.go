package request

import "github.com/infigaming-com/go-money/errors"

const (
	ErrCodeInvalidRequestBody = 10000 + iota
	ErrCodeInvalidSlowRequestThreshold
	ErrCodeFailedToCreateRequest
	ErrCodeFailedToSignRequest
	ErrCodeFailedToSendRequest
	ErrCodeFailedToReadResponseBody
)

var (
	ErrInvalidRequestBody          = errors.NewError(ErrCodeInvalidRequestBody, "invalid request body", nil)
	ErrInvalidSlowRequestThreshold = errors.NewError(ErrCodeInvalidSlowRequestThreshold, "invalid slow request threshold", nil)
	ErrFailedToCreateRequest       = errors.NewError(ErrCodeFailedToCreateRequest, "failed to create request", nil)
	ErrFailedToSignRequest         = errors.NewError(ErrCodeFailedToSignRequest, "failed to sign request", nil)
	ErrFailedToSendRequest         = errors.NewError(ErrCodeFailedToSendRequest, "failed to send request", nil)
	ErrFailedToReadResponseBody    = errors.NewError(ErrCodeFailedToReadResponseBody, "failed to read response body", nil)
)
