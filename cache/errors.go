package cache

import "github.com/infigaming-com/go-money/errors"

const (
	ErrCodeKeyNotFound = 22000 + iota
	ErrCodeJsonMarshal
	ErrCodeJsonUnmarshal
	ErrCodeBackend
)

var (
	ErrKeyNotFound   = errors.NewError(ErrCodeKeyNotFound, "cache: key not found", nil)
	ErrJsonMarshal   = errors.NewError(ErrCodeJsonMarshal, "cache: failed to marshal value to json", nil)
	ErrJsonUnmarshal = errors.NewError(ErrCodeJsonUnmarshal, "cache: failed to unmarshal value from json", nil)
	ErrBackend       = errors.NewError(ErrCodeBackend, "cache: backend failure", nil)
)
