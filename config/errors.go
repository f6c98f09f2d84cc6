package config

import "github.com/infigaming-com/go-money/errors"

const (
	ErrCodeInvalidConfig = 23000 + iota
)

var ErrInvalidConfig = errors.NewError(ErrCodeInvalidConfig, "config: invalid configuration", nil)
