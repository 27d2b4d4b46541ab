package config

import "errors"

var (
	ErrUnknownKeys = errors.New("config: unknown keys")
	ErrInvalidPort = errors.New("config: invalid port")
	ErrInvalidStep = errors.New("config: invalid sequence step")
)
