package host

import "errors"

var (
	ErrObjectDeleted = errors.New("host: object was deleted")
	ErrNoAttribute   = errors.New("host: attribute not found")
	ErrTypeMismatch  = errors.New("host: attribute type mismatch")
	ErrNotReady      = errors.New("host: renderer integration is not ready")
	ErrNotRegistered = errors.New("host: listener is not registered")
)
