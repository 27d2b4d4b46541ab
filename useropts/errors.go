package useropts

import "errors"

var (
	ErrMalformed       = errors.New("useropts: malformed declaration")
	ErrUnsupportedType = errors.New("useropts: unsupported declaration type")
)
