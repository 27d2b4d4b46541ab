package interactive

import "errors"

var (
	ErrNotRunning    = errors.New("interactive: no interactive render is running")
	ErrUnknownShader = errors.New("interactive: unknown override shader")
)
