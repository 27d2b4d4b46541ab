package panel

import "errors"

var (
	ErrNoTarget     = errors.New("panel: no render target selected")
	ErrUnknownPath  = errors.New("panel: no render target with this path")
	ErrInvalidSplit = errors.New("panel: distribute index out of range")
	ErrNoOutputs    = errors.New("panel: scene file has no outputs")
	ErrRenderFailed = errors.New("panel: interactive render failed to start")
)
