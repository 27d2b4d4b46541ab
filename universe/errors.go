package universe

import "errors"

var (
	ErrUnknownEntry  = errors.New("universe: unknown node entry")
	ErrDuplicateName = errors.New("universe: duplicate node name")
	ErrSyntax        = errors.New("universe: scene file syntax error")
)
