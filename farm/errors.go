package farm

import "errors"

var (
	ErrNoCommand = errors.New("farm: no submit command configured")
	ErrEmptyArgs = errors.New("farm: submit command expanded to an empty argument list")
)
