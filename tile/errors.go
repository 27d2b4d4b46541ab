package tile

import "errors"

var (
	ErrInvalidSize  = errors.New("tile: frame dimensions must be positive")
	ErrInvalidSplit = errors.New("tile: split factor must not be negative")
	ErrTooManyTiles = errors.New("tile: split factor produces tiles smaller than a pixel")
)
