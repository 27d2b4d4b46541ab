package tile

import (
	"fmt"
	"iter"

	"github.com/sosoyan/aton/types"
)

// Steps returns the tile size produced by applying f alternating halvings
// to a w x h frame. Even iterations halve the X step and odd iterations
// halve the Y step, so the frame is split along X first.
func Steps(w, h, f int) (xStep, yStep int) {
	xStep, yStep = w, h
	for i := 0; i < f; i++ {
		if i%2 == 1 {
			yStep /= 2
		} else {
			xStep /= 2
		}
	}
	return xStep, yStep
}

// A Plan partitions a frame into 2^f tiles for distributed rendering.
type Plan struct {
	size   types.Size
	factor int

	xStep int
	yStep int

	// Tile counts along each axis.
	cols int
	rows int
}

// Create a new tiling plan for a w x h frame and split factor f.
func NewPlan(w, h, f int) (*Plan, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidSize
	}
	if f < 0 {
		return nil, ErrInvalidSplit
	}

	xStep, yStep := Steps(w, h, f)
	if xStep == 0 || yStep == 0 {
		return nil, fmt.Errorf("%w: %dx%d split %d times", ErrTooManyTiles, w, h, f)
	}

	return &Plan{
		size:   types.Size{W: w, H: h},
		factor: f,
		xStep:  xStep,
		yStep:  yStep,
		cols:   1 << ((f + 1) / 2),
		rows:   1 << (f / 2),
	}, nil
}

// Size returns the partitioned frame size.
func (p *Plan) Size() types.Size {
	return p.size
}

// Steps returns the nominal tile width and height.
func (p *Plan) Steps() (int, int) {
	return p.xStep, p.yStep
}

// Len returns the number of tiles in the plan.
func (p *Plan) Len() int {
	return p.cols * p.rows
}

// Tiles yields the plan's tiles in row-major order: Y bands top to bottom,
// X bands left to right within a band. Tile max edges are exclusive and
// never exceed the frame; when the frame is not evenly divisible the last
// tile along an axis absorbs the remainder.
//
// The returned sequence can be ranged over any number of times.
func (p *Plan) Tiles() iter.Seq2[int, types.Region] {
	return func(yield func(int, types.Region) bool) {
		index := 0
		for row := 0; row < p.rows; row++ {
			yMin := row * p.yStep
			yMax := yMin + p.yStep
			if row == p.rows-1 || yMax > p.size.H {
				yMax = p.size.H
			}

			for col := 0; col < p.cols; col++ {
				xMin := col * p.xStep
				xMax := xMin + p.xStep
				if col == p.cols-1 || xMax > p.size.W {
					xMax = p.size.W
				}

				if !yield(index, types.Region{XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax}) {
					return
				}
				index++
			}
		}
	}
}

// Split a w x h frame into 2^f tiles.
func Split(w, h, f int) ([]types.Region, error) {
	plan, err := NewPlan(w, h, f)
	if err != nil {
		return nil, err
	}

	tiles := make([]types.Region, 0, plan.Len())
	for _, t := range plan.Tiles() {
		tiles = append(tiles, t)
	}
	return tiles, nil
}
