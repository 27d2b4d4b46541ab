package types

import "fmt"

// Size holds the dimensions of a frame in pixels.
type Size struct {
	W int
	H int
}

// Returns true if both dimensions are positive.
func (s Size) Valid() bool {
	return s.W > 0 && s.H > 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Region is a pixel rectangle. Whether XMax/YMax are inclusive depends on
// the producer: tiles use exclusive edges while renderer regions treat the
// max edges as the last included pixel.
type Region struct {
	XMin int
	YMin int
	XMax int
	YMax int
}

// Width of an exclusive region.
func (r Region) Dx() int {
	return r.XMax - r.XMin
}

// Height of an exclusive region.
func (r Region) Dy() int {
	return r.YMax - r.YMin
}

// Returns true if the exclusive region contains no pixels.
func (r Region) Empty() bool {
	return r.XMin >= r.XMax || r.YMin >= r.YMax
}

// Intersect returns the overlap of two exclusive regions.
func (r Region) Intersect(o Region) Region {
	out := Region{
		XMin: max(r.XMin, o.XMin),
		YMin: max(r.YMin, o.YMin),
		XMax: min(r.XMax, o.XMax),
		YMax: min(r.YMax, o.YMax),
	}
	if out.Empty() {
		return Region{}
	}
	return out
}

// Union returns the bounding box of two regions.
func (r Region) Union(o Region) Region {
	return Region{
		XMin: min(r.XMin, o.XMin),
		YMin: min(r.YMin, o.YMin),
		XMax: max(r.XMax, o.XMax),
		YMax: max(r.YMax, o.YMax),
	}
}

// Bounds returns the region as the [xMin, yMin, xMax, yMax] list used by
// farm job descriptions.
func (r Region) Bounds() []int {
	return []int{r.XMin, r.YMin, r.XMax, r.YMax}
}

func (r Region) String() string {
	return fmt.Sprintf("[%d, %d, %d, %d]", r.XMin, r.YMin, r.XMax, r.YMax)
}
