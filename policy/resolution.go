package policy

import (
	"fmt"
	"strconv"

	"github.com/sosoyan/aton/types"
)

// Resolution presets offered by the panel. Index 0 keeps the render
// target's own resolution; the remaining entries scale it by a percentage.
var presets = []int{100, 75, 50, 25, 10, 5}

// NativeLabel is the selector entry that keeps the target's resolution.
const NativeLabel = "Use ROPs"

// Percent returns the scale for a resolution selector index. Unknown
// indices resolve to 100%.
func Percent(index int) int {
	if index < 1 || index > len(presets) {
		return 100
	}
	return presets[index-1]
}

// PresetLabels returns the selector entries for a target resolution.
func PresetLabels(res types.Size) []string {
	labels := make([]string, 0, len(presets)+1)
	labels = append(labels, NativeLabel)
	for _, p := range presets {
		labels = append(labels, fmt.Sprintf("%d%% (%dx%d)", p, res.W*p/100, res.H*p/100))
	}
	return labels
}

// RegionSettings holds the crop controls of a panel. Values are measured
// against the target's origin resolution with the origin at the bottom-left
// corner; R and T are exclusive.
type RegionSettings struct {
	Enabled bool
	X       int
	Y       int
	R       int
	T       int
}

// FullFrame returns region settings covering the whole res frame.
func FullFrame(res types.Size) RegionSettings {
	return RegionSettings{R: res.W, T: res.H}
}

// Resolution is the outcome of resolving a panel's resolution selector and
// crop controls against a target's origin resolution.
type Resolution struct {
	// Scaled frame size.
	XRes int
	YRes int

	// Crop in renderer coordinates: top-left origin, inclusive max edges.
	Region types.Region

	// Percentage applied to the origin resolution.
	Percent int

	regionEnabled bool
}

// Resolve computes the effective resolution and renderer region.
func Resolve(origin types.Size, index int, rs RegionSettings) Resolution {
	p := Percent(index)
	xres := origin.W * p / 100
	yres := origin.H * p / 100

	return Resolution{
		XRes:    xres,
		YRes:    yres,
		Percent: p,
		Region: types.Region{
			XMin: rs.X * p / 100,
			YMin: yres - rs.T*p/100,
			XMax: rs.R*p/100 - 1,
			YMax: yres - rs.Y*p/100 - 1,
		},
		regionEnabled: rs.Enabled,
	}
}

// Size returns the scaled frame size.
func (r Resolution) Size() types.Size {
	return types.Size{W: r.XRes, H: r.YRes}
}

// FullRegion reports whether the region spans the whole scaled frame.
func (r Resolution) FullRegion() bool {
	return r.Region == types.Region{XMax: r.XRes - 1, YMax: r.YRes - 1}
}

// RegionChanged is true when the crop toggle is on and at least one region
// edge moved away from the full frame.
func (r Resolution) RegionChanged() bool {
	return r.regionEnabled && !r.FullRegion()
}

// ResolutionChanged reports whether an explicit resolution override must be
// declared: the scaled size differs from origin or the region does not
// cover the whole frame.
func (r Resolution) ResolutionChanged(origin types.Size) bool {
	if r.XRes != origin.W || r.YRes != origin.H {
		return true
	}
	return !r.FullRegion()
}

// Crop returns the renderer region if the region changed, nil otherwise.
func (r Resolution) Crop() *types.Region {
	if !r.RegionChanged() {
		return nil
	}
	crop := r.Region
	return &crop
}

// SplitSize returns the dimensions handed to the tile splitter. An active
// crop takes priority over the percentage scaled frame.
func (r Resolution) SplitSize() types.Size {
	if crop := r.Crop(); crop != nil {
		return types.Size{W: crop.XMax - crop.XMin + 1, H: crop.YMax - crop.YMin + 1}
	}
	return r.Size()
}

// ClampRegion returns region if it lies inside a res frame and the full
// frame region otherwise.
func ClampRegion(res types.Size, region types.Region) types.Region {
	if region.XMin >= 0 && region.YMin >= 0 && region.XMax <= res.W && region.YMax <= res.H {
		return region
	}
	return types.Region{XMax: res.W - 1, YMax: res.H - 1}
}

// Specific is the resolution fraction that selects an explicit override
// resolution instead of scaling the camera's.
const Specific = "specific"

// EffectiveResolution evaluates a render node's resolution settings against
// its camera resolution. When override is set, fraction is either Specific
// or a decimal scale applied to the camera resolution.
func EffectiveResolution(camera types.Size, override bool, fraction string, explicit types.Size) types.Size {
	if !override {
		return camera
	}
	if fraction == Specific {
		return explicit
	}

	scale, err := strconv.ParseFloat(fraction, 64)
	if err != nil {
		return camera
	}
	return types.Size{
		W: int(float64(camera.W) * scale),
		H: int(float64(camera.H) * scale),
	}
}
