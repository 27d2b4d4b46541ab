package tile

import "github.com/sosoyan/aton/types"

// ToRenderRegion maps a tile into the renderer's region convention where
// max edges are the last included pixel. When crop is not nil the tile is
// expressed relative to the crop's origin and gets translated into frame
// coordinates.
func ToRenderRegion(t types.Region, crop *types.Region) types.Region {
	var dx, dy int
	if crop != nil {
		dx, dy = crop.XMin, crop.YMin
	}

	return types.Region{
		XMin: t.XMin + dx,
		YMin: t.YMin + dy,
		XMax: t.XMax + dx - 1,
		YMax: t.YMax + dy - 1,
	}
}

// CropSize returns the pixel dimensions of an inclusive renderer region.
func CropSize(crop types.Region) types.Size {
	return types.Size{
		W: crop.XMax - crop.XMin + 1,
		H: crop.YMax - crop.YMin + 1,
	}
}

// FarmRegions returns the renderer region list for each farm worker taking
// part in a submission of a res frame split 2^f ways. If crop is set, the
// crop rectangle is partitioned instead of the full frame.
//
// A zero split factor yields a single worker with a nil region, meaning the
// worker renders without a per-tile crop.
func FarmRegions(res types.Size, crop *types.Region, f int) ([][]int, error) {
	size := res
	if crop != nil {
		size = CropSize(*crop)
	}

	plan, err := NewPlan(size.W, size.H, f)
	if err != nil {
		return nil, err
	}

	if f == 0 {
		return [][]int{nil}, nil
	}

	regions := make([][]int, 0, plan.Len())
	for _, t := range plan.Tiles() {
		regions = append(regions, ToRenderRegion(t, crop).Bounds())
	}
	return regions, nil
}
