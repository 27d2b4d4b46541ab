package policy

import (
	"testing"

	"github.com/sosoyan/aton/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hd = types.Size{W: 1920, H: 1080}

func TestPercent(t *testing.T) {
	specs := map[int]int{0: 100, 1: 100, 2: 75, 3: 50, 4: 25, 5: 10, 6: 5, 7: 100, -1: 100}
	for index, exp := range specs {
		assert.Equal(t, exp, Percent(index), "index %d", index)
	}
}

func TestPresetLabels(t *testing.T) {
	labels := PresetLabels(hd)
	assert.Equal(t, []string{
		"Use ROPs",
		"100% (1920x1080)",
		"75% (1440x810)",
		"50% (960x540)",
		"25% (480x270)",
		"10% (192x108)",
		"5% (96x54)",
	}, labels)
}

func TestResolveScalesBeforeTruncation(t *testing.T) {
	res := Resolve(types.Size{W: 1001, H: 333}, 4, FullFrame(types.Size{W: 1001, H: 333}))
	assert.Equal(t, 250, res.XRes)
	assert.Equal(t, 83, res.YRes)
	assert.Equal(t, 25, res.Percent)
}

func TestUntouchedPanelHasNoOverrides(t *testing.T) {
	rs := FullFrame(hd)
	rs.Enabled = true

	res := Resolve(hd, 0, rs)
	assert.False(t, res.ResolutionChanged(hd))
	assert.False(t, res.RegionChanged())
	assert.Nil(t, res.Crop())
	assert.Equal(t, types.Region{XMin: 0, YMin: 0, XMax: 1919, YMax: 1079}, res.Region)
	assert.Equal(t, hd, res.SplitSize())
}

func TestSingleRegionEditChangesResolution(t *testing.T) {
	edits := []func(rs *RegionSettings){
		func(rs *RegionSettings) { rs.X = 10 },
		func(rs *RegionSettings) { rs.Y = 10 },
		func(rs *RegionSettings) { rs.R = 1900 },
		func(rs *RegionSettings) { rs.T = 1000 },
	}

	for index, edit := range edits {
		rs := FullFrame(hd)
		edit(&rs)

		res := Resolve(hd, 0, rs)
		assert.True(t, res.ResolutionChanged(hd), "edit %d", index)

		// The crop toggle gates the region override but not the resolution one.
		assert.False(t, res.RegionChanged(), "edit %d", index)
		rs.Enabled = true
		assert.True(t, Resolve(hd, 0, rs).RegionChanged(), "edit %d", index)
	}
}

func TestPresetChangesResolution(t *testing.T) {
	res := Resolve(hd, 3, FullFrame(hd))
	assert.True(t, res.ResolutionChanged(hd))
	assert.False(t, res.RegionChanged())
	assert.Equal(t, types.Size{W: 960, H: 540}, res.Size())
	assert.Equal(t, types.Region{XMax: 959, YMax: 539}, res.Region)
}

func TestRegionIsFlippedIntoRendererSpace(t *testing.T) {
	// Panel crop with bottom-left origin: 100..900 horizontally and
	// 480..1030 vertically of a 1080 pixel tall frame.
	rs := RegionSettings{Enabled: true, X: 100, Y: 480, R: 900, T: 1030}

	res := Resolve(hd, 0, rs)
	require.True(t, res.RegionChanged())
	assert.Equal(t, types.Region{XMin: 100, YMin: 50, XMax: 899, YMax: 599}, *res.Crop())
	assert.Equal(t, types.Size{W: 800, H: 550}, res.SplitSize())
}

func TestRegionTakesPriorityOverPreset(t *testing.T) {
	rs := RegionSettings{Enabled: true, X: 0, Y: 0, R: 960, T: 1080}

	res := Resolve(hd, 3, rs)
	assert.Equal(t, types.Size{W: 960, H: 540}, res.Size())
	require.True(t, res.RegionChanged())
	assert.Equal(t, types.Size{W: 480, H: 540}, res.SplitSize())
}

func TestClampRegion(t *testing.T) {
	inside := types.Region{XMin: 10, YMin: 10, XMax: 100, YMax: 100}
	assert.Equal(t, inside, ClampRegion(hd, inside))

	outside := types.Region{XMin: -5, YMin: 0, XMax: 100, YMax: 100}
	assert.Equal(t, types.Region{XMax: 1919, YMax: 1079}, ClampRegion(hd, outside))
}

func TestEffectiveResolution(t *testing.T) {
	explicit := types.Size{W: 640, H: 480}

	assert.Equal(t, hd, EffectiveResolution(hd, false, Specific, explicit))
	assert.Equal(t, explicit, EffectiveResolution(hd, true, Specific, explicit))
	assert.Equal(t, types.Size{W: 960, H: 540}, EffectiveResolution(hd, true, "0.5", explicit))
	assert.Equal(t, types.Size{W: 480, H: 270}, EffectiveResolution(hd, true, "0.25", explicit))
	assert.Equal(t, hd, EffectiveResolution(hd, true, "bogus", explicit))
}
