package policy

import (
	"strconv"
	"strings"
)

const (
	nukePasteHeader = "set cut_paste_input [stack 0]"
	nukeCropHeader  = "Crop {"
)

// ParseCropClipboard extracts crop region settings from clipboard data
// copied out of a compositing package. Two layouts are understood:
//
//	x,y,r,t,res             values scaled by originW/res
//	set cut_paste_input ... a pasted Crop node with a "box {x y r t}" knob
//
// The returned settings are enabled. The second result is false if the
// data matches neither layout.
func ParseCropClipboard(data string, originW int) (RegionSettings, bool) {
	if rs, ok := parseCropList(data, originW); ok {
		return rs, true
	}
	return parseCropNode(data)
}

func parseCropList(data string, originW int) (RegionSettings, bool) {
	fields := strings.Split(strings.TrimSpace(data), ",")
	if len(fields) != 5 {
		return RegionSettings{}, false
	}

	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return RegionSettings{}, false
		}
		values[i] = v
	}
	if values[4] <= 0 {
		return RegionSettings{}, false
	}

	mult := float64(originW) / values[4]
	return RegionSettings{
		Enabled: true,
		X:       int(values[0] * mult),
		Y:       int(values[1] * mult),
		R:       int(values[2] * mult),
		T:       int(values[3] * mult),
	}, true
}

func parseCropNode(data string) (RegionSettings, bool) {
	lines := strings.SplitN(data, "\n", 10)
	if len(lines) < 5 || !strings.Contains(lines[0], nukePasteHeader) || !strings.Contains(lines[3], nukeCropHeader) {
		return RegionSettings{}, false
	}

	box := between(lines[4], "box {", "}")
	fields := strings.Fields(box)
	if len(fields) < 4 {
		return RegionSettings{}, false
	}

	var v [4]int
	for i := range v {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return RegionSettings{}, false
		}
		v[i] = int(f)
	}

	return RegionSettings{Enabled: true, X: v[0], Y: v[1], R: v[2], T: v[3]}, true
}

func between(s, first, last string) string {
	start := strings.Index(s, first)
	if start < 0 {
		return ""
	}
	start += len(first)

	end := strings.Index(s[start:], last)
	if end < 0 {
		return ""
	}
	return s[start : start+end]
}
