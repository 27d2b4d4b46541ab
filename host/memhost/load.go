package memhost

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

type sceneDescription struct {
	Renderer    string            `toml:"renderer"`
	Frame       float64           `toml:"frame"`
	FrameRange  []float64         `toml:"frame_range"`
	BucketModes []string          `toml:"bucket_modes"`
	Nodes       []nodeDescription `toml:"node"`
}

type nodeDescription struct {
	Path   string                 `toml:"path"`
	Type   string                 `toml:"type"`
	Camera string                 `toml:"camera"`
	Attrs  map[string]interface{} `toml:"attrs"`
}

// Load builds a host context from a TOML scene description:
//
//	frame = 12
//	frame_range = [1, 48]
//
//	[[node]]
//	path = "/obj/cam1"
//	type = "cam"
//	attrs = { res = [1920, 1080] }
//
//	[[node]]
//	path = "/out/beauty"
//	type = "arnold"
//	camera = "/obj/cam1"
//	attrs = { ar_AA_samples = 5 }
//
// Render nodes start from RenderNodeDefaults and cameras from a 1920x1080
// resolution; attrs override the defaults.
func Load(r io.Reader) (*Context, error) {
	var desc sceneDescription
	if _, err := toml.NewDecoder(r).Decode(&desc); err != nil {
		return nil, fmt.Errorf("memhost: could not decode scene description: %w", err)
	}

	scene := NewScene()
	if len(desc.BucketModes) != 0 {
		scene.SetBucketModes(desc.BucketModes)
	}

	for _, nd := range desc.Nodes {
		var attrs map[string]interface{}
		switch nd.Type {
		case RenderType:
			attrs = RenderNodeDefaults(nd.Camera)
		case CameraType, StereoCameraType:
			attrs = map[string]interface{}{"res": []int{1920, 1080}, "aspect": 1.0}
		default:
			attrs = make(map[string]interface{})
		}
		for name, value := range nd.Attrs {
			attrs[name] = value
		}

		if _, err := scene.AddNode(nd.Path, nd.Type, attrs); err != nil {
			return nil, err
		}
	}

	ctx := NewContext(scene)
	if desc.Renderer != "" {
		ctx.SetActiveRenderer(desc.Renderer)
	}
	if desc.Frame != 0 {
		ctx.SetFrame(desc.Frame)
	}
	if len(desc.FrameRange) == 2 {
		ctx.SetFrameRange(desc.FrameRange[0], desc.FrameRange[1])
	}
	return ctx, nil
}
