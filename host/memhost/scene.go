// Package memhost is an in-memory host application used by the command line
// tools and tests. Scenes can be built programmatically or loaded from a
// TOML scene description.
package memhost

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/sosoyan/aton/host"
	"github.com/sosoyan/aton/policy"
	"github.com/sosoyan/aton/types"
	"github.com/sosoyan/aton/universe"
	"github.com/sosoyan/aton/useropts"
)

// Node types.
const (
	CameraType       = "cam"
	StereoCameraType = "stereocam"
	RenderType       = "arnold"
)

// DefaultBucketModes are offered when a scene does not list its own.
var DefaultBucketModes = []string{"top", "left", "random", "spiral", "hilbert"}

// Scene is an in-memory scene graph.
type Scene struct {
	nodes       []*Node
	byPath      map[string]*Node
	bucketModes []string
	frame       float64
}

// Create an empty scene.
func NewScene() *Scene {
	return &Scene{
		byPath:      make(map[string]*Node),
		bucketModes: DefaultBucketModes,
		frame:       1,
	}
}

// AddNode creates a node of type typ at path with the given attributes.
func (s *Scene) AddNode(nodePath, typ string, attrs map[string]interface{}) (*Node, error) {
	if _, exists := s.byPath[nodePath]; exists {
		return nil, fmt.Errorf("memhost: node %s already exists", nodePath)
	}

	n := &Node{
		scene: s,
		path:  nodePath,
		typ:   typ,
		attrs: make(map[string]interface{}, len(attrs)),
	}
	for name, value := range attrs {
		n.Define(name, value)
	}

	s.nodes = append(s.nodes, n)
	s.byPath[nodePath] = n
	return n, nil
}

// AddCamera creates a camera node with resolution res.
func (s *Scene) AddCamera(nodePath string, res types.Size) (*Node, error) {
	return s.AddNode(nodePath, CameraType, map[string]interface{}{
		"res":    []int{res.W, res.H},
		"aspect": 1.0,
	})
}

// RenderNodeDefaults returns the attributes of a freshly created Arnold
// render node.
func RenderNodeDefaults(camera string) map[string]interface{} {
	return map[string]interface{}{
		"camera":                 camera,
		"override_camerares":     false,
		"res_fraction":           policy.Specific,
		"res_override":           []int{1280, 720},
		"aspect_override":        1.0,
		"ar_AA_samples":          3,
		"ar_bucket_scanning":     "spiral",
		"ar_user_options_enable": false,
		"ar_user_options":        "",
		"ar_ass_export_enable":   false,
		"ar_ass_file":            "",
		"ar_picture":             "ip",
	}
}

// AddRenderNode creates an Arnold render node looking through camera.
func (s *Scene) AddRenderNode(nodePath, camera string) (*Node, error) {
	return s.AddNode(nodePath, RenderType, RenderNodeDefaults(camera))
}

// Delete removes a node and notifies its listeners.
func (s *Scene) Delete(nodePath string) error {
	n, ok := s.byPath[nodePath]
	if !ok {
		return fmt.Errorf("memhost: no node at %s", nodePath)
	}

	n.notify(func(l host.Listener) { l.BeingDeleted(n) })
	n.deleted = true
	n.listener = nil
	delete(s.byPath, nodePath)
	for i, cur := range s.nodes {
		if cur == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	return nil
}

// Rename changes the last path component of a node.
func (s *Scene) Rename(nodePath, name string) error {
	n, ok := s.byPath[nodePath]
	if !ok {
		return fmt.Errorf("memhost: no node at %s", nodePath)
	}
	newPath := path.Join(path.Dir(nodePath), name)
	if _, exists := s.byPath[newPath]; exists {
		return fmt.Errorf("memhost: node %s already exists", newPath)
	}

	delete(s.byPath, nodePath)
	n.path = newPath
	s.byPath[newPath] = n
	n.notify(func(l host.Listener) { l.NameChanged(n) })
	return nil
}

func (s *Scene) Node(nodePath string) (host.Node, bool) {
	n, ok := s.byPath[nodePath]
	if !ok {
		return nil, false
	}
	return n, true
}

func (s *Scene) Cameras() []host.Node {
	return s.nodesOfType(CameraType, StereoCameraType)
}

func (s *Scene) RenderNodes() []host.Node {
	return s.nodesOfType(RenderType)
}

func (s *Scene) nodesOfType(typs ...string) []host.Node {
	var out []host.Node
	for _, n := range s.nodes {
		for _, typ := range typs {
			if n.typ == typ {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

func (s *Scene) BucketModes() []string {
	if len(s.RenderNodes()) == 0 {
		return nil
	}
	return s.bucketModes
}

// SetBucketModes overrides the offered bucket scanning modes.
func (s *Scene) SetBucketModes(modes []string) {
	s.bucketModes = modes
}

// Export writes the scene as seen by a render node to a scene file. Frame
// tokens ($F, $F2..$F9) in path are expanded with the current frame.
func (s *Scene) Export(node host.Node, filePath string) (string, error) {
	u, err := s.Generate(node, false)
	if err != nil {
		return "", err
	}

	resolved := s.ExpandFrame(filePath)
	if err = u.WriteFile(resolved); err != nil {
		return "", err
	}
	return resolved, nil
}

// ExpandFrame substitutes frame tokens in p.
func (s *Scene) ExpandFrame(p string) string {
	frame := int(s.frame)
	for pad := 9; pad >= 2; pad-- {
		p = strings.ReplaceAll(p, "$F"+strconv.Itoa(pad), fmt.Sprintf("%0*d", pad, frame))
	}
	return strings.ReplaceAll(p, "$F", strconv.Itoa(frame))
}

// Generate translates a render node into a renderer universe. Interactive
// sessions render into the host's own display driver.
func (s *Scene) Generate(node host.Node, interactive bool) (*universe.Universe, error) {
	n, ok := node.(*Node)
	if !ok || n.deleted {
		return nil, host.ErrObjectDeleted
	}

	u := universe.New()
	opts := u.Options()

	camPath, _ := n.String("camera")
	camNode, ok := s.byPath[camPath]
	if !ok {
		cams := s.Cameras()
		if len(cams) == 0 {
			return nil, fmt.Errorf("memhost: %s has no camera", n.path)
		}
		camNode = cams[0].(*Node)
	}

	cam, _ := u.NewNode("persp_camera")
	if err := cam.SetName(camNode.path); err != nil {
		return nil, err
	}
	opts.SetPtr("camera", cam)

	camRes, _ := camNode.Ints("res")
	override, _ := n.Bool("override_camerares")
	fraction, _ := n.String("res_fraction")
	explicit, _ := n.Ints("res_override")
	res := policy.EffectiveResolution(pair(camRes), override, fraction, pair(explicit))
	opts.SetInt("xres", res.W)
	opts.SetInt("yres", res.H)

	aspect, _ := camNode.Float("aspect")
	if override {
		aspect, _ = n.Float("aspect_override")
	}
	opts.SetFlt("pixel_aspect_ratio", aspect)

	if aa, err := n.Int("ar_AA_samples"); err == nil {
		opts.SetInt("AA_samples", aa)
	}
	if bucket, err := n.String("ar_bucket_scanning"); err == nil {
		opts.SetStr("bucket_scanning", bucket)
	}
	opts.SetFlt("frame", s.frame)

	filter, _ := u.NewNode("gaussian_filter")
	entry, suffix := "driver_exr", ":exr"
	if interactive {
		entry, suffix = "driver_houdini", ":houdini"
	}
	drv, _ := u.NewNode(entry)
	if err := drv.SetName(n.path + suffix); err != nil {
		return nil, err
	}
	outputs := []string{"RGBA RGBA " + filter.Name() + " " + drv.Name()}
	if noice, err := n.Bool("ar_noice"); err == nil && noice {
		variance, _ := u.NewNode("variance_filter")
		outputs = append(outputs, "RGBA RGBA "+variance.Name()+" "+drv.Name())
	}
	opts.SetArray("outputs", outputs)

	if enabled, _ := n.Bool("ar_user_options_enable"); enabled {
		raw, _ := n.String("ar_user_options")
		decls, err := useropts.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("memhost: %s user options: %w", n.path, err)
		}
		opts.Declare(decls)
	}

	return u, nil
}

func pair(v []int) types.Size {
	if len(v) < 2 {
		return types.Size{}
	}
	return types.Size{W: v[0], H: v[1]}
}
