package memhost

import (
	"github.com/sosoyan/aton/host"
	"github.com/sosoyan/aton/universe"
)

// GenerateFunc runs after an interactive session translated its render node,
// mirroring the renderer's output stage.
type GenerateFunc func(rop host.Node, u *universe.Universe) error

// IPR is an in-memory interactive render viewer.
type IPR struct {
	scene *Scene
	node  host.Node

	active     bool
	paused     bool
	preview    bool
	autoUpdate bool

	universe *universe.Universe
	err      error

	// Invoked with every generated universe.
	OnGenerate GenerateFunc

	// Number of times the session produced a universe.
	Generations int
}

func (r *IPR) IsActive() bool { return r.active }
func (r *IPR) Paused() bool   { return r.paused }
func (r *IPR) Preview() bool  { return r.preview }

// AutoUpdate reports the viewer's auto update toggle.
func (r *IPR) AutoUpdate() bool { return r.autoUpdate }

// Universe returns the last generated universe.
func (r *IPR) Universe() *universe.Universe { return r.universe }

// Err returns the error of the last generation.
func (r *IPR) Err() error { return r.err }

func (r *IPR) SetRenderNode(n host.Node) error {
	if mn, ok := n.(*Node); !ok || mn.deleted {
		return host.ErrObjectDeleted
	}
	r.node = n
	return nil
}

func (r *IPR) Kill() {
	r.active = false
	r.paused = false
}

func (r *IPR) Start() {
	if r.node == nil {
		return
	}
	r.active = true
	r.paused = false
	r.generate()
}

func (r *IPR) Pause() {
	if r.active {
		r.paused = true
	}
}

// Resume continues a paused session and picks up any render node edits.
func (r *IPR) Resume() {
	if !r.active {
		return
	}
	r.paused = false
	r.generate()
}

// Unpause continues a paused session with its current universe, keeping
// edits made to it while paused.
func (r *IPR) Unpause() {
	if r.active {
		r.paused = false
	}
}

func (r *IPR) SetPreview(enabled bool)    { r.preview = enabled }
func (r *IPR) SetAutoUpdate(enabled bool) { r.autoUpdate = enabled }

func (r *IPR) generate() {
	r.universe, r.err = r.scene.Generate(r.node, true)
	if r.err != nil {
		r.active = false
		return
	}
	r.Generations++
	if r.OnGenerate != nil {
		r.err = r.OnGenerate(r.node, r.universe)
	}
}

// Context is an in-memory host.Context.
type Context struct {
	scene    *Scene
	ipr      *IPR
	renderer string
	start    float64
	end      float64
}

// Create a new context for scene with an open IPR viewer and Arnold as the
// active renderer.
func NewContext(scene *Scene) *Context {
	return &Context{
		scene:    scene,
		ipr:      &IPR{scene: scene},
		renderer: "arnold",
		start:    1,
		end:      240,
	}
}

func (c *Context) Scene() host.Scene { return c.scene }

// MemScene returns the concrete scene.
func (c *Context) MemScene() *Scene { return c.scene }

// Viewer returns the concrete IPR viewer.
func (c *Context) Viewer() *IPR { return c.ipr }

func (c *Context) IPR() host.IPRViewer {
	if c.ipr == nil {
		return nil
	}
	return c.ipr
}

// CloseViewer removes the IPR viewer from the context.
func (c *Context) CloseViewer() {
	c.ipr = nil
}

func (c *Context) Frame() float64         { return c.scene.frame }
func (c *Context) SetFrame(frame float64) { c.scene.frame = frame }

func (c *Context) FrameRange() (float64, float64) { return c.start, c.end }

// SetFrameRange sets the playbar range.
func (c *Context) SetFrameRange(start, end float64) {
	c.start, c.end = start, end
}

func (c *Context) ActiveRenderer() string { return c.renderer }

// SetActiveRenderer switches the host's renderer.
func (c *Context) SetActiveRenderer(name string) {
	c.renderer = name
}
