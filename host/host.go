// Package host defines the subset of a content creation application that the
// Aton panels consume: scene nodes with typed attributes and change events,
// the interactive render viewer and the playbar.
package host

// Listener receives node events. Callbacks are delivered synchronously on
// the goroutine that caused the change.
type Listener interface {
	NameChanged(n Node)
	BeingDeleted(n Node)
	AttrChanged(n Node, attr string)
}

// Node is a scene graph node with named, typed attributes.
type Node interface {
	Path() string
	Name() string
	Type() string

	HasAttr(name string) bool

	String(name string) (string, error)
	Int(name string) (int, error)
	Bool(name string) (bool, error)
	Float(name string) (float64, error)
	Ints(name string) ([]int, error)

	SetString(name, v string) error
	SetInt(name string, v int) error
	SetBool(name string, v bool) error
	SetFloat(name string, v float64) error
	SetInts(name string, v []int) error

	AddListener(l Listener)
	RemoveListener(l Listener) error
}

// Scene gives access to the nodes of the current scene.
type Scene interface {
	// Look up a node by path.
	Node(path string) (Node, bool)

	// All camera nodes in scene order.
	Cameras() []Node

	// All render output nodes driven by the Arnold renderer.
	RenderNodes() []Node

	// The bucket scanning modes offered by render nodes.
	BucketModes() []string

	// Export the scene as seen by node to a scene file at path and return
	// the resolved path.
	Export(node Node, path string) (string, error)
}

// IPRViewer controls the host's interactive render session.
type IPRViewer interface {
	IsActive() bool
	SetRenderNode(n Node) error
	Kill()
	Start()
	Pause()
	Resume()
	SetPreview(enabled bool)
	SetAutoUpdate(enabled bool)
}

// Context replaces ambient host state with an explicit handle.
type Context interface {
	Scene() Scene

	// IPR returns the interactive viewer or nil if none is open.
	IPR() IPRViewer

	Frame() float64
	SetFrame(frame float64)
	FrameRange() (start, end float64)

	// ActiveRenderer returns the name of the host's current renderer.
	ActiveRenderer() string
}
