// Package universe provides an in-memory renderer scene: typed nodes grouped
// by category, the global options node and a text scene-file codec.
package universe

import (
	"fmt"
	"iter"
)

// Category groups node entries the way the renderer's node iterators do.
type Category uint8

const (
	Options Category = iota
	Camera
	Light
	Shape
	Shader
	Texture
	Filter
	Driver
)

var categoryNames = map[Category]string{
	Options: "options",
	Camera:  "camera",
	Light:   "light",
	Shape:   "shape",
	Shader:  "shader",
	Texture: "texture",
	Filter:  "filter",
	Driver:  "driver",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", c)
}

// Node entries known to every universe.
var defaultEntries = map[string]Category{
	"options":            Options,
	"persp_camera":       Camera,
	"ortho_camera":       Camera,
	"point_light":        Light,
	"skydome_light":      Light,
	"polymesh":           Shape,
	"sphere":             Shape,
	"standard":           Shader,
	"utility":            Shader,
	"MayaChecker":        Texture,
	"MayaPlace2DTexture": Texture,
	"gaussian_filter":    Filter,
	"variance_filter":    Filter,
	"driver_exr":         Driver,
	"driver_houdini":     Driver,
	"driver_aton":        Driver,
}

// Universe is a flat collection of renderer nodes.
type Universe struct {
	entries map[string]Category
	nodes   []*Node
	byName  map[string]*Node
	options *Node
	counter int
}

// Create a new universe holding only the options node.
func New() *Universe {
	u := &Universe{
		entries: make(map[string]Category, len(defaultEntries)),
		byName:  make(map[string]*Node),
	}
	for name, cat := range defaultEntries {
		u.entries[name] = cat
	}

	u.options = newNode("options", "options", Options)
	u.add(u.options)
	return u
}

// RegisterEntry makes a node entry available for NewNode.
func (u *Universe) RegisterEntry(entry string, cat Category) {
	u.entries[entry] = cat
}

// HasEntry reports whether nodes of the given entry can be created.
func (u *Universe) HasEntry(entry string) bool {
	_, ok := u.entries[entry]
	return ok
}

// Options returns the global options node.
func (u *Universe) Options() *Node {
	return u.options
}

// NewNode creates a node of the given entry with a generated unique name.
func (u *Universe) NewNode(entry string) (*Node, error) {
	cat, ok := u.entries[entry]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, entry)
	}
	if cat == Options {
		return u.options, nil
	}

	var name string
	for {
		u.counter++
		name = fmt.Sprintf("%s_%d", entry, u.counter)
		if _, taken := u.byName[name]; !taken {
			break
		}
	}

	n := newNode(name, entry, cat)
	u.add(n)
	return n, nil
}

func (u *Universe) add(n *Node) {
	n.universe = u
	u.nodes = append(u.nodes, n)
	u.byName[n.name] = n
}

// Rename a node. Names must be unique within the universe.
func (u *Universe) Rename(n *Node, name string) error {
	if other, ok := u.byName[name]; ok && other != n {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	delete(u.byName, n.name)
	n.name = name
	u.byName[name] = n
	return nil
}

// LookUp returns the node with the given name or nil.
func (u *Universe) LookUp(name string) *Node {
	return u.byName[name]
}

// Nodes iterates over the nodes of a category in creation order.
func (u *Universe) Nodes(cat Category) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range u.nodes {
			if n.category == cat && !yield(n) {
				return
			}
		}
	}
}

// Len returns the number of nodes including the options node.
func (u *Universe) Len() int {
	return len(u.nodes)
}
