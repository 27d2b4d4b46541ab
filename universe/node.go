package universe

import "github.com/sosoyan/aton/useropts"

// Point2 is a two component parameter value.
type Point2 [2]float64

// Node is a renderer node with typed parameters. Getters return the zero
// value for parameters that were never set.
type Node struct {
	universe *Universe

	name     string
	entry    string
	category Category

	params map[string]interface{}
	order  []string

	// Types of declared user parameters.
	user map[string]useropts.Type
}

func newNode(name, entry string, cat Category) *Node {
	return &Node{
		name:     name,
		entry:    entry,
		category: cat,
		params:   make(map[string]interface{}),
		user:     make(map[string]useropts.Type),
	}
}

func (n *Node) Name() string        { return n.name }
func (n *Node) Entry() string       { return n.entry }
func (n *Node) Category() Category  { return n.category }
func (n *Node) Universe() *Universe { return n.universe }

// Has reports whether param was assigned.
func (n *Node) Has(param string) bool {
	_, ok := n.params[param]
	return ok
}

// SetName renames the node.
func (n *Node) SetName(name string) error {
	return n.universe.Rename(n, name)
}

// Params returns the names of the set parameters in assignment order.
func (n *Node) Params() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

func (n *Node) set(param string, v interface{}) {
	if _, ok := n.params[param]; !ok {
		n.order = append(n.order, param)
	}
	n.params[param] = v
}

// Value returns the raw parameter value.
func (n *Node) Value(param string) (interface{}, bool) {
	v, ok := n.params[param]
	return v, ok
}

func (n *Node) SetStr(param, v string)             { n.set(param, v) }
func (n *Node) SetInt(param string, v int)         { n.set(param, v) }
func (n *Node) SetBool(param string, v bool)       { n.set(param, v) }
func (n *Node) SetFlt(param string, v float64)     { n.set(param, v) }
func (n *Node) SetPnt2(param string, x, y float64) { n.set(param, Point2{x, y}) }

// SetPtr points a parameter at another node. A nil target clears the link.
func (n *Node) SetPtr(param string, target *Node) {
	n.set(param, target)
}

// Link connects the output of src to param. Links are stored as pointers.
func (n *Node) Link(param string, src *Node) {
	n.SetPtr(param, src)
}

// SetArray assigns a string array parameter.
func (n *Node) SetArray(param string, v []string) {
	cp := make([]string, len(v))
	copy(cp, v)
	n.set(param, cp)
}

func (n *Node) Str(param string) string {
	v, _ := n.params[param].(string)
	return v
}

func (n *Node) Int(param string) int {
	v, _ := n.params[param].(int)
	return v
}

func (n *Node) Bool(param string) bool {
	v, _ := n.params[param].(bool)
	return v
}

func (n *Node) Flt(param string) float64 {
	switch v := n.params[param].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (n *Node) Pnt2(param string) Point2 {
	v, _ := n.params[param].(Point2)
	return v
}

func (n *Node) Ptr(param string) *Node {
	v, _ := n.params[param].(*Node)
	return v
}

// Array returns a copy of a string array parameter.
func (n *Node) Array(param string) []string {
	v, _ := n.params[param].([]string)
	out := make([]string, len(v))
	copy(out, v)
	return out
}

// DeclareUser declares a constant user parameter.
func (n *Node) DeclareUser(param string, typ useropts.Type) {
	n.user[param] = typ
}

// LookUpUserParameter reports whether param was declared as a user parameter.
func (n *Node) LookUpUserParameter(param string) bool {
	_, ok := n.user[param]
	return ok
}

// Declare adds every declaration to the node as a user parameter and
// assigns its value.
func (n *Node) Declare(d *useropts.Declarations) {
	for _, decl := range d.Entries() {
		n.DeclareUser(decl.Name, decl.Type)
		n.set(decl.Name, decl.Value)
	}
}
