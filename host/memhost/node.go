package memhost

import (
	"fmt"
	"path"

	"github.com/sosoyan/aton/host"
)

// Node is an in-memory scene node.
type Node struct {
	scene *Scene

	path     string
	typ      string
	attrs    map[string]interface{}
	deleted  bool
	listener []host.Listener
}

func (n *Node) Path() string { return n.path }
func (n *Node) Name() string { return path.Base(n.path) }
func (n *Node) Type() string { return n.typ }

// Deleted reports whether the node was removed from its scene.
func (n *Node) Deleted() bool { return n.deleted }

func (n *Node) HasAttr(name string) bool {
	if n.deleted {
		return false
	}
	_, ok := n.attrs[name]
	return ok
}

// Define adds or replaces an attribute without firing change events.
func (n *Node) Define(name string, value interface{}) {
	n.attrs[name] = normalize(value)
}

func (n *Node) get(name string) (interface{}, error) {
	if n.deleted {
		return nil, host.ErrObjectDeleted
	}
	v, ok := n.attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", host.ErrNoAttribute, n.path, name)
	}
	return v, nil
}

func (n *Node) String(name string) (string, error) {
	v, err := n.get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s.%s is not a string", host.ErrTypeMismatch, n.path, name)
	}
	return s, nil
}

func (n *Node) Int(name string) (int, error) {
	v, err := n.get(name)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %s.%s is not an integer", host.ErrTypeMismatch, n.path, name)
}

func (n *Node) Bool(name string) (bool, error) {
	v, err := n.get(name)
	if err != nil {
		return false, err
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case int:
		return t != 0, nil
	}
	return false, fmt.Errorf("%w: %s.%s is not a toggle", host.ErrTypeMismatch, n.path, name)
}

func (n *Node) Float(name string) (float64, error) {
	v, err := n.get(name)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	}
	return 0, fmt.Errorf("%w: %s.%s is not a float", host.ErrTypeMismatch, n.path, name)
}

func (n *Node) Ints(name string) ([]int, error) {
	v, err := n.get(name)
	if err != nil {
		return nil, err
	}
	t, ok := v.([]int)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s is not an integer tuple", host.ErrTypeMismatch, n.path, name)
	}
	out := make([]int, len(t))
	copy(out, t)
	return out, nil
}

// Assign a value to an existing attribute, keeping its type.
func (n *Node) set(name string, value interface{}) error {
	cur, err := n.get(name)
	if err != nil {
		return err
	}
	if fmt.Sprintf("%T", cur) != fmt.Sprintf("%T", value) {
		// Toggles and integer menus are interchangeable.
		switch cur.(type) {
		case bool:
			b, ok := value.(int)
			if !ok {
				return fmt.Errorf("%w: %s.%s", host.ErrTypeMismatch, n.path, name)
			}
			value = b != 0
		case int:
			b, ok := value.(bool)
			if !ok {
				return fmt.Errorf("%w: %s.%s", host.ErrTypeMismatch, n.path, name)
			}
			value = 0
			if b {
				value = 1
			}
		case float64:
			i, ok := value.(int)
			if !ok {
				return fmt.Errorf("%w: %s.%s", host.ErrTypeMismatch, n.path, name)
			}
			value = float64(i)
		default:
			return fmt.Errorf("%w: %s.%s", host.ErrTypeMismatch, n.path, name)
		}
	}

	n.attrs[name] = value
	n.notify(func(l host.Listener) { l.AttrChanged(n, name) })
	return nil
}

func (n *Node) SetString(name, v string) error        { return n.set(name, v) }
func (n *Node) SetInt(name string, v int) error       { return n.set(name, v) }
func (n *Node) SetBool(name string, v bool) error     { return n.set(name, v) }
func (n *Node) SetFloat(name string, v float64) error { return n.set(name, v) }

func (n *Node) SetInts(name string, v []int) error {
	cp := make([]int, len(v))
	copy(cp, v)
	return n.set(name, cp)
}

func (n *Node) AddListener(l host.Listener) {
	n.listener = append(n.listener, l)
}

func (n *Node) RemoveListener(l host.Listener) error {
	if n.deleted {
		return host.ErrObjectDeleted
	}
	for i, cur := range n.listener {
		if cur == l {
			n.listener = append(n.listener[:i], n.listener[i+1:]...)
			return nil
		}
	}
	return host.ErrNotRegistered
}

// Listeners returns the number of registered listeners.
func (n *Node) Listeners() int {
	return len(n.listener)
}

// Listeners may unregister themselves while being notified.
func (n *Node) notify(fn func(l host.Listener)) {
	listeners := make([]host.Listener, len(n.listener))
	copy(listeners, n.listener)
	for _, l := range listeners {
		fn(l)
	}
}

// Convert values decoded from scene descriptions to attribute types.
func normalize(value interface{}) interface{} {
	switch t := value.(type) {
	case int64:
		return int(t)
	case int32:
		return int(t)
	case float32:
		return float64(t)
	case []int64:
		out := make([]int, len(t))
		for i, v := range t {
			out[i] = int(v)
		}
		return out
	case []interface{}:
		out := make([]int, 0, len(t))
		for _, v := range t {
			switch iv := v.(type) {
			case int64:
				out = append(out, int(iv))
			case int:
				out = append(out, iv)
			case float64:
				out = append(out, int(iv))
			}
		}
		return out
	}
	return value
}
