package useropts

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the renderer type of a declared user parameter.
type Type string

const (
	Bool   Type = "BOOL"
	Int    Type = "INT"
	Float  Type = "FLOAT"
	String Type = "STRING"
)

// A Declaration is a single constant user parameter.
type Declaration struct {
	Name  string
	Type  Type
	Value interface{}
}

// Clause returns the declaration in the renderer's user options syntax:
//
//	declare <name> constant <TYPE> <name> <value>
func (d Declaration) Clause() string {
	return fmt.Sprintf("declare %s constant %s %s %s", d.Name, d.Type, d.Name, d.formatValue())
}

func (d Declaration) formatValue() string {
	switch v := d.Value.(type) {
	case bool:
		if v {
			return "on"
		}
		return "off"
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return `"` + v + `"`
	}
	return fmt.Sprint(d.Value)
}

// Declarations is an insertion ordered set of declarations keyed by name.
type Declarations struct {
	entries []Declaration
}

// Create an empty declaration set.
func New() *Declarations {
	return &Declarations{}
}

func (d *Declarations) set(decl Declaration) {
	for i := range d.entries {
		if d.entries[i].Name == decl.Name {
			d.entries[i] = decl
			return
		}
	}
	d.entries = append(d.entries, decl)
}

func (d *Declarations) SetBool(name string, v bool) {
	d.set(Declaration{Name: name, Type: Bool, Value: v})
}

func (d *Declarations) SetInt(name string, v int) {
	d.set(Declaration{Name: name, Type: Int, Value: v})
}

func (d *Declarations) SetFloat(name string, v float64) {
	d.set(Declaration{Name: name, Type: Float, Value: v})
}

func (d *Declarations) SetString(name string, v string) {
	d.set(Declaration{Name: name, Type: String, Value: v})
}

// Get looks up a declaration by name.
func (d *Declarations) Get(name string) (Declaration, bool) {
	for _, decl := range d.entries {
		if decl.Name == name {
			return decl, true
		}
	}
	return Declaration{}, false
}

// Has reports whether name is declared.
func (d *Declarations) Has(name string) bool {
	_, ok := d.Get(name)
	return ok
}

// Bool returns a declared boolean. The second result is false if name is
// missing or not a boolean.
func (d *Declarations) Bool(name string) (bool, bool) {
	decl, ok := d.Get(name)
	if !ok {
		return false, false
	}
	v, ok := decl.Value.(bool)
	return v, ok
}

func (d *Declarations) Int(name string) (int, bool) {
	decl, ok := d.Get(name)
	if !ok {
		return 0, false
	}
	v, ok := decl.Value.(int)
	return v, ok
}

func (d *Declarations) Float(name string) (float64, bool) {
	decl, ok := d.Get(name)
	if !ok {
		return 0, false
	}
	v, ok := decl.Value.(float64)
	return v, ok
}

func (d *Declarations) Str(name string) (string, bool) {
	decl, ok := d.Get(name)
	if !ok {
		return "", false
	}
	v, ok := decl.Value.(string)
	return v, ok
}

// Delete removes name from the set.
func (d *Declarations) Delete(name string) {
	for i := range d.entries {
		if d.entries[i].Name == name {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of declarations.
func (d *Declarations) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the declarations in insertion order.
func (d *Declarations) Entries() []Declaration {
	out := make([]Declaration, len(d.entries))
	copy(out, d.entries)
	return out
}

// String serializes the set as whitespace joined declare clauses.
func (d *Declarations) String() string {
	clauses := make([]string, 0, len(d.entries))
	for _, decl := range d.entries {
		clauses = append(clauses, decl.Clause())
	}
	return strings.Join(clauses, " ")
}
