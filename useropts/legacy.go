package useropts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Apply appends the serialized declarations to a user options string.
func Apply(base string, d *Declarations) string {
	if d == nil || d.Len() == 0 {
		return base
	}
	if base == "" {
		return d.String()
	}
	return base + " " + d.String()
}

// Rollback strips everything from the first aton_enable declaration to the
// end of s, along with the separator Apply inserted before it.
func Rollback(s string) string {
	idx := strings.Index(s, "declare "+Enable)
	if idx < 0 {
		return s
	}
	return strings.TrimSuffix(s[:idx], " ")
}

// Parse extracts the Aton declare clauses of a user options string. Tokens
// outside of them, including declarations of other parameters, are skipped.
func Parse(s string) (*Declarations, error) {
	tokens, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	d := New()
	for i := 0; i < len(tokens); i++ {
		if tokens[i] != "declare" || i+1 >= len(tokens) || !strings.HasPrefix(tokens[i+1], Prefix) {
			continue
		}
		if i+5 >= len(tokens) || tokens[i+2] != "constant" {
			return nil, fmt.Errorf("%w: truncated clause at token %d", ErrMalformed, i)
		}

		name, typ, raw := tokens[i+1], Type(strings.ToUpper(tokens[i+3])), tokens[i+5]
		if tokens[i+4] != name {
			return nil, fmt.Errorf("%w: parameter name mismatch %q/%q", ErrMalformed, name, tokens[i+4])
		}

		value, err := ParseValue(typ, raw)
		if err != nil {
			return nil, fmt.Errorf("declaration %q: %w", name, err)
		}
		d.set(Declaration{Name: name, Type: typ, Value: value})
		i += 5
	}

	return d, nil
}

// ParseValue converts the textual form of a typ value.
func ParseValue(typ Type, raw string) (interface{}, error) {
	switch typ {
	case Bool:
		switch strings.ToLower(raw) {
		case "on", "true", "1":
			return true, nil
		case "off", "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%w: invalid boolean %q", ErrMalformed, raw)
	case Int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid integer %q", ErrMalformed, raw)
		}
		return v, nil
	case Float:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid float %q", ErrMalformed, raw)
		}
		return v, nil
	case String:
		return raw, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
}
