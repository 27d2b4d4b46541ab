package universe

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/sosoyan/aton/useropts"
)

// The scene file format is a sequence of node blocks:
//
//	options
//	{
//	 name options
//	 xres 1920
//	 camera persp_camera_1
//	 outputs 1 STRING "RGBA RGBA gaussian_filter_1 driver_exr_1"
//	 declare aton_port constant INT
//	 aton_port 9201
//	}
//
// Quoted values are strings, on/off are booleans, numbers containing a
// decimal point or exponent are floats, two floats form a point and bare
// words reference other nodes by name.

// Write the universe to w.
func (u *Universe) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, n := range u.nodes {
		fmt.Fprintf(bw, "%s\n{\n name %s\n", n.entry, n.name)
		for _, param := range n.order {
			if typ, ok := n.user[param]; ok {
				fmt.Fprintf(bw, " declare %s constant %s\n", param, typ)
			}
			value, ok := formatValue(n.params[param])
			if !ok {
				continue
			}
			fmt.Fprintf(bw, " %s %s\n", param, value)
		}
		bw.WriteString("}\n\n")
	}
	return bw.Flush()
}

// WriteFile writes the universe to a scene file.
func (u *Universe) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = u.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatValue(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return quote(t), true
	case bool:
		if t {
			return "on", true
		}
		return "off", true
	case int:
		return strconv.Itoa(t), true
	case float64:
		return formatFloat(t), true
	case Point2:
		return formatFloat(t[0]) + " " + formatFloat(t[1]), true
	case *Node:
		if t == nil {
			return "", false
		}
		return t.name, true
	case []string:
		items := make([]string, 0, len(t)+2)
		items = append(items, strconv.Itoa(len(t)), string(useropts.String))
		for _, item := range t {
			items = append(items, quote(item))
		}
		return strings.Join(items, " "), true
	}
	return "", false
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

type pendingRef struct {
	node   *Node
	param  string
	target string
	line   int
}

// Load reads node blocks from r into the universe. Options found in the
// file are merged into the existing options node.
func (u *Universe) Load(r io.Reader) error {
	var (
		scanner = bufio.NewScanner(r)
		lineNum int
		entry   string
		cur     *Node
		inBlock bool
		refs    []pendingRef
	)

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case !inBlock && entry == "":
			entry = line
			if strings.HasSuffix(entry, "{") {
				entry = strings.TrimSpace(strings.TrimSuffix(entry, "{"))
				inBlock = true
			}
			if _, ok := u.entries[entry]; !ok {
				return fmt.Errorf("%w: line %d: %s", ErrUnknownEntry, lineNum, entry)
			}
		case !inBlock:
			if line != "{" {
				return fmt.Errorf("%w: line %d: expected '{'", ErrSyntax, lineNum)
			}
			inBlock = true
		case line == "}":
			entry, cur, inBlock = "", nil, false
		default:
			param, rest := splitParam(line)
			if cur == nil {
				if param != "name" {
					return fmt.Errorf("%w: line %d: node blocks must start with a name", ErrSyntax, lineNum)
				}
				var err error
				if cur, err = u.loadNode(entry, unquote(rest)); err != nil {
					return fmt.Errorf("line %d: %w", lineNum, err)
				}
				continue
			}

			if param == "declare" {
				fields := strings.Fields(rest)
				if len(fields) != 3 || fields[1] != "constant" {
					return fmt.Errorf("%w: line %d: malformed declare", ErrSyntax, lineNum)
				}
				cur.DeclareUser(fields[0], useropts.Type(fields[2]))
				continue
			}

			ref, err := parseParam(cur, param, rest)
			if err != nil {
				return fmt.Errorf("%w: line %d: %s", ErrSyntax, lineNum, err)
			}
			if ref != "" {
				refs = append(refs, pendingRef{node: cur, param: param, target: ref, line: lineNum})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if inBlock || entry != "" {
		return fmt.Errorf("%w: unterminated %s block", ErrSyntax, entry)
	}

	for _, ref := range refs {
		target := u.LookUp(ref.target)
		if target == nil {
			return fmt.Errorf("%w: line %d: unresolved node reference %q", ErrSyntax, ref.line, ref.target)
		}
		ref.node.SetPtr(ref.param, target)
	}
	return nil
}

// LoadFile reads a scene file into the universe.
func (u *Universe) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return u.Load(f)
}

func (u *Universe) loadNode(entry, name string) (*Node, error) {
	if entry == "options" {
		return u.options, nil
	}
	if _, taken := u.byName[name]; taken {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	n := newNode(name, entry, u.entries[entry])
	u.add(n)
	return n, nil
}

func splitParam(line string) (string, string) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}

func unquote(s string) string {
	tokens, err := shlex.Split(s)
	if err != nil || len(tokens) == 0 {
		return s
	}
	return tokens[0]
}

// Parse a parameter value and assign it to n. Node references are returned
// for resolution once every block has been read.
func parseParam(n *Node, param, rest string) (string, error) {
	if typ, ok := n.user[param]; ok {
		raw := rest
		if typ == useropts.String {
			raw = unquote(rest)
		}
		v, err := useropts.ParseValue(typ, raw)
		if err != nil {
			return "", err
		}
		n.set(param, v)
		return "", nil
	}

	if strings.HasPrefix(rest, `"`) {
		tokens, err := shlex.Split(rest)
		if err != nil || len(tokens) != 1 {
			return "", fmt.Errorf("malformed string value for %s", param)
		}
		n.SetStr(param, tokens[0])
		return "", nil
	}

	fields := strings.Fields(rest)
	switch {
	case len(fields) == 1:
		return parseScalar(n, param, fields[0])
	case len(fields) >= 2 && fields[1] == string(useropts.String):
		count, err := strconv.Atoi(fields[0])
		if err != nil {
			return "", fmt.Errorf("malformed array count for %s", param)
		}
		_, items, _ := strings.Cut(rest, string(useropts.String))
		values, err := shlex.Split(items)
		if err != nil || len(values) != count {
			return "", fmt.Errorf("array %s declares %d elements", param, count)
		}
		n.SetArray(param, values)
		return "", nil
	case len(fields) == 2:
		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errY != nil {
			return "", fmt.Errorf("malformed point value for %s", param)
		}
		n.SetPnt2(param, x, y)
		return "", nil
	}
	return "", fmt.Errorf("unsupported value for %s", param)
}

func parseScalar(n *Node, param, token string) (string, error) {
	switch token {
	case "on", "true":
		n.SetBool(param, true)
		return "", nil
	case "off", "false":
		n.SetBool(param, false)
		return "", nil
	}

	if strings.ContainsAny(token, ".eE") {
		if v, err := strconv.ParseFloat(token, 64); err == nil {
			n.SetFlt(param, v)
			return "", nil
		}
	}
	if v, err := strconv.Atoi(token); err == nil {
		n.SetInt(param, v)
		return "", nil
	}
	return token, nil
}
