package driver

import (
	"strings"

	"github.com/sosoyan/aton/universe"
	"github.com/sosoyan/aton/useropts"
)

// Entry is the renderer node entry of the Aton display driver.
const Entry = "driver_aton"

// Declarations copied from the options node onto renderer options.
var optionCopies = []struct {
	from string
	to   string
	typ  useropts.Type
}{
	{useropts.Bucket, "bucket_scanning", useropts.String},
	{useropts.RegionMinX, "region_min_x", useropts.Int},
	{useropts.RegionMinY, "region_min_y", useropts.Int},
	{useropts.RegionMaxX, "region_max_x", useropts.Int},
	{useropts.RegionMaxY, "region_max_y", useropts.Int},
	{useropts.IgnoreMotionBlur, "ignore_motion_blur", useropts.Bool},
	{useropts.IgnoreSubdivision, "ignore_subdivision", useropts.Bool},
	{useropts.IgnoreDisplacement, "ignore_displacement", useropts.Bool},
	{useropts.IgnoreBump, "ignore_bump", useropts.Bool},
	{useropts.IgnoreSSS, "ignore_sss", useropts.Bool},
}

// InjectAton routes the primary outputs of an interactive session to the
// Aton driver when the options node enables it. Missing pieces are reported
// and leave the universe untouched.
func InjectAton() Stage {
	return func(gen *Generate) error {
		if !gen.Interactive {
			return nil
		}

		opts := gen.Universe.Options()
		switch {
		case !opts.LookUpUserParameter(useropts.Enable):
			// Render nodes are generated before the panel adds its options.
			logger.Debug("Aton user options were not found")
			return nil
		case !opts.Bool(useropts.Enable):
			logger.Warning("Aton is not enabled")
			return nil
		case !gen.Universe.HasEntry(Entry):
			logger.Warning("Aton driver was not found")
			return nil
		}

		aton, err := atonDriver(gen)
		if err != nil {
			return err
		}
		aton.SetStr("host", opts.Str(useropts.Host))
		aton.SetInt("port", opts.Int(useropts.Port))
		aton.SetStr("output", opts.Str(useropts.Output))

		for _, c := range optionCopies {
			if !opts.LookUpUserParameter(c.from) {
				continue
			}
			switch c.typ {
			case useropts.String:
				opts.SetStr(c.to, opts.Str(c.from))
			case useropts.Int:
				opts.SetInt(c.to, opts.Int(c.from))
			case useropts.Bool:
				opts.SetBool(c.to, opts.Bool(c.from))
			}
		}

		RedirectOutputs(opts, aton.Name())
		return nil
	}
}

// Reuse an existing Aton driver or create one named after the render node.
func atonDriver(gen *Generate) (*universe.Node, error) {
	for n := range gen.Universe.Nodes(universe.Driver) {
		if n.Entry() == Entry {
			return n, nil
		}
	}

	n, err := gen.Universe.NewNode(Entry)
	if err != nil {
		return nil, err
	}
	name := gen.Rop.Path() + ":aton"
	if gen.CameraTag != "" {
		name += ":" + gen.CameraTag
	}
	if err = n.SetName(name); err != nil {
		return nil, err
	}
	return n, nil
}

// RedirectOutputs points the outputs of the options node at driver. It
// returns false if the options node has no outputs.
func RedirectOutputs(opts *universe.Node, driver string) bool {
	outputs := opts.Array("outputs")
	if len(outputs) == 0 {
		return false
	}
	opts.SetArray("outputs", rewriteOutputs(outputs, driver))
	return true
}

// The driver of the first output is the primary one; every output that uses
// it is redirected and variance outputs are dropped.
func rewriteOutputs(outputs []string, driver string) []string {
	if len(outputs) == 0 {
		return outputs
	}
	fields := strings.Fields(outputs[0])
	if len(fields) == 0 {
		return outputs
	}
	primary := fields[len(fields)-1]

	out := make([]string, 0, len(outputs))
	for _, o := range outputs {
		if strings.Contains(o, "variance_filter") {
			continue
		}
		tokens := strings.Fields(o)
		for i, tok := range tokens {
			if tok == primary {
				tokens[i] = driver
			}
		}
		out = append(out, strings.Join(tokens, " "))
	}
	return out
}
