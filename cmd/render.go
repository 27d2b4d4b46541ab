package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/sosoyan/aton/driver"
	"github.com/sosoyan/aton/host/memhost"
	"github.com/sosoyan/aton/interactive"
	"github.com/sosoyan/aton/universe"
	"github.com/sosoyan/aton/useropts"
	"github.com/urfave/cli"
)

// RenderPreview starts an interactive render of a render node with the
// override flags and reports what reached the renderer.
func RenderPreview(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	p, hostCtx, _, err := openPanel(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	ipr := hostCtx.Viewer()
	ipr.OnGenerate = driver.DefaultPipeline().Hook()

	if err = p.StartRender(context.Background()); err != nil {
		return err
	}
	if err = ipr.Err(); err != nil {
		return err
	}

	if name := ctx.String("shader"); name != "" {
		if err = liveShader(ipr, name, ctx.Int("texture-repeat")); err != nil {
			return err
		}
	}

	t := p.Current()
	decls, err := useropts.Parse(t.UserOptions())
	if err != nil {
		return err
	}
	displayDeclarations(t.Path(), decls)
	displayDrivers(ipr.Universe())

	if ctx.Bool("keep") {
		logger.Notice("leaving the overrides in place")
		return nil
	}
	return p.StopRender(context.Background())
}

// Assign a shader override to every shaded shape of the running render.
func liveShader(ipr *memhost.IPR, name string, repeat int) error {
	shader, err := interactive.ParseShader(name)
	if err != nil {
		return err
	}

	live := interactive.New(ipr.Universe(), ipr)
	settings := live.Settings()
	settings.Shader = shader
	if repeat > 0 {
		settings.TextureRepeat = repeat
	}
	if err = live.Apply(settings, interactive.All); err != nil {
		return err
	}
	logger.Noticef("%s shader override applied", shader)
	return nil
}

func displayDeclarations(rop string, decls *useropts.Declarations) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Parameter", "Type", "Value"})
	for _, decl := range decls.Entries() {
		table.Append([]string{decl.Name, string(decl.Type), fmt.Sprint(decl.Value)})
	}
	table.Render()
	logger.Noticef("user options of %s\n%s", rop, buf.String())
}

func displayDrivers(u *universe.Universe) {
	if u == nil {
		return
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Driver", "Entry", "Host", "Port", "Output"})
	for drv := range u.Nodes(universe.Driver) {
		port := ""
		if drv.Has("port") {
			port = fmt.Sprint(drv.Int("port"))
		}
		table.Append([]string{drv.Name(), drv.Entry(), drv.Str("host"), port, drv.Str("output")})
	}

	opts := u.Options()
	table.SetFooter([]string{"", "", "", "RESOLUTION", fmt.Sprintf("%dx%d", opts.Int("xres"), opts.Int("yres"))})
	table.Render()
	logger.Noticef("render drivers\n%s", buf.String())
}
