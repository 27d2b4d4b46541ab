package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sosoyan/aton/asset"
	"github.com/sosoyan/aton/config"
	"github.com/sosoyan/aton/host/memhost"
	"github.com/sosoyan/aton/panel"
	"github.com/sosoyan/aton/policy"
	"github.com/sosoyan/aton/target"
	"github.com/urfave/cli"
)

// Load the scene description passed as the first argument.
func loadScene(ctx *cli.Context) (*memhost.Context, error) {
	if ctx.NArg() < 1 {
		return nil, errors.New("missing scene description argument")
	}

	res, err := asset.NewResource(ctx.Args().First(), nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	logger.Infof("loading scene description: %s", res.Path())
	return memhost.Load(res)
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	location := ctx.GlobalString("config")
	if location == "" {
		return config.Default(), nil
	}
	logger.Infof("loading configuration: %s", location)
	return config.Load(location)
}

// Open a panel for the scene argument with the override flags applied.
func openPanel(ctx *cli.Context) (*panel.Panel, *memhost.Context, *config.Config, error) {
	hostCtx, err := loadScene(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	p := panel.New(hostCtx, cfg, nil, nil)
	if err = applyFlags(ctx, p); err != nil {
		p.Close()
		return nil, nil, nil, err
	}
	return p, hostCtx, cfg, nil
}

func applyFlags(ctx *cli.Context, p *panel.Panel) error {
	if rop := ctx.String("rop"); rop != "" {
		if err := p.Select(rop); err != nil {
			return err
		}
	}

	s := p.Settings()
	if ctx.IsSet("port") {
		s.Port = ctx.Int("port")
	}
	s.Camera = ctx.String("camera")
	s.Bucket = ctx.String("bucket")
	s.ResolutionIndex = ctx.Int("res")
	if ctx.IsSet("aa") {
		s.AACustom = true
		s.AASamples = ctx.Int("aa")
	}
	if crop := ctx.String("region"); crop != "" {
		region, err := parseRegion(crop)
		if err != nil {
			return err
		}
		s.Region = region
	}
	s.IgnoreMotionBlur = ctx.Bool("ignore-mblur")
	s.IgnoreSubdivision = ctx.Bool("ignore-subdiv")
	s.IgnoreDisplacement = ctx.Bool("ignore-displace")
	s.IgnoreBump = ctx.Bool("ignore-bump")
	s.IgnoreSSS = ctx.Bool("ignore-sss")
	return p.Apply(s)
}

// Parse an "x,y,r,t" region measured from the bottom-left corner.
func parseRegion(v string) (policy.RegionSettings, error) {
	fields := strings.Split(v, ",")
	if len(fields) != 4 {
		return policy.RegionSettings{}, fmt.Errorf("region %q: expected x,y,r,t", v)
	}

	var edges [4]int
	for i, field := range fields {
		edge, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return policy.RegionSettings{}, fmt.Errorf("region %q: %w", v, err)
		}
		edges[i] = edge
	}
	return policy.RegionSettings{Enabled: true, X: edges[0], Y: edges[1], R: edges[2], T: edges[3]}, nil
}

// ShowSceneInfo lists the render targets of a scene description.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	hostCtx, err := loadScene(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Render node", "Camera", "Resolution", "Aspect", "AA", "Bucket", "User options"})
	for _, rop := range hostCtx.Scene().RenderNodes() {
		t, err := target.New(hostCtx.Scene(), rop)
		if err != nil {
			logger.Warningf("skipping %s: %v", rop.Path(), err)
			continue
		}
		table.Append([]string{
			t.Path(),
			t.CameraPath(),
			t.Resolution().String(),
			strconv.FormatFloat(t.PixelAspect(), 'g', -1, 64),
			strconv.Itoa(t.AASamples()),
			t.BucketScanning(),
			t.UserOptions(),
		})
	}
	start, end := hostCtx.FrameRange()
	table.SetFooter([]string{"", "", "", "", "", "FRAMES", fmt.Sprintf("%g-%g", start, end)})

	table.Render()
	logger.Noticef("scene information\n%s", buf.String())
	return nil
}
