package panel

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sosoyan/aton/driver"
	"github.com/sosoyan/aton/farm"
	"github.com/sosoyan/aton/target"
	"github.com/sosoyan/aton/tile"
	"github.com/sosoyan/aton/universe"
)

// Export writes a scene file for every selected target, redirects it to the
// Aton driver with the panel overrides and submits one farm job per tile.
func (p *Panel) Export(ctx context.Context) error {
	port := p.settings.Port

	for _, t := range p.Selected() {
		if t.Empty() {
			continue
		}
		t.SetStatus(StatusExporting)

		dir, name := p.menus.ExportPath(t.Name()), p.menus.ExportName(t.Name())
		if dir == "" || name == "" {
			logger.Warningf("no export location for %s", t.Path())
			t.SetStatus("")
			continue
		}

		assFile, err := p.ctx.Scene().Export(t.Node(), filepath.Join(dir, name))
		t.SetStatus("")
		if err != nil {
			return fmt.Errorf("panel: export %s: %w", t.Path(), err)
		}

		if err = p.addSceneOverrides(t, assFile, port); err != nil {
			return err
		}
		if err = p.submit(ctx, t, assFile); err != nil {
			return err
		}

		if p.settings.PortIncrement {
			port++
		}
	}
	return nil
}

// Rewrite an exported scene file so that it renders into the Aton driver with
// the panel overrides.
func (p *Panel) addSceneOverrides(t *target.Target, assFile string, port int) error {
	u := universe.New()
	if err := u.LoadFile(assFile); err != nil {
		return err
	}

	aton, err := u.NewNode(driver.Entry)
	if err != nil {
		return err
	}
	if err = aton.SetName(t.Path() + ":aton:" + t.CameraName()); err != nil {
		return err
	}
	aton.SetStr("host", p.LocalAddr())
	aton.SetInt("port", port)
	aton.SetStr("output", t.Name())
	if p.settings.Distribute > 0 {
		aton.SetInt("session", int(p.Now().Unix()))
	}

	opts := u.Options()
	if !driver.RedirectOutputs(opts, aton.Name()) {
		return fmt.Errorf("%w: %s", ErrNoOutputs, assFile)
	}

	if p.CameraChanged() {
		if cam := u.LookUp(p.settings.Camera); cam != nil {
			opts.SetPtr("camera", cam)
		} else {
			logger.Warningf("camera %s is not part of %s", p.settings.Camera, assFile)
		}
	}
	if p.BucketChanged() {
		opts.SetStr("bucket_scanning", p.settings.Bucket)
	}

	res := p.Resolution(t)
	if res.ResolutionChanged(t.OriginResolution()) {
		opts.SetInt("xres", res.XRes)
		opts.SetInt("yres", res.YRes)
	}
	if p.AAChanged() {
		opts.SetInt("AA_samples", p.settings.AASamples)
	}
	if res.RegionChanged() {
		opts.SetInt("region_min_x", res.Region.XMin)
		opts.SetInt("region_min_y", res.Region.YMin)
		opts.SetInt("region_max_x", res.Region.XMax)
		opts.SetInt("region_max_y", res.Region.YMax)
	}

	ignores := []struct {
		param string
		on    bool
	}{
		{"ignore_motion_blur", p.settings.IgnoreMotionBlur},
		{"ignore_subdivision", p.settings.IgnoreSubdivision},
		{"ignore_displacement", p.settings.IgnoreDisplacement},
		{"ignore_bump", p.settings.IgnoreBump},
		{"ignore_sss", p.settings.IgnoreSSS},
	}
	for _, ig := range ignores {
		if ig.on {
			opts.SetBool(ig.param, true)
		}
	}

	return u.WriteFile(assFile)
}

// Submit one job per tile of the target's frame or crop.
func (p *Panel) submit(ctx context.Context, t *target.Target, assFile string) error {
	res := p.Resolution(t)
	regions, err := tile.FarmRegions(res.Size(), res.Crop(), p.settings.Distribute)
	if err != nil {
		return fmt.Errorf("panel: split %s: %w", t.Path(), err)
	}

	for _, region := range regions {
		job := farm.Job{
			AssFile: assFile,
			Output:  t.Name(),
			Frame:   p.ctx.Frame(),
			CPU:     p.settings.CPU,
			RAM:     p.settings.RAM,
			Region:  region,
		}
		if err = p.submitter.Start(ctx, job); err != nil {
			return fmt.Errorf("panel: submit %s: %w", t.Path(), err)
		}
	}
	return nil
}
