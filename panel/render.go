package panel

import (
	"context"
	"errors"
	"fmt"

	"github.com/sosoyan/aton/host"
	"github.com/sosoyan/aton/monitor"
	"github.com/sosoyan/aton/policy"
	"github.com/sosoyan/aton/target"
	"github.com/sosoyan/aton/useropts"
)

// StartRender starts an interactive render of the current target with the
// panel overrides, or exports the selected targets in farm mode.
func (p *Panel) StartRender(ctx context.Context) error {
	if p.settings.Mode == Farm {
		return p.Export(ctx)
	}
	return p.startLocal(ctx, false)
}

// continuing is set when a sequence render moves to its next frame.
func (p *Panel) startLocal(ctx context.Context, continuing bool) error {
	if p.current == nil {
		p.Reset()
		return nil
	}
	ipr, err := p.ready()
	if err != nil {
		return err
	}

	if err = ipr.SetRenderNode(p.current.Node()); err != nil {
		if errors.Is(err, host.ErrObjectDeleted) {
			p.Reset()
			return nil
		}
		return err
	}

	ipr.Kill()
	if p.settings.Sequence {
		ipr.SetPreview(false)
		if !continuing {
			p.ctx.SetFrame(float64(p.settings.SeqStart))
		}
	} else {
		ipr.SetPreview(true)
	}

	ipr.Start()
	if err = generated(ipr); err != nil {
		return errors.Join(err, p.stopLocal())
	}
	ipr.Pause()

	ok, err := p.addOverrides()
	if err != nil || !ok {
		return errors.Join(err, p.stopLocal())
	}

	ipr.Resume()
	if err = generated(ipr); err != nil {
		return errors.Join(err, p.stopLocal())
	}
	p.rendering = true
	p.current.SetStatus(StatusRendering)

	if p.settings.Sequence && !continuing {
		p.stopWatch()
		watchCtx, cancel := context.WithCancel(ctx)
		p.cancelWatch = cancel
		p.watch = monitor.Watch(watchCtx, p.Probe, p.cfg.Monitor.Interval)
	}
	return nil
}

// Viewers that keep the error of their last generation expose it through Err.
type generateErrer interface {
	Err() error
}

// Check that the viewer is still running after it translated the scene.
func generated(ipr host.IPRViewer) error {
	var cause error
	if e, ok := ipr.(generateErrer); ok {
		cause = e.Err()
	}
	switch {
	case cause != nil:
		return fmt.Errorf("%w: %w", ErrRenderFailed, cause)
	case !ipr.IsActive():
		return ErrRenderFailed
	}
	return nil
}

// FrameDone delivers a notification whenever the renderer finished a frame
// of a sequence render. Callers respond with ChangeTime. It returns nil when
// no sequence render is running.
func (p *Panel) FrameDone() <-chan struct{} {
	return p.watch
}

// Cancel the frame watcher of a running sequence render.
func (p *Panel) stopWatch() {
	if p.cancelWatch != nil {
		p.cancelWatch()
		p.cancelWatch = nil
	}
	p.watch = nil
}

// StopRender kills the interactive render and rolls back the overrides, or
// stops the farm jobs in farm mode.
func (p *Panel) StopRender(ctx context.Context) error {
	if p.settings.Mode == Farm {
		return p.submitter.Stop(ctx)
	}
	return p.stopLocal()
}

func (p *Panel) stopLocal() error {
	if ipr := p.ctx.IPR(); ipr != nil {
		ipr.Kill()
	}
	p.rendering = false
	p.stopWatch()
	err := p.removeOverrides()
	p.Current().SetStatus("")
	return err
}

// ChangeTime advances a sequence render to its next frame and stops the
// render after the last one.
func (p *Panel) ChangeTime(ctx context.Context) error {
	next, ok := policy.NextFrame(int(p.ctx.Frame()), p.settings.SeqEnd, p.settings.SeqStep)
	if !ok {
		return p.stopLocal()
	}
	p.ctx.SetFrame(float64(next))

	if p.settings.Rebuild {
		return p.startLocal(ctx, true)
	}
	return nil
}

// Declarations returns the user options clauses the panel adds for t.
func (p *Panel) Declarations(t *target.Target, port int) *useropts.Declarations {
	d := useropts.New()
	d.SetBool(useropts.Enable, true)
	d.SetString(useropts.Host, p.host)
	d.SetInt(useropts.Port, port)
	d.SetString(useropts.Output, t.Name())

	if p.BucketChanged() {
		d.SetString(useropts.Bucket, p.settings.Bucket)
	}

	if res := p.Resolution(t); res.RegionChanged() {
		d.SetInt(useropts.RegionMinX, res.Region.XMin)
		d.SetInt(useropts.RegionMinY, res.Region.YMin)
		d.SetInt(useropts.RegionMaxX, res.Region.XMax)
		d.SetInt(useropts.RegionMaxY, res.Region.YMax)
	}

	ignores := []struct {
		name string
		on   bool
	}{
		{useropts.IgnoreMotionBlur, p.settings.IgnoreMotionBlur},
		{useropts.IgnoreSubdivision, p.settings.IgnoreSubdivision},
		{useropts.IgnoreDisplacement, p.settings.IgnoreDisplacement},
		{useropts.IgnoreBump, p.settings.IgnoreBump},
		{useropts.IgnoreSSS, p.settings.IgnoreSSS},
	}
	for _, ig := range ignores {
		if ig.on {
			d.SetBool(ig.name, true)
		}
	}
	return d
}

// Push the panel overrides onto the current render node. Returns false if
// no interactive session is running.
func (p *Panel) addOverrides() (bool, error) {
	ipr := p.ctx.IPR()
	if ipr == nil || !ipr.IsActive() || p.current == nil {
		return false, nil
	}

	t := p.current
	if err := t.Detach(); err != nil {
		return false, err
	}
	defer t.Attach()
	p.overridden[t] = true

	d := p.Declarations(t, p.settings.Port)
	err := t.SetUserOptions(useropts.Apply(useropts.Rollback(t.OriginUserOptions()), d))
	if !t.UserOptionsEnabled() {
		err = errors.Join(err, t.EnableUserOptions(true))
	}

	if p.CameraChanged() {
		err = errors.Join(err, t.SetCamera(p.settings.Camera))
	} else if cam := t.CameraPath(); cam != "" {
		err = errors.Join(err, t.SetCamera(cam))
	}

	if p.ResolutionChanged(t) {
		err = errors.Join(err, t.OverrideResolution(p.Resolution(t).Size(), t.PixelAspect()))
	} else {
		err = errors.Join(err, t.RollbackResolution())
	}

	if p.AAChanged() {
		err = errors.Join(err, t.SetAASamples(p.settings.AASamples))
	} else {
		err = errors.Join(err, t.RollbackAASamples())
	}

	if err != nil {
		return false, err
	}
	return true, nil
}

// Restore the targets touched by addOverrides to the settings they had when
// the panel picked them up.
func (p *Panel) removeOverrides() error {
	var err error
	for _, t := range p.targets {
		if !p.overridden[t] {
			continue
		}
		delete(p.overridden, t)
		if t.Empty() {
			continue
		}

		attached := t.Attached()
		err = errors.Join(err, t.Detach())
		err = errors.Join(err,
			t.RollbackCamera(),
			t.RollbackResolution(),
			t.RollbackAASamples(),
			t.RollbackUserOptions(),
		)
		if attached {
			t.Attach()
		}
	}
	return err
}
