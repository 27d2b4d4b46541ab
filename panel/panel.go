// Package panel implements the render output panel: a list of the scene's
// Arnold render nodes, override controls applied to the interactive render
// session and farm export of the selected nodes.
package panel

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/sosoyan/aton/config"
	"github.com/sosoyan/aton/farm"
	"github.com/sosoyan/aton/host"
	"github.com/sosoyan/aton/log"
	"github.com/sosoyan/aton/monitor"
	"github.com/sosoyan/aton/policy"
	"github.com/sosoyan/aton/target"
	"github.com/sosoyan/aton/types"
)

var logger = log.New("panel")

// Renderer is the host renderer name the panel drives.
const Renderer = "arnold"

// Target statuses.
const (
	StatusRendering = "Rendering..."
	StatusExporting = "Exporting ASS..."
)

// Panel is the controller behind a render output panel. It is not safe for
// concurrent use.
type Panel struct {
	ctx       host.Context
	cfg       *config.Config
	menus     farm.Menus
	submitter farm.Submitter

	instance int
	host     string
	settings Settings

	targets     []*target.Target
	current     *target.Target
	selected    map[string]bool
	unsubscribe map[*target.Target]func()
	overridden  map[*target.Target]bool

	rendering   bool
	watch       <-chan struct{}
	cancelWatch context.CancelFunc
	closed      bool

	// Probe detects frame completion during sequence renders.
	Probe monitor.Probe

	// LocalAddr returns the address farm workers stream back to.
	LocalAddr func() string

	// Now stamps distributed farm sessions.
	Now func() time.Time

	// Changed is invoked after host events altered the target list or the
	// current target.
	Changed func(t *target.Target, event string)
}

// New creates a panel for the scene of ctx. The receiver address comes from
// cfg; every open panel gets its own port.
func New(ctx host.Context, cfg *config.Config, menus farm.Menus, submitter farm.Submitter) *Panel {
	if cfg == nil {
		cfg = config.Default()
	}
	if menus == nil {
		menus = &cfg.Farm
	}
	if submitter == nil {
		submitter = farm.NopSubmitter{}
	}

	p := &Panel{
		ctx:         ctx,
		cfg:         cfg,
		menus:       menus,
		submitter:   submitter,
		instance:    acquireInstance(),
		host:        cfg.Host,
		selected:    make(map[string]bool),
		unsubscribe: make(map[*target.Target]func()),
		overridden:  make(map[*target.Target]bool),
		Probe:       monitor.NewProcessProbe(cfg.Monitor.Process),
		LocalAddr:   localAddr,
		Now:         time.Now,
	}
	p.Reset()
	return p
}

// Instance returns the number of this panel among the open ones.
func (p *Panel) Instance() int {
	return p.instance
}

// DefaultPort returns the receiver port for this panel instance.
func (p *Panel) DefaultPort() int {
	return p.cfg.InstancePort(p.instance)
}

func (p *Panel) Host() string {
	return p.host
}

// Reset stops any render, rebuilds the target list from the scene's render
// nodes and restores the default settings. The current target is kept if it
// still exists.
func (p *Panel) Reset() {
	if ipr := p.ctx.IPR(); p.rendering || (ipr != nil && ipr.IsActive()) {
		if err := p.stopLocal(); err != nil {
			logger.Warningf("stopping render: %v", err)
		}
	}
	if err := p.removeOverrides(); err != nil {
		logger.Warningf("rolling back overrides: %v", err)
	}

	currentPath := ""
	if p.current != nil {
		currentPath = p.current.Path()
	}
	p.detachAll()

	p.targets = p.targets[:0]
	for _, rop := range p.ctx.Scene().RenderNodes() {
		t, err := target.New(p.ctx.Scene(), rop)
		if err != nil {
			logger.Debugf("skipping %s: %v", rop.Path(), err)
			continue
		}
		p.attach(t)
		p.targets = append(p.targets, t)
	}

	p.current = nil
	for _, t := range p.targets {
		if t.Path() == currentPath {
			p.current = t
			break
		}
	}
	if p.current == nil && len(p.targets) != 0 {
		p.current = p.targets[0]
	}
	p.selected = make(map[string]bool)

	start, end := p.ctx.FrameRange()
	p.settings = Settings{
		Mode:          Local,
		Port:          p.DefaultPort(),
		PortIncrement: p.cfg.PortIncrement,
		AutoUpdate:    true,
		SeqStart:      int(start),
		SeqEnd:        int(end),
		SeqStep:       p.cfg.Sequence.Step,
		Rebuild:       p.cfg.Sequence.Rebuild,
	}
	p.resetTargetControls()
}

// Controls that follow the current target.
func (p *Panel) resetTargetControls() {
	t := p.Current()
	p.settings.Region = policy.FullFrame(t.OriginResolution())
	if !p.settings.AACustom {
		p.settings.AASamples = t.OriginAASamples()
	}
}

func (p *Panel) attach(t *target.Target) {
	t.Attach()
	p.unsubscribe[t] = t.Subscribe(&target.ObserverFuncs{
		OnDeleted:    p.targetDeleted,
		OnResolution: p.targetResolutionChanged,
		OnName: func(t *target.Target, _ string) {
			p.changed(t, "renamed")
		},
		OnCamera: func(t *target.Target, _ string) {
			p.changed(t, "camera")
		},
		OnAASamples: func(t *target.Target, _ int) {
			p.changed(t, "aa")
		},
		OnBucket: func(t *target.Target, _ string) {
			p.changed(t, "bucket")
		},
	})
}

func (p *Panel) detach(t *target.Target) {
	if unsubscribe, ok := p.unsubscribe[t]; ok {
		unsubscribe()
		delete(p.unsubscribe, t)
	}
	if err := t.Detach(); err != nil {
		logger.Warningf("detaching %s: %v", t.Path(), err)
	}
}

func (p *Panel) detachAll() {
	for _, t := range p.targets {
		p.detach(t)
	}
}

func (p *Panel) targetDeleted(t *target.Target, path string) {
	p.detach(t)
	delete(p.overridden, t)
	for i, cur := range p.targets {
		if cur == t {
			p.targets = append(p.targets[:i], p.targets[i+1:]...)
			break
		}
	}
	delete(p.selected, path)
	if p.current == t {
		p.current = nil
		if len(p.targets) != 0 {
			p.current = p.targets[0]
		}
		p.resetTargetControls()
	}
	p.changed(t, "deleted")
}

func (p *Panel) targetResolutionChanged(t *target.Target, _ types.Size) {
	if t == p.current {
		origin := t.OriginResolution()
		p.settings.Region.R = origin.W
		p.settings.Region.T = origin.H
	}
	p.changed(t, "resolution")
}

func (p *Panel) changed(t *target.Target, event string) {
	if p.Changed != nil {
		p.Changed(t, event)
	}
}

// Targets returns the render targets in scene order.
func (p *Panel) Targets() []*target.Target {
	return append([]*target.Target(nil), p.targets...)
}

// Filter returns the targets whose path matches pattern, a list of space
// separated wildcard words.
func (p *Panel) Filter(pattern string) []*target.Target {
	var out []*target.Target
	for _, t := range p.targets {
		if Match(pattern, t.Path()) {
			out = append(out, t)
		}
	}
	return out
}

// Current returns the current target or an empty placeholder.
func (p *Panel) Current() *target.Target {
	if p.current == nil {
		return target.Empty()
	}
	return p.current
}

// Select makes the target at path current.
func (p *Panel) Select(path string) error {
	t := p.lookup(path)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}
	p.current = t
	p.resetTargetControls()
	return nil
}

// SelectForExport marks the targets exported in farm mode. Without an
// explicit selection the current target is exported.
func (p *Panel) SelectForExport(paths ...string) error {
	selected := make(map[string]bool, len(paths))
	for _, path := range paths {
		if p.lookup(path) == nil {
			return fmt.Errorf("%w: %s", ErrUnknownPath, path)
		}
		selected[path] = true
	}
	p.selected = selected
	return nil
}

// Selected returns the targets exported in farm mode.
func (p *Panel) Selected() []*target.Target {
	var out []*target.Target
	for _, t := range p.targets {
		if p.selected[t.Path()] {
			out = append(out, t)
		}
	}
	if len(out) == 0 && p.current != nil {
		out = append(out, p.current)
	}
	return out
}

// Marked returns the paths explicitly marked for export.
func (p *Panel) Marked() []string {
	var out []string
	for _, t := range p.targets {
		if p.selected[t.Path()] {
			out = append(out, t.Path())
		}
	}
	return out
}

func (p *Panel) lookup(path string) *target.Target {
	for _, t := range p.targets {
		if t.Path() == path {
			return t
		}
	}
	return nil
}

// Settings returns a copy of the panel controls.
func (p *Panel) Settings() Settings {
	return p.settings
}

// Apply replaces the panel controls. While an interactive render is running
// the overrides are pushed to the render node immediately.
func (p *Panel) Apply(s Settings) error {
	if s.Distribute < 0 || (s.Distribute > 0 && s.Distribute >= len(p.menus.DistributeMenu())) {
		return fmt.Errorf("%w: %d", ErrInvalidSplit, s.Distribute)
	}
	if s.SeqStep < 1 {
		s.SeqStep = 1
	}
	if ipr := p.ctx.IPR(); ipr != nil && s.AutoUpdate != p.settings.AutoUpdate {
		ipr.SetAutoUpdate(s.AutoUpdate)
	}
	p.settings = s

	if p.rendering && s.Mode == Local {
		if _, err := p.addOverrides(); err != nil {
			return err
		}
	}
	return nil
}

// ResetRegion restores the crop controls to the full frame.
func (p *Panel) ResetRegion() {
	enabled := p.settings.Region.Enabled
	p.settings.Region = policy.FullFrame(p.Current().OriginResolution())
	p.settings.Region.Enabled = enabled
}

// PasteRegion reads crop settings from clipboard data. It returns false if
// the data holds no crop.
func (p *Panel) PasteRegion(data string) bool {
	rs, ok := policy.ParseCropClipboard(data, p.Current().OriginResolution().W)
	if !ok {
		return false
	}
	p.settings.Region = rs
	return true
}

// ResolutionLabels returns the entries of the resolution selector for the
// current target.
func (p *Panel) ResolutionLabels() []string {
	return policy.PresetLabels(p.Current().Resolution())
}

// CameraChoices returns the scene camera paths.
func (p *Panel) CameraChoices() []string {
	var out []string
	for _, cam := range p.ctx.Scene().Cameras() {
		out = append(out, cam.Path())
	}
	return out
}

// BucketChoices returns the bucket scanning modes.
func (p *Panel) BucketChoices() []string {
	return p.ctx.Scene().BucketModes()
}

// Menus returns the farm menus of the panel.
func (p *Panel) Menus() farm.Menus {
	return p.menus
}

// Rendering reports whether an interactive render was started by the panel.
func (p *Panel) Rendering() bool {
	return p.rendering
}

// Close stops rendering, rolls back every override and releases the
// panel's host registrations and port.
func (p *Panel) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	if ipr := p.ctx.IPR(); ipr != nil && ipr.IsActive() {
		ipr.Kill()
	}
	p.rendering = false
	p.stopWatch()
	err := p.removeOverrides()
	p.detachAll()
	releaseInstance(p.instance)
	return err
}

// Check that the host can take interactive render commands.
func (p *Panel) ready() (host.IPRViewer, error) {
	if p.ctx.ActiveRenderer() != Renderer {
		logger.Warningf("%s is not the active renderer", Renderer)
		return nil, host.ErrNotReady
	}
	ipr := p.ctx.IPR()
	if ipr == nil {
		logger.Warning("no IPR viewer is open")
		return nil, host.ErrNotReady
	}
	return ipr, nil
}

// Returns the first IPv4 address of this machine's host name.
func localAddr() string {
	name, err := os.Hostname()
	if err != nil {
		return "127.0.0.1"
	}
	addrs, err := net.LookupHost(name)
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil {
			return addr
		}
	}
	return "127.0.0.1"
}
