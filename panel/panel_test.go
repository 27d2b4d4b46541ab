package panel

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sosoyan/aton/config"
	"github.com/sosoyan/aton/driver"
	"github.com/sosoyan/aton/farm"
	"github.com/sosoyan/aton/host"
	"github.com/sosoyan/aton/host/memhost"
	"github.com/sosoyan/aton/monitor"
	"github.com/sosoyan/aton/policy"
	"github.com/sosoyan/aton/target"
	"github.com/sosoyan/aton/types"
	"github.com/sosoyan/aton/universe"
	"github.com/sosoyan/aton/useropts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	jobs  []farm.Job
	stops int
}

func (s *recordingSubmitter) Start(_ context.Context, job farm.Job) error {
	s.jobs = append(s.jobs, job)
	return nil
}

func (s *recordingSubmitter) Stop(context.Context) error {
	s.stops++
	return nil
}

type fixture struct {
	ctx       *memhost.Context
	scene     *memhost.Scene
	beauty    *memhost.Node
	shadow    *memhost.Node
	cfg       *config.Config
	submitter *recordingSubmitter
	panel     *Panel
}

func newFixture(t *testing.T) *fixture {
	scene := memhost.NewScene()
	_, err := scene.AddCamera("/obj/cam1", types.Size{W: 1920, H: 1080})
	require.NoError(t, err)
	_, err = scene.AddCamera("/obj/cam2", types.Size{W: 1024, H: 768})
	require.NoError(t, err)
	beauty, err := scene.AddRenderNode("/out/beauty", "/obj/cam1")
	require.NoError(t, err)
	require.NoError(t, beauty.SetString(target.AttrUserOptions, "foo bar"))
	shadow, err := scene.AddRenderNode("/out/shadow_pass", "/obj/cam2")
	require.NoError(t, err)

	ctx := memhost.NewContext(scene)
	ctx.SetFrameRange(1, 10)
	ctx.Viewer().OnGenerate = driver.DefaultPipeline().Hook()

	cfg := config.Default()
	cfg.Host = "10.0.0.2"
	cfg.Port = 9201
	cfg.Farm = farm.Config{
		ExportDir:  t.TempDir(),
		ExportFile: "{{.Rop}}.$F4.ass",
	}

	f := &fixture{
		ctx:       ctx,
		scene:     scene,
		beauty:    beauty,
		shadow:    shadow,
		cfg:       cfg,
		submitter: &recordingSubmitter{},
	}
	f.panel = New(ctx, cfg, nil, f.submitter)
	f.panel.LocalAddr = func() string { return "192.168.1.20" }
	f.panel.Now = func() time.Time { return time.Unix(1700000000, 0) }
	t.Cleanup(func() { f.panel.Close() })
	return f
}

func TestNewPanel(t *testing.T) {
	f := newFixture(t)
	p := f.panel

	require.Len(t, p.Targets(), 2)
	assert.Equal(t, "/out/beauty", p.Current().Path())
	assert.Equal(t, "10.0.0.2", p.Host())

	s := p.Settings()
	assert.Equal(t, Local, s.Mode)
	assert.Equal(t, p.DefaultPort(), s.Port)
	assert.Equal(t, 1, s.SeqStart)
	assert.Equal(t, 10, s.SeqEnd)
	assert.Equal(t, 1, s.SeqStep)
	assert.Equal(t, 3, s.AASamples)
	assert.Equal(t, types.Size{W: 1920, H: 1080}, types.Size{W: s.Region.R, H: s.Region.T})
	assert.Equal(t, 1, f.beauty.Listeners())
}

func TestInstancePorts(t *testing.T) {
	f := newFixture(t)
	first := f.panel.Instance()

	second := New(f.ctx, f.cfg, nil, nil)
	assert.NotEqual(t, first, second.Instance())
	assert.Equal(t, f.cfg.Port+second.Instance(), second.Settings().Port)

	released := second.Instance()
	require.NoError(t, second.Close())
	third := New(f.ctx, f.cfg, nil, nil)
	defer third.Close()
	assert.Equal(t, released, third.Instance())
}

func TestFilterAndSelect(t *testing.T) {
	f := newFixture(t)
	p := f.panel

	specs := []struct {
		pattern string
		exp     []string
	}{
		{"", []string{"/out/beauty", "/out/shadow_pass"}},
		{"beauty", []string{"/out/beauty"}},
		{"sha*pass", []string{"/out/shadow_pass"}},
		{"nothing beau?y", []string{"/out/beauty"}},
		{"/out/", []string{"/out/beauty", "/out/shadow_pass"}},
		{"zzz", nil},
	}
	for index, spec := range specs {
		var got []string
		for _, tgt := range p.Filter(spec.pattern) {
			got = append(got, tgt.Path())
		}
		if strings.Join(got, ",") != strings.Join(spec.exp, ",") {
			t.Fatalf("[spec %d] pattern %q: expected %v; got %v", index, spec.pattern, spec.exp, got)
		}
	}

	require.NoError(t, p.Select("/out/shadow_pass"))
	assert.Equal(t, "/out/shadow_pass", p.Current().Path())
	assert.Equal(t, 1024, p.Settings().Region.R)
	assert.ErrorIs(t, p.Select("/out/missing"), ErrUnknownPath)
}

func TestPredicates(t *testing.T) {
	f := newFixture(t)
	p := f.panel
	cur := p.Current()

	assert.False(t, p.ResolutionChanged(cur))
	assert.False(t, p.RegionChanged(cur))
	assert.False(t, p.CameraChanged())
	assert.False(t, p.BucketChanged())
	assert.False(t, p.AAChanged())

	s := p.Settings()
	s.Region.X = 10
	require.NoError(t, p.Apply(s))
	assert.True(t, p.ResolutionChanged(cur))
	assert.False(t, p.RegionChanged(cur), "region toggle is off")

	s.Region.Enabled = true
	s.Camera = "/obj/cam1"
	s.Bucket = "top"
	s.AACustom = true
	s.AASamples = 3
	require.NoError(t, p.Apply(s))
	assert.True(t, p.RegionChanged(cur))
	assert.False(t, p.CameraChanged(), "same camera as the render node")
	assert.True(t, p.BucketChanged())
	assert.False(t, p.AAChanged(), "same samples as the render node")

	p.ResetRegion()
	assert.False(t, p.ResolutionChanged(cur))
	assert.True(t, p.Settings().Region.Enabled)

	assert.ErrorIs(t, p.Apply(Settings{Distribute: 99}), ErrInvalidSplit)
}

func TestStartAndStopRender(t *testing.T) {
	f := newFixture(t)
	p := f.panel
	ctx := context.Background()

	s := p.Settings()
	s.Camera = "/obj/cam2"
	s.AACustom = true
	s.AASamples = 6
	s.Bucket = "hilbert"
	s.ResolutionIndex = 3
	s.IgnoreSSS = true
	require.NoError(t, p.Apply(s))

	require.NoError(t, p.StartRender(ctx))
	assert.True(t, p.Rendering())
	assert.Equal(t, StatusRendering, p.Current().Status())

	ipr := f.ctx.Viewer()
	assert.True(t, ipr.IsActive())
	assert.False(t, ipr.Paused())
	assert.True(t, ipr.Preview())
	require.NoError(t, ipr.Err())

	opts, _ := f.beauty.String(target.AttrUserOptions)
	assert.True(t, strings.HasPrefix(opts, "foo bar declare aton_enable constant BOOL aton_enable on"), opts)
	decls, err := useropts.Parse(opts)
	require.NoError(t, err)
	port, _ := decls.Int(useropts.Port)
	assert.Equal(t, p.DefaultPort(), port)
	output, _ := decls.Str(useropts.Output)
	assert.Equal(t, "beauty", output)
	bucket, _ := decls.Str(useropts.Bucket)
	assert.Equal(t, "hilbert", bucket)
	assert.True(t, decls.Has(useropts.IgnoreSSS))
	assert.False(t, decls.Has(useropts.RegionMinX))

	cam, _ := f.beauty.String(target.AttrCamera)
	assert.Equal(t, "/obj/cam2", cam)
	aa, _ := f.beauty.Int(target.AttrAASamples)
	assert.Equal(t, 6, aa)
	res, _ := f.beauty.Ints(target.AttrResOverride)
	assert.Equal(t, []int{960, 540}, res)

	u := ipr.Universe()
	aton := u.LookUp("/out/beauty:aton")
	require.NotNil(t, aton)
	assert.Equal(t, "10.0.0.2", aton.Str("host"))
	assert.Equal(t, p.DefaultPort(), aton.Int("port"))
	assert.Equal(t, "hilbert", u.Options().Str("bucket_scanning"))
	assert.True(t, u.Options().Bool("ignore_sss"))

	require.NoError(t, p.StopRender(ctx))
	assert.False(t, ipr.IsActive())
	assert.False(t, p.Rendering())
	assert.Equal(t, "", p.Current().Status())

	opts, _ = f.beauty.String(target.AttrUserOptions)
	assert.Equal(t, "foo bar", opts)
	cam, _ = f.beauty.String(target.AttrCamera)
	assert.Equal(t, "/obj/cam1", cam)
	aa, _ = f.beauty.Int(target.AttrAASamples)
	assert.Equal(t, 3, aa)
	override, _ := f.beauty.Bool(target.AttrOverrideRes)
	assert.False(t, override)
	enabled, _ := f.beauty.Bool(target.AttrUserOptionsEnable)
	assert.False(t, enabled)
}

func TestLiveRegionUpdate(t *testing.T) {
	f := newFixture(t)
	p := f.panel
	require.NoError(t, p.StartRender(context.Background()))

	s := p.Settings()
	s.Region = policy.RegionSettings{Enabled: true, X: 100, Y: 80, R: 900, T: 600}
	require.NoError(t, p.Apply(s))

	opts, _ := f.beauty.String(target.AttrUserOptions)
	decls, err := useropts.Parse(opts)
	require.NoError(t, err)

	minX, _ := decls.Int(useropts.RegionMinX)
	minY, _ := decls.Int(useropts.RegionMinY)
	maxX, _ := decls.Int(useropts.RegionMaxX)
	maxY, _ := decls.Int(useropts.RegionMaxY)
	assert.Equal(t, []int{100, 480, 899, 999}, []int{minX, minY, maxX, maxY})

	override, _ := f.beauty.Bool(target.AttrOverrideRes)
	assert.True(t, override, "a crop declares an explicit resolution")
}

func TestStartRenderNotReady(t *testing.T) {
	f := newFixture(t)
	f.ctx.SetActiveRenderer("mantra")

	err := f.panel.StartRender(context.Background())
	assert.ErrorIs(t, err, host.ErrNotReady)
	opts, _ := f.beauty.String(target.AttrUserOptions)
	assert.Equal(t, "foo bar", opts)
	assert.False(t, f.ctx.Viewer().IsActive())

	f.ctx.SetActiveRenderer(Renderer)
	f.ctx.CloseViewer()
	assert.ErrorIs(t, f.panel.StartRender(context.Background()), host.ErrNotReady)
}

func TestTargetDeletion(t *testing.T) {
	f := newFixture(t)
	p := f.panel

	var events []string
	p.Changed = func(_ *target.Target, event string) { events = append(events, event) }

	require.NoError(t, f.scene.Delete("/out/beauty"))
	require.Len(t, p.Targets(), 1)
	assert.Equal(t, "/out/shadow_pass", p.Current().Path())
	assert.Equal(t, []string{"deleted"}, events)

	require.NoError(t, f.scene.Delete("/out/shadow_pass"))
	assert.True(t, p.Current().Empty())
	assert.NoError(t, p.StartRender(context.Background()))
	assert.False(t, f.ctx.Viewer().IsActive())
}

func TestSequenceRender(t *testing.T) {
	f := newFixture(t)
	p := f.panel

	idle := make(chan bool, 1)
	p.Probe = monitor.ProbeFunc(func(context.Context) (bool, error) {
		select {
		case v := <-idle:
			return v, nil
		default:
			return false, nil
		}
	})
	p.cfg.Monitor.Interval = time.Millisecond

	s := p.Settings()
	s.Sequence = true
	s.SeqStart = 1
	s.SeqEnd = 7
	s.SeqStep = 3
	s.Rebuild = true
	require.NoError(t, p.Apply(s))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.StartRender(ctx))
	assert.Equal(t, 1.0, f.ctx.Frame())
	assert.False(t, f.ctx.Viewer().Preview())

	idle <- true
	select {
	case <-p.FrameDone():
	case <-ctx.Done():
		t.Fatal("expected a frame completion")
	}

	require.NoError(t, p.ChangeTime(ctx))
	assert.Equal(t, 4.0, f.ctx.Frame())
	assert.True(t, p.Rendering(), "rebuild restarts the render")
	assert.NotNil(t, p.FrameDone())

	require.NoError(t, p.ChangeTime(ctx))
	assert.Equal(t, 7.0, f.ctx.Frame(), "the last step is shortened to the end frame")

	require.NoError(t, p.ChangeTime(ctx))
	assert.Equal(t, 7.0, f.ctx.Frame())
	assert.False(t, p.Rendering())
	assert.Nil(t, p.FrameDone())
}

func waitClosed(t *testing.T, done <-chan struct{}) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-done:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("frame watcher is still running")
		}
	}
}

func TestSequenceRestartStopsWatcher(t *testing.T) {
	f := newFixture(t)
	p := f.panel
	p.Probe = monitor.ProbeFunc(func(context.Context) (bool, error) { return true, nil })
	p.cfg.Monitor.Interval = time.Millisecond

	s := p.Settings()
	s.Sequence = true
	require.NoError(t, p.Apply(s))

	ctx := context.Background()
	var watches []<-chan struct{}
	for i := 0; i < 3; i++ {
		require.NoError(t, p.StartRender(ctx))
		done := p.FrameDone()
		require.NotNil(t, done)
		watches = append(watches, done)

		require.NoError(t, p.StopRender(ctx))
		assert.Nil(t, p.FrameDone())
	}

	for _, done := range watches {
		waitClosed(t, done)
	}

	require.NoError(t, p.StartRender(ctx))
	done := p.FrameDone()
	require.NoError(t, p.Close())
	waitClosed(t, done)
}

func TestForeignUserOptions(t *testing.T) {
	f := newFixture(t)
	p := f.panel
	user := "declare tint constant RGB tint 1 0 0 declare ids constant ARRAY INT ids 2 4 5"
	require.NoError(t, f.beauty.SetString(target.AttrUserOptions, user))
	require.NoError(t, f.beauty.SetBool(target.AttrUserOptionsEnable, true))
	p.Reset()

	require.NoError(t, p.StartRender(context.Background()))
	assert.True(t, p.Rendering())

	ipr := f.ctx.Viewer()
	require.NoError(t, ipr.Err())
	assert.True(t, ipr.IsActive())
	opts := ipr.Universe().Options()
	assert.True(t, opts.Bool(useropts.Enable))
	assert.Equal(t, p.DefaultPort(), opts.Int(useropts.Port))

	raw, _ := f.beauty.String(target.AttrUserOptions)
	assert.True(t, strings.HasPrefix(raw, user+" declare aton_enable"), raw)

	require.NoError(t, p.StopRender(context.Background()))
	raw, _ = f.beauty.String(target.AttrUserOptions)
	assert.Equal(t, user, raw)
}

func TestStartRenderGenerateFailure(t *testing.T) {
	f := newFixture(t)
	p := f.panel
	errTranslate := errors.New("translation failed")
	f.ctx.Viewer().OnGenerate = func(host.Node, *universe.Universe) error { return errTranslate }

	err := p.StartRender(context.Background())
	assert.ErrorIs(t, err, ErrRenderFailed)
	assert.ErrorIs(t, err, errTranslate)
	assert.False(t, p.Rendering())
	assert.False(t, f.ctx.Viewer().IsActive())
	assert.Equal(t, "", p.Current().Status())

	opts, _ := f.beauty.String(target.AttrUserOptions)
	assert.Equal(t, "foo bar", opts)
}

func TestFarmExport(t *testing.T) {
	f := newFixture(t)
	p := f.panel
	f.ctx.SetFrame(4)

	s := p.Settings()
	s.Mode = Farm
	s.Distribute = 2
	s.PortIncrement = true
	s.CPU = "16"
	s.RAM = "32G"
	s.IgnoreMotionBlur = true
	require.NoError(t, p.Apply(s))
	require.NoError(t, p.SelectForExport("/out/beauty", "/out/shadow_pass"))

	require.NoError(t, p.StartRender(context.Background()))
	require.Len(t, f.submitter.jobs, 8)

	beautyFile := filepath.Join(f.cfg.Farm.ExportDir, "beauty.0004.ass")
	job := f.submitter.jobs[0]
	assert.Equal(t, beautyFile, job.AssFile)
	assert.Equal(t, "beauty", job.Output)
	assert.Equal(t, 4.0, job.Frame)
	assert.Equal(t, "16", job.CPU)
	assert.Equal(t, "32G", job.RAM)
	assert.Equal(t, []int{0, 0, 959, 539}, job.Region)
	assert.Equal(t, []int{960, 540, 1919, 1079}, f.submitter.jobs[3].Region)
	assert.Equal(t, "shadow_pass", f.submitter.jobs[4].Output)

	u := universe.New()
	require.NoError(t, u.LoadFile(beautyFile))
	aton := u.LookUp("/out/beauty:aton:cam1")
	require.NotNil(t, aton)
	assert.Equal(t, "192.168.1.20", aton.Str("host"))
	assert.Equal(t, p.DefaultPort(), aton.Int("port"))
	assert.Equal(t, 1700000000, aton.Int("session"))
	assert.True(t, u.Options().Bool("ignore_motion_blur"))
	assert.Contains(t, u.Options().Array("outputs")[0], "/out/beauty:aton:cam1")

	shadow := universe.New()
	require.NoError(t, shadow.LoadFile(filepath.Join(f.cfg.Farm.ExportDir, "shadow_pass.0004.ass")))
	assert.Equal(t, p.DefaultPort()+1, shadow.LookUp("/out/shadow_pass:aton:cam2").Int("port"))

	require.NoError(t, p.StopRender(context.Background()))
	assert.Equal(t, 1, f.submitter.stops)
}

func TestFarmExportWithCrop(t *testing.T) {
	f := newFixture(t)
	p := f.panel

	s := p.Settings()
	s.Mode = Farm
	s.Distribute = 1
	s.Region = policy.RegionSettings{Enabled: true, X: 0, Y: 0, R: 1000, T: 1080}
	require.NoError(t, p.Apply(s))
	require.NoError(t, p.Export(context.Background()))

	require.Len(t, f.submitter.jobs, 2)
	assert.Equal(t, []int{0, 0, 499, 1079}, f.submitter.jobs[0].Region)
	assert.Equal(t, []int{500, 0, 999, 1079}, f.submitter.jobs[1].Region)

	u := universe.New()
	require.NoError(t, u.LoadFile(f.submitter.jobs[0].AssFile))
	assert.Equal(t, 999, u.Options().Int("region_max_x"))
	assert.True(t, u.LookUp("/out/beauty:aton:cam1").Has("session"))
}

func TestSingleJobWithoutDistribution(t *testing.T) {
	f := newFixture(t)
	p := f.panel

	s := p.Settings()
	s.Mode = Farm
	require.NoError(t, p.Apply(s))
	require.NoError(t, p.StartRender(context.Background()))

	require.Len(t, f.submitter.jobs, 1)
	assert.Nil(t, f.submitter.jobs[0].Region)

	u := universe.New()
	require.NoError(t, u.LoadFile(f.submitter.jobs[0].AssFile))
	assert.False(t, u.LookUp("/out/beauty:aton:cam1").Has("session"))
}

func TestPasteRegion(t *testing.T) {
	f := newFixture(t)
	p := f.panel

	assert.False(t, p.PasteRegion("not a crop"))
	require.True(t, p.PasteRegion("0,0,960,540,960"))
	assert.Equal(t, policy.RegionSettings{Enabled: true, X: 0, Y: 0, R: 1920, T: 1080}, p.Settings().Region)
}

func TestClose(t *testing.T) {
	f := newFixture(t)
	p := f.panel
	require.NoError(t, p.StartRender(context.Background()))

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.False(t, f.ctx.Viewer().IsActive())
	assert.Zero(t, f.beauty.Listeners())
	assert.Zero(t, f.shadow.Listeners())
	opts, _ := f.beauty.String(target.AttrUserOptions)
	assert.Equal(t, "foo bar", opts)
}

func TestMarkedForExport(t *testing.T) {
	f := newFixture(t)
	p := f.panel

	assert.Empty(t, p.Marked())
	require.Len(t, p.Selected(), 1, "the current target is exported by default")

	require.NoError(t, p.SelectForExport("/out/shadow_pass"))
	assert.Equal(t, []string{"/out/shadow_pass"}, p.Marked())
	assert.ErrorIs(t, p.SelectForExport("/out/missing"), ErrUnknownPath)
	assert.Equal(t, []string{"/out/shadow_pass"}, p.Marked())
}
