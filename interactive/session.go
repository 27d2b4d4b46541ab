// Package interactive implements the live panel: overrides pushed straight
// into the renderer universe of a running interactive render, without
// touching the host's render nodes.
package interactive

import (
	"slices"

	"github.com/sosoyan/aton/log"
	"github.com/sosoyan/aton/policy"
	"github.com/sosoyan/aton/types"
	"github.com/sosoyan/aton/universe"
)

var logger = log.New("interactive")

// Renderer is the interactive render the session edits. Edits happen
// between Pause and Unpause.
type Renderer interface {
	IsActive() bool
	Pause()
	Unpause()
}

// Section selects the group of overrides refreshed by Update.
type Section int

const (
	All Section = iota
	Camera
	Resolution
	AA
	Ignore
	Shading
	Texture
)

// Settings are the live panel controls.
type Settings struct {
	// Camera node name; empty keeps the universe's camera.
	Camera string

	// Scene resolution the percentage and region refer to.
	Origin  types.Size
	Percent int

	// Region edges measured from the bottom-left corner; R and T are
	// exclusive.
	Region policy.RegionSettings

	AASamples int

	IgnoreMotionBlur   bool
	IgnoreSubdivision  bool
	IgnoreDisplacement bool
	IgnoreBump         bool
	IgnoreSSS          bool

	Shader       Shader
	SelectedOnly bool

	TextureRepeat int
}

// Session pushes live panel settings into a universe.
type Session struct {
	u        *universe.Universe
	renderer Renderer
	settings Settings

	shaders *overrideShaders

	// Shader assignments of the shapes before any override.
	defaults map[string]*universe.Node

	// Selection returns the names of the selected shapes.
	Selection func() []string
}

// New creates a session for the universe rendered by r. The settings start
// from the universe's options.
func New(u *universe.Universe, r Renderer) *Session {
	opts := u.Options()
	origin := types.Size{W: opts.Int("xres"), H: opts.Int("yres")}

	settings := Settings{
		Origin:        origin,
		Percent:       100,
		Region:        policy.FullFrame(origin),
		AASamples:     opts.Int("AA_samples"),
		TextureRepeat: 1,
	}
	if cam := opts.Ptr("camera"); cam != nil {
		settings.Camera = cam.Name()
	}

	return &Session{
		u:         u,
		renderer:  r,
		settings:  settings,
		defaults:  make(map[string]*universe.Node),
		Selection: func() []string { return nil },
	}
}

// Settings returns a copy of the current controls.
func (s *Session) Settings() Settings {
	return s.settings
}

// Apply replaces the controls and refreshes section.
func (s *Session) Apply(settings Settings, section Section) error {
	s.settings = settings
	return s.Update(section)
}

// Update pushes one section of the settings, or all of them, into the
// universe while the render is paused. Updating all sections also records
// the shapes' shader assignments that ShaderNone restores.
func (s *Session) Update(section Section) error {
	if s.renderer == nil || !s.renderer.IsActive() {
		return ErrNotRunning
	}
	s.renderer.Pause()
	defer s.renderer.Unpause()

	if section == All || section == Camera {
		s.updateCamera()
	}
	if section == All || section == Resolution {
		s.updateResolution()
	}
	if section == All || section == AA {
		s.u.Options().SetInt("AA_samples", s.settings.AASamples)
	}
	if section == All || section == Ignore {
		s.updateIgnores()
	}

	if section == All {
		if err := s.storeDefaults(); err != nil {
			return err
		}
	}

	if section == Shading || s.settings.Shader != ShaderNone {
		if err := s.updateShaders(); err != nil {
			return err
		}
	}

	if (section == All || section == Texture) && s.shaders != nil {
		repeat := float64(s.settings.TextureRepeat)
		s.shaders.place.SetPnt2("repeatUV", repeat, repeat)
	}
	return nil
}

func (s *Session) updateCamera() {
	if s.settings.Camera == "" {
		return
	}
	for cam := range s.u.Nodes(universe.Camera) {
		if cam.Name() == s.settings.Camera {
			s.u.Options().SetPtr("camera", cam)
			return
		}
	}
	logger.Warningf("camera %s is not part of the render", s.settings.Camera)
}

func (s *Session) updateResolution() {
	opts := s.u.Options()
	xres := s.settings.Origin.W * s.settings.Percent / 100
	yres := s.settings.Origin.H * s.settings.Percent / 100
	opts.SetInt("xres", xres)
	opts.SetInt("yres", yres)

	rs := s.settings.Region
	region := policy.ClampRegion(types.Size{W: xres, H: yres}, types.Region{
		XMin: rs.X,
		YMin: yres - rs.T,
		XMax: rs.R - 1,
		YMax: yres - rs.Y - 1,
	})
	opts.SetInt("region_min_x", region.XMin)
	opts.SetInt("region_min_y", region.YMin)
	opts.SetInt("region_max_x", region.XMax)
	opts.SetInt("region_max_y", region.YMax)
}

func (s *Session) updateIgnores() {
	opts := s.u.Options()
	opts.SetBool("ignore_motion_blur", s.settings.IgnoreMotionBlur)
	opts.SetBool("ignore_subdivision", s.settings.IgnoreSubdivision)
	opts.SetBool("ignore_displacement", s.settings.IgnoreDisplacement)
	opts.SetBool("ignore_bump", s.settings.IgnoreBump)
	opts.SetBool("ignore_sss", s.settings.IgnoreSSS)
}

// Create the override shaders and remember every shaded shape's own shader.
func (s *Session) storeDefaults() error {
	if s.shaders == nil {
		shaders, err := newOverrideShaders(s.u)
		if err != nil {
			return err
		}
		s.shaders = shaders
	}

	// Shapes still wearing an override keep their recorded shader.
	defaults := make(map[string]*universe.Node)
	for shape := range s.u.Nodes(universe.Shape) {
		shader := shape.Ptr("shader")
		switch {
		case shader == nil:
		case s.isOverride(shader):
			if def, ok := s.defaults[shape.Name()]; ok {
				defaults[shape.Name()] = def
			}
		default:
			defaults[shape.Name()] = shader
		}
	}
	s.defaults = defaults
	return nil
}

func (s *Session) isOverride(n *universe.Node) bool {
	if s.shaders == nil {
		return false
	}
	for _, o := range s.shaders.byShader {
		if o == n {
			return true
		}
	}
	return false
}

func (s *Session) updateShaders() error {
	if s.shaders == nil {
		if err := s.storeDefaults(); err != nil {
			return err
		}
	}
	override, err := s.shaders.Node(s.settings.Shader)
	if err != nil {
		return err
	}

	var selection []string
	if s.settings.Shader != ShaderNone && s.settings.SelectedOnly {
		selection = s.Selection()
	}

	for shape := range s.u.Nodes(universe.Shape) {
		def, shaded := s.defaults[shape.Name()]
		if !shaded {
			continue
		}
		if len(selection) != 0 && !slices.Contains(selection, shape.Name()) {
			shape.SetPtr("shader", def)
			continue
		}
		if override == nil {
			shape.SetPtr("shader", def)
		} else {
			shape.SetPtr("shader", override)
		}
	}
	return nil
}

// TimeChanged moves the render to frame.
func (s *Session) TimeChanged(frame float64) {
	s.u.Options().SetFlt("frame", frame)
}

// SelectionChanged refreshes the shader overrides when they only apply to
// the selected shapes.
func (s *Session) SelectionChanged() error {
	if s.settings.Shader == ShaderNone || !s.settings.SelectedOnly {
		return nil
	}
	return s.Update(Shading)
}
