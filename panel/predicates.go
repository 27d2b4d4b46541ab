package panel

import (
	"github.com/sosoyan/aton/policy"
	"github.com/sosoyan/aton/target"
)

// Resolution resolves the resolution selector and crop controls against the
// origin resolution of t.
func (p *Panel) Resolution(t *target.Target) policy.Resolution {
	return policy.Resolve(t.OriginResolution(), p.settings.ResolutionIndex, p.settings.Region)
}

// CameraChanged reports whether a camera other than the current target's
// was picked.
func (p *Panel) CameraChanged() bool {
	return p.settings.Camera != "" && p.settings.Camera != p.Current().CameraPath()
}

func (p *Panel) BucketChanged() bool {
	return p.settings.Bucket != "" && p.settings.Bucket != p.Current().BucketScanning()
}

func (p *Panel) AAChanged() bool {
	return p.settings.AACustom && p.settings.AASamples != p.Current().OriginAASamples()
}

// ResolutionChanged reports whether t needs an explicit resolution.
func (p *Panel) ResolutionChanged(t *target.Target) bool {
	return p.Resolution(t).ResolutionChanged(t.OriginResolution())
}

// RegionChanged reports whether t renders a crop.
func (p *Panel) RegionChanged(t *target.Target) bool {
	return p.Resolution(t).RegionChanged()
}

func (p *Panel) IgnoreMotionBlur() bool   { return p.settings.IgnoreMotionBlur }
func (p *Panel) IgnoreSubdivision() bool  { return p.settings.IgnoreSubdivision }
func (p *Panel) IgnoreDisplacement() bool { return p.settings.IgnoreDisplacement }
func (p *Panel) IgnoreBump() bool         { return p.settings.IgnoreBump }
func (p *Panel) IgnoreSSS() bool          { return p.settings.IgnoreSSS }
