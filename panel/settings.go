package panel

import "github.com/sosoyan/aton/policy"

// Mode selects between interactive rendering and farm submission.
type Mode uint8

const (
	Local Mode = iota
	Farm
)

func (m Mode) String() string {
	if m == Farm {
		return "Farm"
	}
	return "Local"
}

// Settings mirrors the panel controls. Empty strings and zero indices
// select the render node's own value.
type Settings struct {
	Mode Mode

	Port          int
	PortIncrement bool
	AutoUpdate    bool

	Camera string
	Bucket string

	// Index into the resolution presets; 0 keeps the render node's.
	ResolutionIndex int

	AACustom  bool
	AASamples int

	Region policy.RegionSettings

	Sequence bool
	SeqStart int
	SeqEnd   int
	SeqStep  int
	Rebuild  bool

	IgnoreMotionBlur   bool
	IgnoreSubdivision  bool
	IgnoreDisplacement bool
	IgnoreBump         bool
	IgnoreSSS          bool

	CPU        string
	RAM        string
	Distribute int
}
