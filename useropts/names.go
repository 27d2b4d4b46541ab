package useropts

// Prefix is shared by every declaration the panels own.
const Prefix = "aton_"

// Declaration names understood by the Aton display driver.
const (
	Enable = "aton_enable"
	Host   = "aton_host"
	Port   = "aton_port"
	Output = "aton_output"
	Bucket = "aton_bucket"

	RegionMinX = "aton_region_min_x"
	RegionMinY = "aton_region_min_y"
	RegionMaxX = "aton_region_max_x"
	RegionMaxY = "aton_region_max_y"

	IgnoreMotionBlur   = "aton_ignore_mbl"
	IgnoreSubdivision  = "aton_ignore_sdv"
	IgnoreDisplacement = "aton_ignore_dsp"
	IgnoreBump         = "aton_ignore_bmp"
	IgnoreSSS          = "aton_ignore_sss"
)
