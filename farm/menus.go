package farm

import (
	"bytes"
	"text/template"
)

// Menus supplies the farm choices offered by the panel.
type Menus interface {
	CPUMenu() []string
	RAMMenu() []string

	// Entry i of the distribute menu splits the frame into 2^i tiles.
	DistributeMenu() []string

	ExportPath(rop string) string
	ExportName(rop string) string
}

// DefaultDistributeMenu offers up to 64 tiles.
var DefaultDistributeMenu = []string{"Off", "2 Tiles", "4 Tiles", "8 Tiles", "16 Tiles", "32 Tiles", "64 Tiles"}

// Config is the farm section of the configuration file and the default
// Menus implementation. ExportDir and ExportFile are templates receiving
// the render node name as {{.Rop}}.
type Config struct {
	CPU         []string `toml:"cpu"`
	RAM         []string `toml:"ram"`
	Distribute  []string `toml:"distribute"`
	ExportDir   string   `toml:"export_dir"`
	ExportFile  string   `toml:"export_name"`
	Command     string   `toml:"command"`
	StopCommand string   `toml:"stop_command"`
	DryRun      bool     `toml:"dry_run"`
}

func (c *Config) CPUMenu() []string { return c.CPU }
func (c *Config) RAMMenu() []string { return c.RAM }

func (c *Config) DistributeMenu() []string {
	if len(c.Distribute) == 0 {
		return DefaultDistributeMenu
	}
	return c.Distribute
}

func (c *Config) ExportPath(rop string) string {
	return expandRop(c.ExportDir, rop)
}

func (c *Config) ExportName(rop string) string {
	return expandRop(c.ExportFile, rop)
}

// Malformed templates yield an empty string which disables the export.
func expandRop(text, rop string) string {
	if text == "" {
		return ""
	}
	tmpl, err := template.New("path").Parse(text)
	if err != nil {
		logger.Warningf("invalid export template %q: %v", text, err)
		return ""
	}
	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, struct{ Rop string }{rop}); err != nil {
		logger.Warningf("invalid export template %q: %v", text, err)
		return ""
	}
	return buf.String()
}
