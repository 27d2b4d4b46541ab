package main

import (
	"os"

	"github.com/sosoyan/aton/cmd"
	"github.com/urfave/cli"
)

// Flags shared by the commands that apply panel overrides.
var overrideFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "rop",
		Usage: "render node to use instead of the first one",
	},
	cli.IntFlag{
		Name:  "port",
		Usage: "Aton receiver port (default: panel instance port)",
	},
	cli.StringFlag{
		Name:  "camera",
		Usage: "camera path overriding the render node's camera",
	},
	cli.StringFlag{
		Name:  "bucket",
		Usage: "bucket scanning mode",
	},
	cli.IntFlag{
		Name:  "res",
		Usage: "resolution preset index (0: render node, 1: 100%, 2: 75%, 3: 50%, 4: 25%, 5: 10%, 6: 5%)",
	},
	cli.IntFlag{
		Name:  "aa",
		Usage: "camera AA samples",
	},
	cli.StringFlag{
		Name:  "region",
		Usage: "crop region x,y,r,t measured from the bottom-left corner",
	},
	cli.BoolFlag{
		Name:  "ignore-mblur",
		Usage: "ignore motion blur",
	},
	cli.BoolFlag{
		Name:  "ignore-subdiv",
		Usage: "ignore subdivision",
	},
	cli.BoolFlag{
		Name:  "ignore-displace",
		Usage: "ignore displacement",
	},
	cli.BoolFlag{
		Name:  "ignore-bump",
		Usage: "ignore bump mapping",
	},
	cli.BoolFlag{
		Name:  "ignore-sss",
		Usage: "ignore sub-surface scattering",
	},
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "aton"
	app.Usage = "drive interactive and farm renders streamed to the Aton viewer"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level: debug, info, notice, warning or error (overrides -v and -vv)",
			EnvVar: "ATON_LOG_LEVEL",
		},
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "configuration file path or URL",
			EnvVar: "ATON_CONFIG",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "scene",
			Usage:     "list the render nodes of a scene description",
			ArgsUsage: "scene.toml",
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:  "tiles",
			Usage: "list the regions of a distributed farm render",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 1920,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 1080,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "split, f",
					Value: 2,
					Usage: "split the frame into 2^f tiles",
				},
				cli.StringFlag{
					Name:  "crop",
					Usage: "split an inclusive renderer region xmin,ymin,xmax,ymax instead of the frame",
				},
			},
			Action: cmd.ShowTiles,
		},
		{
			Name:  "render",
			Usage: "start an interactive render with panel overrides",
			Description: `
Start an interactive render of a render node, redirect it to the Aton driver
and list the user options and drivers that reached the renderer. Unless
--keep is set the render is stopped and the render node restored.`,
			ArgsUsage: "scene.toml",
			Flags: append([]cli.Flag{
				cli.BoolFlag{
					Name:  "keep",
					Usage: "keep the overrides on the render node",
				},
				cli.StringFlag{
					Name:  "shader",
					Usage: "live shader override: checker, grey, mirror, normal, occlusion or uv",
				},
				cli.IntFlag{
					Name:  "texture-repeat",
					Value: 1,
					Usage: "checker texture repeat",
				},
			}, overrideFlags...),
			Action: cmd.RenderPreview,
		},
		{
			Name:  "submit",
			Usage: "export render nodes and submit farm jobs",
			Description: `
Export a scene file for every selected render node, redirect it to the Aton
driver and submit one farm job per tile using the configured farm command.`,
			ArgsUsage: "scene.toml",
			Flags: append([]cli.Flag{
				cli.StringSliceFlag{
					Name:  "export, e",
					Value: &cli.StringSlice{},
					Usage: "render node to export; may be repeated",
				},
				cli.IntFlag{
					Name:  "distribute, d",
					Usage: "split every frame into 2^d tiles",
				},
				cli.Float64Flag{
					Name:  "frame",
					Usage: "frame to export",
				},
				cli.StringFlag{
					Name:  "cpu",
					Usage: "cpu setting passed to the farm",
				},
				cli.StringFlag{
					Name:  "ram",
					Usage: "ram setting passed to the farm",
				},
				cli.StringFlag{
					Name:  "export-dir",
					Usage: "export directory overriding the configuration",
				},
				cli.BoolFlag{
					Name:  "same-port",
					Usage: "do not increment the port for every render node",
				},
				cli.BoolFlag{
					Name:  "dry-run",
					Usage: "log farm commands instead of running them",
				},
			}, overrideFlags...),
			Action: cmd.Submit,
		},
		{
			Name:      "panel",
			Usage:     "open the render output panel in the terminal",
			ArgsUsage: "scene.toml",
			Flags:     overrideFlags,
			Action:    cmd.ShowPanel,
		},
	}

	app.Run(os.Args)
}
