package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sosoyan/aton/driver"
	"github.com/sosoyan/aton/tui"
	"github.com/urfave/cli"
)

// ShowPanel opens the interactive render output panel for a scene.
func ShowPanel(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	p, hostCtx, _, err := openPanel(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	hostCtx.Viewer().OnGenerate = driver.DefaultPipeline().Hook()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return tui.Run(runCtx, p)
}
