package cmd

import (
	"fmt"

	"github.com/sosoyan/aton/log"
	"github.com/urfave/cli"
)

var logger = log.New("aton")

// Apply the global verbosity flags. A named --log-level wins over -v/-vv.
func setupLogging(ctx *cli.Context) error {
	if name := ctx.GlobalString("log-level"); name != "" {
		level, ok := log.ParseLevel(name)
		if !ok {
			return fmt.Errorf("unknown log level %q", name)
		}
		log.SetLevel(level)
		return nil
	}

	switch {
	case ctx.GlobalBool("vv"):
		log.SetLevel(log.Debug)
	case ctx.GlobalBool("v"):
		log.SetLevel(log.Info)
	}
	return nil
}
