package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/sosoyan/aton/farm"
	"github.com/sosoyan/aton/panel"
	"github.com/urfave/cli"
)

// Records the jobs passed on to the farm.
type reportingSubmitter struct {
	farm.Submitter
	jobs []farm.Job
}

func (s *reportingSubmitter) Start(ctx context.Context, job farm.Job) error {
	if err := s.Submitter.Start(ctx, job); err != nil {
		return err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Submit exports the selected render nodes and sends one farm job per tile.
func Submit(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	hostCtx, err := loadScene(ctx)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool("dry-run") {
		cfg.Farm.DryRun = true
	}
	if dir := ctx.String("export-dir"); dir != "" {
		cfg.Farm.ExportDir = dir
	}

	submitter, err := farm.NewSubmitter(&cfg.Farm)
	if err != nil {
		return err
	}
	reporter := &reportingSubmitter{Submitter: submitter}

	p := panel.New(hostCtx, cfg, nil, reporter)
	defer p.Close()
	if err = applyFlags(ctx, p); err != nil {
		return err
	}
	if ctx.IsSet("frame") {
		hostCtx.SetFrame(ctx.Float64("frame"))
	}

	s := p.Settings()
	s.Mode = panel.Farm
	s.Distribute = ctx.Int("distribute")
	s.CPU = ctx.String("cpu")
	s.RAM = ctx.String("ram")
	s.PortIncrement = s.PortIncrement && !ctx.Bool("same-port")
	if err = p.Apply(s); err != nil {
		return err
	}
	if rops := ctx.StringSlice("export"); len(rops) != 0 {
		if err = p.SelectForExport(rops...); err != nil {
			return err
		}
	}

	if err = p.StartRender(context.Background()); err != nil {
		return err
	}
	displayJobs(reporter.jobs)
	return nil
}

func displayJobs(jobs []farm.Job) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Scene file", "Output", "Frame", "CPU", "RAM", "Region"})
	for i, job := range jobs {
		table.Append([]string{
			fmt.Sprint(i),
			job.AssFile,
			job.Output,
			fmt.Sprint(job.Frame),
			job.CPU,
			job.RAM,
			job.RegionString(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "JOBS", fmt.Sprint(len(jobs))})
	table.Render()
	logger.Noticef("submitted jobs\n%s", buf.String())
}
