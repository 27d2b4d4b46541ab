// Package farm describes render farm jobs and submits them.
package farm

import (
	"context"
	"strconv"
	"strings"
)

// Job is a single farm task rendering one exported scene file.
type Job struct {
	AssFile string
	Output  string
	Frame   float64
	CPU     string
	RAM     string

	// Renderer-space [xMin, yMin, xMax, yMax] with inclusive max edges, or
	// nil to render the full frame.
	Region []int
}

// RegionString formats the region as a comma separated list.
func (j Job) RegionString() string {
	parts := make([]string, len(j.Region))
	for i, v := range j.Region {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Submitter talks to the farm manager.
type Submitter interface {
	Start(ctx context.Context, job Job) error
	Stop(ctx context.Context) error
}

// NopSubmitter discards jobs.
type NopSubmitter struct{}

func (NopSubmitter) Start(context.Context, Job) error { return nil }
func (NopSubmitter) Stop(context.Context) error       { return nil }
