// Package driver post-processes a translated render node before the renderer
// starts. Stages run in order after the host resolved the regular outputs.
package driver

import (
	"fmt"

	"github.com/sosoyan/aton/host"
	"github.com/sosoyan/aton/log"
	"github.com/sosoyan/aton/universe"
)

var logger = log.New("driver")

// Generate describes a single translation of a render node.
type Generate struct {
	Rop      host.Node
	Universe *universe.Universe

	// Set for IPR sessions; scene file exports are not interactive.
	Interactive bool

	// Stereo cameras tag their drivers with the eye name.
	CameraTag string
}

// An alias for functions that can be plugged into the output pipeline.
type Stage func(gen *Generate) error

// The list of stages applied to every generated universe.
type Pipeline struct {
	Stages []Stage
}

// DefaultPipeline redirects interactive sessions to the Aton driver.
func DefaultPipeline() *Pipeline {
	return &Pipeline{
		Stages: []Stage{
			InjectAton(),
		},
	}
}

// Run executes all stages and stops at the first error.
func (p *Pipeline) Run(gen *Generate) error {
	for index, stage := range p.Stages {
		if err := stage(gen); err != nil {
			return fmt.Errorf("driver: stage %d: %w", index, err)
		}
	}
	return nil
}

// Hook adapts the pipeline to the in-memory host IPR generate callback.
func (p *Pipeline) Hook() func(rop host.Node, u *universe.Universe) error {
	return func(rop host.Node, u *universe.Universe) error {
		return p.Run(&Generate{Rop: rop, Universe: u, Interactive: true})
	}
}
