// Package monitor detects when the renderer finished a frame so that
// sequence renders can advance the playbar.
package monitor

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/sosoyan/aton/log"
)

var logger = log.New("monitor")

// Probe reports whether the renderer is idle.
type Probe interface {
	Finished(ctx context.Context) (bool, error)
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc func(ctx context.Context) (bool, error)

func (f ProbeFunc) Finished(ctx context.Context) (bool, error) {
	return f(ctx)
}

// ProcessProbe inspects the descendants of a process for the renderer and
// treats it as finished when it no longer uses any CPU.
type ProcessProbe struct {
	PID    int32
	Prefix string

	// CPU usage is measured over this window.
	Sample time.Duration
}

// NewProcessProbe watches renderer processes spawned by this process.
func NewProcessProbe(prefix string) *ProcessProbe {
	return &ProcessProbe{
		PID:    int32(os.Getpid()),
		Prefix: prefix,
		Sample: time.Second,
	}
}

func (p *ProcessProbe) Finished(ctx context.Context) (bool, error) {
	parent, err := process.NewProcessWithContext(ctx, p.PID)
	if err != nil {
		return false, err
	}

	renderer, err := p.find(ctx, parent)
	if renderer == nil || err != nil {
		return false, err
	}

	usage, err := renderer.PercentWithContext(ctx, p.Sample)
	if err != nil {
		// Gone while sampling.
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return false, nil
		}
		return false, err
	}
	return usage == 0, nil
}

// Depth-first search for the first descendant whose name has the prefix.
func (p *ProcessProbe) find(ctx context.Context, parent *process.Process) (*process.Process, error) {
	children, err := parent.ChildrenWithContext(ctx)
	if err != nil {
		if errors.Is(err, process.ErrorNoChildren) {
			return nil, nil
		}
		return nil, err
	}

	for _, child := range children {
		if name, err := child.NameWithContext(ctx); err == nil && strings.HasPrefix(name, p.Prefix) {
			return child, nil
		}
		if found, err := p.find(ctx, child); found != nil || err != nil {
			return found, err
		}
	}
	return nil, nil
}

// Watch polls probe every interval and sends a notification each time the
// renderer becomes idle. The channel is closed once ctx is cancelled, which
// is the only way to stop the watcher.
func Watch(ctx context.Context, probe Probe, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		wasFinished := false
		for ctx.Err() == nil {
			finished, err := probe.Finished(ctx)
			if err != nil {
				logger.Debugf("renderer probe failed: %v", err)
			}
			if finished && !wasFinished {
				select {
				case done <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
			wasFinished = finished

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return done
}
