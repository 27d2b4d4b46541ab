package farm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"text/template"

	"github.com/google/shlex"
	"github.com/sosoyan/aton/log"
)

var logger = log.New("farm")

var funcs = template.FuncMap{
	"join": func(sep string, v []int) string {
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = fmt.Sprint(n)
		}
		return strings.Join(parts, sep)
	},
	"quote": func(s string) string {
		return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
	},
}

// CommandSubmitter expands a command line template for every job and runs
// it. The template receives the Job; for example
//
//	submit --file {{quote .AssFile}} --frame {{.Frame}}{{if .Region}} --region {{join "," .Region}}{{end}}
type CommandSubmitter struct {
	start *template.Template
	stop  string

	// When set, commands are recorded but never executed.
	DryRun bool

	// Commands executed or recorded so far.
	Commands [][]string

	// Jobs accepted so far.
	Jobs []Job
}

// NewCommandSubmitter parses the start command template.
func NewCommandSubmitter(startCmd, stopCmd string) (*CommandSubmitter, error) {
	if strings.TrimSpace(startCmd) == "" {
		return nil, ErrNoCommand
	}
	tmpl, err := template.New("start").Funcs(funcs).Parse(startCmd)
	if err != nil {
		return nil, fmt.Errorf("farm: parse submit command: %w", err)
	}
	return &CommandSubmitter{start: tmpl, stop: stopCmd}, nil
}

// NewSubmitter builds the submitter described by cfg. Without a command
// jobs are discarded.
func NewSubmitter(cfg *Config) (Submitter, error) {
	if cfg == nil || cfg.Command == "" {
		return NopSubmitter{}, nil
	}
	s, err := NewCommandSubmitter(cfg.Command, cfg.StopCommand)
	if err != nil {
		return nil, err
	}
	s.DryRun = cfg.DryRun
	return s, nil
}

func (s *CommandSubmitter) Start(ctx context.Context, job Job) error {
	var buf bytes.Buffer
	if err := s.start.Execute(&buf, job); err != nil {
		return fmt.Errorf("farm: expand submit command: %w", err)
	}
	if err := s.run(ctx, buf.String()); err != nil {
		return err
	}
	s.Jobs = append(s.Jobs, job)
	return nil
}

func (s *CommandSubmitter) Stop(ctx context.Context) error {
	if s.stop == "" {
		return nil
	}
	return s.run(ctx, s.stop)
}

func (s *CommandSubmitter) run(ctx context.Context, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("farm: split command %q: %w", line, err)
	}
	if len(args) == 0 {
		return ErrEmptyArgs
	}

	s.Commands = append(s.Commands, args)
	if s.DryRun {
		logger.Infof("dry run: %s", strings.Join(args, " "))
		return nil
	}

	logger.Debugf("running %s", strings.Join(args, " "))
	out, err := exec.CommandContext(ctx, args[0], args[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("farm: %s: %w: %s", args[0], err, bytes.TrimSpace(out))
	}
	return nil
}
