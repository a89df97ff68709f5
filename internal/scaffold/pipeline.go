package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mkrepo-labs/mkrepo/internal/launcher"
	"github.com/mkrepo-labs/mkrepo/internal/logging"
	"github.com/mkrepo-labs/mkrepo/internal/probe"
	"github.com/mkrepo-labs/mkrepo/internal/project"
	"github.com/mkrepo-labs/mkrepo/internal/runtime"
	"github.com/mkrepo-labs/mkrepo/internal/templates"
)

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// Opener launches the editor and browser and arranges their windows.
type Opener interface {
	OpenEditor(ctx context.Context, res probe.Result, dir string) error
	OpenBrowser(ctx context.Context, res probe.Result, url string) error
	Place(ctx context.Context, res probe.Result, side launcher.Side) error
}

// RunContext carries the state of one pipeline run. ProjectDir is empty until
// the enter-directory step sets it.
type RunContext struct {
	Config       *project.Config
	Availability probe.Availability
	BaseDir      string
	ProjectDir   string

	TemplateRoot  string
	Visibility    string
	CommitMessage string
	TestMode      bool

	Runner    runtime.Runner
	Opener    Opener
	Confirmer Confirmer
	Out       io.Writer
	Logger    *slog.Logger

	templates *templates.Set
}

func (rc *RunContext) logger(ctx context.Context) *slog.Logger {
	if rc.Logger != nil {
		return rc.Logger
	}
	return logging.FromContext(ctx)
}

func (rc *RunContext) printf(format string, args ...any) {
	if rc.Out != nil {
		fmt.Fprintf(rc.Out, format, args...)
	}
}

// Step is one pipeline stage.
type Step struct {
	Label    string
	Required bool
	// Needs lists capabilities that must be available for the step to run.
	Needs []probe.Capability
	// Interactive steps touch the desktop or remote services and are
	// suppressed in test mode.
	Interactive bool
	Action      func(ctx context.Context, rc *RunContext) error
}

// Status is the terminal state of a run.
type Status int

const (
	StatusSuccess Status = iota
	StatusAborted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusAborted:
		return "aborted"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is the result of a pipeline run.
type Outcome struct {
	Status Status
	// Step and Err are set when Status is StatusAborted.
	Step string
	Err  error

	Completed []string
	Skipped   []string
}

// Cancelled returns the outcome of a run the user abandoned before any step
// started.
func Cancelled() *Outcome {
	return &Outcome{Status: StatusCancelled}
}

// ExitCode maps the outcome to a process exit status.
func (o *Outcome) ExitCode() int {
	if o.Status == StatusAborted {
		return 1
	}
	return 0
}

// StepError reports a required step that failed. Output holds the captured
// stderr of the failing tool, when there was one.
type StepError struct {
	Step   string
	Output string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func newStepError(step string, err error) *StepError {
	se := &StepError{Step: step, Err: err}
	var exitErr *runtime.ExitError
	if errors.As(err, &exitErr) {
		se.Output = strings.TrimSpace(exitErr.Stderr)
	}
	return se
}

// Pipeline executes steps in order.
type Pipeline struct {
	Steps []Step
}

// New returns the pipeline for cfg's project kind.
func New(cfg *project.Config) *Pipeline {
	return &Pipeline{Steps: Steps(cfg.Kind)}
}

// Run executes every step against rc and returns the finalized outcome.
// Required failures stop the run with StatusAborted. Optional failures and
// steps whose capabilities are missing are logged and skipped.
func (p *Pipeline) Run(ctx context.Context, rc *RunContext) *Outcome {
	log := rc.logger(ctx)
	outcome := &Outcome{Status: StatusSuccess}
	total := len(p.Steps)

	for i, step := range p.Steps {
		if rc.TestMode && step.Interactive {
			log.Debug("step suppressed in test mode", "step", step.Label)
			outcome.Skipped = append(outcome.Skipped, step.Label)
			continue
		}
		if missing := missingCapabilities(rc.Availability, step.Needs); len(missing) > 0 {
			log.Info("skipping step", "step", step.Label, "missing", missing)
			outcome.Skipped = append(outcome.Skipped, step.Label)
			continue
		}

		rc.printf("[%d/%d] %s\n", i+1, total, step.Label)
		log.Debug("step started", "step", step.Label, "required", step.Required)

		err := step.Action(ctx, rc)
		if err == nil {
			outcome.Completed = append(outcome.Completed, step.Label)
			continue
		}

		if step.Required {
			outcome.Status = StatusAborted
			outcome.Step = step.Label
			outcome.Err = newStepError(step.Label, err)
			log.Error("required step failed", "step", step.Label, "error", err)
			return outcome
		}

		log.Info("optional step failed", "step", step.Label, "error", err)
		outcome.Skipped = append(outcome.Skipped, step.Label)
	}

	return outcome
}

func missingCapabilities(a probe.Availability, needs []probe.Capability) []probe.Capability {
	var missing []probe.Capability
	for _, c := range needs {
		if !a.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
