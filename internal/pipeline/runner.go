package pipeline

import (
	"context"
	"errors"
	"io"
	"runtime/debug"

	"github.com/charmbracelet/log"

	"github.com/ZebulonRouseFrantzich/flexsdk/internal/report"
)

// Process exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Step is one unit of the pipeline. State is entered when Run returns nil.
type Step struct {
	Name  string
	State State
	Run   func(ctx context.Context) error
}

// Runner executes steps strictly in order.
type Runner struct {
	steps  []Step
	sink   *report.Sink
	logger *log.Logger
	binDir func() string

	state  State
	failed string
	err    error
}

// NewRunner creates a runner. binDir is consulted after the last step to
// name the installed launcher directory in the success message.
func NewRunner(sink *report.Sink, logger *log.Logger, binDir func() string, steps ...Step) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if sink == nil {
		sink = report.NewSink(logger, nil, "")
	}
	if binDir == nil {
		binDir = func() string { return "" }
	}
	return &Runner{
		steps:  steps,
		sink:   sink,
		logger: logger,
		binDir: binDir,
		state:  StateStart,
	}
}

// State returns the current state.
func (r *Runner) State() State {
	return r.state
}

// FailedStep returns the name of the step that failed, or "".
func (r *Runner) FailedStep() string {
	return r.failed
}

// Err returns the error that ended the run, or nil.
func (r *Runner) Err() error {
	return r.err
}

// Run executes the steps and returns the process exit code. It never
// panics: a fault anywhere in the run is reported and yields ExitFailure.
func (r *Runner) Run(ctx context.Context) (code int) {
	defer func() {
		if v := recover(); v != nil {
			code = r.fail("runner", &FaultError{Value: v, StackTrace: debug.Stack()})
		}
	}()

	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return r.fail(step.Name, &StepError{Step: step.Name, Err: err})
		}

		r.logger.Debug("Running step", "step", step.Name)
		if err := r.runStep(ctx, step); err != nil {
			return r.fail(step.Name, &StepError{Step: step.Name, Err: err})
		}
		r.transition(step.State)
	}

	r.transition(StateDone)
	r.sink.Success(r.binDir())
	return ExitSuccess
}

// runStep calls step.Run, converting a panic into a FaultError.
func (r *Runner) runStep(ctx context.Context, step Step) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &FaultError{Value: v, StackTrace: debug.Stack()}
		}
	}()
	return step.Run(ctx)
}

func (r *Runner) transition(next State) {
	r.logger.Debug("State transition", "from", r.state, "to", next)
	r.state = next
}

func (r *Runner) fail(step string, err error) int {
	r.failed = step
	r.err = err
	r.transition(StateFailed)

	var fault *FaultError
	if errors.As(err, &fault) {
		r.logger.Error("Recovered from fault", "step", step, "fault", fault.Value)
	}

	if werr := r.sink.Failure(step, err); werr != nil {
		r.logger.Error("Could not write error log", "path", r.sink.LogFile(), "err", werr)
	}
	return ExitFailure
}
