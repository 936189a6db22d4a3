package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cbpsweep/cbpsweep/sweep/space"
)

const (
	// DefaultPredictorFlag precedes the predictor name on the simulator command line.
	DefaultPredictorFlag = "-pred"
	// DefaultWaitDelay bounds how long a killed simulator may keep its pipes open.
	DefaultWaitDelay = 2 * time.Second
)

// Invocation is everything the simulator receives for one experiment.
type Invocation struct {
	Family    space.Family
	TracePath string
	Env       []string // KEY=VALUE overlay on top of the parent environment
}

// Capture is the observable result of a simulator process that ran to exit.
type Capture struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Simulator runs one invocation. A non-nil error is an invocation fault (the
// process could not be started or waited on). A process that exits non-zero
// is reported through Capture.ExitCode, not as an error. Implementations must
// stop when ctx is done.
type Simulator interface {
	Run(ctx context.Context, inv Invocation) (*Capture, error)
}

// ExecSimulator runs the simulator binary as a subprocess.
type ExecSimulator struct {
	Path          string
	PredictorFlag string // empty passes the predictor as a bare positional argument
	Dir           string // working directory; empty = current
	WaitDelay     time.Duration
}

// NewExecSimulator returns an ExecSimulator with the default flag and wait delay.
func NewExecSimulator(path string) *ExecSimulator {
	return &ExecSimulator{Path: path, PredictorFlag: DefaultPredictorFlag, WaitDelay: DefaultWaitDelay}
}

// Args returns the command-line arguments for inv, without the binary.
func (s *ExecSimulator) Args(inv Invocation) []string {
	args := make([]string, 0, 3)
	if s.PredictorFlag != "" {
		args = append(args, s.PredictorFlag)
	}
	return append(args, string(inv.Family), inv.TracePath)
}

// CommandLine renders the invocation as a shell-like string for run logs.
func (s *ExecSimulator) CommandLine(inv Invocation) string {
	return strings.Join(append([]string{s.Path}, s.Args(inv)...), " ")
}

// Run executes the simulator with inv.Env layered over the current process
// environment. The parent's environment is never modified.
func (s *ExecSimulator) Run(ctx context.Context, inv Invocation) (*Capture, error) {
	cmd := exec.CommandContext(ctx, s.Path, s.Args(inv)...)
	cmd.Dir = s.Dir
	cmd.Env = append(os.Environ(), inv.Env...)
	cmd.WaitDelay = s.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	capture := &Capture{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return capture, nil
	}
	if ctx.Err() != nil {
		return capture, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		capture.ExitCode = exitErr.ExitCode()
		return capture, nil
	}
	return nil, fmt.Errorf("running simulator %s: %w", s.Path, err)
}

// commandLiner is implemented by simulators that can describe an invocation.
type commandLiner interface {
	CommandLine(inv Invocation) string
}

func describe(sim Simulator, inv Invocation) string {
	if cl, ok := sim.(commandLiner); ok {
		return cl.CommandLine(inv)
	}
	return fmt.Sprintf("%s %s", inv.Family, inv.TracePath)
}
