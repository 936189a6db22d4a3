// Package dispatch runs experiments against the external simulator with a
// bounded worker pool, per-run timeouts and, when an artifact directory is
// configured, skip-if-already-run idempotence.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cbpsweep/cbpsweep/sweep/results"
	"github.com/cbpsweep/cbpsweep/sweep/simout"
	"github.com/cbpsweep/cbpsweep/sweep/space"
	"github.com/cbpsweep/cbpsweep/sweep/traces"
	"github.com/cheggaaa/pb/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTimeout is the per-experiment wall-clock limit.
	DefaultTimeout = 300 * time.Second

	progressLogEvery = 50
	timeoutMessage   = "simulation timed out"
)

// Experiment is one (predictor, configuration, trace) run.
type Experiment struct {
	Family   space.Family
	Config   space.Configuration
	ConfigID string
	Trace    traces.Trace
	Timeout  time.Duration // 0 = no limit
}

// DefaultParallelism is half the available CPUs, at least one.
func DefaultParallelism() int {
	return max(1, runtime.NumCPU()/2)
}

// ArtifactPath is the run log location of one (predictor, trace) pair:
// <dir>/<predictor>/<category>/<run>.log.
func ArtifactPath(dir string, f space.Family, t traces.Trace) string {
	return filepath.Join(dir, string(f), t.Category, t.RunName()+".log")
}

// Dispatcher executes experiments. The zero value is not usable; Simulator is required.
type Dispatcher struct {
	Simulator   Simulator
	Parallelism int    // <= 0 uses DefaultParallelism
	ArtifactDir string // non-empty enables run logs and skip-if-present
	Progress    bool   // draw a progress bar on stderr
}

// Run executes every experiment and returns one record per experiment, in
// completion order. Individual failures become record statuses; Run itself
// never fails. Cancelling ctx stops outstanding simulators and marks their
// records as errors.
func (d *Dispatcher) Run(ctx context.Context, exps []Experiment) []results.Record {
	parallelism := d.Parallelism
	if parallelism <= 0 {
		parallelism = DefaultParallelism()
	}
	total := len(exps)
	logrus.Infof("Dispatching %d experiments with parallelism %d", total, parallelism)

	var bar *pb.ProgressBar
	if d.Progress && total > 0 {
		bar = pb.Full.New(total).SetWriter(os.Stderr).Start()
	}

	var rec Recorder
	var done atomic.Int64
	// errgroup.Group without a derived context: one failing experiment must not
	// cancel its siblings.
	var g errgroup.Group
	g.SetLimit(parallelism)
	for _, exp := range exps {
		exp := exp
		g.Go(func() error {
			rec.Add(d.execute(ctx, exp))
			n := done.Add(1)
			if bar != nil {
				bar.Increment()
			} else if n%progressLogEvery == 0 || int(n) == total {
				logrus.Infof("Completed %d/%d experiments", n, total)
			}
			return nil
		})
	}
	_ = g.Wait()
	if bar != nil {
		bar.Finish()
	}
	return rec.Records()
}

func (d *Dispatcher) execute(ctx context.Context, exp Experiment) results.Record {
	rec := results.Record{
		Predictor:   exp.Family,
		ConfigID:    exp.ConfigID,
		Config:      exp.Config,
		Trace:       exp.Trace.Name,
		Category:    exp.Trace.Category,
		TraceSizeMB: exp.Trace.SizeMB,
	}
	if rec.Config == nil {
		rec.Config = space.Default(exp.Family)
	}
	inv := Invocation{Family: exp.Family, TracePath: exp.Trace.Path, Env: space.Env(rec.Config)}

	var artifact string
	if d.ArtifactDir != "" {
		artifact = ArtifactPath(d.ArtifactDir, exp.Family, exp.Trace)
		rec.LogPath = artifact
		if _, err := os.Stat(artifact); err == nil {
			return reuseArtifact(rec, artifact)
		}
	}

	if err := ctx.Err(); err != nil {
		rec.Status = results.StatusError
		rec.Error = fmt.Sprintf("not started: %v", err)
		return rec
	}

	runCtx, cancel := withTimeout(ctx, exp.Timeout)
	defer cancel()

	logrus.Debugf("Begin %s %s on %s/%s", exp.Family, exp.ConfigID, exp.Trace.Category, exp.Trace.Name)
	start := time.Now()
	capture, err := d.Simulator.Run(runCtx, inv)
	elapsed := time.Since(start)
	rec.RuntimeSeconds = elapsed.Seconds()

	switch {
	case ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		rec.Status = results.StatusTimeout
		rec.RuntimeSeconds = exp.Timeout.Seconds()
		rec.Error = timeoutMessage
		logrus.Warnf("%s %s on %s timed out after %s", exp.Family, exp.ConfigID, exp.Trace.Name, exp.Timeout)
	case ctx.Err() != nil:
		rec.Status = results.StatusError
		rec.Error = fmt.Sprintf("canceled: %v", ctx.Err())
	case err != nil:
		rec.Status = results.StatusError
		rec.Error = err.Error()
		logrus.Warnf("%s %s on %s: %v", exp.Family, exp.ConfigID, exp.Trace.Name, err)
	case capture.ExitCode != 0:
		rec.Status = results.StatusFailed
		rec.Error = strings.TrimSpace(capture.Stderr)
		if rec.Error == "" {
			rec.Error = fmt.Sprintf("exit status %d", capture.ExitCode)
		}
		logrus.Warnf("%s %s on %s failed with exit status %d", exp.Family, exp.ConfigID, exp.Trace.Name, capture.ExitCode)
	default:
		rec.Status = results.StatusSuccess
		report := simout.Parse(capture.Stdout)
		applyReport(&rec, report)
		if report.Empty() {
			logrus.Debugf("%s %s on %s: no measurements in output", exp.Family, exp.ConfigID, exp.Trace.Name)
		}
		if artifact != "" {
			secs := elapsed.Seconds()
			rec.ExecTime = &secs
			if err := writeArtifact(artifact, describe(d.Simulator, inv), capture.Stdout, secs); err != nil {
				logrus.Warnf("Saving run log: %v", err)
				rec.LogPath = ""
			}
		}
	}
	return rec
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// reuseArtifact builds a success record from an existing run log without
// invoking the simulator. The recorded runtime is the ExecTime the log carries.
func reuseArtifact(rec results.Record, path string) results.Record {
	report, err := simout.ParseFile(path)
	if err != nil {
		rec.Status = results.StatusError
		rec.Error = err.Error()
		return rec
	}
	logrus.Debugf("Run log %s exists, not running again", path)
	rec.Status = results.StatusSuccess
	applyReport(&rec, report)
	if rec.ExecTime != nil {
		rec.RuntimeSeconds = *rec.ExecTime
	}
	return rec
}

func applyReport(rec *results.Record, report simout.Report) {
	rec.Full = report.Full
	rec.Warmup = report.Warmup
	if report.ExecTime != nil {
		rec.ExecTime = report.ExecTime
	}
}

// writeArtifact persists a successful run. The log only appears under its
// final name once complete, so an interrupted write is retried next time.
func writeArtifact(path, cmdline, stdout string, execSeconds float64) error {
	return results.WriteAtomic(path, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "CMD:%s\n%s\nExecTime = %s\n",
			cmdline, stdout, strconv.FormatFloat(execSeconds, 'f', -1, 64))
		return err
	})
}
