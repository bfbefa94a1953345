// Package recorder is an optional, constructor-injected per-frame history
// sink for the flight-control core: actuator commands and PID-internal
// state, msgpack-encoded and flate-compressed to a single file. Grounded
// directly on _examples/mmp-vice/util/cache.go's
// CacheStoreObject/CacheRetrieveObject
// (flate.NewWriter + msgpack.NewEncoder over an os.File). The core never
// depends on this package; it is wired in at the outer edge
// (cmd/p6dofsim) as the concrete realization of "observable via telemetry".
package recorder

import (
	"compress/flate"
	"context"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lanan07075/aldev-p6dof/kinematics"
	"github.com/lanan07075/aldev-p6dof/log"
	"github.com/lanan07075/aldev-p6dof/pid"
)

// PIDSnapshot captures one named PID's internal state for one frame, used
// to diagnose windup/oscillation after the fact without re-running the
// simulation under a debugger. Mirrors pid.PID's exported read-outs exactly
// (Accumulator/Output/PrelimitedOutput) rather than reaching into its
// unexported setpoint/error fields.
type PIDSnapshot struct {
	Name             string
	Accumulator      float64
	Output           float64
	PrelimitedOutput float64
}

// Frame is one recorded simulation step.
type Frame struct {
	SimTimeSec float64
	State      kinematics.State
	Command    kinematics.ActuatorCommand
	PIDs       []PIDSnapshot
}

// Recorder accumulates Frames in memory and flushes them to a single
// flate-compressed msgpack file on Close. It is not safe for concurrent use
// from multiple goroutines without external synchronization, matching
// spec.md §5's single-threaded-per-vehicle model.
type Recorder struct {
	path   string
	log    *log.Logger
	frames []Frame
}

// New creates a Recorder that will write to path on Close. log may be nil.
func New(path string, logger *log.Logger) *Recorder {
	return &Recorder{path: path, log: logger}
}

// Record appends one frame. Intended to be called once per Update, after
// the controller/pilot-manager has produced its command for the step.
func (r *Recorder) Record(f Frame) {
	r.frames = append(r.frames, f)
}

// Snapshot builds a PIDSnapshot named under the pid_group naming
// convention (spec.md §6.3) from a live pid.PID.
func Snapshot(name string, p *pid.PID) PIDSnapshot {
	return PIDSnapshot{
		Name:             name,
		Accumulator:      p.Accumulator(),
		Output:           p.Output(),
		PrelimitedOutput: p.PrelimitedOutput(),
	}
}

// Close flushes all recorded frames to the configured path and releases
// the recorder. ctx bounds the flush's file I/O, the one actual I/O
// boundary in this package (spec.md §5 notes context.Context belongs only
// at such edges, not threaded through Update).
func (r *Recorder) Close(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	type result struct{ err error }
	done := make(chan result, 1)
	go func() {
		done <- result{r.flush()}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-done:
		if res.err != nil {
			r.log.Errorf("recorder: flush to %s failed: %v", r.path, res.err)
		} else {
			r.log.Infof("recorder: wrote %d frames to %s", len(r.frames), r.path)
		}
		return res.err
	}
}

func (r *Recorder) flush() error {
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("recorder: creating %s: %w", r.path, err)
	}
	defer f.Close()

	fw, err := flate.NewWriter(f, flate.BestSpeed)
	if err != nil {
		return fmt.Errorf("recorder: %w", err)
	}
	if err := msgpack.NewEncoder(fw).Encode(r.frames); err != nil {
		return fmt.Errorf("recorder: encoding frames: %w", err)
	}
	return fw.Close()
}

// Load reads back a recording written by Close, for offline analysis
// tooling.
func Load(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recorder: opening %s: %w", path, err)
	}
	defer f.Close()

	fr := flate.NewReader(f)
	defer fr.Close()

	var frames []Frame
	if err := msgpack.NewDecoder(fr).Decode(&frames); err != nil {
		return nil, fmt.Errorf("recorder: decoding %s: %w", path, err)
	}
	return frames, nil
}
