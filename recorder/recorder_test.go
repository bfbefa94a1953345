package recorder

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lanan07075/aldev-p6dof/kinematics"
	"github.com/lanan07075/aldev-p6dof/pid"
)

func TestRecordAndCloseThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.msgpack.flate")

	r := New(path, nil)
	r.Record(Frame{
		SimTimeSec: 0.1,
		State:      kinematics.State{AltitudeM: 1000},
		Command:    kinematics.ActuatorCommand{StickBack: 0.5},
	})
	r.Record(Frame{SimTimeSec: 0.2, State: kinematics.State{AltitudeM: 1001}})

	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	frames, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].State.AltitudeM != 1000 {
		t.Errorf("frames[0].State.AltitudeM = %v, want 1000", frames[0].State.AltitudeM)
	}
	if frames[0].Command.StickBack != 0.5 {
		t.Errorf("frames[0].Command.StickBack = %v, want 0.5", frames[0].Command.StickBack)
	}
}

func TestCloseRespectsCanceledContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.msgpack.flate")
	r := New(path, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Close(ctx)
	if err == nil {
		t.Fatal("expected Close() to observe the already-canceled context")
	}
}

func TestSnapshotReflectsPIDState(t *testing.T) {
	var p pid.PID
	p.GainTable = pid.GainTable{{Kp: 1}}
	p.CalcOutputFromTargetAndCurrent(10, 5, 0.1)

	snap := Snapshot("pid_altitude", &p)
	if snap.Name != "pid_altitude" {
		t.Errorf("Name = %v, want pid_altitude", snap.Name)
	}
	if snap.Output != p.Output() {
		t.Errorf("Output = %v, want %v", snap.Output, p.Output())
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent")); err == nil {
		t.Fatal("expected Load() of a missing file to error")
	}
}
