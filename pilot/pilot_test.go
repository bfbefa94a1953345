package pilot

import (
	"math"
	"testing"

	"github.com/lanan07075/aldev-p6dof/control"
	"github.com/lanan07075/aldev-p6dof/kinematics"
	"github.com/lanan07075/aldev-p6dof/rand"
)

func newTestManager() *Manager {
	r := rand.New()
	r.Seed(12345)
	m := NewManager(&r)
	m.RegisterManualSimple(NewManualSimple(false))
	c := control.New(control.BankToTurnNoYaw, control.DefaultLimitsAndSettings())
	m.RegisterHardwareAutopilotBTT(NewHardwareAutopilotBTT(c))
	return m
}

func TestMakeActiveFailsForUnregisteredKind(t *testing.T) {
	m := newTestManager()
	if m.MakeGuidanceAutopilotBTTActive() {
		t.Error("expected MakeGuidanceAutopilotBTTActive() to fail: no guidance pilot registered")
	}
}

func TestMakeActiveSucceedsForRegisteredKind(t *testing.T) {
	m := newTestManager()
	if !m.MakeManualSimpleActive() {
		t.Fatal("expected MakeManualSimpleActive() to succeed")
	}
	if m.ActivePilot().Kind() != ManualSimple {
		t.Errorf("ActivePilot().Kind() = %v, want ManualSimple", m.ActivePilot().Kind())
	}
}

func TestDestroyedPreventsFurtherMakeActive(t *testing.T) {
	m := newTestManager()
	m.MakeManualSimpleActive()
	m.SetDestroyed()
	if m.MakeHardwareAutopilotBTTActive() {
		t.Error("expected MakeHardwareAutopilotBTTActive() to fail once destroyed")
	}
}

func TestUpdateReturnsNeutralWithNoActivePilot(t *testing.T) {
	m := newTestManager()
	out := m.Update(0.1, kinematics.State{})
	if out != kinematics.Neutral() {
		t.Errorf("Update() with no active pilot = %+v, want Neutral()", out)
	}
}

func TestTestingOverridesActivePilot(t *testing.T) {
	m := newTestManager()
	m.MakeManualSimpleActive()
	want := kinematics.ActuatorCommand{StickBack: 0.5}
	m.manualSimple.SetTestSetpoint(want)
	out := m.Update(0.1, kinematics.State{})
	if out.StickBack != 0.5 {
		t.Errorf("StickBack = %v, want 0.5 (testing override)", out.StickBack)
	}
}

func TestSetDestroyedAppliesCompressedPitchAndAmplifiedRoll(t *testing.T) {
	o := newObject(ManualSimple)
	o.setDestroyed(0.5, 0.5) // both < 0.8 in magnitude
	// pitch: 0.5 * 0.02 = 0.01; roll: 0.3 + 0.3*(0.5/0.8) = 0.4875
	if math.Abs(o.destroyedCmd.StickBack-0.01) > 1e-9 {
		t.Errorf("StickBack = %v, want ~0.01 (compressed pitch bias)", o.destroyedCmd.StickBack)
	}
	if math.Abs(o.destroyedCmd.StickRight-0.4875) > 1e-9 {
		t.Errorf("StickRight = %v, want ~0.4875 (amplified roll bias)", o.destroyedCmd.StickRight)
	}
	if o.destroyedCmd.SpeedBrake != 1 {
		t.Errorf("SpeedBrake = %v, want 1 (deployed on destroy)", o.destroyedCmd.SpeedBrake)
	}
	if !o.enginesShutdown {
		t.Error("expected enginesShutdown == true")
	}
}

func TestSetDestroyedInjectsStickForwardOnMinimalRoll(t *testing.T) {
	o := newObject(ManualSimple)
	o.setDestroyed(0.9, 0.9) // roll bias 0.9 is outside the middle band: 0.9*0.1 = 0.09 -> |0.09| < 0.1
	if o.destroyedCmd.StickBack != -0.1 {
		t.Errorf("StickBack = %v, want -0.1 (minimal-roll stick-forward injection)", o.destroyedCmd.StickBack)
	}
}

func TestInputAngleDeltasFanOutToAllOwnedPilots(t *testing.T) {
	m := newTestManager()
	m.InputAngleDeltasToPilotObjects(0.1, 0.2, 0.3)
	if m.manualSimple.yawDeltaRad != 0.1 || m.manualSimple.pitchDeltaRad != 0.2 || m.manualSimple.rollDeltaRad != 0.3 {
		t.Errorf("manualSimple deltas = (%v,%v,%v), want (0.1,0.2,0.3)",
			m.manualSimple.yawDeltaRad, m.manualSimple.pitchDeltaRad, m.manualSimple.rollDeltaRad)
	}
	if m.hardwareBTT.yawDeltaRad != 0.1 {
		t.Error("expected hardwareBTT (inactive, unregistered as active) to also receive the delta")
	}
}
