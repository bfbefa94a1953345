package control

import (
	"math"
	"testing"

	"github.com/lanan07075/aldev-p6dof/autopilot"
	"github.com/lanan07075/aldev-p6dof/kinematics"
	"github.com/lanan07075/aldev-p6dof/pid"
)

func unityGain() pid.GainTable {
	return pid.GainTable{{ControllingValue: 0, Kp: 1, Ki: 0, Kd: 0}}
}

func newTestController() *Controller {
	c := New(BankToTurnNoYaw, DefaultLimitsAndSettings())
	c.PIDs.RollHeading.GainTable = unityGain()
	c.PIDs.BankAngle.GainTable = unityGain()
	c.PIDs.RollRate.GainTable = unityGain()
	c.PIDs.Altitude.GainTable = unityGain()
	c.PIDs.VertSpeed.GainTable = unityGain()
	c.PIDs.Alpha.GainTable = unityGain()
	c.PIDs.Speed.GainTable = unityGain()
	return c
}

func neutralState() kinematics.State {
	return kinematics.State{VelBodyMps: [3]float64{150, 0, 0}, Mach: 0.4, KTAS: 290}
}

func TestRevertLimitsAndSettingsToDefaultsRestoresByteEqualValue(t *testing.T) {
	c := newTestController()
	c.CurrentLimits.BankAngleMax = 12.0
	c.RevertLimitsAndSettingsToDefaults()
	if c.CurrentLimits != c.DefaultLimits {
		t.Errorf("CurrentLimits = %+v, want byte-equal to DefaultLimits %+v", c.CurrentLimits, c.DefaultLimits)
	}
}

func TestUpdateWithZeroDtReturnsNeutral(t *testing.T) {
	c := newTestController()
	var action autopilot.Action
	action.SetRollHeading(90)
	action.SetAltitude(1000)
	out := c.Update(0, neutralState(), action)
	if out != kinematics.Neutral() {
		t.Errorf("Update(dt=0) = %+v, want Neutral()", out)
	}
}

func TestUpdateClampsActuatorCommandToBounds(t *testing.T) {
	c := newTestController()
	c.PIDs.RollHeading.GainTable = pid.GainTable{{ControllingValue: 0, Kp: 1000, Ki: 0, Kd: 0}}
	var action autopilot.Action
	action.SetRollHeading(180)
	action.SetAltitude(1000)
	out := c.Update(0.1, neutralState(), action)
	if out.StickRight < -1 || out.StickRight > 1 {
		t.Errorf("StickRight = %v, want within [-1,1] after Clamp", out.StickRight)
	}
}

func TestPartitionThrottleAfterburnerAboveThreshold(t *testing.T) {
	c := newTestController()
	var out kinematics.ActuatorCommand
	c.partitionThrottle(&out, 1.5) // threshold defaults to 1.0
	if out.ThrottleMilitary != 1 {
		t.Errorf("ThrottleMilitary = %v, want 1 (full military before afterburner)", out.ThrottleMilitary)
	}
	if math.Abs(out.ThrottleAfterburner-0.5) > 1e-9 {
		t.Errorf("ThrottleAfterburner = %v, want 0.5", out.ThrottleAfterburner)
	}
	if out.SpeedBrake != 0 {
		t.Errorf("SpeedBrake = %v, want 0", out.SpeedBrake)
	}
}

func TestPartitionThrottleSpeedBrakeBelowThreshold(t *testing.T) {
	c := newTestController()
	var out kinematics.ActuatorCommand
	c.partitionThrottle(&out, -0.3) // threshold defaults to 0.0
	if out.ThrottleMilitary != 0 || out.ThrottleAfterburner != 0 {
		t.Errorf("expected zero throttle with speed brake deployed, got mil=%v ab=%v", out.ThrottleMilitary, out.ThrottleAfterburner)
	}
	if math.Abs(out.SpeedBrake-0.3) > 1e-9 {
		t.Errorf("SpeedBrake = %v, want 0.3", out.SpeedBrake)
	}
}

func TestPartitionThrottleNormalRange(t *testing.T) {
	c := newTestController()
	var out kinematics.ActuatorCommand
	c.partitionThrottle(&out, 0.4)
	if out.ThrottleMilitary != 0.4 || out.ThrottleAfterburner != 0 || out.SpeedBrake != 0 {
		t.Errorf("expected mil=0.4 ab=0 brake=0, got mil=%v ab=%v brake=%v", out.ThrottleMilitary, out.ThrottleAfterburner, out.SpeedBrake)
	}
}

func TestResetOnNewActionZeroesAccumulators(t *testing.T) {
	c := newTestController()
	c.PIDs.Alpha.CalcOutputFromTargetAndCurrent(10, 0, 0.1)
	if c.PIDs.Alpha.Accumulator() == 0 {
		t.Fatal("expected a nonzero accumulator before reset")
	}
	c.ResetOnNewAction()
	if c.PIDs.Alpha.Accumulator() != 0 {
		t.Errorf("Accumulator() = %v, want 0 after ResetOnNewAction", c.PIDs.Alpha.Accumulator())
	}
}

func TestLoopScheduleAdvancesOnFactors(t *testing.T) {
	s := newLoopSchedule(2, 3)
	var midCount, outerCount int
	for i := 0; i < 12; i++ {
		mid, outer := s.advance()
		if mid {
			midCount++
		}
		if outer {
			outerCount++
		}
	}
	if midCount != 6 {
		t.Errorf("midCount = %v, want 6 (every 2nd of 12)", midCount)
	}
	if outerCount != 2 {
		t.Errorf("outerCount = %v, want 2 (every 6th of 12)", outerCount)
	}
}
