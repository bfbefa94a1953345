package main

import (
	"fmt"
	"math"

	"github.com/lanan07075/aldev-p6dof/aerotables"
	"github.com/lanan07075/aldev-p6dof/autopilot"
	"github.com/lanan07075/aldev-p6dof/control"
	"github.com/lanan07075/aldev-p6dof/kinematics"
	"github.com/lanan07075/aldev-p6dof/log"
	"github.com/lanan07075/aldev-p6dof/mathx"
	"github.com/lanan07075/aldev-p6dof/navigator"
	"github.com/lanan07075/aldev-p6dof/pid"
	"github.com/lanan07075/aldev-p6dof/pilot"
	"github.com/lanan07075/aldev-p6dof/rand"
	"github.com/lanan07075/aldev-p6dof/recorder"
	"github.com/lanan07075/aldev-p6dof/waypoint"
)

// scenario is one of the named end-to-end demonstrations from spec.md §8. It
// runs to completion and reports a human-readable pass/fail line; it never
// returns an error for a failed expectation (that's the scenario's own
// result), only for a setup problem (e.g. a rejected route).
type scenario struct {
	name string
	run  func(rec *recorder.Recorder, logger *log.Logger) (string, error)
}

var scenarios = []scenario{
	{"s1", runS1AltitudeHoldStep},
	{"s2", runS2Heading90Turn},
	{"s3", runS3WaypointApproach},
	{"s4", runS4DestroyedBehavior},
	{"s5", runS5CascadedSaturation},
	{"s6", runS6GainTableInterpolation},
}

func findScenario(name string) *scenario {
	for i := range scenarios {
		if scenarios[i].name == name {
			return &scenarios[i]
		}
	}
	return nil
}

func newTestController(method control.Method) *control.Controller {
	c := control.New(method, control.DefaultLimitsAndSettings())
	c.PIDs.Altitude.GainTable = pid.GainTable{{Kp: 0.02}}
	c.PIDs.VertSpeed.GainTable = pid.GainTable{{Kp: 0.03, LowpassAlpha: 0}}
	c.PIDs.Alpha.GainTable = pid.GainTable{{Kp: 0.4}}
	c.PIDs.RollHeading.GainTable = pid.GainTable{{Kp: 1.0}}
	c.PIDs.BankAngle.GainTable = pid.GainTable{{Kp: 2.0}}
	c.PIDs.RollRate.GainTable = pid.GainTable{{Kp: 0.5}}
	c.PIDs.YawRate.GainTable = pid.GainTable{{Kp: 0.5}}
	c.PIDs.Beta.GainTable = pid.GainTable{{Kp: 0.3}}
	c.SetLoopFactors(5, 10, 5, 10, 5, 10)
	c.SetCollaborators(aerotables.DefaultSet(), aerotables.Atmosphere{}, newFixedVehicle())
	return c
}

func runS1AltitudeHoldStep(rec *recorder.Recorder, logger *log.Logger) (string, error) {
	c := newTestController(control.BankToTurnNoYaw)
	p := &plant{speedMps: 100}
	state := kinematics.State{AltitudeM: 1000, KTAS: 100 / 0.514444}

	var action autopilot.Action
	action.SetAltitude(1100 * mathx.FtPerM)
	action.SetNoSpeedControl()

	const dt = 0.02
	reachedPositiveVSByHalfSec := false
	peakAlt := state.AltitudeM
	steps := int(60.0 / dt)
	for i := 0; i < steps; i++ {
		cmd := c.Update(dt, state, action)
		p.step(&state, cmd, dt)
		if rec != nil {
			rec.Record(recorder.Frame{SimTimeSec: float64(i) * dt, State: state, Command: cmd})
		}
		if float64(i)*dt <= 0.5 && -state.VelBodyMps[2] > 0 {
			reachedPositiveVSByHalfSec = true
		}
		if state.AltitudeM > peakAlt {
			peakAlt = state.AltitudeM
		}
	}

	overshootPct := (peakAlt - 1100) / 100 * 100
	withinBand := math.Abs(state.AltitudeM-1100) <= 1.0
	pass := reachedPositiveVSByHalfSec && withinBand && overshootPct <= 3.0
	return fmt.Sprintf("S1 altitude-hold: final=%.2fm vs-by-0.5s=%v overshoot=%.1f%% pass=%v",
		state.AltitudeM, reachedPositiveVSByHalfSec, overshootPct, pass), nil
}

func runS2Heading90Turn(rec *recorder.Recorder, logger *log.Logger) (string, error) {
	c := newTestController(control.BankToTurnNoYaw)
	c.CurrentLimits.BankAngleMax = 60
	p := &plant{speedMps: 150}
	state := kinematics.State{KTAS: 150 / 0.514444}

	var action autopilot.Action
	action.SetRollHeading(90)
	action.SetNoSpeedControl()

	const dt = 0.02
	sawBankSaturate := false
	sawRollRateCrossZeroAfterSaturation := false
	prevRollRate := 0.0
	steps := int(30.0 / dt)
	for i := 0; i < steps; i++ {
		cmd := c.Update(dt, state, action)
		p.step(&state, cmd, dt)
		if rec != nil {
			rec.Record(recorder.Frame{SimTimeSec: float64(i) * dt, State: state, Command: cmd})
		}
		if state.RollDeg <= -59 {
			sawBankSaturate = true
		}
		if sawBankSaturate && prevRollRate < 0 && state.RatesBodyDps[0] >= 0 {
			sawRollRateCrossZeroAfterSaturation = true
		}
		prevRollRate = state.RatesBodyDps[0]
	}

	hdgErr := math.Abs(float64(90) - state.HeadingDeg)
	if hdgErr > 180 {
		hdgErr = 360 - hdgErr
	}
	pass := sawBankSaturate && hdgErr <= 0.5
	return fmt.Sprintf("S2 heading-turn: final_hdg=%.2f saturated=%v roll_rate_zero_cross=%v pass=%v",
		state.HeadingDeg, sawBankSaturate, sawRollRateCrossZeroAfterSaturation, pass), nil
}

func runS3WaypointApproach(rec *recorder.Recorder, logger *log.Logger) (string, error) {
	const perDegLat = 111320.0
	wp0 := waypoint.New(0, 0, 0)
	wp0.Label = "wp0"
	wp0.WaypointOnPassing = true
	distDeg := 10000.0 / perDegLat
	wp1 := waypoint.New(distDeg/math.Sqrt2, distDeg/math.Sqrt2, 0)
	wp1.Label = "wp1"
	wp1.WaypointOnPassing = true

	route, err := waypoint.NewRoute([]waypoint.Waypoint{wp0, wp1})
	if err != nil {
		return "", fmt.Errorf("building route: %w", err)
	}

	c := newTestController(control.BankToTurnNoYaw)
	c.CurrentLimits.BankAngleMax = 45
	c.CurrentLimits.TurnRollInMultiplier = 1.0
	c.CurrentLimits.RouteAllowableAngleErrorRad = 0.035

	// The navigator starts targeting waypoint-0 itself: the vehicle begins
	// exactly there, so waypoint-0 is achieved (on passing) immediately,
	// advancing the target to waypoint-1.
	nav := navigator.New(route, 0)
	c.SetNavigator(nav)

	p := &plant{speedMps: 200 * 0.514444}
	state := kinematics.State{HeadingDeg: 0, KTAS: 200}

	var action autopilot.Action
	action.LateralMode = autopilot.LateralWaypoint
	action.SpeedMode = autopilot.SpeedUndefined
	action.SetNavWaypoints(
		autopilot.WaypointRef{Route: route, Index: -1},
		autopilot.WaypointRef{Route: route, Index: 0},
		autopilot.WaypointRef{Route: route, Index: 1},
	)

	const dt = 0.02
	convergedWithinTolerance := false
	advanced := false
	steps := int(90.0 / dt)
	for i := 0; i < steps; i++ {
		cmd := c.Update(dt, state, action)
		p.step(&state, cmd, dt)
		if rec != nil {
			rec.Record(recorder.Frame{SimTimeSec: float64(i) * dt, State: state, Command: cmd})
		}
		hdgErr := math.Abs(45 - state.HeadingDeg)
		if hdgErr > 180 {
			hdgErr = 360 - hdgErr
		}
		if hdgErr <= 2.0 {
			convergedWithinTolerance = true
		}
		if nav.CurrentIndex() != 0 {
			advanced = true
		}
	}
	pass := convergedWithinTolerance && advanced
	return fmt.Sprintf("S3 waypoint-approach: converged=%v route_advanced=%v final_idx=%d pass=%v",
		convergedWithinTolerance, advanced, nav.CurrentIndex(), pass), nil
}

func runS4DestroyedBehavior(rec *recorder.Recorder, logger *log.Logger) (string, error) {
	c := newTestController(control.BankToTurnNoYaw)
	ap := pilot.NewHardwareAutopilotBTT(c)
	rng := rand.New()
	rng.Seed(1)
	mgr := pilot.NewManager(&rng)
	mgr.RegisterHardwareAutopilotBTT(ap)
	if !mgr.MakeHardwareAutopilotBTTActive() {
		return "", fmt.Errorf("failed to activate hardware autopilot")
	}

	var action autopilot.Action
	action.SetAltitude(1000 * mathx.FtPerM)
	action.SetNoSpeedControl()
	ap.SetAutopilotAction(action)

	state := kinematics.State{AltitudeM: 1000, KTAS: 100 / 0.514444}
	_ = mgr.Update(0.02, state)

	mgr.SetDestroyed()
	cmd := mgr.Update(0.02, state)

	stillFixed := mgr.ActivePilot() != nil
	beforeActive := mgr.ActivePilot()
	_ = mgr.MakeManualSimpleActive() // rejected: no manual-simple registered, and destroyed besides
	fixedAfterAttempt := mgr.ActivePilot() == beforeActive

	pass := cmd.ThrottleMilitary == 0 && cmd.ThrottleAfterburner == 0 && cmd.SpeedBrake == 1 &&
		stillFixed && fixedAfterAttempt
	return fmt.Sprintf("S4 destroyed: mil=%.2f ab=%.2f brake=%.2f stick_right=%.3f stick_back=%.3f pass=%v",
		cmd.ThrottleMilitary, cmd.ThrottleAfterburner, cmd.SpeedBrake, cmd.StickRight, cmd.StickBack, pass), nil
}

func runS5CascadedSaturation(rec *recorder.Recorder, logger *log.Logger) (string, error) {
	c := newTestController(control.BankToTurnNoYaw)
	c.CurrentLimits.VertSpeedMax = 50
	c.CurrentLimits.VertSpeedMin = -50
	c.PIDs.Altitude.Flags = pid.ZeroGtMax
	c.PIDs.Altitude.GainTable = pid.GainTable{{Kp: 0.02, MaxErrorZero: 200}}

	p := &plant{speedMps: 100}
	state := kinematics.State{AltitudeM: 0, KTAS: 100 / 0.514444}

	var action autopilot.Action
	action.SetAltitude(10000 * mathx.FtPerM)
	action.SetNoSpeedControl()

	const dt = 0.02
	maxAbsCmd := 0.0
	vertSpeedEverExceededLimit := false
	steps := int(20.0 / dt)
	for i := 0; i < steps; i++ {
		cmd := c.Update(dt, state, action)
		p.step(&state, cmd, dt)
		if rec != nil {
			rec.Record(recorder.Frame{SimTimeSec: float64(i) * dt, State: state, Command: cmd})
		}
		for _, v := range []float64{cmd.StickBack, cmd.StickRight, cmd.RudderRight} {
			if math.Abs(v) > maxAbsCmd {
				maxAbsCmd = math.Abs(v)
			}
		}
		if -state.VelBodyMps[2] > 50.5 {
			vertSpeedEverExceededLimit = true
		}
	}
	pass := maxAbsCmd <= 1.0 && !vertSpeedEverExceededLimit
	return fmt.Sprintf("S5 cascaded-saturation: max_abs_cmd=%.3f vs_exceeded=%v accum=%.2f pass=%v",
		maxAbsCmd, vertSpeedEverExceededLimit, c.PIDs.Altitude.Accumulator(), pass), nil
}

func runS6GainTableInterpolation(rec *recorder.Recorder, logger *log.Logger) (string, error) {
	table := pid.GainTable{
		{ControllingValue: 1000, Kp: 0.5},
		{ControllingValue: 5000, Kp: 0.2},
	}

	mid := table.At(3000).Kp
	clamped := table.At(10000).Kp

	midPass := math.Abs(mid-0.35) < 1e-9
	clampedPass := math.Abs(clamped-0.2) < 1e-9
	pass := midPass && clampedPass
	return fmt.Sprintf("S6 gain-table: at(3000)=%.3f at(10000)=%.3f pass=%v", mid, clamped, pass), nil
}
