// Package pilot implements the Pilot Manager (spec.md §4.4): the population
// of pilot sources, exactly one active at a time, priority arbitration, and
// destroyed-state behavior. Grounded on
// _examples/original_source/.../P6DofPilotManager.{hpp,cpp} and
// P6DofPilotObject.hpp.
package pilot

import (
	"github.com/lanan07075/aldev-p6dof/autopilot"
	"github.com/lanan07075/aldev-p6dof/control"
	"github.com/lanan07075/aldev-p6dof/kinematics"
	"github.com/lanan07075/aldev-p6dof/mathx"
)

// Kind is the closed set of pilot source families (spec.md §4.4 "Source
// set").
type Kind int

const (
	ManualSimple Kind = iota
	ManualAugmented
	Synthetic
	HardwareAutopilotBTT
	HardwareAutopilotSTT
	GuidanceAutopilotBTT
	GuidanceAutopilotSTT
)

// ManualInput is the external stick/rudder/throttle/brake input consumed by
// the manual pilot kinds, prior to any non-linear curve or CAS/SAS
// augmentation.
type ManualInput struct {
	StickBack, StickRight, RudderRight float64
	ThrottleMilitary, ThrottleAfterburner float64
	SpeedBrake                         float64
	WheelBrakeLeft, WheelBrakeRight    float64
}

// Object is one pilot source (spec.md §4.4). Manual-simple and
// manual-augmented differ only in whether Update routes through the common
// controller as CAS/SAS setpoints; hardware/guidance autopilots always
// route through it. Synthetic pilots emit whatever was last set via
// SetSyntheticControlData.
type Object struct {
	kind Kind

	controller *control.Controller // non-nil for augmented/hardware/guidance kinds
	action     autopilot.Action    // current autopilot setpoint, for controller-driven kinds

	manual    ManualInput
	synthetic kinematics.ActuatorCommand

	testing        bool
	testSetpoint   kinematics.ActuatorCommand
	controlsEnabled bool

	destroyed     bool
	destroyedCmd  kinematics.ActuatorCommand
	enginesShutdown bool

	useSimpleYawDamper bool

	// Angle-delta accumulators fed by InputAngleDeltas (spec.md §4.4
	// "InputAngleDeltasToPilotObjects" fan-out — every owned pilot receives
	// every delta, whether or not it is currently active).
	yawDeltaRad, pitchDeltaRad, rollDeltaRad float64

	lastStickRight, lastStickBack float64
}

func newObject(kind Kind) *Object {
	return &Object{kind: kind, controlsEnabled: true}
}

// NewManualSimple builds a manual-simple pilot: external inputs map directly
// to the actuator bus, with an optional simple yaw damper and no PID
// cascade.
func NewManualSimple(useSimpleYawDamper bool) *Object {
	o := newObject(ManualSimple)
	o.useSimpleYawDamper = useSimpleYawDamper
	return o
}

// NewManualAugmented builds a manual-augmented pilot: external stick/roll
// inputs are routed through the common controller as CAS (pitch->g,
// roll->roll-rate) and/or SAS rate-damping setpoints.
func NewManualAugmented(c *control.Controller) *Object {
	o := newObject(ManualAugmented)
	o.controller = c
	return o
}

// NewSynthetic builds a script-driven pilot exposing Set*ControlData.
func NewSynthetic() *Object { return newObject(Synthetic) }

// NewHardwareAutopilotBTT/STT and NewGuidanceAutopilotBTT/STT build the four
// fully-regulated autopilot kinds, each wrapping its own *control.Controller
// instance (the controller's Method determines BTT vs STT cascade family).
func NewHardwareAutopilotBTT(c *control.Controller) *Object {
	o := newObject(HardwareAutopilotBTT)
	o.controller = c
	return o
}

func NewHardwareAutopilotSTT(c *control.Controller) *Object {
	o := newObject(HardwareAutopilotSTT)
	o.controller = c
	return o
}

func NewGuidanceAutopilotBTT(c *control.Controller) *Object {
	o := newObject(GuidanceAutopilotBTT)
	o.controller = c
	return o
}

func NewGuidanceAutopilotSTT(c *control.Controller) *Object {
	o := newObject(GuidanceAutopilotSTT)
	o.controller = c
	return o
}

func (o *Object) Kind() Kind { return o.kind }

// SetManualInput installs the latest raw stick/rudder/throttle/brake input
// for a manual-simple or manual-augmented pilot.
func (o *Object) SetManualInput(in ManualInput) { o.manual = in }

// SetAutopilotAction installs a new autopilot action for a
// hardware/guidance-autopilot pilot and calls the underlying controller's
// ResetOnNewAction, which zeroes every PID accumulator as well as the
// lateral/vertical delta integrators and loop counters.
func (o *Object) SetAutopilotAction(a autopilot.Action) {
	o.action = a
	if o.controller != nil {
		o.controller.ResetOnNewAction()
	}
}

// SetSyntheticControlData installs a direct actuator command for a
// synthetic pilot.
func (o *Object) SetSyntheticControlData(cmd kinematics.ActuatorCommand) { o.synthetic = cmd }

// SetTestSetpoint engages testing mode with an explicit override command
// (spec.md §4.4 priority 1 — "Testing").
func (o *Object) SetTestSetpoint(cmd kinematics.ActuatorCommand) {
	o.testing = true
	o.testSetpoint = cmd
}

func (o *Object) ClearTesting() { o.testing = false }
func (o *Object) IsTesting() bool { return o.testing }

func (o *Object) SetControlsEnabled(enabled bool) { o.controlsEnabled = enabled }
func (o *Object) ControlsEnabled() bool            { return o.controlsEnabled }

func (o *Object) IsDestroyed() bool { return o.destroyed }

// InputAngleDeltas accumulates a CAS-style angle delta command; every owned
// pilot object receives every delta regardless of which one is active
// (spec.md §4.4, grounded on P6DofPilotManager::InputAngleDeltasToPilotObjects's
// unconditional fan-out to all non-nil pilot members).
func (o *Object) InputAngleDeltas(yawRad, pitchRad, rollRad float64) {
	o.yawDeltaRad += yawRad
	o.pitchDeltaRad += pitchRad
	o.rollDeltaRad += rollRad
}

// Update produces this pilot's actuator command for one frame. It resolves
// priorities 1-3 itself, in order: the testing setpoint, then the pinned
// destroyed command, then neutral output when controls are disabled; only
// then does it dispatch on the pilot's kind.
func (o *Object) Update(dt float64, state kinematics.State) kinematics.ActuatorCommand {
	if o.testing {
		return *o.testSetpoint.Clamp()
	}
	if o.destroyed {
		return o.destroyedCmd
	}
	if !o.controlsEnabled {
		return kinematics.Neutral()
	}

	switch o.kind {
	case Synthetic:
		return *o.synthetic.Clamp()
	case HardwareAutopilotBTT, HardwareAutopilotSTT, GuidanceAutopilotBTT, GuidanceAutopilotSTT:
		if o.controller == nil {
			return kinematics.Neutral()
		}
		return o.controller.Update(dt, state, o.action)
	case ManualAugmented:
		return o.updateAugmented(dt, state)
	default: // ManualSimple
		return o.updateSimple(state)
	}
}

// updateSimple maps raw manual input directly to the actuator bus, applying
// a simple yaw damper (rudder opposing current yaw rate) when configured —
// no PID cascade is involved (spec.md §4.4 "Manual-simple").
func (o *Object) updateSimple(state kinematics.State) kinematics.ActuatorCommand {
	cmd := kinematics.ActuatorCommand{
		StickBack:           o.manual.StickBack,
		StickRight:          o.manual.StickRight,
		RudderRight:         o.manual.RudderRight,
		ThrottleMilitary:    o.manual.ThrottleMilitary,
		ThrottleAfterburner: o.manual.ThrottleAfterburner,
		SpeedBrake:          o.manual.SpeedBrake,
		WheelBrakeLeft:       o.manual.WheelBrakeLeft,
		WheelBrakeRight:      o.manual.WheelBrakeRight,
	}
	if o.useSimpleYawDamper {
		const yawDamperGain = 0.05
		cmd.RudderRight -= mathx.Clamp(state.RatesBodyDps[2]*yawDamperGain, -0.3, 0.3)
	}
	return *cmd.Clamp()
}

// updateAugmented routes the manual pitch/roll inputs through the common
// controller as CAS setpoints (pitch -> commanded g via a pitch-g-load
// vertical mode, roll -> commanded roll rate via a roll-rate lateral mode),
// matching spec.md §4.4 "Manual-augmented".
func (o *Object) updateAugmented(dt float64, state kinematics.State) kinematics.ActuatorCommand {
	if o.controller == nil {
		return o.updateSimple(state)
	}
	var a autopilot.Action
	a.LateralMode = autopilot.LateralRollRate
	a.RollRateDps = o.manual.StickRight * 180
	a.VerticalMode = autopilot.VerticalPitchGLoad
	a.PitchGLoadG = o.manual.StickBack * 4
	a.SpeedMode = autopilot.SpeedUndefined
	cmd := o.controller.Update(dt, state, a)
	cmd.ThrottleMilitary = o.manual.ThrottleMilitary
	cmd.ThrottleAfterburner = o.manual.ThrottleAfterburner
	cmd.SpeedBrake = o.manual.SpeedBrake
	return *cmd.Clamp()
}

// setDestroyed implements spec.md §4.4 "Destroyed behavior (precise)":
// randomized pitch/roll bias with compression/amplification, engines
// shutdown, idle throttle, speed brake deployed, minimal-roll stick-forward
// injection. Grounded field-for-field on
// P6DofPilotManager::SetDestroyed(pitchMod, rollMod).
func (o *Object) setDestroyed(pitchMod, rollMod float64) {
	if pitchMod < 0.8 && pitchMod > -0.8 {
		pitchMod *= 0.02
	} else {
		pitchMod *= 0.05
	}

	if rollMod < 0.8 && rollMod > -0.8 {
		if rollMod >= 0 {
			rollMod = 0.3 + 0.3*(rollMod/0.8)
		} else {
			rollMod = -0.3 + 0.3*(rollMod/0.8)
		}
	} else {
		rollMod *= 0.1
	}

	stickRight := mathx.Clamp(o.lastStickRight+rollMod, -1, 1)
	stickBack := mathx.Clamp(o.lastStickBack+pitchMod, -1, 1)

	o.enginesShutdown = true

	if stickRight < 0.1 && stickRight > -0.1 {
		stickBack = -0.1
	}

	o.destroyedCmd = kinematics.ActuatorCommand{
		StickRight:          stickRight,
		StickBack:           stickBack,
		ThrottleMilitary:    0,
		ThrottleAfterburner: 0,
		SpeedBrake:          1,
	}
	o.destroyed = true
	o.controlsEnabled = false
}
