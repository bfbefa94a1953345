package control

import (
	"math"

	"github.com/lanan07075/aldev-p6dof/autopilot"
	"github.com/lanan07075/aldev-p6dof/kinematics"
	"github.com/lanan07075/aldev-p6dof/mathx"
	"github.com/lanan07075/aldev-p6dof/navigator"
	"github.com/lanan07075/aldev-p6dof/waypoint"

	"github.com/brunoga/deep"
)

// Method is the overall control-method selection (spec.md §4.1
// "Control-method dispatch"), chosen once at configuration.
type Method int

const (
	BankToTurnNoYaw Method = iota
	BankToTurnWithYaw
	YawToTurnNoRoll
	YawToTurnRollRate
	YawToTurnZeroBank
)

func (m Method) isBankToTurn() bool {
	return m == BankToTurnNoYaw || m == BankToTurnWithYaw
}

// Controller is the Common Controller: it owns its PIDs and limits
// exclusively (spec.md §5 "Shared-resource policy") and converts one
// autopilot action plus one kinematic-state snapshot into one actuator
// command per Update call.
type Controller struct {
	Method              Method
	UseLegacyBeta       bool
	UseSimpleYawDamper  bool
	MinTaxiTurnRadiusFt float64

	DefaultLimits LimitsAndSettings
	CurrentLimits LimitsAndSettings

	PIDs PIDSet

	lateral  loopSchedule
	vertical loopSchedule
	speed    loopSchedule

	// Latched last-commanded values, read back when a cascade's middle or
	// outer loop does not execute this frame (spec.md §4.1 "Between
	// executions the last commanded value at each layer is latched").
	lastBankDeg      float64
	lastRollRateDps  float64
	lastVertRateFpm  float64
	lastAlphaDeg     float64
	lastPitchRateDps float64
	lastYawRateDps   float64
	lastBetaDeg      float64

	// Angle integrators reset on lateral/vertical reset requests (spec.md
	// §4.1 "State machine"), tracking accumulated commanded delta-angle for
	// the DeltaRoll/DeltaPitch channel modes.
	deltaRollDeg  float64
	deltaPitchDeg float64

	limitedMinAlpha float64
	limitedMaxAlpha float64
	limitedBeta     float64
	gBias           float64
	gBiasAlphaDeg   float64

	nav *navigator.Navigator

	aero kinematics.AeroTables
	atmo kinematics.AtmosphereService
	veh  kinematics.VehicleAccessors
}

// New builds a Controller with the given method and default limits; the
// current limits set starts equal to the defaults.
func New(method Method, defaults LimitsAndSettings) *Controller {
	return &Controller{
		Method:        method,
		DefaultLimits: defaults,
		CurrentLimits: defaults,
		lateral:       newLoopSchedule(10, 5),
		vertical:      newLoopSchedule(10, 5),
		speed:         newLoopSchedule(10, 5),
	}
}

// SetLoopFactors configures the middle/outer loop rate factors per channel
// (spec.md §6.3 *_middle_loop_rate_factor / *_outer_loop_rate_factor,
// range [1,254]).
func (c *Controller) SetLoopFactors(lateralM, lateralO, verticalM, verticalO, speedM, speedO uint8) {
	c.lateral = newLoopSchedule(lateralM, lateralO)
	c.vertical = newLoopSchedule(verticalM, verticalO)
	c.speed = newLoopSchedule(speedM, speedO)
}

// SetCollaborators installs the aerodynamic-table, atmosphere, and
// vehicle-accessor services consumed at the Update boundary (spec.md §6.1).
func (c *Controller) SetCollaborators(aero kinematics.AeroTables, atmo kinematics.AtmosphereService, veh kinematics.VehicleAccessors) {
	c.aero, c.atmo, c.veh = aero, atmo, veh
}

// SetNavigator installs the Route Navigator used by Waypoint-mode channels.
func (c *Controller) SetNavigator(nav *navigator.Navigator) { c.nav = nav }

// RevertLimitsAndSettingsToDefaults restores the current limits set to a
// byte-equal copy of the defaults (spec.md invariant 6), using deep.MustCopy
// in the same idiom as vice's scenario/airspace snapshot copies.
func (c *Controller) RevertLimitsAndSettingsToDefaults() {
	c.CurrentLimits = deep.MustCopy(c.DefaultLimits)
}

// SetCurrentLimitsAndSettings installs a caller-supplied current limits set.
func (c *Controller) SetCurrentLimitsAndSettings(l LimitsAndSettings) { c.CurrentLimits = l }

// ResetOnNewAction clears PID accumulators and angle integrators, matching
// the controller's reset behavior when a new autopilot action is installed,
// testing mode engages, or the vehicle is destroyed (spec.md §4.1 "State
// machine").
func (c *Controller) ResetOnNewAction() {
	c.PIDs.ResetAccumulators()
	c.deltaRollDeg = 0
	c.deltaPitchDeg = 0
	c.lateral.reset()
	c.vertical.reset()
	c.speed.reset()
}

// Update translates action and state into one actuator command (spec.md
// §4.1). It never fails: degenerate conditions collapse to neutral output
// on the affected channel rather than propagating an error (spec.md
// "Failure semantics").
func (c *Controller) Update(dt float64, state kinematics.State, action autopilot.Action) kinematics.ActuatorCommand {
	if dt <= 0 {
		return kinematics.Neutral()
	}

	executeLatMid, executeLatOuter := c.lateral.advance()
	executeVertMid, executeVertOuter := c.vertical.advance()
	executeSpdMid, executeSpdOuter := c.speed.advance()

	c.PIDs.BroadcastControllingValue(state.DynamicPressurePsf)
	c.recomputeEnvelope(state)

	var out kinematics.ActuatorCommand

	if c.Method.isBankToTurn() {
		c.processLateralBankToTurn(&out, dt, state, action, executeLatMid, executeLatOuter)
	} else {
		c.processLateralYawToTurn(&out, dt, state, action, executeLatMid, executeLatOuter)
	}

	c.processVertical(&out, dt, state, action, executeVertMid, executeVertOuter)
	c.processSpeed(&out, dt, state, action, executeSpdMid, executeSpdOuter)

	out.WheelBrakeLeft, out.WheelBrakeRight = 0, 0
	return *out.Clamp()
}

// recomputeEnvelope implements spec.md §4.1 "Envelope limiting": before
// each update the controller recomputes the alpha/beta ceilings and the
// 1-g hold feed-forward bias from the current Mach, roll, and pitch.
// Grounded on P6DofCommonController::CalcGBiasData and the limitedMaxAlpha/
// limitedMinAlpha/limitedBeta members it feeds.
func (c *Controller) recomputeEnvelope(state kinematics.State) {
	configMax, configMin := c.CurrentLimits.AlphaMax, c.CurrentLimits.AlphaMin
	if c.aero != nil {
		// "alpha-at-g-max" is not separately exposed by the table service;
		// the closest available hook is the alpha that produces CLMax at
		// the current Mach, which is what actually bounds the vehicle's
		// g-capability.
		alphaAtGMax := c.aero.AlphaDeg(state.Mach, c.aero.CLMax(state.Mach))
		alphaAtGMin := c.aero.AlphaDeg(state.Mach, c.aero.CLMin(state.Mach))
		c.limitedMaxAlpha = math.Min(configMax, math.Min(alphaAtGMax, c.aero.AlphaMaxDeg(state.Mach)))
		c.limitedMinAlpha = math.Max(configMin, math.Max(alphaAtGMin, c.aero.AlphaMinDeg(state.Mach)))
	} else {
		c.limitedMaxAlpha, c.limitedMinAlpha = configMax, configMin
	}

	// No beta-vs-yaw-g table is part of the aero service surface (the core
	// does not model aerodynamic force generation — spec.md Non-goals), so
	// the yaw-to-turn beta ceiling falls back to the configured maximum.
	c.limitedBeta = c.CurrentLimits.BetaMax

	rollRad := mathx.Radians(state.RollDeg)
	pitchRad := mathx.Radians(state.PitchDeg)
	cosRoll := math.Cos(rollRad)
	if cosRoll == 0 {
		c.gBias = c.CurrentLimits.PitchGLoadMax
	} else {
		c.gBias = 1.0 / cosRoll
	}
	c.gBias *= math.Cos(pitchRad)
	c.gBias = mathx.Clamp(c.gBias, c.CurrentLimits.PitchGLoadMin, c.CurrentLimits.PitchGLoadMax)

	if c.aero != nil {
		c.gBiasAlphaDeg = c.aero.AlphaDeg(state.Mach, c.aero.CLMax(state.Mach)*c.gBias/math.Max(c.CurrentLimits.PitchGLoadMax, 1e-6))
	}
}

// processLateralBankToTurn dispatches the action's lateral (and, for
// BankToTurnWithYaw, stabilizing) mode through the bank-to-turn cascade
// family (spec.md §4.1 channel modes, "Cascade examples").
func (c *Controller) processLateralBankToTurn(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, action autopilot.Action, executeMid, executeOuter bool) {
	switch action.LateralMode {
	case autopilot.LateralWaypoint:
		c.processLateralWaypoint(out, dt, state, action, executeOuter)
	case autopilot.LateralHeading:
		c.processRollHeadingCore(out, dt, state, mathx.Degrees(action.HeadingRad), mathx.Radians(c.CurrentLimits.BankAngleMax), executeOuter)
	case autopilot.LateralBank:
		c.processStandardBank(out, dt, state, mathx.Degrees(action.BankRad), executeMid)
	case autopilot.LateralRollRate:
		c.processStandardRollRate(out, dt, state, action.RollRateDps)
	case autopilot.LateralDeltaRoll:
		c.deltaRollDeg += action.RollDeltaDeg
		c.processStandardBank(out, dt, state, c.deltaRollDeg, executeMid)
	case autopilot.LateralYawGLoad, autopilot.LateralYawRate, autopilot.LateralBeta:
		// Stabilizing-channel-only commands with no independent lateral
		// primary: hold wings level.
		c.processStandardBank(out, dt, state, 0, executeMid)
	default:
		out.StickRight = 0
	}
}

// processLateralYawToTurn dispatches through the yaw-to-turn family
// (spec.md §4.1 "Skid-to-turn yaw-rate" cascade example).
func (c *Controller) processLateralYawToTurn(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, action autopilot.Action, executeMid, executeOuter bool) {
	switch action.LateralMode {
	case autopilot.LateralWaypoint:
		if c.nav == nil {
			out.RudderRight, out.StickRight = 0, 0
			return
		}
		nd, latGLimit := c.nav.CalcYawAimHeadingAngle(c.navigatorInputs(state))
		hdgErr := mathx.HeadingSignedTurn(state.HeadingDeg, mathx.Degrees(nd.AimHeadingRad))
		c.processYawRateAndBeta(out, dt, state, hdgErr/dt, latGLimit)
	case autopilot.LateralYawRate:
		c.processYawRateAndBeta(out, dt, state, action.YawRateDps, c.CurrentLimits.YawGLoadMax)
	case autopilot.LateralYawGLoad:
		rate := action.YawGLoadG * 32.174 / math.Max(state.VelBodyMps[0]*mathx.FtPerM, 1.0) * (180 / math.Pi)
		c.processYawRateAndBeta(out, dt, state, rate, c.CurrentLimits.YawGLoadMax)
	case autopilot.LateralBeta:
		c.processStandardBeta(out, dt, state, action.BetaDeg)
	case autopilot.LateralHeading:
		// Heading hold under yaw-to-turn: treat commanded heading as a
		// yaw-rate setpoint via the same PID used for skid-to-turn.
		hdgErr := mathx.HeadingSignedTurn(state.HeadingDeg, mathx.Degrees(action.HeadingRad))
		rate := c.PIDs.YawHeading.CalcOutputFromErrorWithLimits(hdgErr, dt, -c.CurrentLimits.YawRateMax, c.CurrentLimits.YawRateMax)
		c.processYawRateAndBeta(out, dt, state, rate, c.CurrentLimits.YawGLoadMax)
	default:
		out.RudderRight = 0
	}

	if c.Method == YawToTurnRollRate {
		c.processStandardRollRate(out, dt, state, action.RollRateDps)
	} else if c.Method == YawToTurnNoRoll {
		out.StickRight = 0
	} else { // YawToTurnZeroBank
		c.processStandardBank(out, dt, state, 0, true)
	}
}

// processLateralWaypoint implements spec.md §4.1 "Waypoint lateral
// (bank-to-turn)": call the Route Navigator for aim heading and a commanded
// bank ceiling, then feed the aim heading into the roll-heading cascade,
// using min(navigator-commanded-bank, limits.bankMax) as the ceiling.
func (c *Controller) processLateralWaypoint(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, action autopilot.Action, executeOuter bool) {
	if c.nav == nil || !action.HaveWaypoints {
		c.processStandardBank(out, dt, state, 0, executeOuter)
		return
	}
	nd := c.nav.CalcAimHeadingAndBankAngle(c.navigatorInputs(state))
	maxBankRad := mathx.Radians(c.CurrentLimits.BankAngleMax)
	if nd.ExecuteTurn {
		navBankRad := math.Abs(nd.CommandedBankRad)
		maxBankRad = math.Min(navBankRad, maxBankRad)
	}
	c.processRollHeadingCore(out, dt, state, mathx.Degrees(nd.AimHeadingRad), maxBankRad, executeOuter)
}

func (c *Controller) navigatorInputs(state kinematics.State) navigator.Inputs {
	return navigator.Inputs{
		PosLatDeg: state.LatDeg, PosLonDeg: state.LonDeg,
		AltitudeM:                   state.AltitudeM,
		HeadingDeg:                  state.HeadingDeg,
		SpeedMps:                    state.VelBodyMps[0],
		DtSec:                       1.0 / 30.0,
		MaxBankRad:                  mathx.Radians(c.CurrentLimits.BankAngleMax),
		TurnRollInMultiplier:        c.CurrentLimits.TurnRollInMultiplier,
		RouteAllowableAngleErrorRad: c.CurrentLimits.RouteAllowableAngleErrorRad,
		MaxLateralG:                 c.CurrentLimits.YawGLoadMax,
		PitchGLoadMax:               c.CurrentLimits.PitchGLoadMax,
	}
}

// processRollHeadingCore implements spec.md's "Roll heading" cascade
// example, grounded field-for-field on
// P6DofCommonController::CalcLateralNavMode_RollHeadingCore: heading error
// drives a commanded turn rate (via the roll-heading PID, bounded by the
// turn rate achievable at max bank and max g with the current pitch
// factor), the turn rate converts back to a bank angle via
// atan2(lateral_g, pitchFactor), and the result feeds the bank cascade.
func (c *Controller) processRollHeadingCore(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, headingDeg, maxBankRad float64, executeOuter bool) {
	const epsilon = 1e-12
	commandedBankDeg := c.lastBankDeg

	if executeOuter {
		if maxBankRad < epsilon {
			c.lastBankDeg = 0
			c.processStandardBank(out, dt, state, 0, true)
			return
		}
		hdgErrDeg := mathx.HeadingSignedTurn(state.HeadingDeg, headingDeg)
		maxG := c.CurrentLimits.PitchGLoadMax
		if maxG < epsilon {
			c.lastBankDeg = 0
			c.processStandardBank(out, dt, state, 0, true)
			return
		}

		var lateralG float64
		if maxBankRad > mathx.PiOver2 {
			maxBankRad = mathx.PiOver2
			lateralG = maxG
		} else {
			lateralG = math.Tan(maxBankRad)
		}

		pitchRad := mathx.Radians(state.PitchDeg)
		const maxPitchFactorEffectRad = 89.0 * math.Pi / 180
		pitchRad = mathx.Clamp(pitchRad, -maxPitchFactorEffectRad, maxPitchFactorEffectRad)
		pitchFactor := 1.0 / math.Cos(pitchRad)
		lateralG *= pitchFactor
		if lateralG > maxG {
			lateralG = maxG
		}

		speedFps := state.VelBodyMps[0] * mathx.FtPerM
		const minSpeedFps = 0.001
		if speedFps < minSpeedFps {
			c.lastBankDeg = 0
			c.processStandardBank(out, dt, state, 0, true)
			return
		}

		radiusFt := (speedFps * speedFps) / (mathx.G0 * mathx.FtPerM * lateralG)
		circumferenceFt := mathx.TwoPi * radiusFt
		timeToCircleSec := circumferenceFt / speedFps
		if timeToCircleSec < epsilon {
			commandedBankDeg = maxBankRad * 180 / math.Pi
			if hdgErrDeg < 0 {
				commandedBankDeg = -commandedBankDeg
			}
			c.lastBankDeg = commandedBankDeg
			c.processStandardBank(out, dt, state, commandedBankDeg, true)
			return
		}

		maxTurnRateDps := 360.0 / timeToCircleSec
		commandedTurnRateDps := c.PIDs.RollHeading.CalcOutputFromErrorWithLimits(hdgErrDeg, dt, -maxTurnRateDps, maxTurnRateDps)
		if math.Abs(commandedTurnRateDps) < epsilon {
			c.lastBankDeg = 0
			c.processStandardBank(out, dt, state, 0, true)
			return
		}

		timeToCircleSec = 360.0 / math.Abs(commandedTurnRateDps)
		circumferenceFt = timeToCircleSec * speedFps
		radiusFt = circumferenceFt / mathx.TwoPi
		lateralG = (speedFps * speedFps) / (radiusFt * mathx.G0 * mathx.FtPerM)

		bankRad := math.Atan2(lateralG, pitchFactor)
		commandedBankDeg = bankRad * 180 / math.Pi
		if commandedTurnRateDps < 0 {
			commandedBankDeg = -commandedBankDeg
		}
		commandedBankDeg = mathx.Clamp(commandedBankDeg, -c.CurrentLimits.BankAngleMax, c.CurrentLimits.BankAngleMax)
	}

	c.lastBankDeg = commandedBankDeg
	c.processStandardBank(out, dt, state, commandedBankDeg, executeOuter)
}

// processStandardBank implements the bank-angle middle loop (grounded on
// ProcessStandardLateralNavMode_Bank): a bank-error PID produces a commanded
// roll rate, clamped to the roll-rate limit, feeding the inner roll-rate
// loop.
func (c *Controller) processStandardBank(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, bankDeg float64, executeMid bool) {
	commandedRollRateDps := c.lastRollRateDps
	bankDeg = mathx.Clamp(bankDeg, -c.CurrentLimits.BankAngleMax, c.CurrentLimits.BankAngleMax)

	if executeMid {
		bankErrDeg := mathx.HeadingSignedTurn(state.RollDeg, bankDeg)
		commandedRollRateDps = c.PIDs.BankAngle.CalcOutputFromErrorWithLimits(bankErrDeg, dt, -c.CurrentLimits.RollRateMax, c.CurrentLimits.RollRateMax)
	}
	c.lastRollRateDps = commandedRollRateDps
	c.processStandardRollRate(out, dt, state, commandedRollRateDps)
}

// processStandardRollRate is the innermost lateral loop: roll-rate PID
// output drives stick-right directly.
func (c *Controller) processStandardRollRate(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, commandedRollRateDps float64) {
	commandedRollRateDps = mathx.Clamp(commandedRollRateDps, -c.CurrentLimits.RollRateMax, c.CurrentLimits.RollRateMax)
	currentRollRateDps := state.RatesBodyDps[0]
	out.StickRight = c.PIDs.RollRate.CalcOutputFromTargetAndCurrent(commandedRollRateDps, currentRollRateDps, dt)
}

// processYawRateAndBeta implements spec.md's "Skid-to-turn yaw-rate"
// cascade example: a yaw-rate PID with feed-forward beta equal to the beta
// that produces the commanded lateral acceleration, then a beta PID with
// feed-forward rudder-for-zero-moment, emitting rudder-right.
// use_legacy_beta selects the sign convention for the feed-forward term.
func (c *Controller) processYawRateAndBeta(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, commandedYawRateDps, latGLimit float64) {
	commandedYawRateDps = mathx.Clamp(commandedYawRateDps, -c.CurrentLimits.YawRateMax, c.CurrentLimits.YawRateMax)
	currentYawRateDps := state.RatesBodyDps[2]

	speedMps := state.VelBodyMps[0]
	commandedLatG := 0.0
	if speedMps > 1e-6 {
		commandedLatG = speedMps * mathx.Radians(commandedYawRateDps) / mathx.G0
	}
	commandedLatG = mathx.Clamp(commandedLatG, -latGLimit, latGLimit)

	feedForwardBeta := math.Asin(mathx.Clamp(commandedLatG/math.Max(latGLimit, 1e-6), -1, 1)) * 180 / math.Pi
	if c.UseLegacyBeta {
		feedForwardBeta = -feedForwardBeta
	}
	c.PIDs.YawRate.SetBias(feedForwardBeta)
	commandedBetaDeg := c.PIDs.YawRate.CalcOutputFromTargetAndCurrentWithLimits(commandedYawRateDps, currentYawRateDps, dt, -c.limitedBeta, c.limitedBeta)
	c.lastYawRateDps = commandedYawRateDps

	c.processStandardBeta(out, dt, state, commandedBetaDeg)
}

func (c *Controller) processStandardBeta(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, commandedBetaDeg float64) {
	commandedBetaDeg = mathx.Clamp(commandedBetaDeg, -c.limitedBeta, c.limitedBeta)
	if c.aero != nil {
		rudderForZeroMoment := c.aero.StickForZeroMoment(state.Mach, commandedBetaDeg, 0)
		c.PIDs.Beta.SetBias(rudderForZeroMoment)
	}
	out.RudderRight = c.PIDs.Beta.CalcOutputFromTargetAndCurrent(commandedBetaDeg, state.BetaDeg, dt)
	c.lastBetaDeg = commandedBetaDeg
}

// processVertical dispatches the vertical channel (spec.md §4.1 "Altitude
// hold" cascade example and sibling modes).
func (c *Controller) processVertical(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, action autopilot.Action, executeMid, executeOuter bool) {
	switch action.VerticalMode {
	case autopilot.VerticalAltitude:
		c.processStandardAltitude(out, dt, state, action.AltitudeMSLFt, executeOuter)
	case autopilot.VerticalWaypoint:
		if c.nav == nil {
			c.processStandardVertSpeed(out, dt, state, 0, executeMid)
			return
		}
		var nd navigator.NavData
		curr, _ := c.waypointAt(action.CurrWaypoint)
		prev, havePrev := c.waypointAt(action.PrevWaypoint)
		if havePrev {
			nd.RangeTrackM = 1
			navigator.CalcVerticalSpeed(&nd, curr, prev, state.VelBodyMps[0])
		}
		c.processStandardVertSpeed(out, dt, state, nd.VertSpeedMps*mathx.FtPerM*60, executeMid)
	case autopilot.VerticalVertSpeed:
		c.processStandardVertSpeed(out, dt, state, action.VerticalRateFpm, executeMid)
	case autopilot.VerticalPitchAngle:
		c.processStandardPitchAngle(out, dt, state, action.PitchAngleDeg, executeMid)
	case autopilot.VerticalPitchRate:
		c.processStandardAlpha(out, dt, state, c.lastAlphaDeg)
		out.StickBack = c.PIDs.PitchRate.CalcOutputFromTargetAndCurrent(action.PitchRateDps, state.RatesBodyDps[1], dt)
	case autopilot.VerticalAlpha:
		c.processStandardAlpha(out, dt, state, action.AlphaDeg)
	case autopilot.VerticalPitchGLoad:
		alphaDeg := c.lastAlphaDeg
		if c.aero != nil {
			alphaDeg = c.aero.AlphaDeg(state.Mach, c.aero.CLMax(state.Mach)*action.PitchGLoadG/math.Max(c.CurrentLimits.PitchGLoadMax, 1e-6))
		}
		c.processStandardAlpha(out, dt, state, alphaDeg)
	case autopilot.VerticalFltPathAngle:
		c.processStandardVertSpeed(out, dt, state, math.Tan(action.FlightPathAngleRad)*state.VelBodyMps[0]*mathx.FtPerM*60, executeMid)
	case autopilot.VerticalDeltaPitch:
		c.deltaPitchDeg += action.DeltaPitchDeg
		c.processStandardPitchAngle(out, dt, state, c.deltaPitchDeg, executeMid)
	default:
		out.StickBack = 0
	}
}

func (c *Controller) waypointAt(ref autopilot.WaypointRef) (waypoint.Waypoint, bool) {
	route, ok := ref.Route.(*waypoint.Route)
	if !ok || route == nil {
		return waypoint.Waypoint{}, false
	}
	return route.WaypointAt(ref.Index)
}

// processStandardAltitude implements ProcessStandardVerticalNavMode_Altitude:
// altitude-error PID produces commanded vertical speed within vert-speed
// limits, feeding the vert-speed middle loop.
func (c *Controller) processStandardAltitude(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, altFt float64, executeOuter bool) {
	commandedVertRateFpm := c.lastVertRateFpm
	if executeOuter {
		currentAltFt := state.AltitudeM * mathx.FtPerM
		commandedVertRateFpm = c.PIDs.Altitude.CalcOutputFromTargetAndCurrentWithLimits(altFt, currentAltFt, dt, c.CurrentLimits.VertSpeedMin, c.CurrentLimits.VertSpeedMax)
	}
	c.processStandardVertSpeed(out, dt, state, commandedVertRateFpm, true)
}

// processStandardVertSpeed implements ProcessStandardVerticalNavMode_VertSpeed:
// vert-speed-error PID, biased by the g-bias feed-forward alpha, produces a
// commanded alpha within the envelope-limited alpha band.
func (c *Controller) processStandardVertSpeed(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, vertRateFpm float64, executeMid bool) {
	vertRateFpm = mathx.Clamp(vertRateFpm, c.CurrentLimits.VertSpeedMin, c.CurrentLimits.VertSpeedMax)
	commandedAlphaDeg := c.lastAlphaDeg
	if executeMid {
		currentVertSpeedFpm := -state.VelBodyMps[2] * mathx.FtPerM * 60
		c.PIDs.VertSpeed.SetBias(c.gBiasAlphaDeg)
		commandedAlphaDeg = c.PIDs.VertSpeed.CalcOutputFromTargetAndCurrentWithLimits(vertRateFpm, currentVertSpeedFpm, dt, c.limitedMinAlpha, c.limitedMaxAlpha)
	}
	c.lastVertRateFpm = vertRateFpm
	c.processStandardAlpha(out, dt, state, commandedAlphaDeg)
}

// processStandardPitchAngle mirrors processStandardBank for the vertical
// channel: a pitch-angle-error PID, biased by the g-bias feed-forward,
// produces a commanded alpha.
func (c *Controller) processStandardPitchAngle(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, pitchDeg float64, executeMid bool) {
	pitchDeg = mathx.Clamp(pitchDeg, -90, 90)
	commandedAlphaDeg := c.lastAlphaDeg
	if executeMid {
		c.PIDs.PitchAngle.SetBias(c.gBiasAlphaDeg)
		commandedAlphaDeg = c.PIDs.PitchAngle.CalcOutputFromTargetAndCurrentWithLimits(pitchDeg, state.PitchDeg, dt, c.limitedMinAlpha, c.limitedMaxAlpha)
	}
	c.processStandardAlpha(out, dt, state, commandedAlphaDeg)
}

// processStandardAlpha is the innermost vertical loop: feed-forward
// stick-for-zero-moment from the aero table plus the alpha PID output,
// emitting stick-back (ProcessStandardVerticalNavMode_Alpha).
func (c *Controller) processStandardAlpha(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, alphaDeg float64) {
	alphaDeg = mathx.Clamp(alphaDeg, c.limitedMinAlpha, c.limitedMaxAlpha)
	if c.aero != nil {
		throttle := 0.0
		if c.veh != nil {
			throttle = c.veh.CurrentThrottle()
		}
		stickBack := c.aero.StickForZeroMoment(state.Mach, alphaDeg, throttle)
		c.PIDs.Alpha.SetBias(stickBack)
	}
	out.StickBack = c.PIDs.Alpha.CalcOutputFromTargetAndCurrent(alphaDeg, state.AlphaDeg, dt)
	c.lastAlphaDeg = alphaDeg
}

// processSpeed implements spec.md's "Speed" cascade example and the
// afterburner/speed-brake partitioning formula.
func (c *Controller) processSpeed(out *kinematics.ActuatorCommand, dt float64, state kinematics.State, action autopilot.Action, executeMid, executeOuter bool) {
	if action.SpeedMode == autopilot.SpeedUndefined {
		return
	}

	var commandedSpeedFps float64
	switch action.SpeedMode {
	case autopilot.SpeedKTAS:
		if c.atmo != nil {
			commandedSpeedFps = c.atmo.FpsFromKtas(action.TrueAirSpeedKTAS)
		}
	case autopilot.SpeedKIAS:
		if c.atmo != nil {
			commandedSpeedFps = c.atmo.FpsFromKcas(state.AltitudeM, action.CalibratedAirSpeedKCAS)
		}
	case autopilot.SpeedMach:
		if c.atmo != nil {
			commandedSpeedFps = c.atmo.FpsFromMach(state.AltitudeM, action.Mach)
		}
	case autopilot.SpeedFPS:
		commandedSpeedFps = action.SpeedFps
	case autopilot.SpeedForwardAccel:
		c.processForwardAccel(out, action.ForwardAccelG)
		return
	default:
		return
	}

	currentSpeedFps := state.KTAS * 1.68781
	speedCommandG := c.PIDs.Speed.CalcOutputFromTargetAndCurrentWithLimits(commandedSpeedFps, currentSpeedFps, dt, c.CurrentLimits.ForwardAccelMin, c.CurrentLimits.ForwardAccelMax)
	c.partitionThrottle(out, speedCommandG)
}

func (c *Controller) processForwardAccel(out *kinematics.ActuatorCommand, accelG float64) {
	accelG = mathx.Clamp(accelG, c.CurrentLimits.ForwardAccelMin, c.CurrentLimits.ForwardAccelMax)
	c.partitionThrottle(out, accelG)
}

// partitionThrottle implements spec.md's afterburner/speed-brake
// partitioning: afterburner above threshold, speed brake below threshold,
// military throttle in between.
func (c *Controller) partitionThrottle(out *kinematics.ActuatorCommand, speedCommandG float64) {
	switch {
	case c.CurrentLimits.EnableAfterburnerAutoControl && speedCommandG > c.CurrentLimits.AfterburnerThreshold:
		out.ThrottleMilitary = 1
		out.ThrottleAfterburner = speedCommandG - c.CurrentLimits.AfterburnerThreshold
		out.SpeedBrake = 0
	case c.CurrentLimits.EnableSpeedBrakeAutoControl && speedCommandG < c.CurrentLimits.SpeedBrakeThreshold:
		out.ThrottleMilitary = 0
		out.ThrottleAfterburner = 0
		out.SpeedBrake = c.CurrentLimits.SpeedBrakeThreshold - speedCommandG
	default:
		out.ThrottleMilitary = speedCommandG
		out.ThrottleAfterburner = 0
		out.SpeedBrake = 0
	}
}
