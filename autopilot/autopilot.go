// Package autopilot defines the Autopilot Action (spec.md §3.5, §4.3): an
// immutable per-frame command object carrying the active channel mode and
// setpoint, grounded on
// _examples/original_source/.../P6DofAutopilotAction.{hpp,cpp}.
package autopilot

import "github.com/lanan07075/aldev-p6dof/mathx"

// LateralMode is the closed set of lateral channel modes (spec.md §4.1).
type LateralMode int

const (
	LateralUndefined LateralMode = iota
	LateralWaypoint
	LateralHeading
	LateralPoint
	LateralRollRate
	LateralBank
	LateralDeltaRoll
	LateralYawGLoad
	LateralYawRate
	LateralBeta
)

// StabilizingMode covers both the bank-to-turn stabilizing set
// ({Undefined,YawGLoad,YawRate,Beta}) and the yaw-to-turn stabilizing set
// ({Undefined,RollRate,Bank,DeltaRoll}); which subset is valid depends on
// the controller's configured control method (spec.md §4.1).
type StabilizingMode int

const (
	StabilizingUndefined StabilizingMode = iota
	StabilizingYawGLoad
	StabilizingYawRate
	StabilizingBeta
	StabilizingRollRate
	StabilizingBank
	StabilizingDeltaRoll
)

type VerticalMode int

const (
	VerticalUndefined VerticalMode = iota
	VerticalWaypoint
	VerticalAltitude
	VerticalVertSpeed
	VerticalPoint
	VerticalPitchGLoad
	VerticalPitchAngle
	VerticalPitchRate
	VerticalFltPathAngle
	VerticalDeltaPitch
	VerticalAlpha
)

type SpeedMode int

const (
	SpeedUndefined SpeedMode = iota
	SpeedWaypoint
	SpeedForwardAccel
	SpeedKIAS
	SpeedKTAS
	SpeedMach
	SpeedFPS
)

// TurnDirection is a hint overriding which way a turn should be executed.
type TurnDirection int

const (
	TurnDefault TurnDirection = iota
	TurnLeft
	TurnRight
)

// WaypointRef identifies a route and a waypoint index within it, the Go
// rendering of the original's owned raw pointers (spec.md §9: arena-owned
// objects referenced by dense integer indices rather than raw pointers).
// Route is an opaque handle type supplied by the waypoint package (kept as
// an interface{} here to avoid a dependency cycle between autopilot and
// waypoint; the navigator package binds the concrete *waypoint.Route type).
type WaypointRef struct {
	Route interface{}
	Index int
}

// Action carries the set of channel modes and setpoints for one control
// interval (spec.md §3.5). It carries the original's full named setpoint
// field set (Supplemented Features in SPEC_FULL.md) rather than a generic
// map, so each Set* call is an independently meaningful, independently
// testable operation. Actions are passed to the Common Controller by value
// on each Controller.Update call (the controller never mutates an Action);
// "immutable once installed" is enforced by convention — callers construct
// a new Action rather than mutating the one in place.
type Action struct {
	// Waypoint navigation data: the prev/curr/next references, installed
	// together by SetNavWaypoints. The Action carries no route segments.
	PrevWaypoint, CurrWaypoint, NextWaypoint WaypointRef
	HaveWaypoints                            bool

	LateralMode     LateralMode
	StabilizingMode StabilizingMode
	VerticalMode    VerticalMode
	SpeedMode       SpeedMode

	TurnDirection TurnDirection

	// Lateral channel setpoints.
	HeadingRad   float64
	RateOfTurnDps float64
	BankRad      float64
	RadiusFt     float64
	RollRateDps  float64
	RollDeltaDeg float64
	YawGLoadG    float64
	YawRateDps   float64
	BetaDeg      float64

	// Vertical channel setpoints.
	AltitudeMSLFt     float64
	VerticalRateFpm   float64
	FlightPathAngleRad float64
	PitchAngleDeg     float64
	PitchRateDps      float64
	PitchGLoadG       float64
	DeltaPitchDeg     float64
	AlphaDeg          float64

	// Speed channel setpoints.
	Mach                float64
	TrueAirSpeedKTAS    float64
	CalibratedAirSpeedKCAS float64
	ForwardAccelG       float64
	SpeedFps            float64
}

// SetNavWaypoints installs the prev/curr/next waypoint references used by
// Waypoint-mode channels.
func (a *Action) SetNavWaypoints(prev, curr, next WaypointRef) {
	a.PrevWaypoint, a.CurrWaypoint, a.NextWaypoint = prev, curr, next
	a.HaveWaypoints = true
}

// SetNoSpeedControl disables the speed channel; the controller then leaves
// throttle, afterburner and speed brake at zero in its output.
func (a *Action) SetNoSpeedControl() { a.SpeedMode = SpeedUndefined }

// SetRollHeading configures the lateral channel to hold the given heading
// via the roll-heading cascade (spec.md §4.1 "Roll heading" example).
func (a *Action) SetRollHeading(headingDeg float64) {
	a.LateralMode = LateralHeading
	a.HeadingRad = mathx.Radians(headingDeg)
}

// SetBank configures the lateral channel to hold a commanded bank angle
// directly.
func (a *Action) SetBank(bankDeg float64) {
	a.LateralMode = LateralBank
	a.BankRad = mathx.Radians(bankDeg)
}

// SetAltitude configures the vertical channel for an altitude-hold cascade
// (spec.md §4.1 "Altitude hold" example).
func (a *Action) SetAltitude(altMSLFt float64) {
	a.VerticalMode = VerticalAltitude
	a.AltitudeMSLFt = altMSLFt
}

// Valid reports whether an Action that puts any channel in Waypoint mode
// also has its prev/curr/next waypoint references installed. It does not
// check that each channel has a defined mode, and there are no route
// segments in an Action to check. Valid is advisory: the controller does
// not call it before using an Action.
func (a *Action) Valid() bool {
	needsWaypoints := a.LateralMode == LateralWaypoint ||
		a.VerticalMode == VerticalWaypoint ||
		a.SpeedMode == SpeedWaypoint
	if needsWaypoints && !a.HaveWaypoints {
		return false
	}
	return true
}
