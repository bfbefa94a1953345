// Package kinematics defines the read-only vehicle state snapshot consumed
// by the flight-control core (spec.md §3.1), the actuator command vector it
// produces (§3.2), and the external-collaborator interfaces it depends on
// (§6.1) — atmosphere conversions, aerodynamic lookup tables, and vehicle
// accessors. The core treats all of these as opaque services; it never
// constructs a concrete implementation itself.
package kinematics

// State is the read-only kinematic snapshot delivered at the start of each
// Update call (spec.md §3.1). The core never mutates it and never produces
// it.
type State struct {
	LatDeg, LonDeg float64
	AltitudeM      float64

	// Body-frame velocity and angular rates.
	VelBodyMps   [3]float64 // x (forward), y (right), z (down)
	RatesBodyDps [3]float64 // roll, pitch, yaw rates

	HeadingDeg float64
	PitchDeg   float64
	RollDeg    float64

	AlphaDeg    float64
	BetaDeg     float64
	AlphaDotDps float64
	BetaDotDps  float64

	Mach       float64
	KTAS       float64
	KCAS       float64
	DynamicPressurePsf float64

	NxG, NyG, NzG float64 // body accelerations in g

	FlightPathAngleDeg float64
}

// Actuator command bounds (spec.md §3.2).
const (
	StickMin, StickMax             = -1.0, 1.0
	RudderMin, RudderMax           = -1.0, 1.0
	ThrottleMilMin, ThrottleMilMax = 0.0, 1.0
	ThrottleABMin, ThrottleABMax   = 0.0, 1.0
	ThrustVectorMin, ThrustVectorMax = -1.0, 1.0
	SpeedBrakeMin, SpeedBrakeMax   = 0.0, 1.0
	NWSMin, NWSMax                 = -1.0, 1.0
	WheelBrakeMin, WheelBrakeMax   = 0.0, 1.0
)

// ActuatorCommand is the fixed-width vector of normalized commands produced
// by every Update call (spec.md §3.2). Every component satisfies its
// declared bound after the controller's limit-enforcement pass
// (invariant 1).
type ActuatorCommand struct {
	StickBack  float64 // [-1,1]
	StickRight float64 // [-1,1]
	RudderRight float64 // [-1,1]

	ThrottleMilitary    float64 // [0,1]
	ThrottleAfterburner float64 // [0,1]

	ThrustVectorYaw   float64 // [-1,1]
	ThrustVectorPitch float64 // [-1,1]
	ThrustVectorRoll  float64 // [-1,1]

	SpeedBrake float64 // [0,1]

	NoseWheelSteering float64 // [-1,1]
	NWSEnabled        bool

	WheelBrakeLeft  float64 // [0,1]
	WheelBrakeRight float64 // [0,1]
}

// Clamp forces every field of c to its declared bound in place, returning c
// for chaining. The controller calls this unconditionally as the last step
// of every Update (spec.md invariant 1).
func (c *ActuatorCommand) Clamp() *ActuatorCommand {
	clamp := func(v, lo, hi float64) float64 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	c.StickBack = clamp(c.StickBack, StickMin, StickMax)
	c.StickRight = clamp(c.StickRight, StickMin, StickMax)
	c.RudderRight = clamp(c.RudderRight, RudderMin, RudderMax)
	c.ThrottleMilitary = clamp(c.ThrottleMilitary, ThrottleMilMin, ThrottleMilMax)
	c.ThrottleAfterburner = clamp(c.ThrottleAfterburner, ThrottleABMin, ThrottleABMax)
	c.ThrustVectorYaw = clamp(c.ThrustVectorYaw, ThrustVectorMin, ThrustVectorMax)
	c.ThrustVectorPitch = clamp(c.ThrustVectorPitch, ThrustVectorMin, ThrustVectorMax)
	c.ThrustVectorRoll = clamp(c.ThrustVectorRoll, ThrustVectorMin, ThrustVectorMax)
	c.SpeedBrake = clamp(c.SpeedBrake, SpeedBrakeMin, SpeedBrakeMax)
	c.NoseWheelSteering = clamp(c.NoseWheelSteering, NWSMin, NWSMax)
	c.WheelBrakeLeft = clamp(c.WheelBrakeLeft, WheelBrakeMin, WheelBrakeMax)
	c.WheelBrakeRight = clamp(c.WheelBrakeRight, WheelBrakeMin, WheelBrakeMax)
	return c
}

// Neutral returns the all-zero, brakes-held command emitted on degenerate
// conditions and controls-disabled arbitration (spec.md §4.1 failure
// semantics, §4.4 priority 3).
func Neutral() ActuatorCommand {
	return ActuatorCommand{WheelBrakeLeft: 1, WheelBrakeRight: 1}
}

// AeroTables is the inbound aerodynamic-lookup-table service (spec.md
// §6.1): CL_max/CL_min/AlphaMax/AlphaMin/StickForZeroMoment/EffectiveCL/
// Alpha, all keyed by Mach (and, where noted, angle of attack or thrust).
type AeroTables interface {
	CLMax(mach float64) float64
	CLMin(mach float64) float64
	AlphaMaxDeg(mach float64) float64
	AlphaMinDeg(mach float64) float64
	StickForZeroMoment(mach, alphaDeg, thrust float64) float64
	EffectiveCL(mach, alphaDeg float64) float64
	AlphaDeg(mach, cl float64) float64
}

// AtmosphereService is the inbound atmosphere-conversion service (spec.md
// §6.1), used by waypoint-mode speed conversion.
type AtmosphereService interface {
	FpsFromMach(altM, mach float64) float64
	FpsFromKtas(ktas float64) float64
	FpsFromKcas(altM, kcas float64) float64
}

// VehicleAccessors is the inbound vehicle-accessor service (spec.md §6.1):
// mass, drag, thrust bounds, current rates/throttle, used to compute
// throttle bias and stabilizing feed-forwards.
type VehicleAccessors interface {
	MassKg() float64
	DragN(state State) float64
	MinThrustN(state State) float64
	MaxThrustN(state State) float64
	PitchRateDps() float64
	RollRateDps() float64
	CurrentThrottle() float64
}
