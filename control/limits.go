// Package control implements the Common Controller (spec.md §4.1): the
// cascaded PID autopilot that converts an autopilot action plus kinematic
// state into an actuator command vector, grounded on
// _examples/original_source/.../P6DofCommonController.{hpp,cpp}.
package control

// LimitsAndSettings is the per-vehicle envelope (spec.md §3.6). A default
// set is loaded from configuration; a current set is live and mutable, with
// RevertToDefaults restoring it byte-for-byte (spec.md invariant 6).
type LimitsAndSettings struct {
	EnableAfterburnerAutoControl bool
	AfterburnerThreshold         float64
	EnableSpeedBrakeAutoControl  bool
	SpeedBrakeThreshold          float64

	TurnRollInMultiplier        float64
	RouteAllowableAngleErrorRad float64

	PitchGLoadMin float64
	PitchGLoadMax float64

	AlphaMin float64
	AlphaMax float64

	PitchRateMin float64
	PitchRateMax float64

	VertSpeedMin float64
	VertSpeedMax float64

	YawGLoadMax  float64
	BetaMax      float64
	YawRateMax   float64
	RollRateMax  float64
	BankAngleMax float64

	ForwardAccelMin float64
	ForwardAccelMax float64

	TaxiSpeedMax   float64
	TaxiYawRateMax float64
}

// DefaultLimitsAndSettings returns a reasonable, fully-populated envelope —
// the values a fresh vehicle starts with absent an explicit configuration
// block (spec.md §6.3 limits_and_settings).
func DefaultLimitsAndSettings() LimitsAndSettings {
	return LimitsAndSettings{
		EnableAfterburnerAutoControl: true,
		AfterburnerThreshold:         1.0,
		EnableSpeedBrakeAutoControl:  true,
		SpeedBrakeThreshold:          0.0,

		TurnRollInMultiplier:        1.0,
		RouteAllowableAngleErrorRad: 0.035, // ~2 deg

		PitchGLoadMin: -3.0,
		PitchGLoadMax: 8.0,

		AlphaMin: -5.0,
		AlphaMax: 20.0,

		PitchRateMin: -30.0,
		PitchRateMax: 30.0,

		VertSpeedMin: -10000.0,
		VertSpeedMax: 10000.0,

		YawGLoadMax:  3.0,
		BetaMax:      10.0,
		YawRateMax:   30.0,
		RollRateMax:  180.0,
		BankAngleMax: 60.0,

		ForwardAccelMin: -1.0,
		ForwardAccelMax: 1.0,

		TaxiSpeedMax:   30.0,
		TaxiYawRateMax: 10.0,
	}
}
