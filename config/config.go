// Package config loads the `autopilot_config` JSON surface (spec.md §6.3)
// into a *control.Controller: loop-rate factors, control method, the
// twenty-PID gain group (scalar or tabular, never both), and the limits-
// and-settings envelope. Strict structural validation follows vice's
// scenario-JSON idiom (_examples/mmp-vice/pkg/util/json.go), adapted to the
// P6Dof config surface described in original_source.
package config

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/lanan07075/aldev-p6dof/control"
	"github.com/lanan07075/aldev-p6dof/pid"
	"github.com/lanan07075/aldev-p6dof/util"
)

// ConfigError wraps every validation/decode error accumulated while loading
// one autopilot_config document.
type ConfigError struct {
	errors *util.ErrorLogger
}

func (e *ConfigError) Error() string { return e.errors.String() }

// ScalarGains is the scalar form of a pid_group entry (spec.md §6.3).
type ScalarGains struct {
	Kp                    float64 `json:"kp"`
	Ki                    float64 `json:"ki"`
	Kd                    float64 `json:"kd"`
	MaxErrorAccum         float64 `json:"max_error_accum"`
	LowPassAlpha          float64 `json:"low_pass_alpha"`
	IgnoreLargeErrorAccum float64 `json:"ignore_large_error_accum"`
	IgnoreSmallErrorAccum float64 `json:"ignore_small_error_accum"`
	KtAntiWindupGain      float64 `json:"kt_anti_windup_gain"`
}

// GainTableRow is one row of the tabular form of a pid_group entry.
type GainTableRow struct {
	ControlValue          float64 `json:"control_value"`
	Kp                    float64 `json:"kp"`
	Ki                    float64 `json:"ki"`
	Kd                    float64 `json:"kd"`
	MaxErrorAccum         float64 `json:"max_error_accum"`
	LowPassAlpha          float64 `json:"low_pass_alpha"`
	IgnoreLargeErrorAccum float64 `json:"ignore_large_error_accum"`
	IgnoreSmallErrorAccum float64 `json:"ignore_small_error_accum"`
	KtAntiWindupGain      float64 `json:"kt_anti_windup_gain"`
}

// TabularGains is the tabular form: one or more gain_table rows.
type TabularGains struct {
	GainTable []GainTableRow `json:"gain_table"`
}

// PIDConfig accepts either ScalarGains or TabularGains but rejects a
// document providing both (spec.md §6.3: "Mixing scalar and tabular forms
// in the same PID is an error").
type PIDConfig = util.OneOf[ScalarGains, TabularGains]

// PidGroup mirrors spec.md §6.3's pid_group block, one field per named PID.
type PidGroup struct {
	Alpha            PIDConfig `json:"pid_alpha"`
	VertSpeed        PIDConfig `json:"pid_vert_speed"`
	PitchAngle       PIDConfig `json:"pid_pitch_angle"`
	PitchRate        PIDConfig `json:"pid_pitch_rate"`
	FlightPathAngle  PIDConfig `json:"pid_flightpath_angle"`
	DeltaPitch       PIDConfig `json:"pid_delta_pitch"`
	Altitude         PIDConfig `json:"pid_altitude"`
	Beta             PIDConfig `json:"pid_beta"`
	YawRate          PIDConfig `json:"pid_yaw_rate"`
	YawHeading       PIDConfig `json:"pid_yaw_heading"`
	TaxiHeading      PIDConfig `json:"pid_taxi_heading"`
	RollRate         PIDConfig `json:"pid_roll_rate"`
	DeltaRoll        PIDConfig `json:"pid_delta_roll"`
	BankAngle        PIDConfig `json:"pid_bank_angle"`
	RollHeading      PIDConfig `json:"pid_roll_heading"`
	ForwardAccel     PIDConfig `json:"pid_forward_accel"`
	Speed            PIDConfig `json:"pid_speed"`
	TaxiForwardAccel PIDConfig `json:"pid_taxi_forward_accel"`
	TaxiSpeed        PIDConfig `json:"pid_taxi_speed"`
	TaxiYawRate      PIDConfig `json:"pid_taxi_yaw_rate"`
}

// LimitsAndSettings mirrors control.LimitsAndSettings (spec.md §3.6) with
// JSON tags for the configuration surface.
type LimitsAndSettings struct {
	EnableAfterburnerAutoControl bool    `json:"enable_afterburner_auto_control"`
	AfterburnerThreshold         float64 `json:"afterburner_threshold"`
	EnableSpeedBrakeAutoControl  bool    `json:"enable_speed_brake_auto_control"`
	SpeedBrakeThreshold          float64 `json:"speed_brake_threshold"`
	TurnRollInMultiplier         float64 `json:"turn_roll_in_multiplier"`
	RouteAllowableAngleErrorDeg  float64 `json:"route_allowable_angle_error_deg"`
	PitchGLoadMin                float64 `json:"pitch_g_load_min"`
	PitchGLoadMax                float64 `json:"pitch_g_load_max"`
	AlphaMin                     float64 `json:"alpha_min"`
	AlphaMax                     float64 `json:"alpha_max"`
	PitchRateMin                 float64 `json:"pitch_rate_min"`
	PitchRateMax                 float64 `json:"pitch_rate_max"`
	VertSpeedMin                 float64 `json:"vert_speed_min"`
	VertSpeedMax                 float64 `json:"vert_speed_max"`
	YawGLoadMax                  float64 `json:"yaw_g_load_max"`
	BetaMax                      float64 `json:"beta_max"`
	YawRateMax                   float64 `json:"yaw_rate_max"`
	RollRateMax                  float64 `json:"roll_rate_max"`
	BankAngleMax                 float64 `json:"bank_angle_max"`
	ForwardAccelMin              float64 `json:"forward_accel_min"`
	ForwardAccelMax              float64 `json:"forward_accel_max"`
	TaxiSpeedMax                 float64 `json:"taxi_speed_max"`
	TaxiYawRateMax               float64 `json:"taxi_yaw_rate_max"`
}

// AutopilotConfig is the root document (spec.md §6.3 autopilot_config).
type AutopilotConfig struct {
	VerticalMiddleLoopRateFactor uint8    `json:"vertical_middle_loop_rate_factor"`
	LateralMiddleLoopRateFactor  uint8    `json:"lateral_middle_loop_rate_factor"`
	SpeedMiddleLoopRateFactor    uint8    `json:"speed_middle_loop_rate_factor"`
	VerticalOuterLoopRateFactor  uint8    `json:"vertical_outer_loop_rate_factor"`
	LateralOuterLoopRateFactor   uint8    `json:"lateral_outer_loop_rate_factor"`
	SpeedOuterLoopRateFactor     uint8    `json:"speed_outer_loop_rate_factor"`
	ControlMethod                string   `json:"control_method"`
	UseLegacyBeta                bool     `json:"use_legacy_beta"`
	UseSimpleYawDamper           bool     `json:"use_simple_yaw_damper"`
	MinTaxiTurnRadiusFt          float64  `json:"min_taxi_turn_radius_ft"`
	PidGroup                     PidGroup `json:"pid_group"`
	LimitsAndSettings            LimitsAndSettings `json:"limits_and_settings"`
}

var controlMethods = map[string]control.Method{
	"BankToTurnNoYaw":   control.BankToTurnNoYaw,
	"BankToTurnWithYaw": control.BankToTurnWithYaw,
	"YawToTurnNoRoll":   control.YawToTurnNoRoll,
	"YawToTurnRollRate": control.YawToTurnRollRate,
	"YawToTurnZeroBank": control.YawToTurnZeroBank,
}

// Load parses contents as an autopilot_config document and builds a
// configured *control.Controller. It returns a *ConfigError (wrapping every
// accumulated validation/decode failure) on any malformed input rather than
// stopping at the first problem.
func Load(contents []byte) (*control.Controller, error) {
	var e util.ErrorLogger
	util.CheckJSON[AutopilotConfig](contents, &e)

	var doc AutopilotConfig
	if err := util.UnmarshalJSONBytes(contents, &doc); err != nil {
		e.Error(err)
	}

	method, ok := controlMethods[doc.ControlMethod]
	if !ok && !e.HaveErrors() {
		e.ErrorString("control_method %q is not one of the five recognized methods (got: %s)",
			doc.ControlMethod, spew.Sdump(doc.ControlMethod))
	}

	if e.HaveErrors() {
		return nil, &ConfigError{errors: &e}
	}

	limits := control.DefaultLimitsAndSettings()
	applyLimits(&limits, doc.LimitsAndSettings)

	c := control.New(method, limits)
	c.UseLegacyBeta = doc.UseLegacyBeta
	c.UseSimpleYawDamper = doc.UseSimpleYawDamper
	c.MinTaxiTurnRadiusFt = doc.MinTaxiTurnRadiusFt
	c.SetLoopFactors(
		doc.LateralMiddleLoopRateFactor, doc.LateralOuterLoopRateFactor,
		doc.VerticalMiddleLoopRateFactor, doc.VerticalOuterLoopRateFactor,
		doc.SpeedMiddleLoopRateFactor, doc.SpeedOuterLoopRateFactor,
	)

	applyPidGroup(&c.PIDs, doc.PidGroup, &e)
	if e.HaveErrors() {
		return nil, &ConfigError{errors: &e}
	}
	return c, nil
}

func applyLimits(l *control.LimitsAndSettings, d LimitsAndSettings) {
	*l = control.LimitsAndSettings{
		EnableAfterburnerAutoControl: d.EnableAfterburnerAutoControl,
		AfterburnerThreshold:         d.AfterburnerThreshold,
		EnableSpeedBrakeAutoControl:  d.EnableSpeedBrakeAutoControl,
		SpeedBrakeThreshold:          d.SpeedBrakeThreshold,
		TurnRollInMultiplier:         orDefault(d.TurnRollInMultiplier, l.TurnRollInMultiplier),
		RouteAllowableAngleErrorRad:  orDefault(d.RouteAllowableAngleErrorDeg*3.14159265358979/180, l.RouteAllowableAngleErrorRad),
		PitchGLoadMin:                orDefault(d.PitchGLoadMin, l.PitchGLoadMin),
		PitchGLoadMax:                orDefault(d.PitchGLoadMax, l.PitchGLoadMax),
		AlphaMin:                     orDefault(d.AlphaMin, l.AlphaMin),
		AlphaMax:                     orDefault(d.AlphaMax, l.AlphaMax),
		PitchRateMin:                 orDefault(d.PitchRateMin, l.PitchRateMin),
		PitchRateMax:                 orDefault(d.PitchRateMax, l.PitchRateMax),
		VertSpeedMin:                 orDefault(d.VertSpeedMin, l.VertSpeedMin),
		VertSpeedMax:                 orDefault(d.VertSpeedMax, l.VertSpeedMax),
		YawGLoadMax:                  orDefault(d.YawGLoadMax, l.YawGLoadMax),
		BetaMax:                      orDefault(d.BetaMax, l.BetaMax),
		YawRateMax:                   orDefault(d.YawRateMax, l.YawRateMax),
		RollRateMax:                  orDefault(d.RollRateMax, l.RollRateMax),
		BankAngleMax:                 orDefault(d.BankAngleMax, l.BankAngleMax),
		ForwardAccelMin:              orDefault(d.ForwardAccelMin, l.ForwardAccelMin),
		ForwardAccelMax:              orDefault(d.ForwardAccelMax, l.ForwardAccelMax),
		TaxiSpeedMax:                 orDefault(d.TaxiSpeedMax, l.TaxiSpeedMax),
		TaxiYawRateMax:               orDefault(d.TaxiYawRateMax, l.TaxiYawRateMax),
	}
}

// orDefault treats an unset (zero) configuration value as "use the
// built-in default", since the JSON surface has no separate presence bit
// per field.
func orDefault(configured, fallback float64) float64 {
	if configured == 0 {
		return fallback
	}
	return configured
}

func applyPidGroup(s *control.PIDSet, g PidGroup, e *util.ErrorLogger) {
	apply := func(name string, dst *pid.PID, cfg PIDConfig) {
		e.Push(name)
		defer e.Pop()
		table, flags, err := resolveGainTable(cfg)
		if err != nil {
			e.Error(err)
			return
		}
		dst.GainTable = table
		dst.Flags = flags
	}

	apply("pid_alpha", &s.Alpha, g.Alpha)
	apply("pid_vert_speed", &s.VertSpeed, g.VertSpeed)
	apply("pid_pitch_angle", &s.PitchAngle, g.PitchAngle)
	apply("pid_pitch_rate", &s.PitchRate, g.PitchRate)
	apply("pid_flightpath_angle", &s.FlightPathAngle, g.FlightPathAngle)
	apply("pid_delta_pitch", &s.DeltaPitch, g.DeltaPitch)
	apply("pid_altitude", &s.Altitude, g.Altitude)
	apply("pid_beta", &s.Beta, g.Beta)
	apply("pid_yaw_rate", &s.YawRate, g.YawRate)
	apply("pid_yaw_heading", &s.YawHeading, g.YawHeading)
	apply("pid_taxi_heading", &s.TaxiHeading, g.TaxiHeading)
	apply("pid_roll_rate", &s.RollRate, g.RollRate)
	apply("pid_delta_roll", &s.DeltaRoll, g.DeltaRoll)
	apply("pid_bank_angle", &s.BankAngle, g.BankAngle)
	apply("pid_roll_heading", &s.RollHeading, g.RollHeading)
	apply("pid_forward_accel", &s.ForwardAccel, g.ForwardAccel)
	apply("pid_speed", &s.Speed, g.Speed)
	apply("pid_taxi_forward_accel", &s.TaxiForwardAccel, g.TaxiForwardAccel)
	apply("pid_taxi_speed", &s.TaxiSpeed, g.TaxiSpeed)
	apply("pid_taxi_yaw_rate", &s.TaxiYawRate, g.TaxiYawRate)
}

// resolveGainTable converts a PIDConfig (scalar or tabular) into a
// pid.GainTable plus the derived Flags byte — UseAlpha/LimitMax/ZeroGtMax/
// ZeroLtMin/UseKt are inferred from which optional fields were supplied
// (spec.md §3.3 "packed flag byte").
func resolveGainTable(cfg PIDConfig) (pid.GainTable, pid.Flags, error) {
	switch {
	case cfg.HasA && cfg.HasB:
		return nil, 0, fmt.Errorf("both scalar and tabular gain forms supplied for the same PID")
	case cfg.HasA:
		row, flags := scalarRow(*cfg.A)
		return pid.GainTable{row}, flags, nil
	case cfg.HasB:
		if len(cfg.B.GainTable) == 0 {
			return nil, 0, fmt.Errorf("gain_table block has no rows")
		}
		rows := make(pid.GainTable, len(cfg.B.GainTable))
		var flags pid.Flags
		for i, r := range cfg.B.GainTable {
			row, rowFlags := scalarRow(ScalarGains{
				Kp: r.Kp, Ki: r.Ki, Kd: r.Kd,
				MaxErrorAccum: r.MaxErrorAccum, LowPassAlpha: r.LowPassAlpha,
				IgnoreLargeErrorAccum: r.IgnoreLargeErrorAccum,
				IgnoreSmallErrorAccum: r.IgnoreSmallErrorAccum,
				KtAntiWindupGain:      r.KtAntiWindupGain,
			})
			row.ControllingValue = r.ControlValue
			rows[i] = row
			flags |= rowFlags
		}
		for i := 1; i < len(rows); i++ {
			if rows[i].ControllingValue <= rows[i-1].ControllingValue {
				return nil, 0, fmt.Errorf("gain_table rows must be strictly increasing in control_value")
			}
		}
		return rows, flags, nil
	default:
		return pid.GainTable{{}}, 0, nil
	}
}

func scalarRow(g ScalarGains) (pid.GainRow, pid.Flags) {
	row := pid.GainRow{
		Kp: g.Kp, Ki: g.Ki, Kd: g.Kd,
		MaxAccum:     g.MaxErrorAccum,
		LowpassAlpha: g.LowPassAlpha,
		MaxErrorZero: g.IgnoreLargeErrorAccum,
		MinErrorZero: g.IgnoreSmallErrorAccum,
		Kt:           g.KtAntiWindupGain,
	}
	var flags pid.Flags
	if g.LowPassAlpha != 0 {
		flags |= pid.UseAlpha
	}
	if g.MaxErrorAccum != 0 {
		flags |= pid.LimitMax
	}
	if g.IgnoreLargeErrorAccum != 0 {
		flags |= pid.ZeroGtMax
	}
	if g.IgnoreSmallErrorAccum != 0 {
		flags |= pid.ZeroLtMin
	}
	if g.KtAntiWindupGain != 0 {
		flags |= pid.UseKt
	}
	return row, flags
}
