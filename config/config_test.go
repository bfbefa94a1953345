package config

import (
	"strings"
	"testing"

	"github.com/lanan07075/aldev-p6dof/control"
)

func validDoc(pidBlock string) string {
	return `{
		"vertical_middle_loop_rate_factor": 5,
		"lateral_middle_loop_rate_factor": 5,
		"speed_middle_loop_rate_factor": 5,
		"vertical_outer_loop_rate_factor": 2,
		"lateral_outer_loop_rate_factor": 2,
		"speed_outer_loop_rate_factor": 2,
		"control_method": "BankToTurnNoYaw",
		"use_legacy_beta": false,
		"use_simple_yaw_damper": true,
		"min_taxi_turn_radius_ft": 50,
		"pid_group": ` + pidBlock + `,
		"limits_and_settings": {
			"bank_angle_max": 75,
			"pitch_g_load_max": 6
		}
	}`
}

func allScalarPids(gains string) string {
	names := []string{
		"pid_alpha", "pid_vert_speed", "pid_pitch_angle", "pid_pitch_rate",
		"pid_flightpath_angle", "pid_delta_pitch", "pid_altitude", "pid_beta",
		"pid_yaw_rate", "pid_yaw_heading", "pid_taxi_heading", "pid_roll_rate",
		"pid_delta_roll", "pid_bank_angle", "pid_roll_heading", "pid_forward_accel",
		"pid_speed", "pid_taxi_forward_accel", "pid_taxi_speed", "pid_taxi_yaw_rate",
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = `"` + n + `": ` + gains
	}
	return "{" + strings.Join(parts, ",") + "}"
}

const scalarGains = `{"kp": 1.0, "ki": 0.1, "kd": 0.01}`

func TestLoadValidScalarConfigSucceeds(t *testing.T) {
	doc := validDoc(allScalarPids(scalarGains))
	c, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Method != control.BankToTurnNoYaw {
		t.Errorf("Method = %v, want BankToTurnNoYaw", c.Method)
	}
	if !c.UseSimpleYawDamper {
		t.Error("expected UseSimpleYawDamper == true")
	}
	if c.CurrentLimits.BankAngleMax != 75 {
		t.Errorf("BankAngleMax = %v, want 75", c.CurrentLimits.BankAngleMax)
	}
	if c.CurrentLimits.PitchGLoadMax != 6 {
		t.Errorf("PitchGLoadMax = %v, want 6", c.CurrentLimits.PitchGLoadMax)
	}
	// unconfigured limit fields fall back to the built-in default.
	if c.CurrentLimits.RollRateMax != 180 {
		t.Errorf("RollRateMax = %v, want 180 (default fallback)", c.CurrentLimits.RollRateMax)
	}
}

func TestLoadValidTabularConfigSucceeds(t *testing.T) {
	tabular := `{"gain_table": [
		{"control_value": 0, "kp": 0.5, "ki": 0, "kd": 0},
		{"control_value": 100, "kp": 1.5, "ki": 0.2, "kd": 0.05}
	]}`
	doc := validDoc(allScalarPids(scalarGains))
	// swap one entry for the tabular form
	doc = strings.Replace(doc, `"pid_altitude": `+scalarGains, `"pid_altitude": `+tabular, 1)
	c, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.PIDs.Altitude.GainTable) != 2 {
		t.Fatalf("Altitude.GainTable has %d rows, want 2", len(c.PIDs.Altitude.GainTable))
	}
	if c.PIDs.Altitude.GainTable[1].Kp != 1.5 {
		t.Errorf("GainTable[1].Kp = %v, want 1.5", c.PIDs.Altitude.GainTable[1].Kp)
	}
}

func TestLoadRejectsBothScalarAndTabularForSamePID(t *testing.T) {
	mixed := `{"kp": 1.0, "gain_table": [{"control_value": 0, "kp": 1.0}]}`
	doc := validDoc(allScalarPids(scalarGains))
	doc = strings.Replace(doc, `"pid_altitude": `+scalarGains, `"pid_altitude": `+mixed, 1)
	_, err := Load([]byte(doc))
	if err == nil {
		t.Fatal("expected Load() to fail on a PID mixing scalar and tabular forms")
	}
}

func TestLoadRejectsUnrecognizedControlMethod(t *testing.T) {
	doc := validDoc(allScalarPids(scalarGains))
	doc = strings.Replace(doc, `"BankToTurnNoYaw"`, `"SidewaysToTurn"`, 1)
	_, err := Load([]byte(doc))
	if err == nil {
		t.Fatal("expected Load() to reject an unrecognized control_method")
	}
}

func TestLoadRejectsMisspelledKey(t *testing.T) {
	doc := strings.Replace(validDoc(allScalarPids(scalarGains)), `"control_method"`, `"controll_method"`, 1)
	_, err := Load([]byte(doc))
	if err == nil {
		t.Fatal("expected Load() to reject a misspelled top-level key")
	}
}

func TestLoadRejectsNonIncreasingGainTableRows(t *testing.T) {
	badTabular := `{"gain_table": [
		{"control_value": 100, "kp": 0.5},
		{"control_value": 50, "kp": 1.5}
	]}`
	doc := validDoc(allScalarPids(scalarGains))
	doc = strings.Replace(doc, `"pid_altitude": `+scalarGains, `"pid_altitude": `+badTabular, 1)
	_, err := Load([]byte(doc))
	if err == nil {
		t.Fatal("expected Load() to reject non-increasing control_value rows")
	}
}

func TestLoadDerivesFlagsFromNonzeroScalarFields(t *testing.T) {
	gains := `{"kp": 1.0, "ki": 0, "kd": 0, "max_error_accum": 5, "low_pass_alpha": 0.3}`
	doc := validDoc(allScalarPids(scalarGains))
	doc = strings.Replace(doc, `"pid_altitude": `+scalarGains, `"pid_altitude": `+gains, 1)
	c, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.PIDs.Altitude.Flags&1 == 0 { // UseAlpha
		t.Error("expected UseAlpha flag set from nonzero low_pass_alpha")
	}
	if c.PIDs.Altitude.Flags&2 == 0 { // LimitMax
		t.Error("expected LimitMax flag set from nonzero max_error_accum")
	}
}
