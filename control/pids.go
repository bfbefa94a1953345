package control

import "github.com/lanan07075/aldev-p6dof/pid"

// PIDSet holds the twenty named PIDs of the cascade (spec.md §6.3 pid_group),
// one field per configuration block name. Grounded on
// P6DofCommonController's mAlphaPID/mVertSpeedPID/... member list.
type PIDSet struct {
	Alpha            pid.PID
	VertSpeed        pid.PID
	PitchAngle       pid.PID
	PitchRate        pid.PID
	FlightPathAngle  pid.PID
	DeltaPitch       pid.PID
	Altitude         pid.PID
	Beta             pid.PID
	YawRate          pid.PID
	YawHeading       pid.PID
	TaxiHeading      pid.PID
	RollRate         pid.PID
	DeltaRoll        pid.PID
	BankAngle        pid.PID
	RollHeading      pid.PID
	ForwardAccel     pid.PID
	Speed            pid.PID
	TaxiForwardAccel pid.PID
	TaxiSpeed        pid.PID
	TaxiYawRate      pid.PID
}

// all returns every PID by pointer, for operations that apply uniformly
// (controlling-value broadcast, reset-on-new-action).
func (s *PIDSet) all() []*pid.PID {
	return []*pid.PID{
		&s.Alpha, &s.VertSpeed, &s.PitchAngle, &s.PitchRate, &s.FlightPathAngle,
		&s.DeltaPitch, &s.Altitude, &s.Beta, &s.YawRate, &s.YawHeading,
		&s.TaxiHeading, &s.RollRate, &s.DeltaRoll, &s.BankAngle, &s.RollHeading,
		&s.ForwardAccel, &s.Speed, &s.TaxiForwardAccel, &s.TaxiSpeed, &s.TaxiYawRate,
	}
}

// BroadcastControllingValue sets the tabular-gain controlling value (dynamic
// pressure, typically) on every PID (spec.md §4.1 "Tabular-gain
// interpolation" — broadcast once per frame, before any PID is evaluated).
func (s *PIDSet) BroadcastControllingValue(q float64) {
	for _, p := range s.all() {
		p.SetControllingValue(q)
	}
}

// ResetAccumulators zeroes every PID's integrator state, matching the
// controller's reset behavior on a new autopilot action, testing-mode
// engagement, or vehicle destruction (spec.md §4.1 "State machine").
func (s *PIDSet) ResetAccumulators() {
	for _, p := range s.all() {
		p.Reset()
	}
}
