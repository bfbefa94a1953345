package main

import (
	"math"

	"github.com/lanan07075/aldev-p6dof/kinematics"
	"github.com/lanan07075/aldev-p6dof/mathx"
)

// plant is a deliberately simplified attitude/point-mass integrator: it
// turns one actuator command into the next kinematics.State without
// modeling aerodynamic force generation, which spec.md's Non-goals
// explicitly exclude from the control core's own responsibilities. It
// exists only so the scenarios below can close the loop around a real
// *control.Controller and observe the properties spec.md §8 describes —
// it is not a flight model and makes no claim to aerodynamic fidelity.
//
// Roll and alpha are driven at fixed rate gains by stick deflection;
// heading is driven by a coordinated-turn term from bank plus a direct
// yaw-rate term from rudder (so both bank-to-turn and yaw-to-turn cascades
// produce a turning vehicle); climb rate follows from alpha above a fixed
// trim value. Forward speed is held constant — the speed channel is
// exercised independently of the attitude scenarios.
type plant struct {
	speedMps float64
}

const (
	rollRateGainDpsPerUnit  = 180.0
	alphaRateGainDpsPerUnit = 20.0
	yawRateGainDpsPerUnit   = 15.0
	trimAlphaDeg            = 2.0
)

func (p *plant) step(s *kinematics.State, cmd kinematics.ActuatorCommand, dt float64) {
	rollRateDps := cmd.StickRight * rollRateGainDpsPerUnit
	s.RatesBodyDps[0] = rollRateDps
	s.RollDeg = mathx.Clamp(s.RollDeg+rollRateDps*dt, -89, 89)

	alphaRateDps := cmd.StickBack * alphaRateGainDpsPerUnit
	s.AlphaDeg = mathx.Clamp(s.AlphaDeg+alphaRateDps*dt, -20, 30)

	yawRateDps := cmd.RudderRight * yawRateGainDpsPerUnit
	s.RatesBodyDps[2] = yawRateDps

	turnRateDps := 0.0
	if math.Abs(s.RollDeg) > 0.05 && p.speedMps > 1e-3 {
		turnRateDps = mathx.Degrees(mathx.G0 * math.Tan(mathx.Radians(s.RollDeg)) / p.speedMps)
	}
	s.HeadingDeg = mathx.NormalizeHeading(s.HeadingDeg + (turnRateDps+yawRateDps)*dt)
	s.RatesBodyDps[1] = alphaRateDps

	s.FlightPathAngleDeg = mathx.Clamp(s.AlphaDeg-trimAlphaDeg, -30, 30)
	s.PitchDeg = s.AlphaDeg + s.FlightPathAngleDeg

	climbRateMps := p.speedMps * math.Sin(mathx.Radians(s.FlightPathAngleDeg))
	s.VelBodyMps[2] = -climbRateMps
	s.AltitudeM += climbRateMps * dt

	s.VelBodyMps[0] = p.speedMps
	s.KTAS = p.speedMps / 0.514444
	s.Mach = p.speedMps / 295.0
	s.DynamicPressurePsf = 0.5 * 0.002378 * p.speedMps * p.speedMps * mathx.FtPerM * mathx.FtPerM

	// Flat-earth position integration (same meters-per-degree approximation
	// navigator.go's own internal aim-heading math uses), so waypoint-mode
	// scenarios actually close range on their target.
	const metersPerDegLat = 111320.0
	metersNorth := p.speedMps * math.Cos(mathx.Radians(s.HeadingDeg)) * dt
	metersEast := p.speedMps * math.Sin(mathx.Radians(s.HeadingDeg)) * dt
	s.LatDeg += metersNorth / metersPerDegLat
	metersPerDegLon := metersPerDegLat * math.Cos(mathx.Radians(s.LatDeg))
	if metersPerDegLon > 1 {
		s.LonDeg += metersEast / metersPerDegLon
	}
}
