package aerotables

import (
	"math"

	"github.com/lanan07075/aldev-p6dof/mathx"
)

// Atmosphere implements kinematics.AtmosphereService with the 1976 U.S.
// Standard Atmosphere troposphere/lower-stratosphere model. Built on plain
// math rather than a table/library: no example repo carries an atmosphere
// model (vice's wx package ingests observed weather, not a standard-day
// density/speed-of-sound model), and the ISA lapse-rate formulas are fixed
// physical constants rather than domain content a data file would
// otherwise hold — so there's nothing here to parameterize through a table
// or load from the aerotables data blob.
type Atmosphere struct{}

const (
	seaLevelTempK    = 288.15
	seaLevelPressPa  = 101325.0
	lapseRateKPerM   = -0.0065
	tropopauseAltM   = 11000.0
	tropopauseTempK  = seaLevelTempK + lapseRateKPerM*tropopauseAltM
	gasConstantAir   = 287.05287
	gamma            = 1.4
	knotsPerFps      = 0.5924838 // 1 ft/s in knots
)

// temperatureK returns the ISA static temperature at the given geometric
// altitude (meters).
func temperatureK(altM float64) float64 {
	if altM <= tropopauseAltM {
		return seaLevelTempK + lapseRateKPerM*altM
	}
	return tropopauseTempK
}

// pressurePa returns the ISA static pressure at the given geometric
// altitude (meters).
func pressurePa(altM float64) float64 {
	if altM <= tropopauseAltM {
		t := temperatureK(altM)
		return seaLevelPressPa * math.Pow(t/seaLevelTempK, -mathx.G0/(lapseRateKPerM*gasConstantAir))
	}
	pTrop := seaLevelPressPa * math.Pow(tropopauseTempK/seaLevelTempK, -mathx.G0/(lapseRateKPerM*gasConstantAir))
	return pTrop * math.Exp(-mathx.G0*(altM-tropopauseAltM)/(gasConstantAir*tropopauseTempK))
}

func speedOfSoundMps(altM float64) float64 {
	return math.Sqrt(gamma * gasConstantAir * temperatureK(altM))
}

// FpsFromMach converts a Mach number at the given geometric altitude
// (meters) to true airspeed in feet per second.
func (Atmosphere) FpsFromMach(altM, mach float64) float64 {
	mps := mach * speedOfSoundMps(altM)
	return mps * mathx.FtPerM
}

// FpsFromKtas converts knots true airspeed to feet per second directly
// (altitude-independent by definition of TAS).
func (Atmosphere) FpsFromKtas(ktas float64) float64 {
	return ktas / knotsPerFps
}

// FpsFromKcas converts knots calibrated airspeed at the given geometric
// altitude (meters) to feet per second true airspeed, via the
// incompressible indicated/calibrated-to-true correction using the local
// density ratio (sufficient fidelity for the control cascade's speed-mode
// setpoint conversion; it does not attempt the full compressible
// correction used for precision air-data computers).
func (Atmosphere) FpsFromKcas(altM, kcas float64) float64 {
	rho0 := seaLevelPressPa / (gasConstantAir * seaLevelTempK)
	rho := pressurePa(altM) / (gasConstantAir * temperatureK(altM))
	tasKnots := kcas * math.Sqrt(rho0/rho)
	return Atmosphere{}.FpsFromKtas(tasKnots)
}
