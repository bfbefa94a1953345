// Package pid implements the PID regulator and tabular gain-scheduling
// primitive used throughout the Common Controller (spec.md §3.3, §4.1).
// The algorithm here is grounded bug-for-bug on
// _examples/original_source/.../P6DofPID.{hpp,cpp}: this is the one package
// in the module where the original C++ source, not the Go teacher, is the
// primary reference, because the exact numeric behavior (accumulator
// anti-windup ordering, Kt back-calculation timing) must match precisely.
package pid

import "math"

// Flags selects which anti-windup and filtering features a PID has active.
type Flags uint8

const (
	UseAlpha  Flags = 1 << iota // low-pass filter the derivative
	LimitMax                    // clamp the accumulator to +/- MaxAccum
	ZeroGtMax                    // freeze accumulation when |error| > MaxErrorZero
	ZeroLtMin                    // freeze accumulation when |error| < MinErrorZero
	UseKt                        // Kt anti-windup back-calculation
)

// GainRow is one row of a gain table, keyed by a controlling value
// (typically dynamic pressure).
type GainRow struct {
	ControllingValue float64
	Kp, Ki, Kd       float64
	LowpassAlpha     float64
	MaxAccum         float64
	MaxErrorZero     float64
	MinErrorZero     float64
	Kt               float64
}

// GainTable is an ordered sequence of GainRow, strictly increasing in
// ControllingValue (spec.md §3.3 invariant). At evaluates the table at a
// given controlling value, replicating P6DofPID::CalcPidGainsData exactly:
// zero rows yields all-zero gains, one row is a scalar passthrough, and
// values at-or-beyond either endpoint clamp to that endpoint rather than
// extrapolating.
type GainTable []GainRow

func (t GainTable) At(controllingValue float64) GainRow {
	n := len(t)
	if n == 0 {
		return GainRow{}
	}
	if n == 1 {
		return t[0]
	}
	if controllingValue <= t[0].ControllingValue {
		return t[0]
	}
	if controllingValue >= t[n-1].ControllingValue {
		return t[n-1]
	}

	last := t[0]
	for _, cur := range t {
		if controllingValue < cur.ControllingValue {
			deltaCV := cur.ControllingValue - last.ControllingValue
			frac := (controllingValue - last.ControllingValue) / deltaCV
			return GainRow{
				ControllingValue: controllingValue,
				Kp:               frac*(cur.Kp-last.Kp) + last.Kp,
				Ki:               frac*(cur.Ki-last.Ki) + last.Ki,
				Kd:               frac*(cur.Kd-last.Kd) + last.Kd,
				LowpassAlpha:     frac*(cur.LowpassAlpha-last.LowpassAlpha) + last.LowpassAlpha,
				MaxAccum:         frac*(cur.MaxAccum-last.MaxAccum) + last.MaxAccum,
				MaxErrorZero:     frac*(cur.MaxErrorZero-last.MaxErrorZero) + last.MaxErrorZero,
				MinErrorZero:     frac*(cur.MinErrorZero-last.MinErrorZero) + last.MinErrorZero,
				Kt:               frac*(cur.Kt-last.Kt) + last.Kt,
			}
		}
		last = cur
	}
	// Unreachable given the endpoint checks above, but return the last row
	// rather than a zero value if floating point surprises us.
	return t[n-1]
}

// PID is a single PID regulator with optional tabular gain scheduling
// (spec.md §3.3).
type PID struct {
	GainTable GainTable
	Flags     Flags

	setPoint     float64
	currentValue float64
	currentError float64
	currentDeriv float64
	lastError    float64
	lastDeriv    float64
	errorAccum   float64

	prelimitedOutput float64
	output           float64

	kpContrib, kiContrib, kdContrib float64

	biasActive bool
	bias       float64

	controllingValue float64
}

// SetControllingValue sets the scalar (e.g. dynamic pressure) used to
// interpolate the gain table; it has no effect on a single-row table.
func (p *PID) SetControllingValue(v float64) { p.controllingValue = v }

// SetBias sets a feed-forward value added to the proportional channel,
// held in effect until cleared with SetBias(0).
func (p *PID) SetBias(bias float64) {
	p.bias = bias
	p.biasActive = bias != 0
}

func (p *PID) Bias() (value float64, active bool) { return p.bias, p.biasActive }

// Reset zeroes accumulated error, last error, and last derivative, as done
// when a new autopilot action is installed or the vehicle is destroyed
// (spec.md §4.1 "State machine — per-channel").
func (p *PID) Reset() {
	p.errorAccum = 0
	p.lastError = 0
	p.lastDeriv = 0
	p.prelimitedOutput = 0
	p.output = 0
}

// CalcOutputFromTargetAndCurrent computes a new output from a set point and
// current value, without limiting.
func (p *PID) CalcOutputFromTargetAndCurrent(setPoint, currentValue, dt float64) float64 {
	p.currentValue = currentValue
	p.setPoint = setPoint
	p.currentError = setPoint - currentValue
	return p.getOutputWithLimits(dt, 0, 0, false)
}

// CalcOutputFromTargetAndCurrentWithLimits is as above, clamping the output
// to [minOutput, maxOutput].
func (p *PID) CalcOutputFromTargetAndCurrentWithLimits(setPoint, currentValue, dt, minOutput, maxOutput float64) float64 {
	p.currentValue = currentValue
	p.setPoint = setPoint
	p.currentError = setPoint - currentValue
	return p.getOutputWithLimits(dt, minOutput, maxOutput, true)
}

// CalcOutputFromError is used when the error must be computed by the caller
// (e.g. circular quantities like angles), without limiting.
func (p *PID) CalcOutputFromError(errVal, dt float64) float64 {
	p.setPoint = errVal
	p.currentError = errVal
	return p.getOutputWithLimits(dt, 0, 0, false)
}

// CalcOutputFromErrorWithLimits is as above, clamping the output to
// [minOutput, maxOutput].
func (p *PID) CalcOutputFromErrorWithLimits(errVal, dt, minOutput, maxOutput float64) float64 {
	p.setPoint = errVal
	p.currentError = errVal
	return p.getOutputWithLimits(dt, minOutput, maxOutput, true)
}

func (p *PID) getOutputWithLimits(dt, minOutput, maxOutput float64, useLimits bool) float64 {
	currentDerivative := (p.currentError - p.lastError) / dt
	lastDerivative := p.lastDeriv

	gains := p.GainTable.At(p.controllingValue)

	if p.Flags&UseAlpha != 0 {
		p.currentDeriv = gains.LowpassAlpha*currentDerivative + (1-gains.LowpassAlpha)*lastDerivative
	} else {
		p.currentDeriv = currentDerivative
	}

	allowAccumulation := true
	if p.Flags&ZeroGtMax != 0 && math.Abs(p.currentError) > gains.MaxErrorZero {
		allowAccumulation = false
	}
	if p.Flags&ZeroLtMin != 0 && math.Abs(p.currentError) < gains.MinErrorZero {
		allowAccumulation = false
	}

	// Kt back-calculation reads mOutput/mPrelimitedOutput from the END of
	// the PREVIOUS call, before this call overwrites them below — this
	// ordering is load-bearing (spec.md invariant 2, scenario S5) and must
	// not be reordered to use values computed earlier in this same call.
	effectiveKi := gains.Ki
	if p.Flags&UseKt != 0 {
		errorLimitedOutput := p.output - p.prelimitedOutput
		effectiveKi = gains.Ki + gains.Kt*errorLimitedOutput
	}

	if allowAccumulation {
		p.errorAccum += p.currentError * dt
	}

	if p.Flags&LimitMax != 0 {
		if p.errorAccum < -gains.MaxAccum {
			p.errorAccum = -gains.MaxAccum
		} else if p.errorAccum > gains.MaxAccum {
			p.errorAccum = gains.MaxAccum
		}
	}

	p.kpContrib = gains.Kp * p.currentError
	p.kiContrib = effectiveKi * p.errorAccum
	p.kdContrib = gains.Kd * p.currentDeriv

	p.prelimitedOutput = p.kpContrib + p.kiContrib + p.kdContrib
	if p.biasActive {
		p.prelimitedOutput += p.bias
	}

	p.output = p.prelimitedOutput
	if useLimits {
		if p.output < minOutput {
			p.output = minOutput
		}
		if p.output > maxOutput {
			p.output = maxOutput
		}
	}

	p.lastError = p.currentError
	p.lastDeriv = currentDerivative

	return p.output
}

// Accumulator returns the current accumulated error, for invariant testing.
func (p *PID) Accumulator() float64 { return p.errorAccum }

// Output returns the most recent limited output.
func (p *PID) Output() float64 { return p.output }

// PrelimitedOutput returns the most recent pre-limit output.
func (p *PID) PrelimitedOutput() float64 { return p.prelimitedOutput }
