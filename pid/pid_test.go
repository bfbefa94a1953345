package pid

import (
	"math"
	"testing"
)

func TestGainTableEmpty(t *testing.T) {
	var gt GainTable
	g := gt.At(500)
	if g != (GainRow{}) {
		t.Errorf("empty table should give zero gains, got %+v", g)
	}
}

func TestGainTableSingleRow(t *testing.T) {
	gt := GainTable{{ControllingValue: 1000, Kp: 0.5}}
	g := gt.At(99999)
	if g.Kp != 0.5 {
		t.Errorf("single-row table should pass through regardless of controlling value, got Kp=%v", g.Kp)
	}
}

// Scenario S6: Kp table rows at q=1000 psf (Kp=0.5) and q=5000 psf (Kp=0.2).
// At q=3000, expect Kp=0.35 (linear); at q=10000, expect Kp=0.2 (endpoint clamp).
func TestGainTableInterpolationS6(t *testing.T) {
	gt := GainTable{
		{ControllingValue: 1000, Kp: 0.5},
		{ControllingValue: 5000, Kp: 0.2},
	}

	if got := gt.At(3000).Kp; math.Abs(got-0.35) > 1e-9 {
		t.Errorf("At(3000).Kp = %v, want 0.35", got)
	}
	if got := gt.At(10000).Kp; got != 0.2 {
		t.Errorf("At(10000).Kp = %v, want 0.2 (endpoint clamp)", got)
	}
	if got := gt.At(0).Kp; got != 0.5 {
		t.Errorf("At(0).Kp = %v, want 0.5 (endpoint clamp)", got)
	}
}

func TestLimitMaxAccumulator(t *testing.T) {
	p := &PID{
		GainTable: GainTable{{ControllingValue: 0, Kp: 1, Ki: 1, MaxAccum: 2}},
		Flags:     LimitMax,
	}
	for i := 0; i < 100; i++ {
		p.CalcOutputFromTargetAndCurrent(10, 0, 0.1)
	}
	if math.Abs(p.Accumulator()) > 2+1e-9 {
		t.Errorf("accumulator = %v, want |accum| <= 2 (invariant 2)", p.Accumulator())
	}
}

func TestZeroGtMaxFreezesAccumulation(t *testing.T) {
	p := &PID{
		GainTable: GainTable{{ControllingValue: 0, Ki: 1, MaxErrorZero: 5}},
		Flags:     ZeroGtMax,
	}
	p.CalcOutputFromTargetAndCurrent(100, 0, 1.0) // error = 100 > 5, should not accumulate
	if p.Accumulator() != 0 {
		t.Errorf("accumulator = %v, want 0 (frozen by ZeroGtMax)", p.Accumulator())
	}
}

func TestUseAlphaFiltersDerivative(t *testing.T) {
	p := &PID{
		GainTable: GainTable{{ControllingValue: 0, Kd: 1, LowpassAlpha: 0.5}},
		Flags:     UseAlpha,
	}
	p.CalcOutputFromTargetAndCurrent(1, 0, 1) // error=1, lastError=0 -> raw deriv = 1
	out1 := p.Output()
	if out1 != 0.5 { // alpha*1 + (1-alpha)*0 = 0.5
		t.Errorf("first output = %v, want 0.5", out1)
	}
}

func TestOutputClampedToLimits(t *testing.T) {
	p := &PID{GainTable: GainTable{{ControllingValue: 0, Kp: 100}}}
	out := p.CalcOutputFromTargetAndCurrentWithLimits(10, 0, 0.1, -1, 1)
	if out != 1 {
		t.Errorf("output = %v, want clamped to 1", out)
	}
}

func TestResetZeroesState(t *testing.T) {
	p := &PID{GainTable: GainTable{{ControllingValue: 0, Kp: 1, Ki: 1}}}
	p.CalcOutputFromTargetAndCurrent(10, 0, 0.1)
	p.Reset()
	if p.Accumulator() != 0 {
		t.Errorf("accumulator after Reset = %v, want 0", p.Accumulator())
	}
}

func TestKtAntiWindupUsesPriorFrameOutputs(t *testing.T) {
	// Kt should read the output/prelimited-output pair from the END of the
	// previous call, not values computed earlier within this call.
	p := &PID{
		GainTable: GainTable{{ControllingValue: 0, Kp: 1, Ki: 1, Kt: 2}},
		Flags:     UseKt,
	}
	p.CalcOutputFromTargetAndCurrentWithLimits(100, 0, 1, -1, 1) // saturates
	// On the prior call: output=1 (clamped), prelimitedOutput=200 (large positive).
	// errorLimitedOutput = output - prelimited = negative, feeds back to reduce Ki.
	if p.PrelimitedOutput() <= p.Output() {
		t.Fatalf("expected prelimited output to exceed clamped output after saturation")
	}
	// Second call: effectiveKi = Ki + Kt*(1-200) = -397 from the prior call's
	// pair; accum = 200, so prelimited = 100 + (-397*200) = -79300.
	p.CalcOutputFromTargetAndCurrentWithLimits(100, 0, 1, -1, 1)
	if got := p.PrelimitedOutput(); math.Abs(got-(-79300)) > 1e-9 {
		t.Errorf("second-call prelimited output = %v, want -79300 (Kt fed by the prior call's output/prelimited pair)", got)
	}
}
