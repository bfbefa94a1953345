package aerotables

import (
	"bytes"
	"math"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

func TestDefaultSetBuildsCleanly(t *testing.T) {
	s := DefaultSet()
	if s.CLMax(0.5) <= 0 {
		t.Errorf("CLMax(0.5) = %v, want > 0", s.CLMax(0.5))
	}
}

func TestCurveInterpolatesLinearlyBetweenBreakpoints(t *testing.T) {
	c := curve{{X: 0, Y: 0}, {X: 10, Y: 100}}
	if got := c.at(5); math.Abs(got-50) > 1e-9 {
		t.Errorf("at(5) = %v, want 50", got)
	}
}

func TestCurveClampsAtEndpoints(t *testing.T) {
	c := curve{{X: 0, Y: 1}, {X: 10, Y: 2}}
	if got := c.at(-5); got != 1 {
		t.Errorf("at(-5) = %v, want 1 (clamp to first)", got)
	}
	if got := c.at(50); got != 2 {
		t.Errorf("at(50) = %v, want 2 (clamp to last)", got)
	}
}

func TestEffectiveCLAndAlphaDegRoundTrip(t *testing.T) {
	s := DefaultSet()
	alpha := 5.0
	cl := s.EffectiveCL(0.5, alpha)
	got := s.AlphaDeg(0.5, cl)
	if math.Abs(got-alpha) > 0.05 {
		t.Errorf("AlphaDeg(EffectiveCL(alpha)) = %v, want ~%v", got, alpha)
	}
}

func TestEffectiveCLLookupIsMemoized(t *testing.T) {
	s := DefaultSet()
	first := s.EffectiveCL(0.5, 5.0)
	second := s.EffectiveCL(0.5, 5.0)
	if first != second {
		t.Errorf("repeated EffectiveCL calls with identical inputs diverged: %v vs %v", first, second)
	}
}

func TestLoadRoundTripsZstdMsgpackPayload(t *testing.T) {
	raw := rawTables{
		CLMax:       []breakpoint{{X: 0, Y: 1.0}},
		CLMin:       []breakpoint{{X: 0, Y: -1.0}},
		AlphaMaxDeg: []breakpoint{{X: 0, Y: 15}},
		AlphaMinDeg: []breakpoint{{X: 0, Y: -10}},
		MachBreaks:  []float64{0.0},
		CLvsAlpha:   [][]breakpoint{{{X: -10, Y: -0.5}, {X: 10, Y: 0.5}}},
		StickForZeroMoment: [][]breakpoint{
			{{X: -10, Y: -0.1}, {X: 10, Y: 0.1}},
		},
	}
	var packed bytes.Buffer
	if err := msgpack.NewEncoder(&packed).Encode(raw); err != nil {
		t.Fatalf("msgpack encode: %v", err)
	}
	var compressed bytes.Buffer
	zw, err := zstd.NewWriter(&compressed)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	if _, err := zw.Write(packed.Bytes()); err != nil {
		t.Fatalf("zstd write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}

	s, err := Load(compressed.Bytes())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.CLMax(0) != 1.0 {
		t.Errorf("CLMax(0) = %v, want 1.0", s.CLMax(0))
	}
}

func TestLoadRejectsNonIncreasingMachBreaks(t *testing.T) {
	raw := rawTables{
		MachBreaks:         []float64{1.0, 0.5},
		CLvsAlpha:          [][]breakpoint{{}, {}},
		StickForZeroMoment: [][]breakpoint{{}, {}},
	}
	if _, err := fromRaw(raw); err == nil {
		t.Fatal("expected fromRaw to reject non-increasing mach_breaks")
	}
}

func TestAtmosphereFpsFromMachIncreasesWithMach(t *testing.T) {
	a := Atmosphere{}
	low := a.FpsFromMach(5000, 0.5)
	high := a.FpsFromMach(5000, 0.9)
	if high <= low {
		t.Errorf("FpsFromMach(0.9) = %v, want > FpsFromMach(0.5) = %v", high, low)
	}
}

func TestAtmosphereFpsFromKtasIsAltitudeIndependent(t *testing.T) {
	a := Atmosphere{}
	if a.FpsFromKtas(100) != a.FpsFromKtas(100) {
		t.Error("FpsFromKtas should be a pure function of ktas")
	}
}

func TestAtmosphereFpsFromKcasExceedsKtasAtAltitude(t *testing.T) {
	a := Atmosphere{}
	// At altitude, calibrated airspeed under-reads true airspeed, so the
	// converted true airspeed should exceed the naive KTAS conversion of
	// the same numeric value.
	cas := a.FpsFromKcas(8000, 300)
	tas := a.FpsFromKtas(300)
	if cas <= tas {
		t.Errorf("FpsFromKcas(8000, 300) = %v, want > FpsFromKtas(300) = %v", cas, tas)
	}
}
