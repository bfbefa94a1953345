package mathx

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		x, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}
	for _, c := range cases {
		if got := Clamp(c.x, c.lo, c.hi); got != c.want {
			t.Errorf("Clamp(%v,%v,%v) = %v, want %v", c.x, c.lo, c.hi, got, c.want)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0.5, 0, 10); got != 5 {
		t.Errorf("Lerp(0.5,0,10) = %v, want 5", got)
	}
	if got := Lerp(0, 3, 7); got != 3 {
		t.Errorf("Lerp(0,3,7) = %v, want 3", got)
	}
	if got := Lerp(1, 3, 7); got != 7 {
		t.Errorf("Lerp(1,3,7) = %v, want 7", got)
	}
}

func TestNormalizeHeading(t *testing.T) {
	cases := []struct{ h, want float64 }{
		{-10, 350},
		{370, 10},
		{0, 0},
		{360, 0},
	}
	for _, c := range cases {
		if got := NormalizeHeading(c.h); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("NormalizeHeading(%v) = %v, want %v", c.h, got, c.want)
		}
	}
}

func TestHeadingDifference(t *testing.T) {
	if got := HeadingDifference(350, 10); math.Abs(got-20) > 1e-9 {
		t.Errorf("HeadingDifference(350,10) = %v, want 20", got)
	}
	if got := HeadingDifference(10, 350); math.Abs(got-20) > 1e-9 {
		t.Errorf("HeadingDifference(10,350) = %v, want 20", got)
	}
}

func TestTurnRadiusZeroBank(t *testing.T) {
	r := TurnRadius(100, 0)
	if !math.IsInf(r, 1) {
		t.Errorf("TurnRadius with zero bank = %v, want +Inf", r)
	}
}

func TestTurnLeadDistance(t *testing.T) {
	// theta = 90deg, radius = 1000, mult = 1 -> 1000*tan(45deg) = 1000
	got := TurnLeadDistance(Pi/2, 1000, 1)
	if math.Abs(got-1000) > 1e-6 {
		t.Errorf("TurnLeadDistance = %v, want 1000", got)
	}
}

func TestPerpVectors(t *testing.T) {
	right := PerpRight(0) // heading north -> right is east
	if math.Abs(right.X-1) > 1e-9 || math.Abs(right.Y) > 1e-9 {
		t.Errorf("PerpRight(0) = %+v, want (1,0)", right)
	}
	left := PerpLeft(0)
	if math.Abs(left.X+1) > 1e-9 || math.Abs(left.Y) > 1e-9 {
		t.Errorf("PerpLeft(0) = %+v, want (-1,0)", left)
	}
}
