// Package mathx provides the scalar and 2D geometric helpers shared by the
// flight-control packages: clamping, linear interpolation, heading
// arithmetic, and perpendicular-vector construction.
package mathx

import (
	"math"

	"golang.org/x/exp/constraints"
)

const (
	Pi       = math.Pi
	TwoPi    = 2 * math.Pi
	PiOver2  = math.Pi / 2
	G0       = 9.80665 // m/s^2, standard gravity
	FtPerM   = 3.280839895
	MPerFt   = 1 / FtPerM
	NMPerM   = 1 / 1852.0
	MPerNM   = 1852.0
)

// Clamp restricts x to the closed interval [lo, hi].
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp linearly interpolates between a and b at fraction x in [0,1].
func Lerp(x, a, b float64) float64 {
	return (1-x)*a + x*b
}

func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

func Sqr[V constraints.Integer | constraints.Float](v V) V {
	return v * v
}

func Degrees(r float64) float64 { return r * 180 / math.Pi }
func Radians(d float64) float64 { return d * math.Pi / 180 }

// NormalizeHeading reduces a heading in degrees to [0,360).
func NormalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// HeadingDifference returns the unsigned minimum angular difference between
// two headings in degrees, in the range [0,180].
func HeadingDifference(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// HeadingSignedTurn returns the signed turn (in degrees, positive is
// clockwise/right) needed to go from cur to target.
func HeadingSignedTurn(cur, target float64) float64 {
	rot := NormalizeHeading(180 - target)
	return 180 - NormalizeHeading(cur+rot)
}

// Point2 is a 2D point or vector, typically (east, north) meters or
// (lon, lat) degrees depending on context.
type Point2 struct {
	X, Y float64
}

func Add2(a, b Point2) Point2   { return Point2{a.X + b.X, a.Y + b.Y} }
func Sub2(a, b Point2) Point2   { return Point2{a.X - b.X, a.Y - b.Y} }
func Scale2(a Point2, s float64) Point2 { return Point2{a.X * s, a.Y * s} }
func Dot2(a, b Point2) float64  { return a.X*b.X + a.Y*b.Y }
func Length2(a Point2) float64  { return math.Sqrt(Dot2(a, a)) }

func Distance2(a, b Point2) float64 { return Length2(Sub2(b, a)) }

func Normalize2(a Point2) Point2 {
	l := Length2(a)
	if l == 0 {
		return Point2{}
	}
	return Scale2(a, 1/l)
}

// PerpRight returns the unit vector 90 degrees clockwise (to the right) of
// the heading given in degrees (0 = north, 90 = east).
func PerpRight(headingDeg float64) Point2 {
	h := Radians(headingDeg + 90)
	return Point2{math.Sin(h), math.Cos(h)}
}

// PerpLeft returns the unit vector 90 degrees counter-clockwise (to the
// left) of the heading given in degrees.
func PerpLeft(headingDeg float64) Point2 {
	h := Radians(headingDeg - 90)
	return Point2{math.Sin(h), math.Cos(h)}
}

// HeadingVector returns the unit vector pointing along headingDeg (0 = north,
// 90 = east), in (east, north) order.
func HeadingVector(headingDeg float64) Point2 {
	h := Radians(headingDeg)
	return Point2{math.Sin(h), math.Cos(h)}
}

// VectorHeading returns the heading in degrees, in [0,360), of the vector v
// expressed as (east, north).
func VectorHeading(v Point2) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return NormalizeHeading(Degrees(math.Atan2(v.X, v.Y)))
}

// TurnRadius returns the radius of a coordinated turn (v^2 / (g*tan(bank))).
// Returns +Inf when bank is zero (wings level, infinite radius).
func TurnRadius(speedMps, bankRad float64) float64 {
	t := math.Tan(bankRad)
	if t == 0 {
		return math.Inf(1)
	}
	return Sqr(speedMps) / (G0 * t)
}

// TurnRadiusFromLateralG returns the turn radius implied by a lateral
// g-load limit.
func TurnRadiusFromLateralG(speedMps, lateralG float64) float64 {
	if lateralG == 0 {
		return math.Inf(1)
	}
	return Sqr(speedMps) / (G0 * lateralG)
}

// TurnLeadDistance returns the roll-in lead distance R*tan(theta/2)*mult.
func TurnLeadDistance(turnAngleRad, radius, rollInMultiplier float64) float64 {
	return radius * math.Tan(turnAngleRad/2) * rollInMultiplier
}
