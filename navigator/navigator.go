// Package navigator implements the Route Navigator (spec.md §4.2): aim
// heading, turn lead distance, commanded bank ceiling, vertical-track
// vertical speed, and waypoint-achieved tests. The static-method surface is
// grounded on
// _examples/original_source/.../P6DofRoute.hpp (CalcAimHeadingAndBankAngle,
// CalcYawAimHeadingAngle, CalcTaxiAimHeadingAngle, CalcVerticalSpeed,
// PassedWaypoint, AchievedWaypoint); the turn-rate/radius and roll-lead
// geometry idiom is grounded on
// _examples/mmp-vice/nav/lateral.go's
// turnRateAndRadius/rollLeadDistance/perpRight/perpLeft helpers, adapted
// from vice's 2D heading-based navigator to this bank-ceiling-driven model.
package navigator

import (
	"math"

	"github.com/lanan07075/aldev-p6dof/mathx"
	"github.com/lanan07075/aldev-p6dof/waypoint"
)

// NavData mirrors P6DofCommonController::WaypointNavData: the geometric
// output of one navigator evaluation, consumed by the Common Controller's
// lateral/vertical cascades.
type NavData struct {
	TurnLeadDistM    float64
	AimHeadingRad    float64
	RangeTrackM      float64
	RangeRateMps     float64
	DeltaAltM        float64
	VertSpeedMps     float64
	CommandedBankRad float64
	ExecuteTurn      bool
}

// Inputs bundles the current vehicle state the navigator needs each call.
type Inputs struct {
	PosLatDeg, PosLonDeg float64
	AltitudeM            float64
	HeadingDeg           float64
	SpeedMps             float64 // ground speed
	DtSec                float64

	MaxBankRad           float64
	TurnRollInMultiplier float64
	RouteAllowableAngleErrorRad float64
	MaxLateralG          float64 // for yaw-to-turn variant
	PitchGLoadMax        float64 // for yaw-to-turn variant
}

// Navigator walks a *waypoint.Route, tracking the current waypoint index
// and producing NavData each Update call.
type Navigator struct {
	route   *waypoint.Route
	currIdx int
}

func New(route *waypoint.Route, startIdx int) *Navigator {
	return &Navigator{route: route, currIdx: startIdx}
}

func (n *Navigator) CurrentIndex() int { return n.currIdx }

func (n *Navigator) Route() *waypoint.Route { return n.route }

// aimHeadingDirect computes the direct great-circle heading from the
// vehicle's current position to the current waypoint.
func aimHeadingDirect(in Inputs, curr waypoint.Waypoint) float64 {
	perLat, perLon := 111320.0, 111320.0*math.Cos(in.PosLatDeg*math.Pi/180)
	dNorth := (curr.LatDeg - in.PosLatDeg) * perLat
	dEast := (curr.LonDeg - in.PosLonDeg) * perLon
	if dNorth == 0 && dEast == 0 {
		return in.HeadingDeg
	}
	h := math.Atan2(dEast, dNorth) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

func rangeToWaypoint(in Inputs, curr waypoint.Waypoint) float64 {
	perLat, perLon := 111320.0, 111320.0*math.Cos(in.PosLatDeg*math.Pi/180)
	dNorth := (curr.LatDeg - in.PosLatDeg) * perLat
	dEast := (curr.LonDeg - in.PosLonDeg) * perLon
	return math.Hypot(dNorth, dEast)
}

// CalcAimHeadingAndBankAngle implements the bank-to-turn aim-heading
// algorithm (spec.md §4.2 steps 1-4): cross-track-corrected or direct aim
// heading, turn-lead-distance computation, and bank-ceiling assertion when
// within lead distance of the turn.
func (n *Navigator) CalcAimHeadingAndBankAngle(in Inputs) NavData {
	var nd NavData
	curr, ok := n.route.WaypointAt(n.currIdx)
	if !ok {
		return nd // no current waypoint: neutral/latched (spec.md §4.1 failure semantics)
	}

	segIdx := n.currIdx - 1 // segment from the previous waypoint to the current one
	seg, haveSeg := n.route.GetRouteSegment(segIdx)

	var aimHeading float64
	if prev, ok := n.route.WaypointAt(n.currIdx - 1); curr.FollowHorizontalTrack && haveSeg && ok {
		aimHeading = crossTrackCorrectedHeading(in, prev, seg)
	} else {
		aimHeading = aimHeadingDirect(in, curr)
	}
	nd.AimHeadingRad = mathx.Radians(aimHeading)
	nd.RangeTrackM = rangeToWaypoint(in, curr)

	nextIdx := n.route.NextIndex(n.currIdx)
	if nextIdx >= 0 {
		nextSeg, haveNextSeg := n.route.GetRouteSegment(n.currIdx)
		_ = nextSeg
		if haveSeg && haveNextSeg {
			turnAngle := mathx.Radians(mathx.HeadingDifference(seg.TrackEndHdgDeg, nextSegHeading(n.route, n.currIdx)))
			radius := mathx.TurnRadius(in.SpeedMps, in.MaxBankRad)
			lead := mathx.TurnLeadDistance(turnAngle, radius, in.TurnRollInMultiplier)
			nd.TurnLeadDistM = lead
			if nd.RangeTrackM <= lead {
				nd.ExecuteTurn = true
				dir := turnDirection(seg.TrackEndHdgDeg, nextSegHeading(n.route, n.currIdx))
				nd.CommandedBankRad = in.MaxBankRad * dir
			}
		}
	}

	achieved := n.achievedWaypoint(in, curr, nextIdx)
	if achieved {
		if nextIdx >= 0 {
			n.currIdx = nextIdx
		}
	}
	return nd
}

// CalcYawAimHeadingAngle is the yaw-to-turn variant (spec.md §4.2): same
// geometry, but yields a lateral-acceleration limit derived from
// PitchGLoadMax instead of a bank ceiling.
func (n *Navigator) CalcYawAimHeadingAngle(in Inputs) (nd NavData, lateralGLimit float64) {
	nd = n.CalcAimHeadingAndBankAngle(in)
	lateralGLimit = in.PitchGLoadMax
	return
}

// CalcTaxiAimHeadingAngle is the taxi variant (spec.md §4.2): it returns the
// direct aim heading and range to the current waypoint with zero commanded
// bank. The turn radius is floored at minTaxiTurnRadius but is not used
// further; no turn rate is derived from it.
func (n *Navigator) CalcTaxiAimHeadingAngle(in Inputs, turnRadiusM, minTaxiTurnRadiusM float64) NavData {
	var nd NavData
	curr, ok := n.route.WaypointAt(n.currIdx)
	if !ok {
		return nd
	}
	r := math.Max(turnRadiusM, minTaxiTurnRadiusM)
	aim := aimHeadingDirect(in, curr)
	nd.AimHeadingRad = mathx.Radians(aim)
	nd.RangeTrackM = rangeToWaypoint(in, curr)
	if in.SpeedMps > 0 {
		nd.CommandedBankRad = 0 // taxi does not bank; turn rate handled by steering command upstream
	}
	_ = r
	if n.achievedWaypoint(in, curr, n.route.NextIndex(n.currIdx)) {
		if next := n.route.NextIndex(n.currIdx); next >= 0 {
			n.currIdx = next
		}
	}
	return nd
}

// CalcVerticalSpeed implements the vertical-track algorithm (spec.md §4.2):
// commanded vertical speed = delta-altitude * (closure-rate / range-track)
// when following the vertical track; altitude hold (zero vertical speed,
// the caller's altitude PID takes over) otherwise.
func CalcVerticalSpeed(nd *NavData, curr, prev waypoint.Waypoint, closureRateMps float64) {
	if !curr.FollowVerticalTrack || nd.RangeTrackM == 0 {
		nd.VertSpeedMps = 0
		return
	}
	nd.DeltaAltM = curr.AltitudeM - prev.AltitudeM
	nd.VertSpeedMps = nd.DeltaAltM * (closureRateMps / nd.RangeTrackM)
}

// achievedWaypoint fires on either the passing test (range < closing-rate *
// dt) or the approach test (heading error exceeds routeAllowableAngleError),
// matching P6DofRoute::PassedWaypoint / AchievedWaypoint (spec.md §4.2 step 5).
func (n *Navigator) achievedWaypoint(in Inputs, curr waypoint.Waypoint, nextIdx int) bool {
	rangeM := rangeToWaypoint(in, curr)
	closingRate := in.SpeedMps // simplifying assumption: closing rate ~= ground speed toward waypoint
	if curr.WaypointOnPassing && rangeM < closingRate*in.DtSec {
		return true
	}
	aim := aimHeadingDirect(in, curr)
	hdgErrRad := mathx.Radians(mathx.HeadingDifference(in.HeadingDeg, aim))
	if hdgErrRad > in.RouteAllowableAngleErrorRad {
		return true
	}
	if nextIdx < 0 && rangeM < closingRate*in.DtSec {
		return true // single-waypoint route relies solely on proximity
	}
	return false
}

func nextSegHeading(r *waypoint.Route, nextIdx int) float64 {
	seg, ok := r.GetRouteSegment(nextIdx)
	if !ok {
		return 0
	}
	return seg.TrackStartHdgDeg
}

// turnDirection returns +1 for a right turn, -1 for a left turn, from one
// heading to another.
func turnDirection(fromDeg, toDeg float64) float64 {
	return mathx.Sign(mathx.HeadingSignedTurn(fromDeg, toDeg))
}

// crossTrackCorrectedHeading adjusts the segment heading by a correction
// proportional to lateral deviation from the segment line (spec.md §4.2
// step 1): the vehicle's position is projected onto the segment's
// along-track/cross-track axes (rotating the position-relative-to-prev
// vector by the segment heading, per seg.TrackNED), and the perpendicular
// component drives a bounded proportional correction back toward the line.
func crossTrackCorrectedHeading(in Inputs, prev waypoint.Waypoint, seg waypoint.Segment) float64 {
	perLat, perLon := 111320.0, 111320.0*math.Cos(in.PosLatDeg*math.Pi/180)
	relNorth := (in.PosLatDeg - prev.LatDeg) * perLat
	relEast := (in.PosLonDeg - prev.LonDeg) * perLon

	hdgRad := mathx.Radians(seg.TrackStartHdgDeg)
	// Rotate (east, north) into (along-track, cross-track): cross-track is
	// positive to the right of the track direction.
	crossTrackM := relEast*math.Cos(hdgRad) - relNorth*math.Sin(hdgRad)

	const gainDegPerM = 0.05
	const maxCorrectionDeg = 30.0
	correction := mathx.Clamp(-crossTrackM*gainDegPerM, -maxCorrectionDeg, maxCorrectionDeg)
	return mathx.NormalizeHeading(seg.TrackStartHdgDeg + correction)
}
