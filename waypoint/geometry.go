package waypoint

import "math"

const earthRadiusM = 6371000.0

// metersPerDegree gives a local flat-earth approximation adequate for
// the route segment geometry the navigator needs (lead distances, turn
// radii); the core does not perform its own geodesy otherwise (spec.md §6.1
// treats full kinematic state as an opaque external input).
func metersPerDegree(latDeg float64) (perLat, perLon float64) {
	latRad := latDeg * math.Pi / 180
	perLat = earthRadiusM * math.Pi / 180
	perLon = perLat * math.Cos(latRad)
	return
}

// headingAndDistance returns the initial heading (degrees, 0=north) and
// great-circle-approximate distance (meters) from a to b.
func headingAndDistance(a, b Waypoint) (headingDeg, distanceM float64) {
	perLat, perLon := metersPerDegree((a.LatDeg + b.LatDeg) / 2)
	dNorth := (b.LatDeg - a.LatDeg) * perLat
	dEast := (b.LonDeg - a.LonDeg) * perLon
	distanceM = math.Hypot(dNorth, dEast)
	headingDeg = math.Atan2(dEast, dNorth) * 180 / math.Pi
	if headingDeg < 0 {
		headingDeg += 360
	}
	return
}

func computeSegmentGeometry(prev, curr Waypoint) Segment {
	hdg, dist := headingAndDistance(prev, curr)
	slant := math.Hypot(dist, curr.AltitudeM-prev.AltitudeM)
	var slope float64
	if dist != 0 {
		slope = math.Atan2(curr.AltitudeM-prev.AltitudeM, dist)
	}

	hdgRad := hdg * math.Pi / 180
	trackVector := [3]float64{dist * math.Cos(hdgRad), dist * math.Sin(hdgRad), prev.AltitudeM - curr.AltitudeM}

	// NED transform: rows are the North/East/Down unit vectors expressed in
	// the segment's own along-track/cross-track/down frame, i.e. a simple
	// rotation by the track heading about the down axis.
	c, s := math.Cos(hdgRad), math.Sin(hdgRad)
	ned := [3][3]float64{
		{c, -s, 0},
		{s, c, 0},
		{0, 0, 1},
	}

	return Segment{
		TrackDistanceM:   dist,
		TrackStartHdgDeg: hdg,
		TrackEndHdgDeg:   hdg,
		SlantRangeM:      slant,
		SlopeRad:         slope,
		TrackNED:         ned,
		TrackVector:      trackVector,
	}
}

// GetDistanceBetweenWaypoints returns the start heading, end heading, and
// distance between two waypoints (P6DofRoute::GetDistanceBetweenWaypoints_m).
func GetDistanceBetweenWaypoints(a, b Waypoint) (startHdgDeg, endHdgDeg, distanceM float64) {
	hdg, dist := headingAndDistance(a, b)
	return hdg, hdg, dist
}
