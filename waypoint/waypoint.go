// Package waypoint implements the waypoint and route data model (spec.md
// §3.4), grounded on
// _examples/original_source/.../P6DofWaypoint.{hpp,cpp} and
// P6DofRoute.hpp.
package waypoint

import (
	"fmt"

	"github.com/lanan07075/aldev-p6dof/util"
)

type SpeedType int

const (
	SpeedMach SpeedType = iota
	SpeedTAS_KTS
	SpeedCAS_KTS
	SpeedFPS
	SpeedMPH
	SpeedMPS
)

type TurnGType int

const (
	TurnGLateral TurnGType = iota
	TurnGPilot
)

type Speed struct {
	Type  SpeedType
	Value float64
}

type TurnG struct {
	Type  TurnGType
	Value float64
}

// Waypoint is (lat, lon, altitude) plus the typed speed/turn-g limit and
// routing metadata described in spec.md §3.4.
type Waypoint struct {
	LatDeg, LonDeg float64
	AltitudeM      float64

	Speed Speed
	MaxG  TurnG

	Label string
	GoTo  string

	FollowHorizontalTrack bool
	FollowVerticalTrack   bool
	WaypointOnPassing     bool

	ID int
}

// New returns a waypoint at the given position with the original source's
// defaults: a 2-g (60-degree bank) turn limit, 400 KTAS, horizontal track
// followed, vertical track not followed, achieved on approach (not
// passing).
func New(latDeg, lonDeg, altitudeM float64) Waypoint {
	return Waypoint{
		LatDeg: latDeg, LonDeg: lonDeg, AltitudeM: altitudeM,
		Speed:                 Speed{Type: SpeedTAS_KTS, Value: 400},
		MaxG:                  TurnG{Type: TurnGPilot, Value: 2.0},
		FollowHorizontalTrack: true,
		ID:                    -1,
	}
}

// SamePosition reports whether two waypoints share the same (lat, lon,
// alt), used to reject identical adjacent waypoints (spec.md §3.4
// invariant, §8 boundary behavior 10).
func SamePosition(a, b Waypoint) bool {
	return a.LatDeg == b.LatDeg && a.LonDeg == b.LonDeg && a.AltitudeM == b.AltitudeM
}

// Segment is the precomputed geometric record connecting two adjacent
// waypoints (spec.md §3.4). TrackNED is the 3x3 earth-NED transform matrix
// from the original's sRouteSegment::earthNED.
type Segment struct {
	TrackDistanceM   float64
	TrackStartHdgDeg float64
	TrackEndHdgDeg   float64
	SlantRangeM      float64
	SlopeRad         float64
	TrackNED         [3][3]float64
	TrackVector      [3]float64 // from prev to curr waypoint, NED
}

// Route is an ordered sequence of waypoints with a precomputed segment map,
// keyed by the index of the segment's origin waypoint — segment[i] connects
// waypoint i to waypoint i+1, mirroring the original's "segment from A to B
// keyed by A" convention (P6DofRoute.hpp).
type Route struct {
	waypoints []Waypoint
	segments  map[int]Segment
}

// NewRoute builds a route from an ordered list of waypoints, rejecting
// identical adjacent waypoints (spec.md invariant) and computing the
// segment map.
func NewRoute(waypoints []Waypoint) (*Route, error) {
	for i := 1; i < len(waypoints); i++ {
		if SamePosition(waypoints[i-1], waypoints[i]) {
			return nil, fmt.Errorf("waypoint %d is identical in position to waypoint %d", i, i-1)
		}
	}
	r := &Route{waypoints: append([]Waypoint(nil), waypoints...)}
	r.ComputeSegmentMap()
	return r, nil
}

func (r *Route) NumWaypoints() int { return len(r.waypoints) }

func (r *Route) WaypointAt(i int) (Waypoint, bool) {
	if i < 0 || i >= len(r.waypoints) {
		return Waypoint{}, false
	}
	return r.waypoints[i], true
}

// IndexOfLabel returns the index of the waypoint with the given label, used
// to resolve a GoTo (spec.md §4.2 edge cases). Returns -1 if unmatched.
func (r *Route) IndexOfLabel(label string) int {
	for i, w := range r.waypoints {
		if w.Label == label {
			return i
		}
	}
	return -1
}

// NextIndex returns the index that follows i: normally i+1, or the
// GoTo-labeled index if the waypoint at i carries a GoTo. Returns -1 if i is
// the last waypoint with no GoTo, or if a GoTo label is unmatched
// (terminating the route, per spec.md §4.2).
func (r *Route) NextIndex(i int) int {
	w, ok := r.WaypointAt(i)
	if !ok {
		return -1
	}
	if w.GoTo != "" {
		return r.IndexOfLabel(w.GoTo)
	}
	if i+1 < len(r.waypoints) {
		return i + 1
	}
	return -1
}

// AddWaypointToRouteEnd appends a waypoint and regenerates the segment map,
// rejecting it if identical in position to the current last waypoint.
func (r *Route) AddWaypointToRouteEnd(w Waypoint) error {
	if n := len(r.waypoints); n > 0 && SamePosition(r.waypoints[n-1], w) {
		return fmt.Errorf("waypoint identical in position to the route's current last waypoint")
	}
	r.waypoints = append(r.waypoints, w)
	r.ComputeSegmentMap()
	return nil
}

// ComputeSegmentMap regenerates geometry for every adjacent waypoint pair.
// Called automatically whenever the route mutates (spec.md §3.4 invariant).
func (r *Route) ComputeSegmentMap() {
	r.segments = make(map[int]Segment, len(r.waypoints))
	for i := 0; i+1 < len(r.waypoints); i++ {
		r.segments[i] = computeSegmentGeometry(r.waypoints[i], r.waypoints[i+1])
	}
}

// GetRouteSegment returns the segment originating at waypoint index i
// (i.e. the segment from waypoint i to waypoint i+1).
func (r *Route) GetRouteSegment(i int) (Segment, bool) {
	s, ok := r.segments[i]
	return s, ok
}

// Library is a named-fix lookup (GoTo label -> waypoint), order-preserving
// so declared fixes iterate/dump in the order they were declared, grounded
// on the teacher's util.OrderedMap-backed scenario fix-library pattern.
type Library struct {
	order util.OrderedMap
}

func NewLibrary() *Library {
	l := &Library{order: util.NewOrderedMap()}
	return l
}

func (l *Library) Add(label string, w Waypoint) {
	l.order.Set(label, w)
}

func (l *Library) Get(label string) (Waypoint, bool) {
	v, ok := l.order.Get(label)
	if !ok {
		return Waypoint{}, false
	}
	w, ok := v.(Waypoint)
	return w, ok
}

func (l *Library) Labels() []string {
	return l.order.Keys()
}
