package autopilot

import (
	"math"
	"testing"
)

func TestSetRollHeadingConvertsToRadians(t *testing.T) {
	var a Action
	a.SetRollHeading(90)
	if math.Abs(a.HeadingRad-math.Pi/2) > 1e-9 {
		t.Errorf("HeadingRad = %v, want pi/2", a.HeadingRad)
	}
	if a.LateralMode != LateralHeading {
		t.Errorf("LateralMode = %v, want LateralHeading", a.LateralMode)
	}
}

func TestValidRequiresWaypointsWhenWaypointMode(t *testing.T) {
	var a Action
	a.LateralMode = LateralWaypoint
	if a.Valid() {
		t.Error("expected Valid() == false without waypoint refs installed")
	}
	a.SetNavWaypoints(WaypointRef{}, WaypointRef{}, WaypointRef{})
	if !a.Valid() {
		t.Error("expected Valid() == true once waypoint refs are installed")
	}
}

func TestValidWithoutWaypointMode(t *testing.T) {
	var a Action
	a.SetRollHeading(45)
	a.SetAltitude(1000)
	if !a.Valid() {
		t.Error("expected Valid() == true for a non-waypoint action")
	}
}
