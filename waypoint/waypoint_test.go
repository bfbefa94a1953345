package waypoint

import "testing"

func TestNewRouteRejectsIdenticalAdjacentWaypoints(t *testing.T) {
	w := New(10, 20, 1000)
	_, err := NewRoute([]Waypoint{w, w})
	if err == nil {
		t.Fatal("expected an error for identical adjacent waypoints (invariant, boundary behavior 10)")
	}
}

func TestNewRouteComputesSegments(t *testing.T) {
	a := New(0, 0, 1000)
	b := New(0, 1, 1000) // due east
	r, err := NewRoute([]Waypoint{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seg, ok := r.GetRouteSegment(0)
	if !ok {
		t.Fatal("expected segment 0 to exist")
	}
	if seg.TrackDistanceM <= 0 {
		t.Errorf("TrackDistanceM = %v, want > 0", seg.TrackDistanceM)
	}
	if diff := seg.TrackStartHdgDeg - 90; diff < -1 || diff > 1 {
		t.Errorf("heading = %v, want ~90 (due east)", seg.TrackStartHdgDeg)
	}
}

func TestGoToCycle(t *testing.T) {
	a := New(0, 0, 1000)
	a.Label = "IP"
	b := New(0, 1, 1000)
	c := New(0, 2, 1000)
	c.GoTo = "IP"
	r, err := NewRoute([]Waypoint{a, b, c})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.NextIndex(2); got != 0 {
		t.Errorf("NextIndex(2) = %v, want 0 (GoTo cycle back to IP)", got)
	}
}

func TestUnmatchedGoToTerminatesRoute(t *testing.T) {
	a := New(0, 0, 1000)
	b := New(0, 1, 1000)
	b.GoTo = "nonexistent"
	r, err := NewRoute([]Waypoint{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.NextIndex(1); got != -1 {
		t.Errorf("NextIndex(1) = %v, want -1 (unmatched GoTo terminates route)", got)
	}
}

func TestLibraryOrderPreserved(t *testing.T) {
	lib := NewLibrary()
	lib.Add("ALPHA", New(1, 1, 0))
	lib.Add("BRAVO", New(2, 2, 0))
	lib.Add("CHARLIE", New(3, 3, 0))

	labels := lib.Labels()
	want := []string{"ALPHA", "BRAVO", "CHARLIE"}
	if len(labels) != len(want) {
		t.Fatalf("got %v labels, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %v, want %v", i, labels[i], want[i])
		}
	}
}
