package aerotables

// DefaultSet returns a reasonable, fully-populated built-in table set for
// use when no data file is supplied (tests, the CLI harness's default
// scenarios). It describes a generic supersonic fighter-class polar: linear
// CL-vs-alpha below stall, decreasing CLMax with Mach past transonic.
func DefaultSet() *Set {
	raw := rawTables{
		CLMax: []breakpoint{
			{X: 0.0, Y: 1.4}, {X: 0.9, Y: 1.3}, {X: 1.2, Y: 0.9}, {X: 2.0, Y: 0.6},
		},
		CLMin: []breakpoint{
			{X: 0.0, Y: -1.0}, {X: 0.9, Y: -0.9}, {X: 1.2, Y: -0.6}, {X: 2.0, Y: -0.4},
		},
		AlphaMaxDeg: []breakpoint{
			{X: 0.0, Y: 20.0}, {X: 0.9, Y: 18.0}, {X: 1.2, Y: 12.0}, {X: 2.0, Y: 8.0},
		},
		AlphaMinDeg: []breakpoint{
			{X: 0.0, Y: -15.0}, {X: 0.9, Y: -13.0}, {X: 1.2, Y: -9.0}, {X: 2.0, Y: -6.0},
		},
		MachBreaks: []float64{0.0, 0.9, 1.2, 2.0},
		CLvsAlpha: [][]breakpoint{
			linearCL(0.090),
			linearCL(0.085),
			linearCL(0.060),
			linearCL(0.040),
		},
		StickForZeroMoment: [][]breakpoint{
			linearTrim(0.010),
			linearTrim(0.012),
			linearTrim(0.018),
			linearTrim(0.022),
		},
	}
	set, err := fromRaw(raw)
	if err != nil {
		// DefaultSet's breakpoints are fixed at compile time and verified
		// by TestDefaultSetBuildsCleanly; a failure here means the
		// built-in table itself is malformed.
		panic(err)
	}
	return set
}

// linearCL builds an alpha(-20..20 deg)->CL curve of the given slope
// (per-degree lift-curve slope), passing through the origin.
func linearCL(slopePerDeg float64) []breakpoint {
	return []breakpoint{
		{X: -20, Y: -20 * slopePerDeg},
		{X: 0, Y: 0},
		{X: 20, Y: 20 * slopePerDeg},
	}
}

// linearTrim builds an alpha->stick-for-zero-moment curve of the given
// slope, passing through the origin (neutral stick at zero alpha).
func linearTrim(slopePerDeg float64) []breakpoint {
	return []breakpoint{
		{X: -20, Y: -20 * slopePerDeg},
		{X: 0, Y: 0},
		{X: 20, Y: 20 * slopePerDeg},
	}
}
