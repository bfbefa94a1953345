package control

// loopSchedule implements one channel's inner/middle/outer cascade rate
// bookkeeping (spec.md §4.1 "Cascaded loop rates" / "State machine —
// per-channel"): the inner loop executes every Update, the middle loop
// every MiddleFactor updates, the outer loop every MiddleFactor*OuterFactor
// updates. Grounded on P6DofCommonController's mLateralMiddleLoopFactor /
// mLateralOuterLoopFactor and the mExecute*Loop booleans computed each
// Update from plain modulo counters — no coroutine/async primitive is
// involved (spec.md §9 "Coroutine-like middle/outer loop bookkeeping").
type loopSchedule struct {
	MiddleFactor uint8 // [1,254]
	OuterFactor  uint8 // [1,254]

	innerCount uint32
}

func newLoopSchedule(middleFactor, outerFactor uint8) loopSchedule {
	if middleFactor == 0 {
		middleFactor = 1
	}
	if outerFactor == 0 {
		outerFactor = 1
	}
	return loopSchedule{MiddleFactor: middleFactor, OuterFactor: outerFactor}
}

// advance increments the schedule's counter and reports which loops execute
// this frame. The inner loop always executes.
func (s *loopSchedule) advance() (executeMiddle, executeOuter bool) {
	m := uint32(s.MiddleFactor)
	o := uint32(s.OuterFactor)
	executeMiddle = s.innerCount%m == 0
	executeOuter = executeMiddle && (s.innerCount/m)%o == 0
	s.innerCount++
	return executeMiddle, executeOuter
}

func (s *loopSchedule) reset() { s.innerCount = 0 }
