package monitor

// DedupTracker remembers which slot identifiers were already announced
// today, so a slot that stays open across polls is only reported once.
// It is owned by the monitor loop and not safe for concurrent use.
type DedupTracker struct {
	day  string
	seen map[string]struct{}
}

// NewDedupTracker creates an empty tracker.
func NewDedupTracker() *DedupTracker {
	return &DedupTracker{seen: make(map[string]struct{})}
}

// Rollover clears the set when the calendar day has advanced, reporting
// whether a reset happened.
func (t *DedupTracker) Rollover(day string) bool {
	if t.day == day {
		return false
	}
	t.day = day
	t.seen = make(map[string]struct{})
	return true
}

// ShouldNotify reports whether the identifier is new today and marks it
// as seen.
func (t *DedupTracker) ShouldNotify(id string) bool {
	if _, ok := t.seen[id]; ok {
		return false
	}
	t.seen[id] = struct{}{}
	return true
}
