package bases

import "time"

// occupant is the entity currently retained for a slot and the timestamp it
// was retained under.
type occupant struct {
	seenAt time.Time
	name   string
}

// Tracker decides retention between a newly observed entity and the entity
// currently retained in the same slot. It is rebuilt from scratch for every
// reconciliation pass; nothing survives across runs.
type Tracker struct {
	retained map[Slot]occupant
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{retained: make(map[Slot]occupant)}
}

// Observe registers name under slot and returns the name that lost the
// comparison, if any. Each call evicts at most one entity, and an entity is
// never returned twice.
//
// Timestamps are truncated to second granularity before comparison. On equal
// truncated timestamps the entity observed later in listing order displaces
// the earlier one ("last observed among equals wins"); this is a defined
// policy, not an accident of listing order.
func (t *Tracker) Observe(slot Slot, seenAt time.Time, name string) (string, bool) {
	seenAt = seenAt.Truncate(time.Second)

	cur, ok := t.retained[slot]
	if !ok {
		t.retained[slot] = occupant{seenAt: seenAt, name: name}
		return "", false
	}

	if !seenAt.Before(cur.seenAt) {
		t.retained[slot] = occupant{seenAt: seenAt, name: name}
		return cur.name, true
	}
	return name, true
}

// Len returns the number of slots with a retained entity.
func (t *Tracker) Len() int {
	return len(t.retained)
}

// Retained reports whether name is the current occupant of slot.
func (t *Tracker) Retained(slot Slot, name string) bool {
	cur, ok := t.retained[slot]
	return ok && cur.name == name
}
