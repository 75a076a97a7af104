package sentiment

import "sync"

// Ledger accumulates polarity deltas per record key in memory. Concurrent
// workers add to the same key safely; N concurrent single increments on one
// key net exactly N.
type Ledger struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

type entry struct {
	mu     sync.Mutex
	counts Counts
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[Key]*entry),
	}
}

// Add accumulates a delta onto a key's counts. The map lock is held only
// for entry lookup; increments contend per key.
func (l *Ledger) Add(key Key, delta Counts) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}
	l.mu.Unlock()

	e.mu.Lock()
	e.counts = e.counts.Add(delta)
	e.mu.Unlock()
}

// Get returns the accumulated counts for a key.
func (l *Ledger) Get(key Key) Counts {
	l.mu.Lock()
	e, ok := l.entries[key]
	l.mu.Unlock()

	if !ok {
		return Counts{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counts
}

// Drain removes and returns all accumulated counts, leaving the ledger
// empty for the next batch.
func (l *Ledger) Drain() map[Key]Counts {
	l.mu.Lock()
	entries := l.entries
	l.entries = make(map[Key]*entry)
	l.mu.Unlock()

	drained := make(map[Key]Counts, len(entries))
	for key, e := range entries {
		e.mu.Lock()
		drained[key] = e.counts
		e.mu.Unlock()
	}
	return drained
}
