package collide

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/zeebo/xxh3"
)

// State is the kinematic snapshot of both blocks at one instant.
// P2 carries the fixed render offset (HeavyOffset); it is not a physical position.
type State struct {
	P1, V1 float64 // light block, next to the wall
	P2, V2 float64 // heavy block
}

// Entry is one timeline row. Collisions counts the collisions that have
// happened up to and including this snapshot.
type Entry struct {
	Time       float64
	State      State
	Collisions int
}

// Timeline maps elapsed simulated time to snapshots.
// It is appended to in strictly increasing time order by a single writer,
// then only read. Reads are safe for concurrent use once writing is done.
type Timeline struct {
	entries []Entry
}

// NewTimeline creates an empty timeline with room for n entries.
func NewTimeline(n int) *Timeline {
	return &Timeline{entries: make([]Entry, 0, n)}
}

// Append adds a snapshot at time t. t must be finite and greater than every
// key already stored. Each entry after the first counts as one collision.
func (tl *Timeline) Append(t float64, s State) error {
	if err := tl.checkKey(t); err != nil {
		return err
	}
	if n := len(tl.entries); n > 0 && t <= tl.entries[n-1].Time {
		return fmt.Errorf("%w: %v after %v", ErrOutOfOrder, t, tl.entries[n-1].Time)
	}
	tl.entries = append(tl.entries, Entry{Time: t, State: s, Collisions: len(tl.entries)})
	return nil
}

// insertOrReplace is Append for the simulator: a key equal to the last one
// replaces that snapshot instead of failing, since a step too small to move
// the clock still lands on the same instant. Keys below the last one are
// rejected.
func (tl *Timeline) insertOrReplace(t float64, s State, collisions int) (replaced bool, err error) {
	if err := tl.checkKey(t); err != nil {
		return false, err
	}
	if n := len(tl.entries); n > 0 {
		last := &tl.entries[n-1]
		switch {
		case t < last.Time:
			return false, fmt.Errorf("%w: %v after %v", ErrOutOfOrder, t, last.Time)
		case t == last.Time:
			last.State = s
			last.Collisions = collisions
			return true, nil
		}
	}
	tl.entries = append(tl.entries, Entry{Time: t, State: s, Collisions: collisions})
	return false, nil
}

func (tl *Timeline) checkKey(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: got %v", ErrOutOfOrder, t)
	}
	return nil
}

// Len returns the number of snapshots.
func (tl *Timeline) Len() int {
	return len(tl.entries)
}

// First returns the earliest snapshot.
func (tl *Timeline) First() (Entry, bool) {
	if len(tl.entries) == 0 {
		return Entry{}, false
	}
	return tl.entries[0], true
}

// Last returns the latest snapshot.
func (tl *Timeline) Last() (Entry, bool) {
	if len(tl.entries) == 0 {
		return Entry{}, false
	}
	return tl.entries[len(tl.entries)-1], true
}

// Entries returns a copy of all snapshots in time order.
func (tl *Timeline) Entries() []Entry {
	out := make([]Entry, len(tl.entries))
	copy(out, tl.entries)
	return out
}

// Index returns the position of the snapshot with the greatest key <= t,
// or -1 when t precedes the first key.
func (tl *Timeline) Index(t float64) int {
	// First index whose key is > t; its predecessor is the floor.
	i := sort.Search(len(tl.entries), func(i int) bool {
		return tl.entries[i].Time > t
	})
	return i - 1
}

// At returns the latest snapshot at or before t.
func (tl *Timeline) At(t float64) (Entry, bool) {
	i := tl.Index(t)
	if i < 0 {
		return Entry{}, false
	}
	return tl.entries[i], true
}

// Exact returns the snapshot stored at exactly t.
func (tl *Timeline) Exact(t float64) (Entry, bool) {
	e, ok := tl.At(t)
	if !ok || e.Time != t {
		return Entry{}, false
	}
	return e, true
}

// Positions extrapolates both display positions at t from the latest
// snapshot at or before t.
func (tl *Timeline) Positions(t float64) (x1, x2 float64, ok bool) {
	e, ok := tl.At(t)
	if !ok {
		return 0, 0, false
	}
	dt := t - e.Time
	return e.State.P1 + e.State.V1*dt, e.State.P2 + e.State.V2*dt, true
}

// Fingerprint returns an xxh3 digest of every key and snapshot, so two runs
// can be compared without keeping both timelines around.
func (tl *Timeline) Fingerprint() uint64 {
	h := xxh3.New()
	var buf [5 * 8]byte
	for _, e := range tl.entries {
		binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(e.Time))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(e.State.P1))
		binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(e.State.V1))
		binary.LittleEndian.PutUint64(buf[24:], math.Float64bits(e.State.P2))
		binary.LittleEndian.PutUint64(buf[32:], math.Float64bits(e.State.V2))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
