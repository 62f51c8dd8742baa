package lens

import (
	"slices"
	"sync/atomic"
	"time"
)

// Snapshot is an immutable view of the loaded lens collection.
type Snapshot struct {
	Records  []Record
	Source   string
	LoadedAt time.Time
}

// Find returns the record with the given id.
func (s *Snapshot) Find(id int) (Record, bool) {
	for _, rec := range s.Records {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}

// Holder owns the current snapshot. Updates replace the whole snapshot, so a
// reader holding one never observes a partial reload.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns a holder with an empty snapshot; filtering it yields
// nothing until the first load completes.
func NewHolder() *Holder {
	h := &Holder{}
	h.current.Store(&Snapshot{Records: []Record{}})
	return h
}

func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// Replace publishes records as the new snapshot. The slice is copied so the
// caller may keep using its own.
func (h *Holder) Replace(records []Record, source string) *Snapshot {
	snap := &Snapshot{
		Records:  slices.Clone(records),
		Source:   source,
		LoadedAt: time.Now(),
	}
	if snap.Records == nil {
		snap.Records = []Record{}
	}

	h.current.Store(snap)
	return snap
}
