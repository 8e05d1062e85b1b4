package main

import "sync/atomic"

// SharedState holds the single current Snapshot. The sampler is the only
// writer; any number of readers call Current without contending with the
// writer or each other. Publishing is one pointer swap, so a reader always
// sees a whole snapshot, never a partially replaced one.
type SharedState struct {
	current atomic.Pointer[Snapshot]
	seq     atomic.Uint64
}

func newSharedState() *SharedState {
	return &SharedState{}
}

// Publish replaces the current snapshot and bumps the sequence counter.
// Single-writer discipline: only the sampler calls this.
func (s *SharedState) Publish(snap *Snapshot) {
	s.current.Store(snap)
	s.seq.Add(1)
}

// Current returns the most recently published snapshot, or nil before the
// first cycle completes.
func (s *SharedState) Current() *Snapshot {
	return s.current.Load()
}

// Seq returns the number of snapshots published so far.
func (s *SharedState) Seq() uint64 {
	return s.seq.Load()
}
