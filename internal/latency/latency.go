// Package latency implements LatencyTracker: a fixed-capacity ring of
// timestamps indexed by (sample-of-seq, stage). Writes are rare (only
// sampled sequence numbers are stored) so a single mutex guards the whole
// ring rather than trying to make it lock-free.
package latency

import (
	"sync"
	"time"

	"github.com/SigmaX-ai/illex/internal/illexerr"
)

// Tracker stores one timestamp per (sample, stage) slot. Put silently
// declines to store a timestamp for a seq that does not land on the
// sampling interval; Get and Interval fail explicitly on an out-of-bounds
// index, per spec.md §3, §4.6.
type Tracker struct {
	mu              sync.Mutex
	slots           []time.Time
	numSamples      int
	numStages       int
	sampleInterval  uint64
}

// New builds a Tracker with numSamples*numStages slots.
func New(numSamples, numStages int, sampleInterval uint64) *Tracker {
	if sampleInterval == 0 {
		sampleInterval = 1
	}
	return &Tracker{
		slots:          make([]time.Time, numSamples*numStages),
		numSamples:     numSamples,
		numStages:      numStages,
		sampleInterval: sampleInterval,
	}
}

// Put stores t at the slot for (seq, stage) and reports true, unless
// seq is not on the sampling interval, in which case it reports false and
// stores nothing.
func (tr *Tracker) Put(seq uint64, stage int, t time.Time) bool {
	if seq%tr.sampleInterval != 0 {
		return false
	}
	if stage < 0 || stage >= tr.numStages {
		panic("latency: stage index out of bounds")
	}
	idx := tr.index(seq, stage)

	tr.mu.Lock()
	tr.slots[idx] = t
	tr.mu.Unlock()
	return true
}

// Get returns the timestamp stored for the sample index (seq/sampleInterval
// mod numSamples) and the given stage. index is already the sample index,
// not a raw sequence number.
func (tr *Tracker) Get(sampleIdx, stage int) (time.Time, error) {
	if sampleIdx < 0 || sampleIdx >= tr.numSamples {
		return time.Time{}, illexerr.Newf("latency: sample index %d out of bounds [0,%d)", sampleIdx, tr.numSamples)
	}
	if stage < 0 || stage >= tr.numStages {
		return time.Time{}, illexerr.Newf("latency: stage index %d out of bounds [0,%d)", stage, tr.numStages)
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.slots[sampleIdx*tr.numStages+stage], nil
}

// Interval returns Get(sampleIdx, stage) - Get(sampleIdx, stage-1) as a
// duration. It fails when stage is 0, since there is no preceding stage.
func (tr *Tracker) Interval(sampleIdx, stage int) (time.Duration, error) {
	if stage == 0 {
		return 0, illexerr.Newf("latency: stage 0 has no preceding stage")
	}
	cur, err := tr.Get(sampleIdx, stage)
	if err != nil {
		return 0, err
	}
	prev, err := tr.Get(sampleIdx, stage-1)
	if err != nil {
		return 0, err
	}
	return cur.Sub(prev), nil
}

// SampleIndex converts a sequence number to the ring's sample index:
// (seq / sampleInterval) mod numSamples.
func (tr *Tracker) SampleIndex(seq uint64) int {
	return int((seq / tr.sampleInterval) % uint64(tr.numSamples))
}

func (tr *Tracker) index(seq uint64, stage int) int {
	return tr.SampleIndex(seq)*tr.numStages + stage
}
