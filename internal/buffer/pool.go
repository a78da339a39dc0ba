package buffer

import (
	"sync"

	"github.com/SigmaX-ai/illex/internal/illexerr"
)

// Slot pairs one JsonBuffer with the single mutex that guards it. Keeping
// them as one composite value, rather than two parallel slices, makes a
// buffer/mutex re-pairing bug structurally impossible (spec.md §5, §9).
type Slot struct {
	Buf *JsonBuffer
	Mu  *sync.Mutex
}

// Pool is a fixed vector of Slots. Acquisition is non-blocking: the client
// scans from index 0 every time, which biases toward lower indices but is
// acceptable so long as downstream consumers eventually Reset their
// buffers (spec.md §4.4).
type Pool struct {
	slots []Slot
}

// NewPool builds a pool from equal-capacity buffers. Buffers and mutexes
// are constructed together and never re-paired afterward.
func NewPool(numBuffers, bufferCapacity int) (*Pool, error) {
	if numBuffers <= 0 {
		return nil, illexerr.CliError("buffer pool must have at least one buffer")
	}
	slots := make([]Slot, numBuffers)
	for i := range slots {
		b, err := NewJsonBuffer(bufferCapacity)
		if err != nil {
			return nil, err
		}
		slots[i] = Slot{Buf: b, Mu: &sync.Mutex{}}
	}
	return &Pool{slots: slots}, nil
}

// NewPoolFromBuffers builds a pool over externally-owned buffers. len(bufs)
// must equal len(mutexes); a mismatch is the fatal configuration error
// named in spec.md §4.4 and §7.
func NewPoolFromBuffers(bufs []*JsonBuffer, mutexes []*sync.Mutex) (*Pool, error) {
	if len(bufs) != len(mutexes) {
		return nil, illexerr.CliError("buffer and mutex vectors must have equal length")
	}
	slots := make([]Slot, len(bufs))
	for i := range bufs {
		slots[i] = Slot{Buf: bufs[i], Mu: mutexes[i]}
	}
	return &Pool{slots: slots}, nil
}

// Len returns the number of slots in the pool.
func (p *Pool) Len() int { return len(p.slots) }

// TryAcquireEmpty scans from index 0 for the first slot whose buffer is
// empty and whose mutex is uncontended. It returns the slot and true on
// success; the caller owns the returned mutex's lock and must Unlock it
// after filling or resetting the buffer.
func (p *Pool) TryAcquireEmpty() (Slot, bool) {
	for _, s := range p.slots {
		if !s.Buf.Empty() {
			continue
		}
		if s.Mu.TryLock() {
			// Re-check under the lock: the racy Empty() read above is a
			// fast path, not a guarantee (spec.md §9 open question).
			if s.Buf.Empty() {
				return s, true
			}
			s.Mu.Unlock()
		}
	}
	return Slot{}, false
}

// Slots exposes the underlying slots for iteration by downstream consumer
// threads, which observe Buf.Empty() racily before taking Mu (spec.md §9).
func (p *Pool) Slots() []Slot { return p.slots }
