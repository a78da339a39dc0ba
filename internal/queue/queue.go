// Package queue implements ProductionQueue: a bounded multi-producer,
// single-consumer queue of JSON batches. It is backed by a buffered Go
// channel, which gives the try_enqueue/try_dequeue contract for free via
// non-blocking select — the idiomatic Go shape for the MPMC mailbox the
// spec describes, grounded on the register/unregister/broadcast channels
// in the teacher's internal/ws.Hub.
package queue

// Batch is a contiguous text span holding NumJSONs records, produced
// atomically by one producer worker and consumed atomically by the server.
type Batch struct {
	Text     []byte
	NumJSONs int
}

// Queue is a bounded MPMC batch queue. Its try_enqueue/try_dequeue report
// false without the queue being provably empty or full under contention,
// matching the lock-free MPMC contract in spec.md §5.
type Queue struct {
	ch chan Batch
}

// New creates a queue with the given capacity (spec.md default: 32).
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 32
	}
	return &Queue{ch: make(chan Batch, capacity)}
}

// TryEnqueue attempts to push b without blocking. It reports whether the
// push succeeded.
func (q *Queue) TryEnqueue(b Batch) bool {
	select {
	case q.ch <- b:
		return true
	default:
		return false
	}
}

// TryDequeue attempts to pop a batch without blocking. It reports whether
// a batch was available.
func (q *Queue) TryDequeue() (Batch, bool) {
	select {
	case b := <-q.ch:
		return b, true
	default:
		return Batch{}, false
	}
}

// Len reports the number of batches currently queued. It is advisory only
// — under contention the real count may have already changed by the time
// the caller observes it.
func (q *Queue) Len() int { return len(q.ch) }
