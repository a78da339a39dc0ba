// Package buffer implements JsonBuffer and BufferPool: pre-allocated byte
// regions scanned in place for newline-delimited JSON records, and a pool
// of such buffers each paired with exactly one mutex. Pairing a buffer and
// its mutex as one composite value (Slot) follows the design note in
// spec.md §9: never hold them as two parallel vectors that could drift out
// of sync.
package buffer

import (
	"time"

	"github.com/SigmaX-ai/illex/internal/illexerr"
)

// SeqRange is the inclusive [First, Last] sequence range of records held
// in a buffer. An empty range is the neutral {0, 0}; NumJSONs is tracked
// separately and must never be derived from Last-First+1 (spec.md §3).
type SeqRange struct {
	First uint64
	Last  uint64
}

// JsonBuffer is a pre-allocated byte region with a valid size, a sequence
// range, and the time it was last filled by a receive call.
type JsonBuffer struct {
	data       []byte // len == capacity always; Size tracks the valid prefix
	size       int
	rng        SeqRange
	numJSONs   int
	receivedAt time.Time
}

// NewJsonBuffer allocates a buffer of the given capacity. A zero capacity
// is a fatal configuration error (spec.md §7).
func NewJsonBuffer(capacity int) (*JsonBuffer, error) {
	if capacity <= 0 {
		return nil, illexerr.CliError("buffer capacity must be > 0")
	}
	return &JsonBuffer{data: make([]byte, capacity)}, nil
}

// Capacity returns the buffer's fixed byte capacity.
func (b *JsonBuffer) Capacity() int { return len(b.data) }

// Size returns the number of valid bytes currently held.
func (b *JsonBuffer) Size() int { return b.size }

// Empty reports size == 0, per the invariant in spec.md §3.
func (b *JsonBuffer) Empty() bool { return b.size == 0 }

// Bytes returns the valid prefix of the buffer. The returned slice aliases
// the buffer's backing array and is only valid until the next mutation.
func (b *JsonBuffer) Bytes() []byte { return b.data[:b.size] }

// Data exposes the full backing array so a receive loop can write directly
// past the spill-carried prefix.
func (b *JsonBuffer) Data() []byte { return b.data }

// Range returns the buffer's current sequence range.
func (b *JsonBuffer) Range() SeqRange { return b.rng }

// NumJSONs returns the number of complete records currently held.
func (b *JsonBuffer) NumJSONs() int { return b.numJSONs }

// ReceivedAt returns the timestamp recorded immediately after the recv
// call that filled this buffer.
func (b *JsonBuffer) ReceivedAt() time.Time { return b.receivedAt }

// SetReceivedAt stamps the buffer's receive time.
func (b *JsonBuffer) SetReceivedAt(t time.Time) { b.receivedAt = t }

// setFilled is called by the scanner after a receive+scan pass.
func (b *JsonBuffer) setFilled(size int, rng SeqRange, numJSONs int) {
	b.size = size
	b.rng = rng
	b.numJSONs = numJSONs
}

// Reset clears size and range. Called by a downstream consumer after
// draining the buffer, under the buffer's paired mutex.
func (b *JsonBuffer) Reset() {
	b.size = 0
	b.rng = SeqRange{}
	b.numJSONs = 0
}

// ScanResult is the outcome of scanning scanSize bytes of data for
// newline-delimited records. Sequence numbers are assigned afterwards by
// ApplyScan.
type ScanResult struct {
	Count     int // number of complete, non-empty records found
	Remaining int // bytes after the last newline (or the whole span if none found)
}

// Scan walks data[:scanSize] looking for '\n' delimiters. It returns the
// number of non-empty records found and the number of trailing bytes after
// the last delimiter (spec.md P1). Consecutive newlines produce empty
// segments, which do not increment Count.
func Scan(data []byte, scanSize int) ScanResult {
	count := 0
	lastDelim := -1
	for i := 0; i < scanSize; i++ {
		if data[i] == '\n' {
			if i-lastDelim-1 > 0 {
				count++
			}
			lastDelim = i
		}
	}
	remaining := scanSize - lastDelim - 1
	return ScanResult{Count: count, Remaining: remaining}
}

// ApplyScan fills the buffer's Size/Range from a Scan outcome. seq is the
// sequence number of the first record found; the caller is responsible for
// advancing its own seq counter by result.Count afterward.
func (b *JsonBuffer) ApplyScan(scanSize int, seq uint64, result ScanResult) {
	size := scanSize - result.Remaining
	var rng SeqRange
	if result.Count > 0 {
		rng = SeqRange{First: seq, Last: seq + uint64(result.Count) - 1}
	}
	b.setFilled(size, rng, result.Count)
}
