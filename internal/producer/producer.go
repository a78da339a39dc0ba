// Package producer implements the Producer thread pool: it synthesizes
// JSON batches from a schema-driven value.Generator and pushes them into a
// bounded queue.Queue under backpressure. The worker-pool shape is
// grounded on the teacher's internal/download.Manager (jobs channel, one
// goroutine per worker, a WaitGroup, and a one-shot result collection),
// adapted from "download N tasks with K workers" to "produce N batches
// with K producer threads."
package producer

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/SigmaX-ai/illex/internal/jsonwriter"
	"github.com/SigmaX-ai/illex/internal/queue"
	"github.com/SigmaX-ai/illex/internal/schema"
	"github.com/SigmaX-ai/illex/internal/value"
)

// enqueueBackoff is the busy-yield interval used while the queue is full
// (spec.md §4.2, §5).
const enqueueBackoff = 100 * time.Microsecond

// Options configures the producer. NumJSONs/NumBatches/Batching follow the
// Configuration contract in spec.md §6: when Batching is true, each batch
// holds NumJSONs records and NumBatches batches are produced; when false,
// each batch is exactly one record and NumJSONs is the total record count.
type Options struct {
	Seed           uint64
	Schema         *schema.Node
	Pretty         bool
	Whitespace     bool
	WhitespaceChar byte
	NumJSONs       int
	NumBatches     int
	Batching       bool
	NumThreads     int
}

// totalBatches and perBatchRecords derive the two effective dimensions the
// spec's work-partition rule actually needs: how many batches to produce,
// and how many records belong in each one.
func (o Options) totalBatches() int {
	if o.Batching {
		return o.NumBatches
	}
	return o.NumJSONs
}

func (o Options) perBatchRecords() int {
	if o.Batching {
		return o.NumJSONs
	}
	return 1
}

// Metrics accumulates production statistics. It is an additive monoid:
// the zero value is the identity for Merge.
type Metrics struct {
	Time       time.Duration
	NumChars   int64
	NumJSONs   int64
	NumBatches int64
	QueueFull  int64
}

// Merge folds other into a copy of m and returns it.
func (m Metrics) Merge(other Metrics) Metrics {
	return Metrics{
		Time:       m.Time + other.Time,
		NumChars:   m.NumChars + other.NumChars,
		NumJSONs:   m.NumJSONs + other.NumJSONs,
		NumBatches: m.NumBatches + other.NumBatches,
		QueueFull:  m.QueueFull + other.QueueFull,
	}
}

// Producer spawns Options.NumThreads worker goroutines that fill a
// queue.Queue. Start must be called at most once; Finish may be called
// once, after Start, and blocks until every worker has stopped.
type Producer struct {
	opts     Options
	q        *queue.Queue
	shutdown *Shutdown
	logger   *zap.Logger

	wg      sync.WaitGroup
	results chan Metrics

	startedOnce  sync.Once
	finishedOnce sync.Once
}

// Shutdown is the shared atomic flag producer threads and the server drain
// loop both poll (spec.md §5).
type Shutdown struct {
	flag atomic.Bool
}

// NewShutdown returns a fresh, unset shutdown flag.
func NewShutdown() *Shutdown { return &Shutdown{} }

// Set asserts shutdown.
func (s *Shutdown) Set() { s.flag.Store(true) }

// IsSet reports whether shutdown has been asserted.
func (s *Shutdown) IsSet() bool { return s.flag.Load() }

// New builds a Producer that will push batches into q.
func New(opts Options, q *queue.Queue, shutdown *Shutdown, logger *zap.Logger) *Producer {
	if opts.NumThreads <= 0 {
		opts.NumThreads = 1
	}
	return &Producer{
		opts:     opts,
		q:        q,
		shutdown: shutdown,
		logger:   logger,
		results:  make(chan Metrics, opts.NumThreads),
	}
}

// Start spawns the worker threads and returns immediately. Calling it more
// than once on the same Producer is undefined (spec.md §4.2); the second
// call is a silent no-op to keep accidental double-starts harmless rather
// than racy.
func (p *Producer) Start() {
	p.startedOnce.Do(func() {
		batches := partition(p.opts.totalBatches(), p.opts.NumThreads)
		for i := 0; i < p.opts.NumThreads; i++ {
			p.wg.Add(1)
			go p.worker(i, batches[i])
		}
	})
}

// partition divides total batches as evenly as possible across
// numThreads, assigning any remainder to thread 0 (spec.md §4.2).
func partition(total, numThreads int) []int {
	base := total / numThreads
	rem := total % numThreads
	counts := make([]int, numThreads)
	for i := range counts {
		counts[i] = base
	}
	counts[0] += rem
	return counts
}

func (p *Producer) worker(threadIdx, numBatches int) {
	defer p.wg.Done()

	gen := value.New(p.opts.Schema)
	rng := value.NewRand(p.opts.Seed + uint64(threadIdx))
	writer := jsonwriter.Writer{Pretty: p.opts.Pretty}
	perBatch := p.opts.perBatchRecords()

	var m Metrics
	start := time.Now()

	for b := 0; b < numBatches; b++ {
		if p.shutdown.IsSet() {
			break
		}

		buf := jsonwriter.Get()
		for i := 0; i < perBatch; i++ {
			writer.Write(buf, gen.Get(rng))
			if p.opts.Whitespace {
				buf.WriteByte(p.opts.WhitespaceChar)
			}
		}

		text := make([]byte, buf.Len())
		copy(text, buf.Bytes())
		m.NumChars += int64(len(text))
		jsonwriter.Put(buf)

		batch := queue.Batch{Text: text, NumJSONs: perBatch}
		for !p.q.TryEnqueue(batch) {
			m.QueueFull++
			if p.shutdown.IsSet() {
				break
			}
			time.Sleep(enqueueBackoff)
		}

		m.NumJSONs += int64(perBatch)
		m.NumBatches++
	}

	m.Time = time.Since(start)
	p.results <- m
}

// Finish joins every worker and returns the summed Metrics. It may be
// called at most once; calling it again returns the zero Metrics.
func (p *Producer) Finish() Metrics {
	var total Metrics
	p.finishedOnce.Do(func() {
		p.wg.Wait()
		close(p.results)
		for m := range p.results {
			total = total.Merge(m)
		}
	})
	return total
}
