package client

import (
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SigmaX-ai/illex/internal/illexerr"
	"github.com/SigmaX-ai/illex/internal/latency"
	"github.com/SigmaX-ai/illex/internal/producer"
)

// Record is one received JSON document, owned and copied out of the
// receive buffer (no trailing newline), paired with the sequence number
// the client assigned it.
type Record struct {
	Seq  uint64
	Text []byte
}

// RecordQueue is the blocking, multi-producer/multi-consumer destination
// for records produced by a QueueingClient. It is a thin wrapper over a
// buffered channel, the same jobs/results channel idiom the teacher's
// download.Manager uses for handing work between goroutines.
type RecordQueue struct {
	ch chan Record
}

// NewRecordQueue creates a queue with the given capacity.
func NewRecordQueue(capacity int) *RecordQueue {
	if capacity <= 0 {
		capacity = 1024
	}
	return &RecordQueue{ch: make(chan Record, capacity)}
}

// Push enqueues a record, blocking if the queue is full.
func (q *RecordQueue) Push(r Record) { q.ch <- r }

// Pop blocks until a record is available.
func (q *RecordQueue) Pop() Record { return <-q.ch }

// Chan exposes the underlying channel for range-based consumption.
func (q *RecordQueue) Chan() <-chan Record { return q.ch }

// Close signals that no more records will be pushed.
func (q *RecordQueue) Close() { close(q.ch) }

// QueueingClient receives TCP bytes into a single pre-allocated buffer,
// splits on newlines, and enqueues a copy of each complete record into a
// RecordQueue.
type QueueingClient struct {
	id      string
	conn    net.Conn
	queue   *RecordQueue
	seq     uint64
	tracker *latency.Tracker
	logger  *zap.Logger

	recvBuf []byte
	text    []byte // reusable accumulator for a record spanning multiple recv calls

	closeOnce sync.Once
}

// DialQueueing connects to host:port for queueing-mode receive.
func DialQueueing(host string, port int, initialSeq uint64, bufferSize int, queue *RecordQueue, tracker *latency.Tracker, logger *zap.Logger) (*QueueingClient, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, illexerr.IoError("dial "+addr, err)
	}
	return &QueueingClient{
		id:      uuid.NewString(),
		conn:    conn,
		queue:   queue,
		seq:     initialSeq,
		tracker: tracker,
		logger:  logger,
		recvBuf: make([]byte, bufferSize),
	}, nil
}

// Close closes the underlying connection exactly once.
func (c *QueueingClient) Close() error {
	var err error
	c.closeOnce.Do(func() { err = c.conn.Close() })
	return err
}

// Run drives the receive loop in spec.md §4.5: recv into the single
// buffer, split at '\n', append non-terminated tails to a reusable text
// accumulator, and enqueue {seq, text} on every newline.
func (c *QueueingClient) Run(shutdown *producer.Shutdown) error {
	defer c.Close()

	if c.logger != nil {
		c.logger.Info("queueing client started", zap.String("client_id", c.id))
	}

	for {
		if shutdown != nil && shutdown.IsSet() {
			return nil
		}

		n, err := c.conn.Read(c.recvBuf)
		receiveTime := time.Now()

		if n == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				if c.logger != nil {
					c.logger.Info("queueing client disconnected cleanly", zap.String("client_id", c.id))
				}
				return nil
			}
			if c.logger != nil {
				c.logger.Error("queueing client receive error", zap.String("client_id", c.id), zap.Error(err))
			}
			return illexerr.ClientErrorf("Server error. Status: %v", err)
		}

		start := 0
		for i := 0; i < n; i++ {
			if c.recvBuf[i] != '\n' {
				continue
			}
			c.text = append(c.text, c.recvBuf[start:i]...)

			record := Record{Seq: c.seq, Text: append([]byte(nil), c.text...)}
			if c.tracker != nil {
				c.tracker.Put(c.seq, 0, receiveTime)
				c.tracker.Put(c.seq, 1, time.Now())
			}
			c.queue.Push(record)

			c.seq++
			c.text = c.text[:0]
			start = i + 1
		}
		if start < n {
			c.text = append(c.text, c.recvBuf[start:n]...)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return illexerr.ClientErrorf("Server error. Status: %v", err)
		}
	}
}
