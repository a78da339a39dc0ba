// Package client implements the two receive-side consumers of the raw TCP
// wire protocol: BufferingClient, which fills a rotating pool of
// pre-allocated locked buffers and hands them to downstream workers, and
// QueueingClient, which enqueues individually-copied records. Both are
// grounded on the teacher's per-connection goroutine convention
// (internal/ws.Client) adapted from a WebSocket hub member to a single
// blocking net.Conn receive loop, since this system allows exactly one
// consumer per session.
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

	"github.com/SigmaX-ai/illex/internal/buffer"
	"github.com/SigmaX-ai/illex/internal/illexerr"
	"github.com/SigmaX-ai/illex/internal/latency"
	"github.com/SigmaX-ai/illex/internal/producer"
)

// receiveBackoff is the busy-yield interval used while no empty buffer is
// available (spec.md §4.4, §5).
const receiveBackoff = 100 * time.Microsecond

// BufferingClient receives TCP bytes into a pool of pre-allocated locked
// buffers, scans each for newline boundaries, and assigns contiguous
// sequence numbers across buffers, carrying leftover bytes as spill.
type BufferingClient struct {
	id      string
	conn    net.Conn
	pool    *buffer.Pool
	seq     uint64
	tracker *latency.Tracker
	logger  *zap.Logger

	spill             []byte
	spillLen          int
	defaultBufferSize int

	closeOnce sync.Once
}

// Dial connects to host:port and returns a ready BufferingClient. pool
// must be non-empty; its buffers are borrowed under their paired mutexes
// for the lifetime of the receive loop.
func Dial(host string, port int, initialSeq uint64, pool *buffer.Pool, defaultBufferSize int, tracker *latency.Tracker, logger *zap.Logger) (*BufferingClient, error) {
	if pool.Len() == 0 {
		return nil, illexerr.CliError("buffering client requires at least one buffer")
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, illexerr.IoError("dial "+addr, err)
	}
	return &BufferingClient{
		id:                uuid.NewString(),
		conn:              conn,
		pool:              pool,
		seq:               initialSeq,
		tracker:           tracker,
		logger:            logger,
		spill:             make([]byte, defaultBufferSize),
		defaultBufferSize: defaultBufferSize,
	}, nil
}

// Close closes the underlying connection exactly once.
func (c *BufferingClient) Close() error {
	var err error
	c.closeOnce.Do(func() { err = c.conn.Close() })
	return err
}

// Run drives the receive loop described in spec.md §4.4 until the peer
// disconnects cleanly (nil return) or a non-valid socket status occurs
// (a *illexerr.Error of kind Client).
func (c *BufferingClient) Run(shutdown *producer.Shutdown) error {
	defer c.Close()

	if c.logger != nil {
		c.logger.Info("buffering client started", zap.String("client_id", c.id))
	}

	for {
		if shutdown != nil && shutdown.IsSet() {
			return nil
		}

		slot, ok := c.pool.TryAcquireEmpty()
		if !ok {
			time.Sleep(receiveBackoff)
			continue
		}

		if err := c.receiveInto(slot); err != nil {
			slot.Mu.Unlock()
			if err == io.EOF {
				if c.logger != nil {
					c.logger.Info("buffering client disconnected cleanly", zap.String("client_id", c.id))
				}
				return nil
			}
			if c.logger != nil {
				c.logger.Error("buffering client receive error", zap.String("client_id", c.id), zap.Error(err))
			}
			return err
		}

		slot.Mu.Unlock()
	}
}

// receiveInto performs one carry-spill/receive/scan/copy-leftover pass on
// the given slot. It returns io.EOF on a clean disconnect (the loop's
// normal terminator) or a *illexerr.Error for any other non-valid status.
func (c *BufferingClient) receiveInto(slot buffer.Slot) error {
	buf := slot.Buf
	data := buf.Data()

	// Step 2: carry spill.
	remaining := c.spillLen
	if remaining > 0 {
		copy(data[:remaining], c.spill[:remaining])
	}

	// Step 3: receive.
	n, err := c.conn.Read(data[remaining:])
	recvTime := time.Now()
	buf.SetReceivedAt(recvTime)

	if n == 0 && err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return illexerr.ClientErrorf("Server error. Status: %v", err)
	}

	// Step 4: scan.
	scanSize := remaining + n
	result := buffer.Scan(data, scanSize)
	firstSeq := c.seq
	buf.ApplyScan(scanSize, firstSeq, result)
	c.seq += uint64(result.Count)

	if c.tracker != nil {
		for s := firstSeq; s < firstSeq+uint64(result.Count); s++ {
			c.tracker.Put(s, 0, recvTime)
		}
	}

	// Step 5: copy leftover into spill, bounded at defaultBufferSize.
	if result.Remaining > 0 {
		if result.Remaining > c.defaultBufferSize {
			return illexerr.ClientError("Record exceeds buffer capacity.")
		}
		copy(c.spill[:result.Remaining], data[scanSize-result.Remaining:scanSize])
	}
	c.spillLen = result.Remaining

	// Step 6: a clean disconnect can be reported alongside a final partial
	// read (n>0, err==io.EOF); treat it as the normal terminator only
	// after the scan above has accounted for every byte received.
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return illexerr.ClientErrorf("Server error. Status: %v", err)
	}
	return nil
}
