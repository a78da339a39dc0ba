// Package server implements the raw TCP Server: it accepts exactly one
// consumer per session, drains a producer.Producer's queue.Queue into the
// socket under backpressure, measures throughput, and repeats sessions on
// request. Signal handling and session bookkeeping are grounded on the
// teacher's cmd/server/main.go (signal.Notify + graceful shutdown) and
// internal/ws.Hub's channel-driven lifecycle.
package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SigmaX-ai/illex/internal/illexerr"
	"github.com/SigmaX-ai/illex/internal/producer"
	"github.com/SigmaX-ai/illex/internal/queue"
	"github.com/SigmaX-ai/illex/internal/stats"
)

// DefaultPort is the wire-protocol default from spec.md §6.
const DefaultPort = 10197

// drainBackoff is the idle-queue poll interval in a release build
// (spec.md §4.3). A debug build would use 500ms instead; this system does
// not build-tag the two, since the spec only requires *a* bounded poll
// interval, not the exact value.
const drainBackoff = 100 * time.Microsecond

// peerCheckTimeout bounds how long the liveness probe waits for a byte
// that the client protocol never actually sends.
const peerCheckTimeout = 2 * time.Millisecond

var (
	sigOnce        sync.Once
	activeShutdown atomic.Pointer[producer.Shutdown]
)

// installSignalHandler installs a single process-wide SIGINT/SIGTERM
// listener (spec.md §5, §9: "install once per process, idempotent").
// While a session is active it forwards the signal to that session's
// shutdown flag; while blocked in Accept between sessions, it logs and
// exits the process with status 0, per spec.md §6.
func installSignalHandler(logger *zap.Logger) {
	sigOnce.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			for range ch {
				if logger != nil {
					logger.Info("interrupt received")
				}
				if sd := activeShutdown.Load(); sd != nil {
					sd.Set()
					continue
				}
				if logger != nil {
					logger.Info("interrupted during accept, exiting")
				}
				os.Exit(0)
			}
		}()
	})
}

// RepeatOptions controls the outer session loop (spec.md §4.3, §6).
type RepeatOptions struct {
	Times      int
	IntervalMs int
}

// Server binds 0.0.0.0:<port> and accepts one consumer at a time.
type Server struct {
	listener net.Listener
	port     int
	logger   *zap.Logger
	verbose  bool
	registry *stats.Registry
}

// New binds the listening socket. A bind failure is a *illexerr.Error of
// kind Server (spec.md §4.3).
func New(port int, verbose bool, registry *stats.Registry, logger *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		return nil, illexerr.ServerErrorf("bind 0.0.0.0:%d: %v", port, err)
	}
	installSignalHandler(logger)
	return &Server{listener: ln, port: port, logger: logger, verbose: verbose, registry: registry}, nil
}

// Close stops accepting new sessions.
func (s *Server) Close() error { return s.listener.Close() }

// SendJSONs runs repeatOpts.Times sessions, accumulating StreamMetrics
// across them, and re-seeding the producer by +42 before each subsequent
// session (spec.md §4.3, §9). The first per-session error stops the loop;
// repeat mode never masks it.
func (s *Server) SendJSONs(prodOpts producer.Options, queueSize int, repeatOpts RepeatOptions) (stats.StreamMetrics, error) {
	var total stats.StreamMetrics

	times := repeatOpts.Times
	if times <= 0 {
		times = 1
	}

	for i := 0; i < times; i++ {
		sessionOpts := prodOpts
		sessionOpts.Seed = prodOpts.Seed + uint64(i)*42

		m, err := s.runSession(sessionOpts, queueSize)
		total = total.Merge(m)
		if s.registry != nil {
			s.registry.Set(total)
		}
		if err != nil {
			return total, err
		}
		if i < times-1 && repeatOpts.IntervalMs > 0 {
			time.Sleep(time.Duration(repeatOpts.IntervalMs) * time.Millisecond)
		}
	}
	return total, nil
}

func (s *Server) runSession(opts producer.Options, queueSize int) (stats.StreamMetrics, error) {
	sessionID := uuid.NewString()
	q := queue.New(queueSize)
	shutdown := producer.NewShutdown()

	if s.logger != nil {
		s.logger.Info("waiting for consumer", zap.String("session", sessionID), zap.Int("port", s.port))
	}

	conn, err := s.listener.Accept()
	if err != nil {
		return stats.StreamMetrics{}, illexerr.ServerErrorf("accept: %v", err)
	}
	var closeOnce sync.Once
	closeConn := func() { closeOnce.Do(func() { _ = conn.Close() }) }
	defer closeConn()

	activeShutdown.Store(shutdown)
	defer activeShutdown.Store(nil)

	p := producer.New(opts, q, shutdown, s.logger)
	p.Start()

	target := int64(opts.NumJSONs)
	if opts.Batching {
		target = int64(opts.NumJSONs) * int64(opts.NumBatches)
	}

	start := time.Now()
	var running, bytesSent, messages int64
	decile := target / 10
	nextProgress := decile

	sendErr := s.drain(conn, q, shutdown, &running, &bytesSent, &messages, target, decile, &nextProgress, sessionID)

	shutdown.Set()
	closeConn()
	pm := p.Finish()

	m := stats.StreamMetrics{
		NumMessages: messages,
		NumBytes:    bytesSent,
		Time:        time.Since(start),
		Producer:    pm,
	}

	if sendErr != nil {
		return m, sendErr
	}
	if running < target {
		return m, illexerr.ServerError("Client socket error.")
	}
	return m, nil
}

func (s *Server) drain(conn net.Conn, q *queue.Queue, shutdown *producer.Shutdown, running, bytesSent, messages *int64, target, decile int64, nextProgress *int64, sessionID string) error {
	colorToggle := false

	for *running < target {
		if shutdown.IsSet() {
			return nil
		}

		batch, ok := q.TryDequeue()
		if !ok {
			time.Sleep(drainBackoff)
			if !peerAlive(conn) {
				shutdown.Set()
				return illexerr.ServerError("Client socket error.")
			}
			continue
		}

		if _, err := conn.Write(batch.Text); err != nil {
			return illexerr.ServerErrorf("send: %v", err)
		}

		if s.verbose {
			echoBatch(batch.Text, colorToggle)
			colorToggle = !colorToggle
		}

		*running += int64(batch.NumJSONs)
		*bytesSent += int64(len(batch.Text))
		*messages++

		if decile > 0 && *running >= *nextProgress {
			if s.logger != nil {
				s.logger.Info("drain progress",
					zap.String("session", sessionID),
					zap.Int64("sent", *running),
					zap.Int64("target", target),
				)
			}
			*nextProgress += decile
		}
	}
	return nil
}

const (
	ansiCyan    = "\x1b[36m"
	ansiMagenta = "\x1b[35m"
	ansiReset   = "\x1b[0m"
)

func echoBatch(text []byte, useCyan bool) {
	color := ansiMagenta
	if useCyan {
		color = ansiCyan
	}
	os.Stdout.WriteString(color)
	os.Stdout.Write(text)
	os.Stdout.WriteString(ansiReset)
}

// peerAlive probes the connection with a short read deadline. The client
// protocol never sends bytes back, so a timeout means the peer is still
// connected; EOF or a connection-reset error means it is not.
func peerAlive(conn net.Conn) bool {
	_ = conn.SetReadDeadline(time.Now().Add(peerCheckTimeout))
	defer conn.SetReadDeadline(time.Time{})

	var buf [1]byte
	_, err := conn.Read(buf[:])
	if err == nil {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
