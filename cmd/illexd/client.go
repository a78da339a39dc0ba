package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/SigmaX-ai/illex/internal/buffer"
	illexclient "github.com/SigmaX-ai/illex/internal/client"
	"github.com/SigmaX-ai/illex/internal/latency"
	"github.com/SigmaX-ai/illex/internal/producer"
)

// consumerBackoff is how long the downstream buffer consumer waits before
// re-polling the pool for a filled slot.
const consumerBackoff = 200 * time.Microsecond

func clientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Receive synthetic JSON from a streaming TCP server",
	}
	cmd.AddCommand(clientBufferCmd())
	cmd.AddCommand(clientQueueCmd())
	return cmd
}

func clientBufferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buffer",
		Short: "Receive into a rotating pool of pre-allocated locked buffers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := cfg.Client

			pool, err := buffer.NewPool(cc.NumBuffers, cc.BufferCapacity)
			if err != nil {
				return err
			}
			tracker := latency.New(cc.NumSamples, 1, cc.SampleInterval)
			shutdown := producer.NewShutdown()

			go stopOnCancel(cmd.Context(), shutdown)
			go consumeFilledBuffers(cmd.Context(), pool, shutdown)

			c, err := illexclient.Dial(cc.Host, cc.Port, 0, pool, cc.BufferCapacity, tracker, logger)
			if err != nil {
				return err
			}
			return c.Run(shutdown)
		},
	}
}

func clientQueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Receive individual JSON records into a blocking concurrent queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := cfg.Client

			recordQueue := illexclient.NewRecordQueue(cc.RecordQueueLen)
			tracker := latency.New(cc.NumSamples, cc.NumStages, cc.SampleInterval)
			shutdown := producer.NewShutdown()

			go stopOnCancel(cmd.Context(), shutdown)
			go consumeRecords(cmd.Context(), recordQueue)

			c, err := illexclient.DialQueueing(cc.Host, cc.Port, 0, cc.BufferCapacity, recordQueue, tracker, logger)
			if err != nil {
				return err
			}
			return c.Run(shutdown)
		},
	}
}

func stopOnCancel(ctx context.Context, shutdown *producer.Shutdown) {
	<-ctx.Done()
	shutdown.Set()
}

// consumeFilledBuffers plays the role of the downstream worker threads in
// spec.md §4.4: it scans the pool for non-empty buffers and Resets them
// under their mutex so TryAcquireEmpty can reuse the slot. The buffer
// contents are discarded, not read.
func consumeFilledBuffers(ctx context.Context, pool *buffer.Pool, shutdown *producer.Shutdown) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if shutdown.IsSet() {
			return
		}

		progressed := false
		for _, slot := range pool.Slots() {
			if !slot.Mu.TryLock() {
				continue
			}
			if slot.Buf.Empty() {
				slot.Mu.Unlock()
				continue
			}
			slot.Buf.Reset()
			slot.Mu.Unlock()
			progressed = true
		}
		if !progressed {
			time.Sleep(consumerBackoff)
		}
	}
}

func consumeRecords(ctx context.Context, q *illexclient.RecordQueue) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-q.Chan():
			if !ok {
				return
			}
		}
	}
}
