package config

import (
	"fmt"
	"strings"
)

// ValidationErrors collects every problem found in one pass, grounded on
// the teacher's ValidationErrors type (internal/config/validation.go in the
// example pack), trimmed to the fields this system validates.
type ValidationErrors struct {
	Problems []string
}

func (e *ValidationErrors) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ValidationErrors) HasErrors() bool { return len(e.Problems) > 0 }

func (e *ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, p := range e.Problems {
		sb.WriteString("  - ")
		sb.WriteString(p)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Validate checks the fields this system actually depends on: thread/queue
// sizing must be positive, ports must be in the valid TCP range, and
// client.mode must name a known receive strategy.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if c.Producer.NumThreads < 1 {
		errs.add("producer.num_threads must be >= 1, got %d", c.Producer.NumThreads)
	}
	if c.Producer.QueueSize < 1 {
		errs.add("producer.queue_size must be >= 1, got %d", c.Producer.QueueSize)
	}
	if c.Producer.NumJSONs < 0 {
		errs.add("producer.num_jsons must be >= 0, got %d", c.Producer.NumJSONs)
	}
	if c.Producer.Batching && c.Producer.NumBatches < 1 {
		errs.add("producer.num_batches must be >= 1 when producer.batching is set, got %d", c.Producer.NumBatches)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs.add("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.RepeatTimes < 1 {
		errs.add("server.repeat_times must be >= 1, got %d", c.Server.RepeatTimes)
	}

	if c.Client.Port < 1 || c.Client.Port > 65535 {
		errs.add("client.port must be in [1, 65535], got %d", c.Client.Port)
	}
	switch c.Client.Mode {
	case "buffer", "queue":
	default:
		errs.add("client.mode must be 'buffer' or 'queue', got %q", c.Client.Mode)
	}
	if c.Client.Mode == "buffer" && c.Client.NumBuffers < 1 {
		errs.add("client.num_buffers must be >= 1 in buffer mode, got %d", c.Client.NumBuffers)
	}
	if c.Client.BufferCapacity < 1 {
		errs.add("client.buffer_capacity must be >= 1, got %d", c.Client.BufferCapacity)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
