package producer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/SigmaX-ai/illex/internal/queue"
	"github.com/SigmaX-ai/illex/internal/schema"
)

func counterSchema() *schema.Node {
	return &schema.Node{
		Kind: schema.KindObject,
		Members: []schema.Node{
			{Kind: schema.KindInteger, Name: "test", IntMin: 0, IntMax: 0},
		},
	}
}

// TestE1QueueYieldsExactlyFourBatches reproduces the structural half of
// spec.md's E1 scenario: with num_jsons=4, num_batches=4, num_threads=1,
// exactly 4 batches are produced and the 5th dequeue attempt fails. The
// literal byte-count in E1 depends on the PRNG draw for "test", which this
// system seeds with math/rand/v2's PCG rather than whatever generator the
// scenario's source implementation used, so the assertion here is on
// structure (record/batch counts, terminator placement) rather than on the
// scenario's literal numeric field value.
func TestE1QueueYieldsExactlyFourBatches(t *testing.T) {
	q := queue.New(8)
	shutdown := NewShutdown()
	opts := Options{
		Seed:           0,
		Schema:         counterSchema(),
		Whitespace:     true,
		WhitespaceChar: '\n',
		NumJSONs:       4,
		NumBatches:     4,
		Batching:       true,
		NumThreads:     1,
	}
	p := New(opts, q, shutdown, nil)
	p.Start()
	pm := p.Finish()

	if pm.NumBatches != 4 {
		t.Fatalf("NumBatches = %d, want 4", pm.NumBatches)
	}
	if pm.NumJSONs != 16 {
		t.Fatalf("NumJSONs = %d, want 16", pm.NumJSONs)
	}

	for i := 0; i < 4; i++ {
		batch, ok := q.TryDequeue()
		if !ok {
			t.Fatalf("dequeue %d: expected a batch", i)
		}
		if batch.NumJSONs != 4 {
			t.Errorf("batch %d NumJSONs = %d, want 4", i, batch.NumJSONs)
		}
		if n := strings.Count(string(batch.Text), "\n"); n != 4 {
			t.Errorf("batch %d has %d newlines, want 4", i, n)
		}
	}
	if _, ok := q.TryDequeue(); ok {
		t.Fatal("expected the fifth dequeue to fail")
	}
}

// TestSingleThreadDeterminism covers P4: with num_threads=1, the same
// inputs produce the same sequence of batch texts.
func TestSingleThreadDeterminism(t *testing.T) {
	run := func() []string {
		q := queue.New(8)
		shutdown := NewShutdown()
		opts := Options{
			Seed:       99,
			Schema:     counterSchema(),
			Whitespace: true, WhitespaceChar: '\n',
			NumJSONs: 3, NumBatches: 3, Batching: true, NumThreads: 1,
		}
		p := New(opts, q, shutdown, nil)
		p.Start()
		p.Finish()

		var texts []string
		for {
			b, ok := q.TryDequeue()
			if !ok {
				break
			}
			texts = append(texts, string(b.Text))
		}
		return texts
	}

	a := run()
	b := run()
	if len(a) != len(b) {
		t.Fatalf("len(a)=%d, len(b)=%d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("batch %d diverged: %q != %q", i, a[i], b[i])
		}
	}
}

func TestPartitionAssignsRemainderToThreadZero(t *testing.T) {
	counts := partition(10, 3)
	sum := 0
	for _, c := range counts {
		sum += c
	}
	if sum != 10 {
		t.Fatalf("sum = %d, want 10", sum)
	}
	if counts[0] < counts[1] {
		t.Errorf("expected thread 0 to receive the remainder, got %v", counts)
	}
}

func TestShutdownStopsWorkersEarly(t *testing.T) {
	q := queue.New(1)
	shutdown := NewShutdown()
	opts := Options{
		Seed:       1,
		Schema:     counterSchema(),
		Whitespace: true, WhitespaceChar: '\n',
		NumJSONs: 1, NumBatches: 1000, Batching: true, NumThreads: 1,
	}
	p := New(opts, q, shutdown, nil)
	p.Start()

	// The worker fills the one-slot queue; drain one batch, then ask the
	// worker to stop instead of busy-retrying forever.
	q.TryDequeue()
	shutdown.Set()
	pm := p.Finish()

	if pm.NumBatches >= 1000 {
		t.Errorf("expected shutdown to truncate production, got %d batches", pm.NumBatches)
	}
}

// TestE4FileModeNewlineCount reproduces spec.md's E4 scenario structurally:
// 16 single-record batches through DrainToWriter produce output containing
// exactly 16 '\n' characters.
func TestE4FileModeNewlineCount(t *testing.T) {
	q := queue.New(32)
	shutdown := NewShutdown()
	opts := Options{
		Seed:       0,
		Schema:     counterSchema(),
		Whitespace: true, WhitespaceChar: '\n',
		NumJSONs: 16, Batching: false, NumThreads: 1,
	}
	p := New(opts, q, shutdown, nil)
	p.Start()

	var out bytes.Buffer
	pm, err := DrainToWriter(p, &out, 16)
	if err != nil {
		t.Fatalf("DrainToWriter: %v", err)
	}
	if pm.NumBatches != 16 {
		t.Fatalf("NumBatches = %d, want 16", pm.NumBatches)
	}
	if n := strings.Count(out.String(), "\n"); n != 16 {
		t.Errorf("output has %d newlines, want 16", n)
	}
}

// TestE5PrettyFileModeExactBytes reproduces spec.md's E5 scenario literally.
func TestE5PrettyFileModeExactBytes(t *testing.T) {
	q := queue.New(4)
	shutdown := NewShutdown()
	opts := Options{
		Seed: 0,
		Schema: &schema.Node{
			Kind: schema.KindObject,
			Members: []schema.Node{
				{Kind: schema.KindNull, Name: "a"},
				{Kind: schema.KindNull, Name: "b"},
			},
		},
		Pretty:     true,
		Whitespace: true, WhitespaceChar: '\n',
		NumJSONs: 1, Batching: false, NumThreads: 1,
	}
	p := New(opts, q, shutdown, nil)
	p.Start()

	var out bytes.Buffer
	if _, err := DrainToWriter(p, &out, 1); err != nil {
		t.Fatalf("DrainToWriter: %v", err)
	}

	want := "{\n    \"a\": null,\n    \"b\": null\n}\n"
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
