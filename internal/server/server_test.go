package server

import (
	"bufio"
	"net"
	"strconv"
	"testing"

	"github.com/SigmaX-ai/illex/internal/producer"
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

// TestSendJSONsStreamsExactRecordCount dials a loopback consumer against a
// real Server and checks it receives exactly num_jsons newline-terminated
// records, and that the server reports success once every record has been
// sent (it then closes the connection, which ends the consumer's read).
func TestSendJSONsStreamsExactRecordCount(t *testing.T) {
	srv, err := New(0, false, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer srv.Close()

	port := srv.listener.Addr().(*net.TCPAddr).Port

	recordsCh := make(chan int, 1)
	go func() {
		conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err != nil {
			recordsCh <- -1
			return
		}
		defer conn.Close()

		scanner := bufio.NewScanner(conn)
		count := 0
		for scanner.Scan() {
			if scanner.Text() != "" {
				count++
			}
		}
		recordsCh <- count
	}()

	opts := producer.Options{
		Seed:           1,
		Schema:         counterSchema(),
		Whitespace:     true,
		WhitespaceChar: '\n',
		NumJSONs:       10,
		Batching:       false,
		NumThreads:     1,
	}

	m, err := srv.SendJSONs(opts, 8, RepeatOptions{Times: 1})
	if err != nil {
		t.Fatalf("SendJSONs: %v", err)
	}
	if m.NumMessages == 0 {
		t.Error("expected at least one message sent")
	}

	got := <-recordsCh
	if got != 10 {
		t.Errorf("consumer observed %d records, want 10", got)
	}
}
