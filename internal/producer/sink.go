package producer

import (
	"bufio"
	"io"
	"time"

	"go.uber.org/multierr"

	"github.com/SigmaX-ai/illex/internal/illexerr"
)

// DrainToWriter writes every batch p produces into w until targetBatches
// batches have been written or shutdown is asserted, then flushes. This is
// the file/standard-output branch of spec.md §1 ("writes them to a
// file/standard output... or streams them to a single connected TCP
// consumer"): it shares the exact same drain-the-queue idiom the TCP
// server's drain loop uses (internal/server), just swapping the socket for
// an io.Writer. The drain loop and the final flush are two independently
// failing steps, so their errors are combined with multierr rather than
// letting the flush error silently mask a write error (or vice versa).
func DrainToWriter(p *Producer, w io.Writer, targetBatches int64) (Metrics, error) {
	bw := bufio.NewWriter(w)

	var written int64
	drainErr := func() error {
		for written < targetBatches {
			if p.shutdown.IsSet() {
				return nil
			}
			batch, ok := p.q.TryDequeue()
			if !ok {
				time.Sleep(enqueueBackoff)
				continue
			}
			if _, err := bw.Write(batch.Text); err != nil {
				p.shutdown.Set()
				return illexerr.IoError("write batch", err)
			}
			written++
		}
		return nil
	}()

	flushErr := bw.Flush()

	pm := p.Finish()
	return pm, multierr.Append(drainErr, flushErr)
}
