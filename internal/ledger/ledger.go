// Package ledger anchors stamped chat messages on an external append-only log.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CoderDill/chat-app-hedera/internal/metrics"
)

// ErrSubmission signals that the ledger rejected or never received a payload.
var ErrSubmission = errors.New("ledger submission failed")

// Driver names accepted by the configuration.
const (
	DriverHedera = "hedera"
	DriverLog    = "log"
)

// Receipt describes an accepted submission. It is used for logging only.
type Receipt struct {
	TransactionID string
	Status        string
}

// Notifier submits opaque payloads to a ledger topic.
type Notifier interface {
	Submit(ctx context.Context, topic string, payload []byte) (Receipt, error)
	Driver() string
	Close() error
}

func submissionError(err error) error {
	return fmt.Errorf("%w: %w", ErrSubmission, err)
}

// await runs fn and gives up once ctx is done. fn keeps running in the
// background until it returns on its own; its result is then discarded.
func await(ctx context.Context, fn func() (Receipt, error)) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, submissionError(err)
	}

	type result struct {
		receipt Receipt
		err     error
	}
	done := make(chan result, 1)
	go func() {
		r, err := fn()
		done <- result{r, err}
	}()

	select {
	case res := <-done:
		return res.receipt, res.err
	case <-ctx.Done():
		return Receipt{}, submissionError(ctx.Err())
	}
}

// Instrument records submission outcomes and latency of n.
func Instrument(n Notifier) Notifier {
	return &instrumented{Notifier: n}
}

type instrumented struct {
	Notifier
}

func (n *instrumented) Submit(ctx context.Context, topic string, payload []byte) (Receipt, error) {
	start := time.Now()
	receipt, err := n.Notifier.Submit(ctx, topic, payload)
	metrics.LedgerLatency.WithLabelValues(n.Driver()).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.LedgerSubmissions.WithLabelValues(n.Driver(), outcome).Inc()
	return receipt, err
}
