package ledger

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// LogNotifier writes submissions to the log instead of a ledger. It is meant
// for local development without network credentials.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier that logs every payload.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "ledger").Logger()}
}

// Submit logs payload and returns a locally generated transaction id.
func (n *LogNotifier) Submit(ctx context.Context, topic string, payload []byte) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, submissionError(err)
	}

	r := Receipt{
		TransactionID: "local-" + ulid.Make().String(),
		Status:        "SUCCESS",
	}
	n.logger.Info().
		Str("topic", topic).
		Str("transaction_id", r.TransactionID).
		Int("bytes", len(payload)).
		Bytes("payload", payload).
		Msg("ledger submission (log only)")
	return r, nil
}

// Driver returns the driver name.
func (n *LogNotifier) Driver() string {
	return DriverLog
}

// Close is a no-op.
func (n *LogNotifier) Close() error {
	return nil
}
