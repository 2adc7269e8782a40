// Package chat runs the ingest-and-index pipeline behind the HTTP surface.
package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/CoderDill/chat-app-hedera/internal/crypto"
	"github.com/CoderDill/chat-app-hedera/internal/keywords"
	"github.com/CoderDill/chat-app-hedera/internal/ledger"
	"github.com/CoderDill/chat-app-hedera/internal/metrics"
	"github.com/CoderDill/chat-app-hedera/internal/models"
	"github.com/CoderDill/chat-app-hedera/internal/reply"
	"github.com/CoderDill/chat-app-hedera/internal/store"
)

// Options configures a Service.
type Options struct {
	Store         store.IndexStore
	Ledger        ledger.Notifier
	Replies       reply.Generator
	Topic         string
	LedgerTimeout time.Duration
	Logger        zerolog.Logger
}

// Service stamps, anchors and indexes chat messages. Every dependency is
// injected; the service holds no other state.
type Service struct {
	store         store.IndexStore
	ledger        ledger.Notifier
	replies       reply.Generator
	topic         string
	ledgerTimeout time.Duration
	logger        zerolog.Logger
}

// NewService creates a Service. A nil Replies falls back to the canned reply.
func NewService(opts Options) *Service {
	replies := opts.Replies
	if replies == nil {
		replies = reply.NewCanned("")
	}
	return &Service{
		store:         opts.Store,
		ledger:        opts.Ledger,
		replies:       replies,
		topic:         opts.Topic,
		ledgerTimeout: opts.LedgerTimeout,
		logger:        opts.Logger.With().Str("component", "chat").Logger(),
	}
}

// Ingest answers message, anchors the stamped exchange on the ledger and then
// indexes its keywords. The index is only written after the ledger accepted
// the payload; an index failure after that is logged with the transaction id
// and returned.
func (s *Service) Ingest(ctx context.Context, message string) (*models.Message, error) {
	replyText, err := s.replies.Reply(ctx, message)
	if err != nil {
		return nil, err
	}

	st := crypto.NewStamp(message, replyText)

	receipt, err := s.submit(ctx, st.LedgerMessage())
	if err != nil {
		s.logger.Error().Err(err).Str("message_id", st.ID).Msg("ledger submission failed")
		return nil, err
	}
	s.logger.Info().
		Str("message_id", st.ID).
		Str("transaction_id", receipt.TransactionID).
		Str("status", receipt.Status).
		Msg("message stored on ledger")

	kws := keywords.Extract(message + " " + replyText)
	if err := s.store.Put(ctx, st.ID, kws); err != nil {
		s.logger.Error().
			Err(err).
			Str("message_id", st.ID).
			Str("transaction_id", receipt.TransactionID).
			Msg("index write failed after ledger submission")
		return nil, err
	}

	metrics.MessagesIngested.Inc()

	return &models.Message{
		ID:          st.ID,
		Input:       message,
		Reply:       replyText,
		Keywords:    kws,
		ContentHash: st.Hash,
		LedgerTxID:  receipt.TransactionID,
	}, nil
}

func (s *Service) submit(ctx context.Context, payload []byte) (ledger.Receipt, error) {
	if s.ledgerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ledgerTimeout)
		defer cancel()
	}
	return s.ledger.Submit(ctx, s.topic, payload)
}

// Search returns the ids of messages matching the keywords of query.
func (s *Service) Search(ctx context.Context, query string) ([]string, error) {
	metrics.SearchQueries.Inc()
	return s.store.Query(ctx, keywords.Extract(query))
}

// Count returns the number of indexed messages.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
