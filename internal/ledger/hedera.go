package ledger

import (
	"context"
	"fmt"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/rs/zerolog"
)

// HederaConfig holds the operator credentials for the Hedera network.
type HederaConfig struct {
	Network    string // testnet, mainnet or previewnet
	AccountID  string
	PrivateKey string
}

// HederaNotifier submits payloads as Hedera Consensus Service topic messages.
type HederaNotifier struct {
	client *hedera.Client
	logger zerolog.Logger
}

// NewHederaNotifier builds a client for cfg.Network operated by cfg.AccountID.
func NewHederaNotifier(cfg HederaConfig, logger zerolog.Logger) (*HederaNotifier, error) {
	network := cfg.Network
	if network == "" {
		network = "testnet"
	}

	accountID, err := hedera.AccountIDFromString(cfg.AccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid hedera account id: %w", err)
	}

	privateKey, err := hedera.PrivateKeyFromString(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid hedera private key: %w", err)
	}

	client, err := hedera.ClientForName(network)
	if err != nil {
		return nil, fmt.Errorf("hedera network %q: %w", network, err)
	}
	client.SetOperator(accountID, privateKey)

	return &HederaNotifier{
		client: client,
		logger: logger.With().Str("component", "hedera").Str("network", network).Logger(),
	}, nil
}

// Submit sends payload to topic and waits for its receipt, at most until ctx
// is done. A submission abandoned that way may still reach consensus.
func (n *HederaNotifier) Submit(ctx context.Context, topic string, payload []byte) (Receipt, error) {
	topicID, err := hedera.TopicIDFromString(topic)
	if err != nil {
		return Receipt{}, submissionError(fmt.Errorf("invalid topic id %q: %w", topic, err))
	}

	r, err := await(ctx, func() (Receipt, error) {
		return n.submit(topicID, payload)
	})
	if err != nil {
		if ctx.Err() != nil {
			n.logger.Warn().Err(err).Str("topic", topic).Msg("gave up waiting for topic message receipt")
		}
		return Receipt{}, err
	}

	n.logger.Debug().
		Str("topic", topic).
		Str("transaction_id", r.TransactionID).
		Str("status", r.Status).
		Msg("topic message submitted")
	return r, nil
}

func (n *HederaNotifier) submit(topicID hedera.TopicID, payload []byte) (Receipt, error) {
	resp, err := hedera.NewTopicMessageSubmitTransaction().
		SetTopicID(topicID).
		SetMessage(payload).
		Execute(n.client)
	if err != nil {
		return Receipt{}, submissionError(err)
	}

	receipt, err := resp.GetReceipt(n.client)
	if err != nil {
		return Receipt{}, submissionError(err)
	}

	return Receipt{
		TransactionID: resp.TransactionID.String(),
		Status:        receipt.Status.String(),
	}, nil
}

// Driver returns the driver name.
func (n *HederaNotifier) Driver() string {
	return DriverHedera
}

// Close releases the client's network connections.
func (n *HederaNotifier) Close() error {
	return n.client.Close()
}
