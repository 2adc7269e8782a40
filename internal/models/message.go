package models

// Message represents one ingested chat exchange.
type Message struct {
	ID          string   `json:"id"`
	Input       string   `json:"input"`
	Reply       string   `json:"reply"`
	Keywords    []string `json:"keywords"`
	ContentHash string   `json:"content_hash"`
	LedgerTxID  string   `json:"ledger_tx_id,omitempty"`
}
