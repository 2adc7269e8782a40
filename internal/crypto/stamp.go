package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Delimiter separates the fields of a composite payload. Fields are not
// escaped, so a field containing it makes the payload ambiguous.
const Delimiter = "|"

// Stamp is the identity and integrity record of one chat exchange.
type Stamp struct {
	ID      string
	Payload string
	Hash    string
}

// NewStamp stamps an exchange under a freshly generated identifier.
func NewStamp(input, reply string) Stamp {
	return StampWithID(NewMessageID(), input, reply)
}

// StampWithID stamps an exchange under the given identifier.
func StampWithID(id, input, reply string) Stamp {
	payload := CompositePayload(id, input, reply)
	return Stamp{
		ID:      id,
		Payload: payload,
		Hash:    ContentHash(payload),
	}
}

// LedgerMessage returns the bytes anchored on the ledger.
// Format: id|input|reply|hash
func (s Stamp) LedgerMessage() []byte {
	return []byte(s.Payload + Delimiter + s.Hash)
}

// CompositePayload joins the identifier and texts.
// Format: id|input|reply
func CompositePayload(id, input, reply string) string {
	return strings.Join([]string{id, input, reply}, Delimiter)
}

// ContentHash returns the hex-encoded SHA-256 digest of payload.
func ContentHash(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
