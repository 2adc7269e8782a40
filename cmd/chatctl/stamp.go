package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CoderDill/chat-app-hedera/internal/crypto"
	"github.com/CoderDill/chat-app-hedera/internal/keywords"
	"github.com/CoderDill/chat-app-hedera/internal/reply"
)

type stampOutput struct {
	ID            string   `json:"id"`
	Payload       string   `json:"payload"`
	Hash          string   `json:"hash"`
	LedgerMessage string   `json:"ledger_message"`
	Keywords      []string `json:"keywords"`
}

// stampCMD prints the identifier, payload and hash the server would anchor
// for a message. With --id the output is reproducible, which is how a ledger
// record is verified against its original text.
func stampCMD() *cobra.Command {
	var id, input, replyText string

	var stamp = &cobra.Command{
		Use:   "stamp",
		Short: "Compute the ledger stamp for a message (reads stdin without --input)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				body, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				input = strings.TrimRight(string(body), "\r\n")
			}
			if input == "" {
				return fmt.Errorf("no input: pass --input or pipe the message on stdin")
			}

			var st crypto.Stamp
			if id != "" {
				st = crypto.StampWithID(id, input, replyText)
			} else {
				st = crypto.NewStamp(input, replyText)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stampOutput{
				ID:            st.ID,
				Payload:       st.Payload,
				Hash:          st.Hash,
				LedgerMessage: string(st.LedgerMessage()),
				Keywords:      keywords.Extract(input + " " + replyText),
			})
		},
	}
	stamp.Flags().StringVar(&id, "id", "", "message id (default: new UUIDv4)")
	stamp.Flags().StringVar(&input, "input", "", "user message")
	stamp.Flags().StringVar(&replyText, "reply", reply.SampleResponse, "assistant reply")

	return stamp
}
