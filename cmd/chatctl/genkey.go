package main

import (
	"fmt"

	"github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/spf13/cobra"
)

// genkeyCMD generates an operator key pair for HEDERA_PRIVATE_KEY.
func genkeyCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "genkey",
		Short: "Generate an Ed25519 Hedera operator key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := hedera.PrivateKeyGenerateEd25519()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Private key: %s\n", key.String())
			fmt.Fprintf(cmd.OutOrStdout(), "Public key:  %s\n", key.PublicKey().String())
			return nil
		},
	}
}
