package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCMD().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCMD() *cobra.Command {
	var root = &cobra.Command{
		Use:          "chatctl",
		Short:        "Operator tools for the chat service",
		SilenceUsage: true,
	}

	root.AddCommand(stampCMD(), searchCMD(), migrateCMD(), genkeyCMD())
	return root
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
