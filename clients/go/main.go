// chat - command line client for the chat service
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/CoderDill/chat-app-hedera/clients/go/chatclient"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	client := chatclient.NewClient(os.Getenv("CHAT_URL"))
	ctx := context.Background()
	cmd := os.Args[1]

	switch cmd {
	case "health":
		resp, err := client.Health(ctx)
		exitOnError(err)
		printJSON(resp)

	case "stats":
		resp, err := client.Stats(ctx)
		exitOnError(err)
		printJSON(resp)

	case "send":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: chat send <message>")
			os.Exit(1)
		}
		resp, err := client.Chat(ctx, strings.Join(os.Args[2:], " "))
		exitOnError(err)
		fmt.Println(resp.Response)
		fmt.Printf("id: %s\n", resp.ID)

	case "search":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: chat search <query>")
			os.Exit(1)
		}
		resp, err := client.Search(ctx, strings.Join(os.Args[2:], " "))
		exitOnError(err)
		for _, m := range resp.Messages {
			fmt.Println(m.ID)
		}

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`chat - client for the ledger-anchored chat service

Usage: chat <command> [args]

Commands:
  send <message>    Send a chat message
  search <query>    Search indexed messages
  stats             Show index statistics
  health            Check server health

Environment:
  CHAT_URL      Server URL (default: http://localhost:3000)`)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
