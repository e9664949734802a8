package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/joelkehle/competitor-analysis/internal/chatclient"
)

var (
	serverURL     string
	remoteSession string
	newSession    bool
)

var remoteCmd = &cobra.Command{
	Use:   "remote [question]",
	Short: "Ask a running competitor-chat server",
	Long: `remote sends the question to a competitor-chat server. Without a
question it starts an interactive conversation. Server failures print an
apology instead of an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := chatclient.NewClient(serverURL)
		client.SetSessionID(remoteSession)
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if newSession {
			if _, err := client.CreateSession(ctx, productInput()); err != nil {
				return err
			}
		}
		send := func(line string) error {
			reply := client.Send(ctx, line)
			if outputJSON {
				return printJSON(out, reply)
			}
			printMarkdown(out, reply.Response)
			printSuggestions(out, reply.Suggestions)
			return nil
		}
		if len(args) > 0 {
			return send(strings.Join(args, " "))
		}
		return repl(cmd.InOrStdin(), out, send)
	},
}

func init() {
	remoteCmd.Flags().StringVar(&serverURL, "url", "http://localhost:8095", "competitor-chat base URL")
	remoteCmd.Flags().StringVar(&remoteSession, "session", "", "session id (default: the server's default session)")
	remoteCmd.Flags().BoolVar(&newSession, "new", false, "create a fresh session first")
	remoteCmd.Flags().StringVar(&productName, "product", "", "product name for a --new session")
	remoteCmd.Flags().StringVar(&marketSegment, "segment", "not_sure", "market segment for a --new session")
}
