package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
	"github.com/joelkehle/competitor-analysis/internal/session"
)

var (
	productName   string
	marketSegment string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question in-process",
	Example: `  analyst ask "Compare Slack vs Microsoft Teams"
  analyst ask --product "Acme Chat" --segment b2b "Give me a competitor overview"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, release, err := openCatalog()
		if err != nil {
			return err
		}
		defer release()

		store := newLocalStore(cat)
		id := store.Create(productInput()).ID
		res, err := store.Turn(id, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printTurn(cmd.OutOrStdout(), res)
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive in-process conversation",
	Long: `chat keeps one session across questions, so competitors named earlier
stay tracked. Type /new for a fresh session and /quit to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, release, err := openCatalog()
		if err != nil {
			return err
		}
		defer release()

		store := newLocalStore(cat)
		id := store.Create(productInput()).ID
		out := cmd.OutOrStdout()
		greet, _ := store.Messages(id)
		printMarkdown(out, greet[0].Content)

		return repl(cmd.InOrStdin(), out, func(line string) error {
			if line == "/new" {
				id = store.Create(productInput()).ID
				fmt.Fprintln(out, "Started a new session.")
				return nil
			}
			res, err := store.Turn(id, line)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				return nil
			}
			return printTurn(out, res)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{askCmd, chatCmd} {
		c.Flags().StringVar(&productName, "product", "", "your product name")
		c.Flags().StringVar(&marketSegment, "segment", string(analysis.SegmentNotSure), "market segment: b2b, b2c or not_sure")
	}
}

func productInput() *analysis.ProductInput {
	if productName == "" {
		return nil
	}
	return &analysis.ProductInput{
		ProductName:   productName,
		MarketSegment: analysis.MarketSegment(marketSegment),
	}
}

// repl feeds non-empty lines to handle until EOF or /quit.
func repl(in io.Reader, out io.Writer, handle func(line string) error) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		}
		if err := handle(line); err != nil {
			return err
		}
	}
}

func printTurn(w io.Writer, res session.TurnResult) error {
	if outputJSON {
		return printJSON(w, map[string]any{
			"response":       res.Message.Content,
			"analysisResult": res.Result,
			"suggestions":    res.Suggestions,
			"session_id":     res.SessionID,
		})
	}
	printMarkdown(w, res.Message.Content)
	printSuggestions(w, res.Suggestions)
	return nil
}

func printSuggestions(w io.Writer, suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(w, "Next:")
	for _, s := range suggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}
}
