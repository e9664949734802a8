package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

func timeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// renderMarkdown styles markdown for the terminal. It returns content
// unchanged when stdout is not a terminal, --plain is set, or rendering
// fails.
func renderMarkdown(content string) string {
	if plain || !stdoutIsTerminal() {
		return content
	}
	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 && w < width {
		width = w
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}

func printMarkdown(w io.Writer, content string) {
	fmt.Fprintln(w, renderMarkdown(content))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
