package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

const pageStyle = "body{font-family:system-ui,sans-serif;background:#f9f7f3;margin:0;padding:1rem;} " +
	".analysis{max-width:960px;margin:0 auto;background:#fff;border:1px solid #e7e5e4;padding:1rem 1.5rem;} " +
	".analysis-meta{color:#44403c;font-size:0.85rem;margin-bottom:0.75rem;} " +
	".analysis-badge{display:inline-block;background:#dbeafe;color:#1e3a8a;border-radius:4px;padding:0 0.4rem;margin-right:0.4rem;} " +
	".analysis-body table{width:100%;border-collapse:collapse;font-size:0.85rem;} " +
	".analysis-body th,.analysis-body td{border:1px solid #a8a29e;padding:0.3rem 0.45rem;text-align:left;} " +
	".analysis-body thead th{background:#f1f5f9;}"

// Fragment converts narrative markdown to an HTML fragment.
func Fragment(markdown string) (string, error) {
	var out bytes.Buffer
	if err := md.Convert([]byte(markdown), &out); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return out.String(), nil
}

// Document renders a standalone page for one analysis result.
func Document(result analysis.AnalysisResult, narrative string) (string, error) {
	body, err := Fragment(narrative)
	if err != nil {
		return "", err
	}
	title := html.EscapeString(result.Title)
	var b strings.Builder
	b.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>")
	b.WriteString(title)
	b.WriteString("</title><style>")
	b.WriteString(pageStyle)
	b.WriteString("</style></head><body><section class='analysis'>")
	b.WriteString("<div class='analysis-meta'>")
	b.WriteString(metaHTML(result))
	b.WriteString("</div><div class='analysis-body'>")
	b.WriteString(body)
	b.WriteString("</div></section></body></html>")
	return b.String(), nil
}

func metaHTML(result analysis.AnalysisResult) string {
	var out strings.Builder
	out.WriteString("<span class='analysis-badge'>" + html.EscapeString(string(result.Type)) + "</span>")
	if !result.Timestamp.IsZero() {
		out.WriteString("<strong>Generated:</strong> " + html.EscapeString(result.Timestamp.UTC().Format(time.RFC1123)))
	}
	return out.String()
}
