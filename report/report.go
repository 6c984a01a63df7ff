// Package report renders run records as human-readable documents.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gocausal/domain/run"
)

// Markdown renders a run record as a markdown document
func Markdown(rec *run.Record) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Causal Search Run %s\n\n", rec.ID)
	fmt.Fprintf(&b, "- Created: %s\n", rec.CreatedAt.Time().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Data fingerprint: `%s`\n", rec.Fingerprint)
	fmt.Fprintf(&b, "- Orientation rounds: %d (converged: %v)\n", rec.Iterations, rec.Converged)
	fmt.Fprintf(&b, "- Feedback pairs: %d\n\n", rec.TwoCycles)

	b.WriteString("## Edges\n\n")
	if len(rec.Edges) == 0 {
		b.WriteString("No edges survived the screen.\n")
		return []byte(b.String())
	}

	b.WriteString("| # | Tail | Relation | Head |\n")
	b.WriteString("|---|------|----------|------|\n")
	for i, e := range rec.Edges {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, e.Tail, relation(e.Kind), e.Head)
	}
	return []byte(b.String())
}

// HTML converts a markdown report to a standalone HTML fragment
func HTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}

func relation(kind string) string {
	switch kind {
	case "directed":
		return "&rarr;"
	case "bidirected":
		return "&harr;"
	default:
		return "&mdash;"
	}
}
