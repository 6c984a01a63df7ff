package report

import (
	"strings"
	"testing"

	"gocausal/domain/core"
	"gocausal/domain/run"
)

func sampleRecord() *run.Record {
	return &run.Record{
		ID:          core.RunID("run-1"),
		CreatedAt:   core.Now(),
		Fingerprint: core.Hash("abc123"),
		Iterations:  3,
		Converged:   true,
		TwoCycles:   1,
		Edges: []run.EdgeRecord{
			{Tail: "X", Head: "Y", Kind: "directed"},
			{Tail: "Y", Head: "Z", Kind: "undirected"},
		},
	}
}

func TestMarkdownContainsRunFacts(t *testing.T) {
	md := string(Markdown(sampleRecord()))

	for _, want := range []string{"run-1", "abc123", "Feedback pairs: 1", "| X |", "| Z |"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdownWithNoEdges(t *testing.T) {
	rec := sampleRecord()
	rec.Edges = nil
	md := string(Markdown(rec))
	if !strings.Contains(md, "No edges") {
		t.Fatalf("expected the empty-graph note:\n%s", md)
	}
}

func TestHTMLRendersTable(t *testing.T) {
	out := string(HTML(Markdown(sampleRecord())))
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "<h1") {
		t.Fatalf("expected an HTML table and heading:\n%s", out)
	}
}
