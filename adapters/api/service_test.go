package api

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gocausal/adapters/memory"
	"gocausal/domain/run"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewService(memory.NewRunRepository()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// skewedRequest builds a Y = 0.8*X + e matrix the search orients as X --> Y
func skewedRequest() RunRequest {
	rng := rand.New(rand.NewSource(17))
	n := 2000
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = rng.ExpFloat64() - 1
		e := 0.5 * (rng.ExpFloat64() - 1)
		y[i] = 0.8*x[i] + e
	}
	return RunRequest{
		Variables: []string{"X", "Y"},
		Columns:   [][]float64{x, y},
	}
}

func postRun(t *testing.T, srv *httptest.Server, req RunRequest) *run.Record {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(srv.URL+"/runs", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var rec run.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	return &rec
}

func TestCreateRunOrientsPair(t *testing.T) {
	srv := newTestServer(t)
	rec := postRun(t, srv, skewedRequest())

	if rec.ID == "" {
		t.Fatal("run id must be assigned")
	}
	if len(rec.Edges) != 1 {
		t.Fatalf("edges = %v, want one", rec.Edges)
	}
	e := rec.Edges[0]
	if e.Tail != "X" || e.Head != "Y" || e.Kind != "directed" {
		t.Fatalf("edge = %+v, want X --> Y", e)
	}
}

func TestGetRunRoundtrip(t *testing.T) {
	srv := newTestServer(t)
	created := postRun(t, srv, skewedRequest())

	resp, err := http.Get(srv.URL + "/runs/" + created.ID.String())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got run.Record
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ID != created.ID || len(got.Edges) != len(created.Edges) {
		t.Fatalf("roundtrip mismatch: %+v vs %+v", got, created)
	}
}

func TestGetMissingRunIs404(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/runs/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRunReportFormats(t *testing.T) {
	srv := newTestServer(t)
	created := postRun(t, srv, skewedRequest())

	resp, err := http.Get(srv.URL + "/runs/" + created.ID.String() + "/report")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	resp.Body.Close()
	if !strings.Contains(buf.String(), "# Causal Search Run") {
		t.Fatalf("markdown report missing heading:\n%s", buf.String())
	}

	resp, err = http.Get(srv.URL + "/runs/" + created.ID.String() + "/report?format=html")
	if err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	buf.ReadFrom(resp.Body)
	resp.Body.Close()
	if !strings.Contains(buf.String(), "<table>") {
		t.Fatalf("html report missing table:\n%s", buf.String())
	}
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t)

	// malformed body
	resp, err := http.Post(srv.URL+"/runs", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	// knowledge referencing an unknown variable
	req := skewedRequest()
	req.Knowledge = &RunKnowledge{Required: [][2]string{{"X", "Q"}}}
	body, _ := json.Marshal(req)
	resp, err = http.Post(srv.URL+"/runs", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestKnowledgeForcesReverseDirection(t *testing.T) {
	srv := newTestServer(t)
	req := skewedRequest()
	req.Knowledge = &RunKnowledge{Required: [][2]string{{"Y", "X"}}}

	rec := postRun(t, srv, req)
	if len(rec.Edges) != 1 {
		t.Fatalf("edges = %v, want one", rec.Edges)
	}
	e := rec.Edges[0]
	if e.Tail != "Y" || e.Head != "X" || e.Kind != "directed" {
		t.Fatalf("edge = %+v, want forced Y --> X", e)
	}
}
