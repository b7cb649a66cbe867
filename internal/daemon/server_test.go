package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/rstfmt/rstfmt/pkg/cache"
	"github.com/rstfmt/rstfmt/pkg/config"
	"github.com/rstfmt/rstfmt/pkg/errors"
	"github.com/rstfmt/rstfmt/pkg/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := cache.NewFileStore(afero.NewMemMapFs(), "/cache.json")
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(store, config.Default(), nil)
	return NewServer(runner, store, nil, time.Hour)
}

func postFormat(t *testing.T, s *Server, req FormatRequest) (*httptest.ResponseRecorder, FormatResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, "/v1/format", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	var resp FormatResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("undecodable response: %v", err)
		}
	}
	return w, resp
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header missing")
	}
}

func TestFormatBatch(t *testing.T) {
	s := newTestServer(t)
	w, resp := postFormat(t, s, FormatRequest{Units: []pipeline.Unit{
		{Path: "a.rst", Content: "hello   world\n", Kind: pipeline.KindRST},
		{Path: "b.rst", Content: "fine\n", Kind: pipeline.KindRST},
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].Output != "hello world\n" || resp.Results[0].Verdict != "reformatted" {
		t.Errorf("results[0] = %+v", resp.Results[0])
	}
	if resp.Results[1].Verdict != "unchanged" {
		t.Errorf("results[1] = %+v", resp.Results[1])
	}
}

func TestFormatKindInferredFromPath(t *testing.T) {
	s := newTestServer(t)
	_, resp := postFormat(t, s, FormatRequest{Units: []pipeline.Unit{
		{Path: "doc.rst", Content: "x   y\n"},
	}})
	if resp.Results[0].Output != "x y\n" {
		t.Errorf("kind not inferred from extension: %+v", resp.Results[0])
	}
}

func TestFormatUnitFailureIsolated(t *testing.T) {
	s := newTestServer(t)
	w, resp := postFormat(t, s, FormatRequest{Units: []pipeline.Unit{
		{Path: "bad.rst", Content: "para\n\n| line block\n", Kind: pipeline.KindRST},
		{Path: "good.rst", Content: "still   works\n", Kind: pipeline.KindRST},
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("batch with one bad unit returned %d", w.Code)
	}
	if resp.Results[0].Error == "" || resp.Results[0].Code != string(errors.ErrCodeMalformedInput) {
		t.Errorf("results[0] = %+v, want malformed input error", resp.Results[0])
	}
	if resp.Results[1].Output != "still works\n" {
		t.Errorf("healthy unit affected: %+v", resp.Results[1])
	}
}

func TestFormatBadJSON(t *testing.T) {
	s := newTestServer(t)
	r := httptest.NewRequest(http.MethodPost, "/v1/format", strings.NewReader("{nope"))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), string(errors.ErrCodeChannelError)) {
		t.Errorf("body = %s, want channel error code", w.Body.String())
	}

	// The daemon must keep serving after a bad request.
	r = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w = httptest.NewRecorder()
	s.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("daemon unhealthy after bad request: %d", w.Code)
	}
}

func TestFormatRequestConfigRejectedWhenInvalid(t *testing.T) {
	s := newTestServer(t)
	cfg := config.Default()
	cfg.LineLength = 2
	w, _ := postFormat(t, s, FormatRequest{
		Units:  []pipeline.Unit{{Path: "a.rst", Content: "x\n", Kind: pipeline.KindRST}},
		Config: &cfg,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestFormatEmptyBatchRejected(t *testing.T) {
	s := newTestServer(t)
	w, _ := postFormat(t, s, FormatRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestWarmCacheAcrossRequests(t *testing.T) {
	s := newTestServer(t)
	unit := pipeline.Unit{Path: "a.rst", Content: "canonical\n", Kind: pipeline.KindRST}

	_, first := postFormat(t, s, FormatRequest{Units: []pipeline.Unit{unit}})
	if first.Results[0].CacheHit {
		t.Fatal("first request hit a cold cache")
	}
	_, second := postFormat(t, s, FormatRequest{Units: []pipeline.Unit{unit}})
	if !second.Results[0].CacheHit {
		t.Error("second request missed the warm cache")
	}
}

func TestRunFlushesOnIdleShutdown(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := cache.NewFileStore(fs, "/cache.json")
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(store, config.Default(), nil)
	s := NewServer(runner, store, nil, 50*time.Millisecond)

	if err := store.Store(context.Background(), "warm-entry"); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background(), "127.0.0.1:0")
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("idle timeout did not stop the daemon")
	}

	reloaded, err := cache.NewFileStore(fs, "/cache.json")
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := reloaded.Lookup(context.Background(), "warm-entry"); !ok {
		t.Error("store not flushed on shutdown")
	}
}
