package llm

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReachable_UpAndDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"models":[]}`)
	}))
	p := NewOllamaProber(srv.URL, time.Second, srv.Client(), discardLogger())
	if !p.Reachable(context.Background()) {
		t.Error("Reachable = false for live server")
	}

	srv.Close()
	if p.Reachable(context.Background()) {
		t.Error("Reachable = true for closed server")
	}
}

func TestReachable_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewOllamaProber(srv.URL, time.Second, srv.Client(), discardLogger())
	if p.Reachable(context.Background()) {
		t.Error("Reachable = true for 503 response")
	}
}

func TestInstalledModels_ParsesNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"models":[{"name":"llama3.1:8b","size":123},{"name":"gemma2:9b"}]}`)
	}))
	defer srv.Close()

	p := NewOllamaProber(srv.URL, time.Second, srv.Client(), discardLogger())
	models := p.InstalledModels(context.Background())
	if len(models) != 2 || models[0] != "llama3.1:8b" || models[1] != "gemma2:9b" {
		t.Errorf("InstalledModels = %v", models)
	}
}

func TestInstalledModels_UnreachableIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	p := NewOllamaProber(srv.URL, time.Second, http.DefaultClient, discardLogger())
	if models := p.InstalledModels(context.Background()); len(models) != 0 {
		t.Errorf("InstalledModels = %v, want empty for unreachable server", models)
	}
}

func TestInstalledModels_MalformedResponseIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"models": "not-an-array"`)
	}))
	defer srv.Close()

	p := NewOllamaProber(srv.URL, time.Second, srv.Client(), discardLogger())
	if models := p.InstalledModels(context.Background()); len(models) != 0 {
		t.Errorf("InstalledModels = %v, want empty for malformed response", models)
	}
}
