package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mihirvv/jobassist/internal/config"
)

func testModelConfig(name string) config.ModelConfig {
	return config.ModelConfig{
		Name:        name,
		Temperature: 0.7,
		MaxTokens:   512,
		Timeout:     2 * time.Second,
	}
}

func TestComplete_ChatShape(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		io.WriteString(w, `{"message":{"role":"assistant","content":"Dear hiring manager,"},"done":true}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testModelConfig("model-a"), srv.Client())
	got, err := c.Complete(context.Background(), "write a letter")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Dear hiring manager," {
		t.Errorf("Complete = %q", got)
	}
	if gotReq.Model != "model-a" || gotReq.Stream {
		t.Errorf("request = %+v, want model-a non-streaming", gotReq)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "write a letter" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if gotReq.Options["num_predict"] != float64(512) {
		t.Errorf("options = %v, want num_predict 512", gotReq.Options)
	}
}

func TestComplete_GenerateShapeNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"response":"plain text answer","done":true}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testModelConfig("model-a"), srv.Client())
	got, err := c.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "plain text answer" {
		t.Errorf("Complete = %q, want bare response field normalized", got)
	}
}

func TestComplete_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"model crashed"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testModelConfig("model-a"), srv.Client())
	if _, err := c.Complete(context.Background(), "hi"); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestComplete_ErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"model not loaded"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testModelConfig("model-a"), srv.Client())
	if _, err := c.Complete(context.Background(), "hi"); err == nil {
		t.Fatal("expected error when body carries an error field")
	}
}

func TestComplete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	mc := testModelConfig("model-a")
	mc.Timeout = 20 * time.Millisecond
	c := NewClient(srv.URL, mc, srv.Client())
	if _, err := c.Complete(context.Background(), "hi"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestComplete_ZeroMaxTokensOmitted(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		io.WriteString(w, `{"message":{"content":"OK"},"done":true}`)
	}))
	defer srv.Close()

	mc := testModelConfig("model-a")
	mc.MaxTokens = 0
	c := NewClient(srv.URL, mc, srv.Client())
	if _, err := c.Complete(context.Background(), "hi"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, present := gotReq.Options["num_predict"]; present {
		t.Error("num_predict sent despite zero max_tokens")
	}
}
