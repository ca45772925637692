package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blobs-proxy/internal/config"
	"blobs-proxy/internal/metrics"
)

func testConfig(timeout int) *config.Config {
	return &config.Config{
		Upstream: config.UpstreamConfig{
			TimeoutSeconds:  timeout,
			IdleConnections: 10,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBlobsClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer abc" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer abc")
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"value":"hi"}`))
	}))
	defer srv.Close()

	c := NewBlobsClient(testConfig(10), testLogger(), nil)

	header := http.Header{"Authorization": {"Bearer abc"}}
	resp, err := c.Send(context.Background(), http.MethodGet, srv.URL+"/store/key", header, nil)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if string(resp.Body) != `{"value":"hi"}` {
		t.Errorf("body = %q, want %q", resp.Body, `{"value":"hi"}`)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/plain" {
		t.Errorf("Content-Type = %q, want %q", ct, "text/plain")
	}
}

func TestBlobsClient_Send_Body(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != "payload" {
			t.Errorf("body = %q, want %q", body, "payload")
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewBlobsClient(testConfig(10), testLogger(), nil)

	resp, err := c.Send(context.Background(), http.MethodPut, srv.URL, http.Header{}, strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if len(resp.Body) != 0 {
		t.Errorf("body = %q, want empty", resp.Body)
	}
}

func TestBlobsClient_Send_Error(t *testing.T) {
	c := NewBlobsClient(testConfig(1), testLogger(), nil)

	_, err := c.Send(context.Background(), http.MethodGet, "http://127.0.0.1:1/nonexistent", http.Header{}, nil)
	if err == nil {
		t.Fatal("Send() expected error for unreachable host, got nil")
	}
}

func TestBlobsClient_Send_InvalidMethod(t *testing.T) {
	c := NewBlobsClient(testConfig(1), testLogger(), nil)

	_, err := c.Send(context.Background(), "BAD METHOD", "http://127.0.0.1:1/", http.Header{}, nil)
	if err == nil {
		t.Fatal("Send() expected error for invalid method, got nil")
	}
	if !strings.Contains(err.Error(), "build upstream request") {
		t.Errorf("error = %q, want build error", err)
	}
}

func TestBlobsClient_Send_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewBlobsClient(testConfig(30), testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Send(ctx, http.MethodGet, srv.URL+"/slow", http.Header{}, nil)
	if err == nil {
		t.Fatal("Send() expected error for canceled context, got nil")
	}
}

func TestBlobsClient_RecordsMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	m := metrics.New("/blobs-proxy")
	c := NewBlobsClient(testConfig(10), testLogger(), m)

	if _, err := c.Send(context.Background(), http.MethodGet, srv.URL, http.Header{}, nil); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	var sawResponses, sawDuration bool
	for _, f := range families {
		switch f.GetName() {
		case "blobs_proxy_upstream_responses_total":
			for _, metric := range f.GetMetric() {
				labels := make(map[string]string)
				for _, lp := range metric.GetLabel() {
					labels[lp.GetName()] = lp.GetValue()
				}
				if labels["method"] == "GET" && labels["status_code"] == "404" {
					sawResponses = true
				}
			}
		case "blobs_proxy_upstream_request_duration_seconds":
			for _, metric := range f.GetMetric() {
				if metric.GetHistogram().GetSampleCount() == 1 {
					sawDuration = true
				}
			}
		}
	}
	if !sawResponses {
		t.Error("expected blobs_proxy_upstream_responses_total{method=GET,status_code=404}")
	}
	if !sawDuration {
		t.Error("expected one blobs_proxy_upstream_request_duration_seconds sample")
	}
}
