package http

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_GetBytes(t *testing.T) {
	payload := []byte("\xff\xd8\xff poster bytes")
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write(payload)
	}))
	defer srv.Close()

	client := NewClient(Options{UserAgent: "test-agent"})
	status, body, err := client.GetBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetBytes failed: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if !bytes.Equal(body, payload) {
		t.Errorf("body = %q, want %q", body, payload)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "test-agent")
	}
}

func TestClient_GetBytes_NonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(DefaultOptions())
	status, body, err := client.GetBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetBytes failed: %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if body != nil {
		t.Errorf("body = %q, want nil for non-200", body)
	}
}

func TestClient_HeaderTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(Options{ReadTimeout: 100 * time.Millisecond})
	_, _, err := client.GetBytes(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var netErr net.Error
	if !errors.As(err, &netErr) || !netErr.Timeout() {
		t.Errorf("expected a timeout net.Error, got %v", err)
	}
}

func TestClient_BodyReadTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("partial"))
		w.(http.Flusher).Flush()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(Options{ReadTimeout: 100 * time.Millisecond})
	start := time.Now()
	_, _, err := client.GetBytes(context.Background(), srv.URL)
	if !errors.Is(err, ErrReadTimeout) {
		t.Fatalf("expected ErrReadTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("read timeout took %v", elapsed)
	}
}

func TestClient_SlowButSteadyBodyIsNotATimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 5; i++ {
			w.Write([]byte("chunk"))
			w.(http.Flusher).Flush()
			time.Sleep(50 * time.Millisecond)
		}
	}))
	defer srv.Close()

	// Total transfer exceeds ReadTimeout, but no single read does.
	client := NewClient(Options{ReadTimeout: 150 * time.Millisecond})
	_, body, err := client.GetBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetBytes failed: %v", err)
	}
	if string(body) != "chunkchunkchunkchunkchunk" {
		t.Errorf("body = %q", body)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	client := NewClient(DefaultOptions())
	if _, _, err := client.GetBytes(context.Background(), "http://"+addr+"/x.jpg"); err == nil {
		t.Error("expected connection error")
	}
}

func TestClient_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewClient(Options{RequestsPerSecond: 10})
	start := time.Now()
	for i := 0; i < 21; i++ {
		if _, _, err := client.GetBytes(context.Background(), srv.URL); err != nil {
			t.Fatalf("GetBytes failed: %v", err)
		}
	}
	// Burst of 10, then 11 more at 10/s.
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Errorf("21 requests at 10/s finished in %v", elapsed)
	}
}
