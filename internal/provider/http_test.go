package provider

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPProvider_Fetch(t *testing.T) {
	var gotZone, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotZone = r.URL.Query().Get("timeZone")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"unixTime": 1700000000}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL+"?timeZone=${zone}", time.Second, time.UTC, nil)
	epoch, err := p.Fetch(context.Background(), "America/New_York")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if epoch != 1700000000000 {
		t.Errorf("epoch = %d, expected 1700000000000", epoch)
	}
	if gotZone != "America/New_York" {
		t.Errorf("server saw zone %q, expected America/New_York", gotZone)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept header = %q, expected application/json", gotAccept)
	}
}

func TestHTTPProvider_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, time.Second, time.UTC, nil)
	_, err := p.Fetch(context.Background(), "Etc/UTC")
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error %q should mention the status", err)
	}
}

func TestHTTPProvider_UndecodablePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weather":"sunny"}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, time.Second, time.UTC, nil)
	_, err := p.Fetch(context.Background(), "Etc/UTC")
	if err == nil {
		t.Fatal("expected error for unrecognized payload")
	}
}

func TestHTTPProvider_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	p := NewHTTPProvider(server.URL, time.Second, time.UTC, nil)
	if _, err := p.Fetch(context.Background(), "Etc/UTC"); err == nil {
		t.Fatal("expected error when the server is unreachable")
	}
}

func TestHTTPProvider_BadTemplate(t *testing.T) {
	p := NewHTTPProvider("http://example.com/${nope}", time.Second, time.UTC, nil)
	if _, err := p.Fetch(context.Background(), "Etc/UTC"); err == nil {
		t.Fatal("expected error for bad URL template")
	}
}

func TestHTTPProvider_DebugOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unixTime": 1700000000}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	p := NewHTTPProvider(server.URL, time.Second, time.UTC, NewDebugLogger(&buf))
	if _, err := p.Fetch(context.Background(), "Etc/UTC"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "TIME REQUEST") {
		t.Error("debug output missing request dump")
	}
	if !strings.Contains(out, "TIME RESPONSE") {
		t.Error("debug output missing response dump")
	}
	if !strings.Contains(out, "unixTime") {
		t.Error("debug output missing response body")
	}
}
