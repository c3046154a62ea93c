package workers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchChangesRetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(GetProfileChangesResponse{
			Profiles: []MirroredProfile{{ExternalID: "u1", Username: "alice"}},
		})
	}))
	defer server.Close()

	w := NewPlayerSyncWorker(nil, server.URL, "/changes", "token")
	resp, err := w.fetchChanges(context.Background(), server.URL+"/changes")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(resp.Profiles) != 1 || resp.Profiles[0].Username != "alice" {
		t.Fatalf("resp = %+v", resp)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("calls = %d, want 3 (two transient failures then success)", got)
	}
}

func TestFetchChangesDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	w := NewPlayerSyncWorker(nil, server.URL, "/changes", "token")
	if _, err := w.fetchChanges(context.Background(), server.URL+"/changes"); err == nil {
		t.Fatal("expected error on 404")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls = %d, want 1 (4xx is permanent)", got)
	}
}

func TestFetchChangesSendsServiceToken(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Service-Token")
		_ = json.NewEncoder(w).Encode(GetProfileChangesResponse{})
	}))
	defer server.Close()

	w := NewPlayerSyncWorker(nil, server.URL, "/changes", "sekrit")
	if _, err := w.fetchChanges(context.Background(), server.URL+"/changes"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotToken != "sekrit" {
		t.Fatalf("service token header = %q", gotToken)
	}
}

func TestSyncBatchNoChangesIsNoop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("since") == "" {
			t.Error("since query parameter missing")
		}
		_ = json.NewEncoder(w).Encode(GetProfileChangesResponse{})
	}))
	defer server.Close()

	// nil db is safe here: an empty change set never touches the store.
	w := NewPlayerSyncWorker(nil, server.URL, "/changes", "token")
	if err := w.syncBatch(context.Background(), time.Time{}); err != nil {
		t.Fatalf("sync: %v", err)
	}
}
