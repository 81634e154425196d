package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestSendTextRetriesTransientGatewayErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message_id":"m1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetry(3))
	id, err := c.SendText(context.Background(), "room", "hello")
	if err != nil {
		t.Fatalf("SendText after transient failures: %v", err)
	}
	if id != "m1" {
		t.Fatalf("message id = %q", id)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("gateway saw %d requests, want 3", got)
	}
}

func TestSendTextDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetry(5))
	if _, err := c.SendText(context.Background(), "room", "hello"); err == nil {
		t.Fatalf("expected an error on 400")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("gateway saw %d requests, want 1 (no retry on 4xx)", got)
	}
}

func TestBackoffDurationGrowsAndCaps(t *testing.T) {
	if backoffDuration(1) != 100*time.Millisecond || backoffDuration(2) != 200*time.Millisecond {
		t.Fatalf("unexpected early backoff: %v, %v", backoffDuration(1), backoffDuration(2))
	}
	if backoffDuration(6) != backoffDuration(20) {
		t.Fatalf("backoff must cap: %v vs %v", backoffDuration(6), backoffDuration(20))
	}
}
