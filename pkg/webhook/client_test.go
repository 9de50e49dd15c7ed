package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_SendAlert(t *testing.T) {
	var got Alert
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected json content type, got %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode alert: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(time.Second)
	err := client.SendAlert(context.Background(), srv.URL, Alert{
		Alert:               "consecutive_all_fail",
		RunNumber:           7,
		ConsecutiveFailures: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.RunNumber != 7 || got.ConsecutiveFailures != 3 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestClient_SendAlertErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(time.Second)
	if err := client.SendAlert(context.Background(), srv.URL, Alert{}); err == nil {
		t.Fatal("expected error for 400 response")
	}
}
