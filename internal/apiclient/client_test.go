package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"laneboard/internal/api"
)

func TestListSendsStatusFilter(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]api.Client{{ID: 1, Name: "Acme", Status: "in-progress", Priority: 1}})
	}))
	defer ts.Close()

	got, err := New(ts.URL+"/").List(context.Background(), "in-progress")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotQuery != "status=in-progress" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	want := []api.Client{{ID: 1, Name: "Acme", Status: "in-progress", Priority: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected clients (-want +got):\n%s", diff)
	}
}

func TestMoveEncodesOnlyProvidedFields(t *testing.T) {
	var body map[string]any
	var method, path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	priority := 2
	if _, err := New(ts.URL).Move(context.Background(), 7, MoveRequest{Priority: &priority}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if method != http.MethodPut || path != "/api/v1/clients/7" {
		t.Fatalf("unexpected request %s %s", method, path)
	}
	if diff := cmp.Diff(map[string]any{"priority": float64(2)}, body); diff != "" {
		t.Fatalf("unexpected body (-want +got):\n%s", diff)
	}
}

func TestErrorBodyBecomesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Message: "Client not found", LongMessage: "no client with id 9 exists"})
	}))
	defer ts.Close()

	_, err := New(ts.URL).Get(context.Background(), 9)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Client not found" {
		t.Fatalf("unexpected APIError: %#v", apiErr)
	}
}

func TestNonJSONErrorFallsBackToStatusText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}))
	defer ts.Close()

	_, err := New(ts.URL).List(context.Background(), "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Method Not Allowed" || apiErr.LongMessage != "method not allowed" {
		t.Fatalf("unexpected error: %#v", err)
	}
}

func TestHealthDegradedReturnsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(api.Health{Status: "degraded", Violations: []string{"backlog: gap"}})
	}))
	defer ts.Close()

	health, err := New(ts.URL).Health(context.Background())
	if err == nil {
		t.Fatal("expected degraded error")
	}
	if health == nil || health.Status != "degraded" || len(health.Violations) != 1 {
		t.Fatalf("expected degraded body, got %#v", health)
	}
}
