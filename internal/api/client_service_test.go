package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"laneboard/internal/clients"
	"laneboard/internal/ranking"
	"laneboard/internal/services"
)

type mockReader struct {
	clients   []clients.Client
	lanes     []clients.Lane
	listErr   error
	getErr    error
	requested int64
}

func (m *mockReader) List(_ context.Context, lanes ...clients.Lane) ([]clients.Client, error) {
	m.lanes = lanes
	return m.clients, m.listErr
}

func (m *mockReader) GetByID(_ context.Context, id int64) (*clients.Client, error) {
	m.requested = id
	if m.getErr != nil {
		return nil, m.getErr
	}
	for i := range m.clients {
		if m.clients[i].ID == id {
			return &m.clients[i], nil
		}
	}
	return nil, nil
}

type mockReorderer struct {
	id     int64
	req    ranking.Request
	result ranking.Result
	err    error
}

func (m *mockReorderer) Reorder(_ context.Context, id int64, req ranking.Request) (ranking.Result, error) {
	m.id = id
	m.req = req
	return m.result, m.err
}

func sampleClients() []clients.Client {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return []clients.Client{
		{ID: 1, Name: "Acme", Lane: clients.LaneBacklog, Priority: 1, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Name: "Globex", Org: "Globex Corp", Lane: clients.LaneComplete, Priority: 1},
	}
}

func TestClientServiceListFiltersByStatus(t *testing.T) {
	reader := &mockReader{clients: sampleClients()}
	svc := NewClientService(reader, nil)

	got, err := svc.List(context.Background(), "In-Progress")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if diff := cmp.Diff([]clients.Lane{clients.LaneInProgress}, reader.lanes); diff != "" {
		t.Fatalf("unexpected lane filter (-want +got):\n%s", diff)
	}
	if len(got) != 2 || got[0].CreatedAt != "2026-03-01T09:30:00.000Z" {
		t.Fatalf("unexpected DTOs: %#v", got)
	}
	if got[1].CreatedAt != "" {
		t.Fatalf("expected zero timestamp to be omitted, got %q", got[1].CreatedAt)
	}
}

func TestClientServiceListRejectsUnknownStatus(t *testing.T) {
	svc := NewClientService(&mockReader{}, nil)
	_, err := svc.List(context.Background(), "archived")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if services.KindOf(err) != services.KindInvalidLane {
		t.Fatalf("expected invalid lane kind, got %q", services.KindOf(err))
	}
}

func TestClientServiceListEmptyBoardEncodesArray(t *testing.T) {
	svc := NewClientService(&mockReader{}, nil)
	got, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	payload, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != "[]" {
		t.Fatalf("expected [], got %s", payload)
	}
}

func TestClientServiceDescribe(t *testing.T) {
	reader := &mockReader{clients: sampleClients()}
	svc := NewClientService(reader, nil)
	ctx := context.Background()

	got, err := svc.Describe(ctx, "2")
	if err != nil {
		t.Fatalf("Describe returned error: %v", err)
	}
	if got.Name != "Globex" || got.Org != "Globex Corp" || got.Status != "complete" {
		t.Fatalf("unexpected client: %#v", got)
	}

	cases := []struct {
		id       string
		wantKind services.Kind
	}{
		{"abc", services.KindValidation},
		{"0", services.KindValidation},
		{"99", services.KindNotFound},
	}
	for _, tc := range cases {
		_, err := svc.Describe(ctx, tc.id)
		if services.KindOf(err) != tc.wantKind {
			t.Fatalf("Describe(%q) kind = %q, want %q (err %v)", tc.id, services.KindOf(err), tc.wantKind, err)
		}
		if status, _ := ErrorStatus(err); status != http.StatusBadRequest {
			t.Fatalf("Describe(%q) status = %d, want 400", tc.id, status)
		}
	}
}

func TestClientServiceDescribeStoreFailureIsInternal(t *testing.T) {
	svc := NewClientService(&mockReader{getErr: errors.New("disk I/O error")}, nil)
	_, err := svc.Describe(context.Background(), "1")
	status, body := ErrorStatus(err)
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Message != internalMessage || body.LongMessage != internalLongMessage {
		t.Fatalf("internal detail leaked: %#v", body)
	}
}

func TestClientServiceMovePassesPriorityForms(t *testing.T) {
	cases := []struct {
		name string
		body string
		want *string
	}{
		{"number", `{"priority": 3}`, ptr("3")},
		{"string", `{"priority": "2"}`, ptr("2")},
		{"null", `{"priority": null}`, nil},
		{"absent", `{}`, nil},
		{"fraction", `{"priority": 1.5}`, ptr("1.5")},
		{"bool", `{"priority": true}`, ptr("true")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body MoveBody
			if err := json.Unmarshal([]byte(tc.body), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			reorderer := &mockReorderer{}
			svc := NewClientService(&mockReader{}, reorderer)
			if _, err := svc.Move(context.Background(), "5", body); err != nil {
				t.Fatalf("Move returned error: %v", err)
			}
			if reorderer.id != 5 {
				t.Fatalf("expected id 5, got %d", reorderer.id)
			}
			if diff := cmp.Diff(tc.want, reorderer.req.Priority); diff != "" {
				t.Fatalf("unexpected priority input (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClientServiceMovePassesStatusForms(t *testing.T) {
	cases := []struct {
		name string
		body string
		want *string
	}{
		{"string", `{"status": "complete"}`, ptr("complete")},
		{"number", `{"status": 7, "priority": 1}`, ptr("7")},
		{"object", `{"status": {"lane": "backlog"}}`, ptr(`{"lane": "backlog"}`)},
		{"array", `{"status": ["backlog"]}`, ptr(`["backlog"]`)},
		{"null", `{"status": null}`, nil},
		{"absent", `{"priority": 2}`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body MoveBody
			if err := json.Unmarshal([]byte(tc.body), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			reorderer := &mockReorderer{}
			svc := NewClientService(&mockReader{}, reorderer)
			if _, err := svc.Move(context.Background(), "5", body); err != nil {
				t.Fatalf("Move returned error: %v", err)
			}
			if diff := cmp.Diff(tc.want, reorderer.req.Lane); diff != "" {
				t.Fatalf("unexpected status input (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClientServiceMoveErrors(t *testing.T) {
	notFound := services.Wrap(services.ErrNotFound, "reorder", "client 8 does not exist", nil)
	internal := services.Wrap(services.ErrInternal, "reorder", "client 8", errors.New("disk full"))

	cases := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{"bad id", "eight", nil, http.StatusBadRequest},
		{"not found", "8", notFound, http.StatusBadRequest},
		{"internal", "8", internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewClientService(&mockReader{}, &mockReorderer{err: tc.err})
			_, err := svc.Move(context.Background(), tc.id, MoveBody{})
			if err == nil {
				t.Fatal("expected error")
			}
			status, body := ErrorStatus(err)
			if status != tc.wantStatus {
				t.Fatalf("status = %d, want %d", status, tc.wantStatus)
			}
			if body.Message == "" || body.LongMessage == "" {
				t.Fatalf("expected both messages to be set, got %#v", body)
			}
		})
	}
}

func TestFromHealthFlagsViolations(t *testing.T) {
	health := clients.DatabaseHealth{
		DBPath:           "/tmp/laneboard.db",
		DatabaseExists:   true,
		DatabaseReadable: true,
		SchemaVersion:    1,
		IntegrityCheck:   true,
		TotalClients:     2,
		LaneCounts:       map[clients.Lane]int{clients.LaneBacklog: 2},
		Violations:       []clients.LaneViolation{{Lane: clients.LaneBacklog, Count: 2, Priorities: []int{1, 3}}},
	}
	dto := FromHealth(health)
	if dto.Status != "degraded" {
		t.Fatalf("expected degraded status, got %q", dto.Status)
	}
	if len(dto.Violations) != 1 || dto.Violations[0] != "backlog: 2 clients ranked [1 3]" {
		t.Fatalf("unexpected violations: %v", dto.Violations)
	}
	if dto.Lanes["backlog"] != 2 {
		t.Fatalf("unexpected lane counts: %v", dto.Lanes)
	}
}

func ptr(s string) *string { return &s }
