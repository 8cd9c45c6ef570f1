package services_test

import (
	"context"
	"testing"

	"laneboard/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithClientID(ctx, 42)
	ctx = services.WithLane(ctx, "backlog")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.ClientIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected client id: %v %v", id, ok)
	}
	if lane, ok := services.LaneFromContext(ctx); !ok || lane != "backlog" {
		t.Fatalf("unexpected lane: %v %v", lane, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithLane(ctx, "")
	ctx = services.WithRequestID(ctx, "")
	if _, ok := services.LaneFromContext(ctx); ok {
		t.Fatal("expected no lane value")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
	if _, ok := services.ClientIDFromContext(ctx); ok {
		t.Fatal("expected no client id")
	}
}
