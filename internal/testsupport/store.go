package testsupport

import (
	"context"
	"fmt"
	"testing"

	"laneboard/internal/clients"
	"laneboard/internal/config"
)

// MustOpenStore opens a clients.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *clients.Store {
	t.Helper()

	store, err := clients.Open(cfg)
	if err != nil {
		t.Fatalf("clients.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewClient inserts a named client at the bottom of lane.
func NewClient(t testing.TB, store *clients.Store, name string, lane clients.Lane) *clients.Client {
	t.Helper()

	client, err := store.Create(context.Background(), clients.NewClient{Name: name, Lane: lane})
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return client
}

// SeedLane inserts count clients named "<lane>-<n>" into lane and returns
// their ids in priority order.
func SeedLane(t testing.TB, store *clients.Store, lane clients.Lane, count int) []int64 {
	t.Helper()

	ids := make([]int64, 0, count)
	for i := 1; i <= count; i++ {
		client := NewClient(t, store, fmt.Sprintf("%s-%d", lane, i), lane)
		ids = append(ids, client.ID)
	}
	return ids
}
