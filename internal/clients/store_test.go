package clients_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"laneboard/internal/clients"
	"laneboard/internal/services"
	"laneboard/internal/testsupport"
)

func lanePriorities(t *testing.T, store *clients.Store, lane clients.Lane) []int {
	t.Helper()
	members, err := store.ListByLane(context.Background(), lane)
	if err != nil {
		t.Fatalf("ListByLane(%s): %v", lane, err)
	}
	out := make([]int, 0, len(members))
	for _, member := range members {
		out = append(out, member.Priority)
	}
	return out
}

func TestCreateAppendsToBottomOfLane(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first, err := store.Create(ctx, clients.NewClient{Name: "Acme", Org: "Acme Corp"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.Lane != clients.LaneBacklog || first.Priority != 1 {
		t.Fatalf("expected backlog/1, got %s/%d", first.Lane, first.Priority)
	}
	if first.Org != "Acme Corp" {
		t.Fatalf("expected org to round-trip, got %q", first.Org)
	}
	if first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set, got %#v", first)
	}

	second := testsupport.NewClient(t, store, "Globex", clients.LaneBacklog)
	if second.Priority != 2 {
		t.Fatalf("expected second client at priority 2, got %d", second.Priority)
	}

	other := testsupport.NewClient(t, store, "Initech", clients.LaneComplete)
	if other.Priority != 1 {
		t.Fatalf("expected first complete client at priority 1, got %d", other.Priority)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.Create(ctx, clients.NewClient{Name: "  "}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
	_, err := store.Create(ctx, clients.NewClient{Name: "Acme", Lane: "archived"})
	if !errors.Is(err, services.ErrInvalidLane) {
		t.Fatalf("expected invalid lane error, got %v", err)
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	client, err := store.GetByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if client != nil {
		t.Fatalf("expected nil for missing client, got %#v", client)
	}
}

func TestListOrdersByLaneThenPriority(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.NewClient(t, store, "done", clients.LaneComplete)
	testsupport.NewClient(t, store, "b1", clients.LaneBacklog)
	testsupport.NewClient(t, store, "wip", clients.LaneInProgress)
	testsupport.NewClient(t, store, "b2", clients.LaneBacklog)

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var names []string
	for _, client := range all {
		names = append(names, client.Name)
	}
	if diff := cmp.Diff([]string{"b1", "b2", "wip", "done"}, names); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	filtered, err := store.List(ctx, clients.LaneInProgress, clients.LaneComplete)
	if err != nil {
		t.Fatalf("List filtered failed: %v", err)
	}
	if len(filtered) != 2 || filtered[0].Name != "wip" || filtered[1].Name != "done" {
		t.Fatalf("unexpected filtered list: %#v", filtered)
	}
}

func TestStatsIncludesEveryLane(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedLane(t, store, clients.LaneBacklog, 3)

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	want := map[clients.Lane]int{
		clients.LaneBacklog:    3,
		clients.LaneInProgress: 0,
		clients.LaneComplete:   0,
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Fatalf("unexpected stats (-want +got):\n%s", diff)
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	ids := testsupport.SeedLane(t, store, clients.LaneBacklog, 3)

	boom := errors.New("boom")
	err := store.Update(ctx, func(tx clients.Tx) error {
		if _, err := tx.ShiftRange(ctx, clients.LaneBacklog, 1, 2, 1); err != nil {
			return err
		}
		if err := tx.SetLaneAndPriority(ctx, ids[2], clients.LaneComplete, 1); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if diff := cmp.Diff([]int{1, 2, 3}, lanePriorities(t, store, clients.LaneBacklog)); diff != "" {
		t.Fatalf("backlog changed after rollback (-want +got):\n%s", diff)
	}
	moved, err := store.GetByID(ctx, ids[2])
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if moved.Lane != clients.LaneBacklog {
		t.Fatalf("expected client to stay in backlog, got %s", moved.Lane)
	}
}

func TestShiftRangeBounds(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.SeedLane(t, store, clients.LaneBacklog, 4)
	testsupport.SeedLane(t, store, clients.LaneComplete, 2)

	var shifted int64
	err := store.Update(ctx, func(tx clients.Tx) error {
		n, err := tx.ShiftRange(ctx, clients.LaneBacklog, 2, 3, 1)
		shifted = n
		if err != nil {
			return err
		}
		if n, err := tx.ShiftRange(ctx, clients.LaneBacklog, 5, 4, 1); err != nil || n != 0 {
			t.Errorf("empty range shifted %d rows (err %v)", n, err)
		}
		if _, err := tx.ShiftRange(ctx, clients.LaneBacklog, 1, 1, 2); err == nil {
			t.Error("expected error for delta 2")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if shifted != 2 {
		t.Fatalf("expected 2 rows shifted, got %d", shifted)
	}
	if diff := cmp.Diff([]int{1, 3, 4, 4}, lanePriorities(t, store, clients.LaneBacklog)); diff != "" {
		t.Fatalf("unexpected backlog priorities (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, lanePriorities(t, store, clients.LaneComplete)); diff != "" {
		t.Fatalf("other lane changed (-want +got):\n%s", diff)
	}
}

func TestSetLaneAndPriorityMissingClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	err := store.Update(ctx, func(tx clients.Tx) error {
		return tx.SetLaneAndPriority(ctx, 99, clients.LaneBacklog, 1)
	})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuditAndRenumber(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.SeedLane(t, store, clients.LaneBacklog, 3)
	testsupport.SeedLane(t, store, clients.LaneInProgress, 2)

	violations, err := store.Audit(ctx)
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %#v", violations)
	}

	// Open a gap at priority 2 in the backlog.
	if err := store.Update(ctx, func(tx clients.Tx) error {
		_, err := tx.ShiftRange(ctx, clients.LaneBacklog, 2, 3, 1)
		return err
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	violations, err = store.Audit(ctx)
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	want := []clients.LaneViolation{{Lane: clients.LaneBacklog, Count: 3, Priorities: []int{1, 3, 4}}}
	if diff := cmp.Diff(want, violations); diff != "" {
		t.Fatalf("unexpected violations (-want +got):\n%s", diff)
	}

	changed, err := store.Renumber(ctx, clients.LaneBacklog)
	if err != nil {
		t.Fatalf("Renumber failed: %v", err)
	}
	if changed != 2 {
		t.Fatalf("expected 2 clients renumbered, got %d", changed)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, lanePriorities(t, store, clients.LaneBacklog)); diff != "" {
		t.Fatalf("unexpected priorities after renumber (-want +got):\n%s", diff)
	}
}

func TestIsDense(t *testing.T) {
	cases := []struct {
		in   []int
		want bool
	}{
		{nil, true},
		{[]int{1}, true},
		{[]int{3, 1, 2}, true},
		{[]int{1, 1}, false},
		{[]int{2}, false},
		{[]int{1, 3}, false},
	}
	for _, tc := range cases {
		if got := clients.IsDense(tc.in); got != tc.want {
			t.Fatalf("IsDense(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCheckHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedLane(t, store, clients.LaneComplete, 2)

	health, err := store.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.Healthy() {
		t.Fatalf("expected healthy database, got %#v", health)
	}
	if health.SchemaVersion != 1 || health.TotalClients != 2 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
	if health.DBPath != cfg.DatabasePath() {
		t.Fatalf("expected db path %q, got %q", cfg.DatabasePath(), health.DBPath)
	}
}

func TestSeedIfEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seedPath := filepath.Join(testsupport.BaseDir(cfg), "seed.toml")
	seed := `
[[clients]]
name = "Acme"
org = "Acme Corp"

[[clients]]
name = "Globex"
status = "in-progress"

[[clients]]
name = "Hooli"
status = "In-Progress"
`
	if err := os.WriteFile(seedPath, []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	inputs, err := clients.LoadSeed(seedPath)
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}

	inserted, err := store.SeedIfEmpty(ctx, inputs)
	if err != nil {
		t.Fatalf("SeedIfEmpty failed: %v", err)
	}
	if inserted != 3 {
		t.Fatalf("expected 3 inserted, got %d", inserted)
	}
	if diff := cmp.Diff([]int{1, 2}, lanePriorities(t, store, clients.LaneInProgress)); diff != "" {
		t.Fatalf("unexpected in-progress priorities (-want +got):\n%s", diff)
	}

	again, err := store.SeedIfEmpty(ctx, inputs)
	if err != nil {
		t.Fatalf("second SeedIfEmpty failed: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected non-empty board to skip seeding, got %d", again)
	}
}

func TestParseLane(t *testing.T) {
	cases := map[string]struct {
		lane clients.Lane
		ok   bool
	}{
		"backlog":       {clients.LaneBacklog, true},
		" In-Progress ": {clients.LaneInProgress, true},
		"COMPLETE":      {clients.LaneComplete, true},
		"in_progress":   {"", false},
		"":              {"", false},
		"archived":      {"", false},
	}
	for input, want := range cases {
		lane, ok := clients.ParseLane(input)
		if lane != want.lane || ok != want.ok {
			t.Fatalf("ParseLane(%q) = %q, %v; want %q, %v", input, lane, ok, want.lane, want.ok)
		}
	}
}
