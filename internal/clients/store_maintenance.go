package clients

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Audit reports every lane whose priorities are not exactly 1..N.
func (s *Store) Audit(ctx context.Context) ([]LaneViolation, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT status, priority FROM clients ORDER BY `+laneOrder+`, priority`)
	if err != nil {
		return nil, fmt.Errorf("audit lanes: %w", err)
	}
	defer rows.Close()

	byLane := make(map[Lane][]int)
	var order []Lane
	for rows.Next() {
		var lane Lane
		var priority int
		if err := rows.Scan(&lane, &priority); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		if _, seen := byLane[lane]; !seen {
			order = append(order, lane)
		}
		byLane[lane] = append(byLane[lane], priority)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var violations []LaneViolation
	for _, lane := range order {
		priorities := byLane[lane]
		if !IsDense(priorities) {
			violations = append(violations, LaneViolation{
				Lane:       lane,
				Count:      len(priorities),
				Priorities: priorities,
			})
		}
	}
	return violations, nil
}

// IsDense reports whether priorities, in any order, are exactly 1..len.
func IsDense(priorities []int) bool {
	sorted := make([]int, len(priorities))
	copy(sorted, priorities)
	sort.Ints(sorted)
	for i, p := range sorted {
		if p != i+1 {
			return false
		}
	}
	return true
}

// Renumber reassigns priorities 1..N to a lane, keeping the current relative
// order (ties broken by id). It returns the number of clients rewritten.
func (s *Store) Renumber(ctx context.Context, lane Lane) (int64, error) {
	if !lane.Valid() {
		return 0, fmt.Errorf("renumber: unknown lane %q", lane)
	}
	var changed int64
	err := s.Update(ctx, func(tx Tx) error {
		members, err := tx.ListLane(ctx, lane)
		if err != nil {
			return err
		}
		for i, member := range members {
			want := i + 1
			if member.Priority == want {
				continue
			}
			if err := tx.SetLaneAndPriority(ctx, member.ID, lane, want); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("renumber lane %s: %w", lane, err)
	}
	return changed, nil
}

// CheckHealth returns diagnostic information about the client database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("client database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat client database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("client database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("client database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ensureContext(ctx), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping client database: %w", err)
	}
	health.DatabaseReadable = true

	if err := s.db.QueryRowContext(connCtx, "SELECT version FROM schema_version LIMIT 1").Scan(&health.SchemaVersion); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("read schema version: %w", err)
	}

	var integrityResult string
	if err := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check").Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	stats, err := s.Stats(connCtx)
	if err != nil {
		health.Error = err.Error()
		return health, err
	}
	health.LaneCounts = stats
	for _, count := range stats {
		health.TotalClients += count
	}

	violations, err := s.Audit(connCtx)
	if err != nil {
		health.Error = err.Error()
		return health, err
	}
	health.Violations = violations
	return health, nil
}
