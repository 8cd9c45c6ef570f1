package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"laneboard/internal/services"
)

// GetByID fetches a client by identifier. It returns nil, nil when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*Client, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	client, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return client, nil
}

// List returns clients in board order, optionally restricted to lanes.
func (s *Store) List(ctx context.Context, lanes ...Lane) ([]Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	args := make([]any, 0, len(lanes))
	if len(lanes) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(lanes)) + `)`
		for _, lane := range lanes {
			args = append(args, string(lane))
		}
	}
	query += ` ORDER BY ` + laneOrder + `, priority, id`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	clients, err := scanClients(rows)
	if err != nil {
		return nil, fmt.Errorf("scan clients: %w", err)
	}
	return clients, nil
}

// ListByLane returns the clients of one lane ordered by priority.
func (s *Store) ListByLane(ctx context.Context, lane Lane) ([]Client, error) {
	return s.List(ctx, lane)
}

// Stats returns the member count of every lane. All lanes are present.
func (s *Store) Stats(ctx context.Context) (map[Lane]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM clients GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("lane stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Lane]int, len(allLanes))
	for _, lane := range allLanes {
		stats[lane] = 0
	}
	for rows.Next() {
		var lane Lane
		var count int
		if err := rows.Scan(&lane, &count); err != nil {
			return nil, err
		}
		stats[lane] = count
	}
	return stats, rows.Err()
}

// Create inserts a client at the bottom of its lane.
func (s *Store) Create(ctx context.Context, input NewClient) (*Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "create client", "name is required", nil)
	}
	lane := input.Lane
	if lane == "" {
		lane = LaneBacklog
	}
	parsed, ok := ParseLane(string(lane))
	if !ok {
		return nil, services.Wrap(services.ErrInvalidLane, "create client", fmt.Sprintf("%q", lane), nil)
	}

	var id int64
	err := s.Update(ctx, func(tx Tx) error {
		count, err := tx.CountLane(ctx, parsed)
		if err != nil {
			return err
		}
		id, err = tx.(*sqlTx).insert(ctx, input, name, parsed, count+1)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}
