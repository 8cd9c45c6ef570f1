package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"laneboard/internal/services"
)

// Tx is the set of rank operations available inside Store.Update. Every call
// made through one Tx commits or rolls back together.
type Tx interface {
	Get(ctx context.Context, id int64) (*Client, error)
	CountLane(ctx context.Context, lane Lane) (int, error)
	ListLane(ctx context.Context, lane Lane) ([]Client, error)
	// ShiftRange adds delta (+1 or -1) to the priority of every client in lane
	// whose priority lies in [from, to].
	ShiftRange(ctx context.Context, lane Lane, from, to, delta int) (int64, error)
	SetLaneAndPriority(ctx context.Context, id int64, lane Lane, priority int) error
}

// Update runs fn inside a single write transaction. Writers are serialized,
// and any error returned by fn rolls back every change it made.
func (s *Store) Update(ctx context.Context, fn func(Tx) error) error {
	if fn == nil {
		return errors.New("update function is nil")
	}
	ctx = ensureContext(ctx)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin update tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if err := fn(&sqlTx{tx: tx}); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit update tx: %w", err)
		}
		return nil
	})
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Get(ctx context.Context, id int64) (*Client, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	client, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return client, nil
}

func (t *sqlTx) CountLane(ctx context.Context, lane Lane) (int, error) {
	var count int
	if err := t.tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM clients WHERE status = ?`, string(lane)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count lane %s: %w", lane, err)
	}
	return count, nil
}

func (t *sqlTx) ListLane(ctx context.Context, lane Lane) ([]Client, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE status = ? ORDER BY priority, id`, string(lane))
	if err != nil {
		return nil, fmt.Errorf("list lane %s: %w", lane, err)
	}
	clients, err := scanClients(rows)
	if err != nil {
		return nil, fmt.Errorf("scan lane %s: %w", lane, err)
	}
	return clients, nil
}

func (t *sqlTx) ShiftRange(ctx context.Context, lane Lane, from, to, delta int) (int64, error) {
	if delta != 1 && delta != -1 {
		return 0, fmt.Errorf("shift lane %s: delta must be +1 or -1, got %d", lane, delta)
	}
	if from > to {
		return 0, nil
	}
	res, err := t.tx.ExecContext(ctx,
		`UPDATE clients SET priority = priority + ?, updated_at = ?
         WHERE status = ? AND priority BETWEEN ? AND ?`,
		delta, nowString(), string(lane), from, to,
	)
	if err != nil {
		return 0, fmt.Errorf("shift lane %s [%d,%d] by %d: %w", lane, from, to, delta, err)
	}
	return res.RowsAffected()
}

func (t *sqlTx) SetLaneAndPriority(ctx context.Context, id int64, lane Lane, priority int) error {
	if !lane.Valid() {
		return services.Wrap(services.ErrInvalidLane, "set lane", fmt.Sprintf("%q", lane), nil)
	}
	if priority <= 0 {
		return services.Wrap(services.ErrInvalidPriority, "set priority", fmt.Sprintf("%d", priority), nil)
	}
	res, err := t.tx.ExecContext(ctx,
		`UPDATE clients SET status = ?, priority = ?, updated_at = ? WHERE id = ?`,
		string(lane), priority, nowString(), id,
	)
	if err != nil {
		return fmt.Errorf("set client %d to %s/%d: %w", id, lane, priority, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set client %d rows affected: %w", id, err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "set lane", fmt.Sprintf("client %d", id), nil)
	}
	return nil
}

func (t *sqlTx) insert(ctx context.Context, input NewClient, name string, lane Lane, priority int) (int64, error) {
	timestamp := nowString()
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO clients (
            name, description, org, contact_name, contact_email,
            status, priority, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		name,
		nullableString(strings.TrimSpace(input.Description)),
		nullableString(strings.TrimSpace(input.Org)),
		nullableString(strings.TrimSpace(input.ContactName)),
		nullableString(strings.TrimSpace(input.ContactEmail)),
		string(lane),
		priority,
		timestamp,
		timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert client: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}
