package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"laneboard/internal/clients"
	"laneboard/internal/logging"
	"laneboard/internal/metrics"
	"laneboard/internal/services"
)

// Store is the transactional rank store the engine mutates.
type Store interface {
	Update(ctx context.Context, fn func(clients.Tx) error) error
	List(ctx context.Context, lanes ...clients.Lane) ([]clients.Client, error)
}

// Result is the outcome of a successful reorder.
type Result struct {
	// Clients is a fresh snapshot of every client read after commit.
	Clients  []clients.Client
	Move     Move
	Moved    bool
	Rejected []error
}

// Engine applies reorders against a Store.
type Engine struct {
	store  Store
	logger *slog.Logger
}

// NewEngine constructs an engine. A nil logger discards output.
func NewEngine(store Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logging.NewComponentLogger(logger, "ranking"),
	}
}

// Reorder moves client id according to req and returns the full snapshot.
func (e *Engine) Reorder(ctx context.Context, id int64, req Request) (Result, error) {
	start := time.Now()
	ctx = services.WithClientID(ctx, id)
	logger := logging.WithContext(ctx, e.logger)

	plan := Validate(req)
	for _, rejected := range plan.Rejected {
		metrics.RecordRejectedInput(string(services.KindOf(rejected)))
		logger.Warn("reorder input ignored",
			logging.String(logging.FieldEventType, "reorder_input_rejected"),
			logging.String("kind", string(services.KindOf(rejected))),
			logging.Error(rejected),
		)
	}

	var move Move
	err := e.store.Update(ctx, func(tx clients.Tx) error {
		var err error
		move, err = e.apply(ctx, tx, id, plan)
		return err
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			metrics.RecordReorder(metrics.OutcomeNotFound, time.Since(start))
			logger.Info("reorder target missing", logging.Error(err))
			return Result{}, err
		}
		metrics.RecordReorder(metrics.OutcomeError, time.Since(start))
		logger.Error("reorder rolled back",
			logging.String(logging.FieldEventType, "reorder_failed"),
			logging.Error(err),
		)
		return Result{}, services.Wrap(services.ErrInternal, "reorder", fmt.Sprintf("client %d", id), err)
	}

	snapshot, err := e.store.List(ctx)
	if err != nil {
		metrics.RecordReorder(metrics.OutcomeError, time.Since(start))
		logger.Error("snapshot after reorder failed", logging.Error(err))
		return Result{}, services.Wrap(services.ErrInternal, "reorder", "read snapshot", err)
	}
	publishLaneSizes(snapshot)

	outcome := metrics.OutcomeNoop
	if move.Changed() {
		outcome = metrics.OutcomeMoved
		logger.Info("client reordered",
			logging.String(logging.FieldEventType, "client_reordered"),
			logging.String("from_lane", string(move.From.Lane)),
			logging.Int("from_priority", move.From.Priority),
			logging.String(logging.FieldLane, string(move.To.Lane)),
			logging.Int("priority", move.To.Priority),
			logging.Int("shifts", len(move.Shifts)),
		)
	} else {
		logger.Debug("reorder left client in place",
			logging.String(logging.FieldLane, string(move.From.Lane)),
			logging.Int("priority", move.From.Priority),
		)
	}
	metrics.RecordReorder(outcome, time.Since(start))

	return Result{
		Clients:  snapshot,
		Move:     move,
		Moved:    move.Changed(),
		Rejected: plan.Rejected,
	}, nil
}

func (e *Engine) apply(ctx context.Context, tx clients.Tx, id int64, plan Plan) (Move, error) {
	client, err := tx.Get(ctx, id)
	if err != nil {
		return Move{}, err
	}
	if client == nil {
		return Move{}, services.Wrap(services.ErrNotFound, "reorder", fmt.Sprintf("client %d does not exist", id), nil)
	}

	cur := Position{Lane: client.Lane, Priority: client.Priority}
	if plan.Empty() {
		return Move{From: cur, To: cur}, nil
	}

	oldCount, err := tx.CountLane(ctx, cur.Lane)
	if err != nil {
		return Move{}, err
	}
	targetCount := oldCount
	if plan.HasLane && plan.Lane != cur.Lane {
		targetCount, err = tx.CountLane(ctx, plan.Lane)
		if err != nil {
			return Move{}, err
		}
	}

	move := PlanShifts(cur, plan, oldCount, targetCount)
	if !move.Changed() {
		return move, nil
	}
	for _, shift := range move.Shifts {
		if _, err := tx.ShiftRange(ctx, shift.Lane, shift.From, shift.To, shift.Delta); err != nil {
			return Move{}, err
		}
	}
	if err := tx.SetLaneAndPriority(ctx, id, move.To.Lane, move.To.Priority); err != nil {
		return Move{}, err
	}
	return move, nil
}

func publishLaneSizes(snapshot []clients.Client) {
	sizes := make(map[string]int, 3)
	for _, lane := range clients.Lanes() {
		sizes[string(lane)] = 0
	}
	for _, client := range snapshot {
		sizes[string(client.Lane)]++
	}
	metrics.SetLaneSizes(sizes)
}
