package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"laneboard/internal/clients"
	"laneboard/internal/ranking"
	"laneboard/internal/services"
)

// ClientReader abstracts the read-only store calls used by the API.
type ClientReader interface {
	List(ctx context.Context, lanes ...clients.Lane) ([]clients.Client, error)
	GetByID(ctx context.Context, id int64) (*clients.Client, error)
}

// Reorderer applies moves.
type Reorderer interface {
	Reorder(ctx context.Context, id int64, req ranking.Request) (ranking.Result, error)
}

// MoveBody is the JSON body of a move request. Both fields are optional and
// kept raw so a malformed value disables only its own part of the move.
type MoveBody struct {
	Status   json.RawMessage `json:"status"`
	Priority json.RawMessage `json:"priority"`
}

// MoveResult is the outcome of a move: the full board plus the inputs that
// were ignored.
type MoveResult struct {
	Clients  []Client
	Moved    bool
	Rejected []error
}

// ClientService exposes client operations returning API DTOs.
type ClientService struct {
	reader    ClientReader
	reorderer Reorderer
}

// NewClientService constructs a ClientService.
func NewClientService(reader ClientReader, reorderer Reorderer) *ClientService {
	return &ClientService{reader: reader, reorderer: reorderer}
}

// List returns every client, or only those in status when it is non-empty.
func (s *ClientService) List(ctx context.Context, status string) ([]Client, error) {
	var lanes []clients.Lane
	if status != "" {
		lane, ok := clients.ParseLane(status)
		if !ok {
			return nil, &ValidationError{
				Message:     "Invalid status",
				LongMessage: fmt.Sprintf("status %q must be one of backlog, in-progress, complete", status),
				Err:         services.ErrInvalidLane,
			}
		}
		lanes = append(lanes, lane)
	}
	list, err := s.reader.List(ctx, lanes...)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "list clients", "", err)
	}
	return FromClients(list), nil
}

// Describe fetches a single client by its textual id.
func (s *ClientService) Describe(ctx context.Context, idStr string) (*Client, error) {
	id, err := ParseID(idStr)
	if err != nil {
		return nil, err
	}
	client, err := s.reader.GetByID(ctx, id)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "get client", "", err)
	}
	if client == nil {
		return nil, &ValidationError{
			Message:     "Client not found",
			LongMessage: fmt.Sprintf("no client with id %d exists", id),
			Err:         services.ErrNotFound,
		}
	}
	dto := FromClient(client)
	return &dto, nil
}

// Move applies body to the client identified by idStr and returns the board.
func (s *ClientService) Move(ctx context.Context, idStr string, body MoveBody) (MoveResult, error) {
	id, err := ParseID(idStr)
	if err != nil {
		return MoveResult{}, err
	}
	req := ranking.Request{Lane: scalarInput(body.Status), Priority: scalarInput(body.Priority)}
	result, err := s.reorderer.Reorder(ctx, id, req)
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			return MoveResult{}, &ValidationError{
				Message:     "Client not found",
				LongMessage: fmt.Sprintf("no client with id %d exists", id),
				Err:         err,
			}
		}
		return MoveResult{}, err
	}
	return MoveResult{
		Clients:  FromClients(result.Clients),
		Moved:    result.Moved,
		Rejected: result.Rejected,
	}, nil
}

// ParseID parses a positive client identifier.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{
			Message:     "Invalid client id",
			LongMessage: fmt.Sprintf("client id %q must be a positive integer", raw),
			Err:         services.ErrValidation,
		}
	}
	return id, nil
}

// scalarInput flattens a JSON value into the raw string the engine validates.
// Strings are unquoted, numbers keep their literal text, and anything else is
// passed through verbatim so validation rejects it. Absent and null mean the
// caller did not ask for that part of the move.
func scalarInput(raw json.RawMessage) *string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return &text
	}
	var number json.Number
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&number); err == nil {
		value := number.String()
		return &value
	}
	value := string(trimmed)
	return &value
}
