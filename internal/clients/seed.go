package clients

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"laneboard/internal/services"
)

type seedFile struct {
	Clients []NewClient `toml:"clients"`
}

// LoadSeed reads a TOML file of [[clients]] tables.
func LoadSeed(path string) ([]NewClient, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer file.Close()

	var seed seedFile
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&seed); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return seed.Clients, nil
}

// SeedIfEmpty inserts inputs in order, each at the bottom of its lane, when
// the database holds no clients. It returns the number inserted.
func (s *Store) SeedIfEmpty(ctx context.Context, inputs []NewClient) (int, error) {
	if len(inputs) == 0 {
		return 0, nil
	}
	inserted := 0
	err := s.Update(ctx, func(tx Tx) error {
		sqlTx := tx.(*sqlTx)
		var total int
		if err := sqlTx.tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM clients`).Scan(&total); err != nil {
			return fmt.Errorf("count clients: %w", err)
		}
		if total > 0 {
			return nil
		}
		counts := make(map[Lane]int, len(allLanes))
		for i, input := range inputs {
			name := strings.TrimSpace(input.Name)
			if name == "" {
				return services.Wrap(services.ErrValidation, "seed", fmt.Sprintf("entry %d has no name", i+1), nil)
			}
			lane := input.Lane
			if lane == "" {
				lane = LaneBacklog
			}
			parsed, ok := ParseLane(string(lane))
			if !ok {
				return services.Wrap(services.ErrInvalidLane, "seed", fmt.Sprintf("entry %d: %q", i+1, lane), nil)
			}
			counts[parsed]++
			if _, err := sqlTx.insert(ctx, input, name, parsed, counts[parsed]); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
