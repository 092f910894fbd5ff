package postgres

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"
)

// ProcessorEventRepo implements ports.ProcessorEventRepository.
type ProcessorEventRepo struct {
	pool Pool
}

func NewProcessorEventRepo(pool Pool) *ProcessorEventRepo {
	return &ProcessorEventRepo{pool: pool}
}

func (r *ProcessorEventRepo) Create(ctx context.Context, ev *domain.ProcessorEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO processor_events (id, provider, event, reference, outcome, payload, error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.ID, ev.Provider, ev.Event, ev.Reference, ev.Outcome, ev.Payload, ev.Error, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert processor event: %w", err)
	}
	return nil
}

// ListByReference returns deliveries for a reference, newest first.
func (r *ProcessorEventRepo) ListByReference(ctx context.Context, reference string) ([]domain.ProcessorEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, provider, event, reference, outcome, payload, error, created_at
		 FROM processor_events
		 WHERE reference = $1
		 ORDER BY created_at DESC`, reference)
	if err != nil {
		return nil, fmt.Errorf("list processor events: %w", err)
	}
	defer rows.Close()

	var events []domain.ProcessorEvent
	for rows.Next() {
		var ev domain.ProcessorEvent
		if err := rows.Scan(
			&ev.ID, &ev.Provider, &ev.Event, &ev.Reference, &ev.Outcome, &ev.Payload, &ev.Error, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan processor event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
