package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// DedupeStore implements ports.DeliveryDedupe. A marker is written once per
// (event, reference) and replayed verbatim for later deliveries.
type DedupeStore struct {
	client goredis.UniversalClient
	prefix string
}

func NewDedupeStore(client goredis.UniversalClient) *DedupeStore {
	return &DedupeStore{
		client: client,
		prefix: "dedupe:",
	}
}

func (s *DedupeStore) key(event, reference string) string {
	return s.prefix + event + ":" + reference
}

// Lookup returns the remembered ack, or nil, nil when the delivery is unseen.
func (s *DedupeStore) Lookup(ctx context.Context, event, reference string) (*domain.Ack, error) {
	raw, err := s.client.Get(ctx, s.key(event, reference)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis dedupe get: %w", err)
	}

	var ack domain.Ack
	if err := json.Unmarshal(raw, &ack); err != nil {
		return nil, fmt.Errorf("decode dedupe marker: %w", err)
	}
	return &ack, nil
}

// Remember stores ack unless a marker already exists. The first writer wins.
func (s *DedupeStore) Remember(ctx context.Context, ack domain.Ack, ttl time.Duration) error {
	raw, err := json.Marshal(ack)
	if err != nil {
		return fmt.Errorf("encode dedupe marker: %w", err)
	}

	err = s.client.SetArgs(ctx, s.key(ack.Event, ack.Reference), raw, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis dedupe set: %w", err)
	}
	return nil
}
