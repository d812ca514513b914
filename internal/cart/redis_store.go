package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Jadline/MinoxidilKe-sub001/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists one cart snapshot per cart id so a returning
// client gets its cart back.
type RedisStore struct {
	RDB    *redis.Client
	CartID string
}

func (s *RedisStore) key() string { return fmt.Sprintf(redisx.KeyCart, s.CartID) }

func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, s.key(), b, redisx.TTLCart).Err()
}

func (s *RedisStore) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	b, err := s.RDB.Get(ctx, s.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return snap, nil
	}
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(b, &snap); err != nil {
		return snap, err
	}
	return snap, nil
}
