package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shoplite/shoplite-api/internal/domain/repository"
)

// CartStore keeps carts as redis hashes: cart:{cartID} maps product id to
// quantity. Every write refreshes the TTL so active carts stay alive and
// abandoned ones expire on their own.
type CartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCartStore(rdb *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{rdb: rdb, ttl: ttl}
}

func cartKey(cartID string) string {
	return "cart:" + cartID
}

func (s *CartStore) Get(ctx context.Context, cartID string) (map[string]int, error) {
	data, err := s.rdb.HGetAll(ctx, cartKey(cartID)).Result()
	if err != nil {
		return nil, err
	}
	cart := make(map[string]int, len(data))
	for pid, raw := range data {
		qty, err := strconv.Atoi(raw)
		if err != nil || qty <= 0 {
			continue
		}
		cart[pid] = qty
	}
	return cart, nil
}

func (s *CartStore) Add(ctx context.Context, cartID, productID string, qty int) error {
	key := cartKey(cartID)
	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, key, productID, int64(qty))
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *CartStore) Set(ctx context.Context, cartID, productID string, qty int) error {
	if qty <= 0 {
		return s.Remove(ctx, cartID, productID)
	}
	key := cartKey(cartID)
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, productID, qty)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *CartStore) Remove(ctx context.Context, cartID, productID string) error {
	return s.rdb.HDel(ctx, cartKey(cartID), productID).Err()
}

func (s *CartStore) Clear(ctx context.Context, cartID string) error {
	return s.rdb.Del(ctx, cartKey(cartID)).Err()
}

var _ repository.CartRepository = (*CartStore)(nil)
