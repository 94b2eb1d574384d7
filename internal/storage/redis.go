package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"kal-storefront/internal/domain"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix   = "cart:"
	popularityKey   = "stats:items:quantity"
	itemNamesKey    = "stats:items:names"
	statusCountsKey = "stats:orders:status"
	DefaultCartTTL  = 24 * time.Hour
)

// RedisCartStore keeps one JSON document per session, refreshed on every write.
type RedisCartStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &RedisCartStore{Client: client, TTL: ttl}
}

func (s *RedisCartStore) CartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}

func (s *RedisCartStore) LoadCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	payload, err := s.Client.Get(ctx, s.CartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return domain.NewCart(sessionID), nil
	}
	if err != nil {
		return nil, err
	}

	cart := domain.NewCart(sessionID)
	if err := json.Unmarshal(payload, cart); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	if cart.Lines == nil {
		cart.Lines = []domain.CartLine{}
	}
	return cart, nil
}

func (s *RedisCartStore) SaveCart(ctx context.Context, cart *domain.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	return s.Client.Set(ctx, s.CartKey(cart.SessionID), payload, s.TTL).Err()
}

func (s *RedisCartStore) DeleteCart(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, s.CartKey(sessionID)).Err()
}

// RedisStatsStore keeps dashboard counters: a sorted set of item quantities
// and a hash of order counts per status.
type RedisStatsStore struct {
	Client *redis.Client
}

func NewRedisStatsStore(client *redis.Client) *RedisStatsStore {
	return &RedisStatsStore{Client: client}
}

func (s *RedisStatsStore) RecordItems(ctx context.Context, lines []domain.EventLine) error {
	if len(lines) == 0 {
		return nil
	}
	pipe := s.Client.TxPipeline()
	for _, line := range lines {
		pipe.ZIncrBy(ctx, popularityKey, float64(line.Quantity), line.ItemID)
		pipe.HSet(ctx, itemNamesKey, line.ItemID, line.Name)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStatsStore) RecordStatus(ctx context.Context, previous, current domain.OrderStatus) error {
	pipe := s.Client.TxPipeline()
	if previous != "" {
		pipe.HIncrBy(ctx, statusCountsKey, string(previous), -1)
	}
	pipe.HIncrBy(ctx, statusCountsKey, string(current), 1)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStatsStore) TopItems(ctx context.Context, limit int) ([]domain.ItemPopularity, error) {
	if limit <= 0 {
		return []domain.ItemPopularity{}, nil
	}
	ranked, err := s.Client.ZRevRangeWithScores(ctx, popularityKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	top := make([]domain.ItemPopularity, 0, len(ranked))
	ids := make([]string, 0, len(ranked))
	for _, z := range ranked {
		id, _ := z.Member.(string)
		ids = append(ids, id)
		top = append(top, domain.ItemPopularity{ItemID: id, Quantity: int64(z.Score)})
	}
	if len(ids) == 0 {
		return top, nil
	}

	names, err := s.Client.HMGet(ctx, itemNamesKey, ids...).Result()
	if err != nil {
		return nil, err
	}
	for i, name := range names {
		if value, ok := name.(string); ok {
			top[i].Name = value
		}
	}
	return top, nil
}

func (s *RedisStatsStore) StatusCounts(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	raw, err := s.Client.HGetAll(ctx, statusCountsKey).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.OrderStatus]int64, len(raw))
	for status, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		counts[domain.OrderStatus(status)] = n
	}
	return counts, nil
}
