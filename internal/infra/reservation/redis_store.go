package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/appointra/scheduler/internal/config"
	"github.com/appointra/scheduler/internal/domain/booking"
)

// Holds live in a hash per staff member and calendar day. The key itself
// carries a generous TTL as garbage collection; correctness comes from the
// expiresAt predicate applied on every read, never from key expiry.
const keyTTL = 48 * time.Hour

func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

type RedisHoldStore struct {
	client *redis.Client
}

func NewRedisHoldStore(client *redis.Client) *RedisHoldStore {
	return &RedisHoldStore{client: client}
}

func holdKey(staffID uint, day time.Time) string {
	return fmt.Sprintf("holds:%d:%s", staffID, day.Format("2006-01-02"))
}

func (s *RedisHoldStore) Put(ctx context.Context, h booking.Hold, ttl time.Duration) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshal hold: %w", err)
	}

	key := holdKey(h.StaffID, h.Start)
	if err := s.client.HSet(ctx, key, h.ID, data).Err(); err != nil {
		return fmt.Errorf("store hold: %w", err)
	}

	if err := s.client.Expire(ctx, key, keyTTL).Err(); err != nil {
		return fmt.Errorf("set hold key expiry: %w", err)
	}

	return nil
}

func (s *RedisHoldStore) Get(ctx context.Context, staffID uint, day time.Time, id string) (*booking.Hold, error) {
	val, err := s.client.HGet(ctx, holdKey(staffID, day), id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get hold: %w", err)
	}

	var h booking.Hold
	if err := json.Unmarshal([]byte(val), &h); err != nil {
		return nil, fmt.Errorf("unmarshal hold: %w", err)
	}

	return &h, nil
}

func (s *RedisHoldStore) ListActive(ctx context.Context, staffID uint, day time.Time, now time.Time) ([]booking.Hold, error) {
	key := holdKey(staffID, day)

	all, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("list holds: %w", err)
	}

	holds := make([]booking.Hold, 0, len(all))
	for field, val := range all {
		var h booking.Hold
		if err := json.Unmarshal([]byte(val), &h); err != nil {
			// An unreadable entry cannot block bookings; drop it.
			s.client.HDel(ctx, key, field)
			continue
		}

		if !h.ActiveAt(now) {
			s.client.HDel(ctx, key, field)
			continue
		}

		holds = append(holds, h)
	}

	sort.Slice(holds, func(i, j int) bool {
		return holds[i].Start.Before(holds[j].Start)
	})

	return holds, nil
}

func (s *RedisHoldStore) Delete(ctx context.Context, staffID uint, day time.Time, id string) error {
	return s.client.HDel(ctx, holdKey(staffID, day), id).Err()
}

// Compile-time check
var _ booking.HoldStore = (*RedisHoldStore)(nil)
