package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointra/scheduler/internal/domain/booking"
)

func newTestStore(t *testing.T) *RedisHoldStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisHoldStore(client)
}

func testHold(id string, start time.Time, expiresAt time.Time) booking.Hold {
	return booking.Hold{
		ID:        id,
		CompanyID: 1,
		StaffID:   7,
		ServiceID: 3,
		Start:     start,
		End:       start.Add(30 * time.Minute),
		ExpiresAt: expiresAt,
		CreatedAt: start.Add(-time.Hour),
	}
}

func TestRedisHoldStore_PutGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	h := testHold("hold-1", start, start.Add(10*time.Minute))

	require.NoError(t, store.Put(ctx, h, 10*time.Minute))

	got, err := store.Get(ctx, 7, start, "hold-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, h.ID, got.ID)
	assert.True(t, got.Start.Equal(h.Start))
	assert.True(t, got.ExpiresAt.Equal(h.ExpiresAt))

	require.NoError(t, store.Delete(ctx, 7, start, "hold-1"))

	got, err = store.Get(ctx, 7, start, "hold-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisHoldStore_ListActiveAppliesLazyExpiry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := day.Add(8 * time.Hour)

	expired := testHold("expired", day.Add(9*time.Hour), now.Add(-time.Minute))
	active := testHold("active", day.Add(10*time.Hour), now.Add(5*time.Minute))
	later := testHold("later", day.Add(11*time.Hour), now.Add(9*time.Minute))

	require.NoError(t, store.Put(ctx, expired, time.Minute))
	require.NoError(t, store.Put(ctx, later, 9*time.Minute))
	require.NoError(t, store.Put(ctx, active, 5*time.Minute))

	holds, err := store.ListActive(ctx, 7, day, now)
	require.NoError(t, err)

	require.Len(t, holds, 2)
	assert.Equal(t, "active", holds[0].ID)
	assert.Equal(t, "later", holds[1].ID)

	// The expired entry was dropped for good, not just filtered.
	got, err := store.Get(ctx, 7, day, "expired")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisHoldStore_KeysAreScopedByStaffAndDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := day

	h := testHold("hold-1", day.Add(9*time.Hour), now.Add(10*time.Minute))
	require.NoError(t, store.Put(ctx, h, 10*time.Minute))

	otherStaff, err := store.ListActive(ctx, 99, day, now)
	require.NoError(t, err)
	assert.Empty(t, otherStaff)

	otherDay, err := store.ListActive(ctx, 7, day.AddDate(0, 0, 1), now)
	require.NoError(t, err)
	assert.Empty(t, otherDay)
}
