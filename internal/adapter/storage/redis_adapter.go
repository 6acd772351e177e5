package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const capacityKeyPrefix = "capacity:"

// tryReserveScript atomically checks and decrements the remaining capacity
// for an event. A missing key counts as sold out; the ledger is seeded at
// event creation and warmed from the database at startup.
var tryReserveScript = redis.NewScript(`
local key = KEYS[1]

local remaining = redis.call('GET', key)
if not remaining then
	return 0
end

remaining = tonumber(remaining)
if remaining > 0 then
	redis.call('DECR', key)
	return 1
end

return 0
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) TryReserve(ctx context.Context, eventID string) (bool, error) {
	key := capacityKeyPrefix + eventID

	result, err := tryReserveScript.Run(ctx, r.client, []string{key}).Int()
	if err != nil {
		return false, err
	}

	return result == 1, nil
}

func (r *RedisAdapter) Release(ctx context.Context, eventID string) error {
	key := capacityKeyPrefix + eventID
	return r.client.Incr(ctx, key).Err()
}

func (r *RedisAdapter) SetCapacity(ctx context.Context, eventID string, remaining int) error {
	key := capacityKeyPrefix + eventID
	return r.client.Set(ctx, key, remaining, 0).Err()
}
