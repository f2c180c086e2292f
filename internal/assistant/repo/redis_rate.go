package repo

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	errx "github.com/chatty-orange/server/internal/core/error"
	logx "github.com/chatty-orange/server/pkg/logger"
)

// slidingWindow prunes, counts and records in one round trip. Scores are
// unix milliseconds; members carry a uuid so equal scores do not collapse.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= max then
  return {0, count}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, count + 1}
`)

// RedisRateStore keeps each window as a sorted set of request times.
type RedisRateStore struct {
	rdb redis.Cmdable
}

func NewRedisRateStore(rdb redis.Cmdable) *RedisRateStore {
	return &RedisRateStore{rdb: rdb}
}

func (r *RedisRateStore) CheckAndRecord(ctx context.Context, key string, now time.Time, max int, window time.Duration) (bool, int, error) {
	ms := now.UnixMilli()
	member := strconv.FormatInt(ms, 10) + ":" + uuid.NewString()

	res, err := slidingWindow.Run(ctx, r.rdb, []string{key}, ms, window.Milliseconds(), max, member).Int64Slice()
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to run sliding window script")
		return false, 0, errx.WrapRedis(err)
	}
	if len(res) != 2 {
		logx.Error().Str("key", key).Int("len", len(res)).Msg("unexpected sliding window reply")
		return false, 0, errx.WrapRedis(redis.Nil)
	}
	return res[0] == 1, int(res[1]), nil
}

func (r *RedisRateStore) Get(ctx context.Context, key string) ([]time.Time, error) {
	rows, err := r.rdb.ZRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to read rate window")
		return nil, errx.WrapRedis(err)
	}

	out := make([]time.Time, 0, len(rows))
	for _, z := range rows {
		out = append(out, time.UnixMilli(int64(z.Score)))
	}
	return out, nil
}

func (r *RedisRateStore) Set(ctx context.Context, key string, window []time.Time, ttl time.Duration) error {
	members := make([]redis.Z, 0, len(window))
	for _, ts := range window {
		ms := ts.UnixMilli()
		members = append(members, redis.Z{Score: float64(ms), Member: strconv.FormatInt(ms, 10) + ":" + uuid.NewString()})
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(members) > 0 {
			pipe.ZAdd(ctx, key, members...)
			if ttl > 0 {
				pipe.PExpire(ctx, key, ttl)
			}
		}
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write rate window")
		return errx.WrapRedis(err)
	}
	return nil
}
