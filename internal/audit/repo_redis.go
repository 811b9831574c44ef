package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultStream = "callsched:events"
	eventField    = "event"
)

// RedisRepo appends events to a capped Redis stream. Consumers can follow
// the stream with XREAD or consumer groups.
type RedisRepo struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

// NewRedisRepo returns a repository writing to stream. maxLen caps the
// stream length (approximate trimming); zero keeps 10000 entries.
func NewRedisRepo(rdb *redis.Client, stream string, maxLen int64) *RedisRepo {
	if stream == "" {
		stream = DefaultStream
	}
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &RedisRepo{rdb: rdb, stream: stream, maxLen: maxLen}
}

func (r *RedisRepo) Append(ctx context.Context, e Event) error {
	if r.rdb == nil {
		return errors.New("audit: redis client is nil")
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("audit: encode event: %w", err)
	}
	return r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: map[string]any{eventField: string(b)},
	}).Err()
}

func (r *RedisRepo) Recent(ctx context.Context, limit int) ([]Event, error) {
	if r.rdb == nil {
		return nil, errors.New("audit: redis client is nil")
	}
	msgs, err := r.rdb.XRevRangeN(ctx, r.stream, "+", "-", int64(limit)).Result()
	if err != nil {
		return nil, err
	}
	return decodeMessages(msgs)
}

func decodeMessages(msgs []redis.XMessage) ([]Event, error) {
	out := make([]Event, 0, len(msgs))
	for _, m := range msgs {
		raw, ok := m.Values[eventField].(string)
		if !ok {
			continue
		}
		var e Event
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("audit: decode stream entry %s: %w", m.ID, err)
		}
		out = append(out, e)
	}
	return out, nil
}
