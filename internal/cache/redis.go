// Package cache keeps solved plans in Redis keyed by dataset digest, so
// re-planning unchanged inputs skips the solve entirely.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"flowplan/internal/model"
)

const keyPrefix = "flowplan:plan:"

type PlanCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to the Redis at addr. ttl zero means cached plans never
// expire.
func New(addr string, ttl time.Duration) *PlanCache {
	return &PlanCache{rdb: redis.NewClient(&redis.Options{Addr: addr}), ttl: ttl}
}

// Get returns the cached plan for a dataset digest, or nil on a miss.
func (c *PlanCache) Get(ctx context.Context, digest string) (*model.ShipmentPlan, error) {
	b, err := c.rdb.Get(ctx, keyPrefix+digest).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "cache get")
	}
	p := &model.ShipmentPlan{}
	if err := json.Unmarshal(b, p); err != nil {
		return nil, errors.Wrap(err, "cache decode")
	}
	return p, nil
}

func (c *PlanCache) Put(ctx context.Context, digest string, p *model.ShipmentPlan) error {
	b, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "cache encode")
	}
	return errors.Wrap(c.rdb.Set(ctx, keyPrefix+digest, b, c.ttl).Err(), "cache put")
}

func (c *PlanCache) Close() error { return c.rdb.Close() }
