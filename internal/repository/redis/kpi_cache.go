// internal/repository/redis/kpi_cache.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"academy-service/internal/domain/kpi"

	"github.com/redis/go-redis/v9"
)

// KPICache stores monthly metrics under kpi:<academy>:<YYYY-MM>. Writes are
// plain SETs so concurrent recomputations resolve as last-writer-wins.
type KPICache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewKPICache(client redis.Cmdable, ttl time.Duration) *KPICache {
	return &KPICache{client: client, ttl: ttl}
}

func (c *KPICache) key(academyID int64, month string) string {
	return fmt.Sprintf("kpi:%d:%s", academyID, month)
}

// Get returns nil, nil on a miss
func (c *KPICache) Get(ctx context.Context, academyID int64, month string) (*kpi.Metrics, error) {
	data, err := c.client.Get(ctx, c.key(academyID, month)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read kpi cache: %w", err)
	}

	var m kpi.Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached kpis: %w", err)
	}
	return &m, nil
}

func (c *KPICache) Set(ctx context.Context, academyID int64, month string, m *kpi.Metrics) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal kpis: %w", err)
	}
	if err := c.client.Set(ctx, c.key(academyID, month), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write kpi cache: %w", err)
	}
	return nil
}

func (c *KPICache) Delete(ctx context.Context, academyID int64, month string) error {
	return c.client.Del(ctx, c.key(academyID, month)).Err()
}
