package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/frank113/FinDash/internal/domain"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "findash_report_cache_hits_total",
		Help: "Total report cache hits",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "findash_report_cache_misses_total",
		Help: "Total report cache misses",
	})
)

// ReportCache implements usecase.ReportCache using Redis.
type ReportCache struct {
	client *redis.Client
	prefix string
}

// NewReportCache creates a new ReportCache.
func NewReportCache(client *redis.Client) *ReportCache {
	return &ReportCache{
		client: client,
		prefix: "cache:",
	}
}

// Get retrieves a marshalled report by key. A miss is (nil, nil).
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		cacheMisses.Inc()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cacheHits.Inc()
	return val, nil
}

// Set stores a marshalled report with TTL.
func (c *ReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// InvalidateMonths drops every cached report for the given months,
// whatever account scope each was built for.
func (c *ReportCache) InvalidateMonths(ctx context.Context, months []domain.Month) error {
	for _, month := range months {
		if err := c.deletePattern(ctx, fmt.Sprintf("%sreport:%s:*", c.prefix, month)); err != nil {
			return err
		}
	}
	return nil
}

// InvalidateAll drops every cached report.
func (c *ReportCache) InvalidateAll(ctx context.Context) error {
	return c.deletePattern(ctx, c.prefix+"report:*")
}

func (c *ReportCache) deletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
