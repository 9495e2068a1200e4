package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"submission-service/internal/models"
	"submission-service/internal/utils"

	"github.com/redis/go-redis/v9"
)

const performanceReportKey = "submission-service:performance:all"

// PerformanceCache keeps the last computed performance report in Redis.
type PerformanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPerformanceCache(client *redis.Client, ttl time.Duration) *PerformanceCache {
	return &PerformanceCache{client: client, ttl: ttl}
}

// Get reports a miss with (nil, nil).
func (c *PerformanceCache) Get(ctx context.Context) (*models.PerformanceReport, error) {
	data, err := c.client.Get(ctx, performanceReportKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read performance cache: %w", err)
	}

	var report models.PerformanceReport
	if err := utils.DeserializeModel(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode performance cache: %w", err)
	}
	return &report, nil
}

func (c *PerformanceCache) Set(ctx context.Context, report *models.PerformanceReport) error {
	data, err := utils.SerializeModel(report)
	if err != nil {
		return fmt.Errorf("failed to encode performance report: %w", err)
	}
	if err := c.client.Set(ctx, performanceReportKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write performance cache: %w", err)
	}
	return nil
}

func (c *PerformanceCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, performanceReportKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate performance cache: %w", err)
	}
	return nil
}
