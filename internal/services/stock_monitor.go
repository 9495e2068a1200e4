package services

import (
	"context"
	"fmt"
	"log/slog"

	"submission-service/internal/config"
	"submission-service/internal/event"
	"submission-service/internal/models"
	"submission-service/internal/obs"

	"github.com/robfig/cron/v3"
)

// StockMonitor periodically counts unissued serials of the system pools and
// raises a low-stock event for pools under the threshold.
type StockMonitor struct {
	serialRepo ISerialRepository
	publisher  IEventPublisher
	cfg        config.StockMonitorConfig
	cron       *cron.Cron
}

func NewStockMonitor(serialRepo ISerialRepository, publisher IEventPublisher, cfg config.StockMonitorConfig) *StockMonitor {
	return &StockMonitor{serialRepo: serialRepo, publisher: publisher, cfg: cfg}
}

func (m *StockMonitor) Start() error {
	c := cron.New()
	_, err := c.AddFunc(m.cfg.Schedule, func() {
		if _, err := m.CheckStock(context.Background()); err != nil {
			slog.Error("StockMonitor: Stock check failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid stock monitor schedule %q: %w", m.cfg.Schedule, err)
	}
	c.Start()
	m.cron = c
	slog.Info("StockMonitor: Started", "schedule", m.cfg.Schedule, "threshold", m.cfg.Threshold)
	return nil
}

func (m *StockMonitor) Stop() {
	if m.cron != nil {
		<-m.cron.Stop().Done()
	}
}

// CheckStock returns the system pools found below the threshold.
func (m *StockMonitor) CheckStock(ctx context.Context) ([]models.SerialPool, error) {
	counts, err := m.serialRepo.CountAvailableByPool(ctx)
	if err != nil {
		return nil, err
	}

	var low []models.SerialPool
	for _, pool := range models.SystemPools {
		remaining := counts[pool]
		obs.SerialPoolAvailable.WithLabelValues(string(pool)).Set(float64(remaining))
		if remaining >= m.cfg.Threshold {
			continue
		}

		low = append(low, pool)
		slog.Warn("StockMonitor: Serial pool running low", "pool", pool, "remaining", remaining, "threshold", m.cfg.Threshold)
		if m.publisher == nil {
			continue
		}
		if err := m.publisher.Publish(ctx, event.SubmissionEvent{
			Type:      event.SerialPoolLowStock,
			Pool:      string(pool),
			Remaining: &remaining,
		}); err != nil {
			slog.Warn("StockMonitor: Failed to publish low stock event", "pool", pool, "error", err)
		}
	}
	return low, nil
}
