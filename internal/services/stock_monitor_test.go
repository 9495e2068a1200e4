package services

import (
	"context"
	"errors"
	"testing"

	"submission-service/internal/config"
	"submission-service/internal/event"
	"submission-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockMonitor_CheckStock(t *testing.T) {
	store := newMemStore()
	for _, v := range []string{"20000001", "20000002", "20000003"} {
		store.addSerial(v, models.PoolDefault, false)
	}
	store.addSerial("50000001", models.PoolAllianzWell, false)
	store.addSerial("50000002", models.PoolAllianzWell, true)
	publisher := &fakePublisher{}

	monitor := NewStockMonitor(fakeSerials{store}, publisher, config.StockMonitorConfig{Schedule: "@daily", Threshold: 2})
	low, err := monitor.CheckStock(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.SerialPool{models.PoolAllianzWell}, low)
	require.Len(t, publisher.events, 1)
	evt := publisher.events[0]
	assert.Equal(t, event.SerialPoolLowStock, evt.Type)
	assert.Equal(t, "Allianz Well", evt.Pool)
	require.NotNil(t, evt.Remaining)
	assert.Equal(t, 1, *evt.Remaining)
}

func TestStockMonitor_PublishFailureIsNotFatal(t *testing.T) {
	store := newMemStore()
	publisher := &fakePublisher{err: errors.New("broker gone")}

	monitor := NewStockMonitor(fakeSerials{store}, publisher, config.StockMonitorConfig{Threshold: 1})
	low, err := monitor.CheckStock(context.Background())
	require.NoError(t, err)
	assert.Len(t, low, 2)
}

func TestStockMonitor_StartRejectsBadSchedule(t *testing.T) {
	monitor := NewStockMonitor(fakeSerials{newMemStore()}, nil, config.StockMonitorConfig{Schedule: "every tuesday"})
	assert.Error(t, monitor.Start())

	ok := NewStockMonitor(fakeSerials{newMemStore()}, nil, config.StockMonitorConfig{Schedule: "@hourly"})
	require.NoError(t, ok.Start())
	ok.Stop()
}
