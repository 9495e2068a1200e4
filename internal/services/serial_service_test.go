package services

import (
	"context"
	"testing"

	"submission-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newSerialService() (*SerialService, *memStore) {
	store := newMemStore()
	return NewSerialService(fakeSerials{store}), store
}

// ============================================================================
// AVAILABILITY
// ============================================================================

func TestSerialService_AvailableSerial_PoolByPolicyType(t *testing.T) {
	svc, store := newSerialService()
	store.addSerial("20000002", models.PoolDefault, false)
	store.addSerial("20000001", models.PoolDefault, true)
	store.addSerial("50000001", models.PoolAllianzWell, false)

	serial, err := svc.AvailableSerial(context.Background(), "Allianz Well")
	require.NoError(t, err)
	assert.Equal(t, models.PoolAllianzWell, serial.Pool)
	assert.Equal(t, "50000001", serial.Value)

	serial, err = svc.AvailableSerial(context.Background(), "AZpire Growth")
	require.NoError(t, err)
	assert.Equal(t, models.PoolDefault, serial.Pool)
	assert.Equal(t, "20000002", serial.Value)
	assert.False(t, store.serials["20000002"].IsIssued, "peeking does not reserve")
}

func TestSerialService_AvailableSerial_NoneLeft(t *testing.T) {
	svc, store := newSerialService()
	store.addSerial("50000001", models.PoolAllianzWell, true)

	_, err := svc.AvailableSerial(context.Background(), "Allianz Well")
	assert.ErrorIs(t, err, ErrNoAvailableSerial)
}

// ============================================================================
// ADMINISTRATION
// ============================================================================

func TestSerialService_Create(t *testing.T) {
	svc, store := newSerialService()

	serial, err := svc.Create(context.Background(), models.CreateSerialRequest{SerialNumber: " 20000010 "})
	require.NoError(t, err)
	assert.Equal(t, "20000010", serial.Value)
	assert.Equal(t, models.PoolDefault, serial.Pool)
	assert.Contains(t, store.serials, "20000010")

	_, err = svc.Create(context.Background(), models.CreateSerialRequest{SerialNumber: "20000010"})
	assert.ErrorIs(t, err, ErrDuplicateSerial)

	_, err = svc.Create(context.Background(), models.CreateSerialRequest{SerialNumber: "AB-12"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), models.CreateSerialRequest{SerialNumber: "123", Pool: "Gold"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSerialService_ListRejectsUnknownPool(t *testing.T) {
	svc, _ := newSerialService()
	pool := models.SerialPool("Gold")

	_, err := svc.List(context.Background(), models.SerialFilter{Pool: &pool})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSerialService_Stats(t *testing.T) {
	svc, store := newSerialService()
	store.addSerial("20000001", models.PoolDefault, false)
	store.addSerial("20000002", models.PoolDefault, true)
	store.addSerial("50000001", models.PoolAllianzWell, false)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SerialStats{Total: 3, UnusedDefault: 1, UnusedAllianzWell: 1, Used: 1}, *stats)
}

// ============================================================================
// IMPORT
// ============================================================================

func TestSerialService_ImportCSV_SkipsDuplicatesAndJunk(t *testing.T) {
	svc, store := newSerialService()
	store.addSerial("20000001", models.PoolDefault, false)

	csv := "serial_number,note\n20000001,existing\n20000002,new\n20000002,repeat\nabc,junk\n\n20000003\n"
	result, err := svc.Import(context.Background(), "serials.csv", []byte(csv), models.PoolDefault)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 3, result.Skipped)
	assert.Contains(t, store.serials, "20000003")
}

func TestSerialService_ImportXLSX(t *testing.T) {
	svc, store := newSerialService()

	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Serial")
	f.SetCellValue("Sheet1", "A2", "50000001")
	f.SetCellValue("Sheet1", "A3", "50000002")
	f.SetCellValue("Sheet1", "A4", "50000001")
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	result, err := svc.Import(context.Background(), "Serials.XLSX", buf.Bytes(), models.PoolAllianzWell)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, models.PoolAllianzWell, store.serials["50000002"].Pool)
}

func TestSerialService_ImportRejectsUnknownExtension(t *testing.T) {
	svc, _ := newSerialService()

	_, err := svc.Import(context.Background(), "serials.txt", []byte("1\n2"), models.PoolDefault)
	assert.ErrorIs(t, err, ErrInvalidFile)
}
