package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"submission-service/internal/models"
	"submission-service/internal/repository"
	"submission-service/internal/utils"
)

type ISerialService interface {
	AvailableSerial(ctx context.Context, policyType string) (*models.SerialNumber, error)
	List(ctx context.Context, filter models.SerialFilter) ([]models.SerialNumber, error)
	Stats(ctx context.Context) (*models.SerialStats, error)
	Create(ctx context.Context, req models.CreateSerialRequest) (*models.SerialNumber, error)
	Import(ctx context.Context, filename string, data []byte, pool models.SerialPool) (*models.SerialImportResult, error)
}

type SerialService struct {
	serialRepo ISerialRepository
}

func NewSerialService(serialRepo ISerialRepository) *SerialService {
	return &SerialService{serialRepo: serialRepo}
}

// AvailableSerial peeks at the next unissued serial of the policy's pool
// without reserving it.
func (s *SerialService) AvailableSerial(ctx context.Context, policyType string) (*models.SerialNumber, error) {
	pool := PoolForPolicyType(policyType)
	slog.Info("SerialService: Looking up available serial", "policy_type", policyType, "pool", pool)

	serial, err := s.serialRepo.FindAvailable(ctx, pool)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pool %s: %w", pool, ErrNoAvailableSerial)
	}
	if err != nil {
		return nil, err
	}
	return serial, nil
}

func (s *SerialService) List(ctx context.Context, filter models.SerialFilter) ([]models.SerialNumber, error) {
	if filter.Pool != nil && !filter.Pool.IsValid() {
		return nil, fmt.Errorf("unknown pool %q: %w", *filter.Pool, ErrValidation)
	}
	if filter.Limit <= 0 || filter.Limit > 1000 {
		filter.Limit = 200
	}
	return s.serialRepo.List(ctx, filter)
}

func (s *SerialService) Stats(ctx context.Context) (*models.SerialStats, error) {
	return s.serialRepo.Stats(ctx)
}

func (s *SerialService) Create(ctx context.Context, req models.CreateSerialRequest) (*models.SerialNumber, error) {
	value := strings.TrimSpace(req.SerialNumber)
	if !utils.IsDigits(value) {
		return nil, fmt.Errorf("serial number must contain digits only: %w", ErrValidation)
	}
	pool := req.Pool
	if pool == "" {
		pool = models.PoolDefault
	}
	if !pool.IsValid() {
		return nil, fmt.Errorf("unknown pool %q: %w", pool, ErrValidation)
	}

	serial, err := s.serialRepo.Create(ctx, value, pool)
	if errors.Is(err, repository.ErrConflict) {
		return nil, fmt.Errorf("serial %s: %w", value, ErrDuplicateSerial)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("SerialService: Serial created", "serial_number", value, "pool", pool)
	return serial, nil
}

// Import loads serial values from a CSV or XLSX sheet into the pool.
func (s *SerialService) Import(ctx context.Context, filename string, data []byte, pool models.SerialPool) (*models.SerialImportResult, error) {
	if pool == "" {
		pool = models.PoolDefault
	}
	if !pool.IsValid() {
		return nil, fmt.Errorf("unknown pool %q: %w", pool, ErrValidation)
	}

	values, rows, err := parseSerialSheet(filename, data)
	if err != nil {
		return nil, err
	}

	inserted := 0
	if len(values) > 0 {
		inserted, err = s.serialRepo.InsertIgnoringDuplicates(ctx, values, pool)
		if err != nil {
			return nil, err
		}
	}

	result := &models.SerialImportResult{Inserted: inserted, Skipped: rows - inserted}
	slog.Info("SerialService: Serials imported",
		"file", filename,
		"pool", pool,
		"inserted", result.Inserted,
		"skipped", result.Skipped)
	return result, nil
}
