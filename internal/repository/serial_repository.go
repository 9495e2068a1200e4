package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"submission-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SerialRepository struct {
	db *sqlx.DB
}

func NewSerialRepository(db *sqlx.DB) *SerialRepository {
	return &SerialRepository{db: db}
}

const serialColumns = `id, serial_value, pool, is_issued, created_at`

// FindAvailable returns the lowest unissued serial of the pool.
func (r *SerialRepository) FindAvailable(ctx context.Context, pool models.SerialPool) (*models.SerialNumber, error) {
	var serial models.SerialNumber
	query := `
		SELECT ` + serialColumns + `
		FROM serial_number
		WHERE pool = $1 AND is_issued = FALSE
		ORDER BY length(serial_value), serial_value
		LIMIT 1`

	if err := r.db.GetContext(ctx, &serial, query, pool); err != nil {
		return nil, fmt.Errorf("failed to find available serial in pool %s: %w", pool, err)
	}
	return &serial, nil
}

func (r *SerialRepository) GetByValue(ctx context.Context, value string) (*models.SerialNumber, error) {
	var serial models.SerialNumber
	query := `SELECT ` + serialColumns + ` FROM serial_number WHERE serial_value = $1`

	if err := r.db.GetContext(ctx, &serial, query, value); err != nil {
		return nil, fmt.Errorf("failed to get serial %s: %w", value, err)
	}
	return &serial, nil
}

// ClaimTx flips an existing unissued serial to issued and returns its id.
// An unknown value yields sql.ErrNoRows and an already issued one ErrConflict.
func (r *SerialRepository) ClaimTx(ctx context.Context, tx *sqlx.Tx, value string) (uuid.UUID, error) {
	var id uuid.UUID
	query := `
		UPDATE serial_number SET is_issued = TRUE
		WHERE serial_value = $1 AND is_issued = FALSE
		RETURNING id`

	err := tx.GetContext(ctx, &id, query, value)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("failed to claim serial %s: %w", value, err)
	}

	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM serial_number WHERE serial_value = $1)`, value); err != nil {
		return uuid.Nil, fmt.Errorf("failed to check serial %s: %w", value, err)
	}
	if exists {
		return uuid.Nil, fmt.Errorf("serial %s already issued: %w", value, ErrConflict)
	}
	return uuid.Nil, fmt.Errorf("serial %s: %w", value, sql.ErrNoRows)
}

// UpsertManualTx registers an agent-typed serial as issued, reusing the row
// when the value already exists.
func (r *SerialRepository) UpsertManualTx(ctx context.Context, tx *sqlx.Tx, value string) (uuid.UUID, error) {
	var id uuid.UUID
	query := `
		INSERT INTO serial_number (serial_value, pool, is_issued)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (serial_value) DO UPDATE SET is_issued = TRUE
		RETURNING id`

	if err := tx.GetContext(ctx, &id, query, value, models.PoolManual); err != nil {
		return uuid.Nil, fmt.Errorf("failed to register manual serial %s: %w", value, err)
	}
	return id, nil
}

func (r *SerialRepository) Create(ctx context.Context, value string, pool models.SerialPool) (*models.SerialNumber, error) {
	var serial models.SerialNumber
	query := `
		INSERT INTO serial_number (serial_value, pool)
		VALUES ($1, $2)
		RETURNING ` + serialColumns

	if err := r.db.GetContext(ctx, &serial, query, value, pool); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("serial %s already exists: %w", value, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create serial %s: %w", value, err)
	}
	return &serial, nil
}

// InsertIgnoringDuplicates inserts values into the pool in one transaction
// and reports how many rows were new.
func (r *SerialRepository) InsertIgnoringDuplicates(ctx context.Context, values []string, pool models.SerialPool) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO serial_number (serial_value, pool) VALUES ($1, $2) ON CONFLICT (serial_value) DO NOTHING`

	inserted := 0
	for _, value := range values {
		result, err := tx.ExecContext(ctx, query, value, pool)
		if err != nil {
			return 0, fmt.Errorf("failed to insert serial %s: %w", value, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to check rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit serial import: %w", err)
	}
	return inserted, nil
}

func (r *SerialRepository) List(ctx context.Context, filter models.SerialFilter) ([]models.SerialNumber, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Pool != nil {
		args = append(args, *filter.Pool)
		conditions = append(conditions, fmt.Sprintf("pool = $%d", len(args)))
	}
	if filter.Issued != nil {
		args = append(args, *filter.Issued)
		conditions = append(conditions, fmt.Sprintf("is_issued = $%d", len(args)))
	}

	query := `SELECT ` + serialColumns + ` FROM serial_number`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, serial_value DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	serials := []models.SerialNumber{}
	if err := r.db.SelectContext(ctx, &serials, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list serials: %w", err)
	}
	return serials, nil
}

func (r *SerialRepository) Stats(ctx context.Context) (*models.SerialStats, error) {
	var stats models.SerialStats
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE pool = 'Default' AND NOT is_issued) AS unused_default,
			COUNT(*) FILTER (WHERE pool = 'Allianz Well' AND NOT is_issued) AS unused_allianz_well,
			COUNT(*) FILTER (WHERE is_issued) AS used
		FROM serial_number`

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get serial stats: %w", err)
	}
	return &stats, nil
}

// CountAvailableByPool counts unissued serials of every pool that has any.
func (r *SerialRepository) CountAvailableByPool(ctx context.Context) (map[models.SerialPool]int, error) {
	var rows []struct {
		Pool  models.SerialPool `db:"pool"`
		Count int               `db:"count"`
	}
	query := `SELECT pool, COUNT(*) AS count FROM serial_number WHERE is_issued = FALSE GROUP BY pool`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count available serials: %w", err)
	}

	counts := make(map[models.SerialPool]int, len(rows))
	for _, row := range rows {
		counts[row.Pool] = row.Count
	}
	return counts, nil
}
