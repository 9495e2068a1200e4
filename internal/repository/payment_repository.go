package repository

import (
	"context"
	"fmt"
	"time"

	"submission-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, entry *models.PaymentEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.PaymentDate.IsZero() {
		entry.PaymentDate = time.Now()
	}

	query := `
		INSERT INTO payment_history (id, submission_id, amount, period_covered, payment_date)
		VALUES (:id, :submission_id, :amount, :period_covered, :payment_date)`

	if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("failed to create payment entry in transaction: %w", err)
	}
	return nil
}

// ListBySubmissionIDs returns the history of every given submission, oldest
// payment first.
func (r *PaymentRepository) ListBySubmissionIDs(ctx context.Context, ids []uuid.UUID) ([]models.PaymentEntry, error) {
	entries := []models.PaymentEntry{}
	if len(ids) == 0 {
		return entries, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := `
		SELECT id, submission_id, amount, period_covered, payment_date
		FROM payment_history
		WHERE submission_id = ANY($1::uuid[])
		ORDER BY payment_date ASC`

	if err := r.db.SelectContext(ctx, &entries, query, pq.Array(raw)); err != nil {
		return nil, fmt.Errorf("failed to list payment history: %w", err)
	}
	return entries, nil
}
