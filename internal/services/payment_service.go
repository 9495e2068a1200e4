package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"submission-service/internal/event"
	"submission-service/internal/models"
	"submission-service/internal/obs"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type IPaymentService interface {
	RecordPayment(ctx context.Context, submissionID uuid.UUID) (*models.PaymentResult, error)
}

type PaymentService struct {
	tx             ITransactor
	submissionRepo ISubmissionRepository
	paymentRepo    IPaymentRepository
	publisher      IEventPublisher
	cache          IPerformanceCache
	now            func() time.Time
}

func NewPaymentService(
	tx ITransactor,
	submissionRepo ISubmissionRepository,
	paymentRepo IPaymentRepository,
	publisher IEventPublisher,
	cache IPerformanceCache,
) *PaymentService {
	return &PaymentService{
		tx:             tx,
		submissionRepo: submissionRepo,
		paymentRepo:    paymentRepo,
		publisher:      publisher,
		cache:          cache,
		now:            time.Now,
	}
}

// RecordPayment appends a history entry covering the current due date and
// moves the due date one period forward. The history insert must succeed
// before the date is touched.
func (s *PaymentService) RecordPayment(ctx context.Context, submissionID uuid.UUID) (*models.PaymentResult, error) {
	var (
		entry models.PaymentEntry
		next  *models.Date
	)

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		submission, err := s.submissionRepo.GetByIDForUpdateTx(ctx, tx, submissionID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSubmissionNotFound
		}
		if err != nil {
			return err
		}

		entry = models.PaymentEntry{
			SubmissionID:  submission.ID,
			Amount:        models.MoneyFromString(submission.PremiumPaid.String()),
			PeriodCovered: submission.NextPaymentDate,
			PaymentDate:   s.now(),
		}
		if err := s.paymentRepo.CreateTx(ctx, tx, &entry); err != nil {
			return fmt.Errorf("failed to record payment history: %w", err)
		}

		if submission.NextPaymentDate != nil {
			rolled := Rollover(*submission.NextPaymentDate, submission.ModeOfPayment)
			next = &rolled
		}
		return s.submissionRepo.RolloverTx(ctx, tx, submission.ID, next)
	})
	if err != nil {
		slog.Error("PaymentService: Record payment failed", "submission_id", submissionID, "error", err)
		return nil, err
	}

	obs.PaymentsRecorded.Inc()
	data := map[string]any{"amount": entry.Amount.StringFixed(2)}
	if next != nil {
		data["next_payment_date"] = next.String()
	}
	publishAndInvalidate(ctx, s.publisher, s.cache, event.SubmissionEvent{
		Type:         event.PaymentRecorded,
		SubmissionID: submissionID.String(),
		Data:         data,
	})

	slog.Info("PaymentService: Payment recorded", "submission_id", submissionID, "amount", entry.Amount.StringFixed(2))
	return &models.PaymentResult{SubmissionID: submissionID, NextDate: next}, nil
}
