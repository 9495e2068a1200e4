package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"submission-service/internal/event"
	"submission-service/internal/models"
	"submission-service/internal/obs"
	"submission-service/internal/repository"
	"submission-service/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ISubmissionService interface {
	Submit(ctx context.Context, req models.SubmitRequest) (*models.CreatedSubmission, error)
	GetDetails(ctx context.Context, serialNumber string) (*models.SubmissionDetails, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) error
}

type SubmissionService struct {
	tx             ITransactor
	policyRepo     IPolicyRepository
	userRepo       IUserRepository
	serialRepo     ISerialRepository
	submissionRepo ISubmissionRepository
	publisher      IEventPublisher
	cache          IPerformanceCache
	now            func() time.Time
}

func NewSubmissionService(
	tx ITransactor,
	policyRepo IPolicyRepository,
	userRepo IUserRepository,
	serialRepo ISerialRepository,
	submissionRepo ISubmissionRepository,
	publisher IEventPublisher,
	cache IPerformanceCache,
) *SubmissionService {
	return &SubmissionService{
		tx:             tx,
		policyRepo:     policyRepo,
		userRepo:       userRepo,
		serialRepo:     serialRepo,
		submissionRepo: submissionRepo,
		publisher:      publisher,
		cache:          cache,
		now:            time.Now,
	}
}

// ============================================================================
// SUBMIT
// ============================================================================

// Submit allocates the serial and records the submission. The serial claim,
// the intermediary upsert and the insert share one transaction.
func (s *SubmissionService) Submit(ctx context.Context, req models.SubmitRequest) (*models.CreatedSubmission, error) {
	utils.TrimAllStringFields(&req)
	slog.Info("SubmissionService: Submitting", "policy_type", req.PolicyType, "serial_number", req.SerialNumber)

	if ok, _ := utils.ValidateEmail(req.IntermediaryEmail); !ok {
		return nil, fmt.Errorf("invalid intermediary email %q: %w", req.IntermediaryEmail, ErrValidation)
	}

	policy, err := s.resolvePolicy(ctx, req.PolicyType)
	if err != nil {
		return nil, err
	}

	premium := req.PremiumPaid.Value
	anp := req.ANP.Value
	if !req.ANP.Present {
		anp = ComputeANP(premium, req.ModeOfPayment)
	}

	submission := &models.Submission{
		ClientName:      req.ClientName(),
		ClientEmail:     req.ClientEmail,
		PolicyID:        policy.ID,
		PremiumPaid:     models.NewMoney(premium),
		ANP:             models.NewMoney(anp),
		ModeOfPayment:   req.ModeOfPayment,
		SubmissionType:  req.SubmissionType,
		Status:          models.StatusPending,
		IssuedAt:        s.now(),
		NextPaymentDate: NextPaymentDate(req.PolicyDate, req.ModeOfPayment),
		Attachments:     models.Attachments{},
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		userID, err := s.userRepo.UpsertByEmailTx(ctx, tx, models.User{
			FirstName:     req.IntermediaryName,
			Email:         req.IntermediaryEmail,
			ContactNumber: "0",
			Role:          models.RoleAP,
		}, models.DefaultAgencyName)
		if err != nil {
			return err
		}
		submission.UserID = userID

		serialID, err := s.allocateSerialTx(ctx, tx, policy, req.SerialNumber)
		if err != nil {
			return err
		}
		submission.SerialID = serialID

		if err := s.submissionRepo.CreateTx(ctx, tx, submission); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("serial %s: %w", req.SerialNumber, ErrSerialAlreadyIssued)
			}
			return err
		}
		return nil
	})
	if err != nil {
		slog.Error("SubmissionService: Submit failed", "serial_number", req.SerialNumber, "error", err)
		return nil, err
	}

	obs.SubmissionsCreated.WithLabelValues(string(policy.Category)).Inc()
	s.afterWrite(ctx, event.SubmissionEvent{
		Type:         event.SubmissionCreated,
		SubmissionID: submission.ID.String(),
		SerialNumber: req.SerialNumber,
		Status:       string(submission.Status),
		Data:         map[string]any{"policy_type": policy.Type, "anp": submission.ANP.StringFixed(2)},
	})

	slog.Info("SubmissionService: Submission created",
		"submission_id", submission.ID,
		"serial_number", req.SerialNumber,
		"category", policy.Category)
	return &models.CreatedSubmission{Submission: *submission, SerialNumber: req.SerialNumber}, nil
}

// resolvePolicy tries an exact type match, then a trimmed case-insensitive
// match over every policy.
func (s *SubmissionService) resolvePolicy(ctx context.Context, policyType string) (*models.Policy, error) {
	policy, err := s.policyRepo.GetByType(ctx, policyType)
	if err == nil {
		return policy, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	policies, err := s.policyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(strings.TrimSpace(policyType))
	for i := range policies {
		if strings.ToLower(strings.TrimSpace(policies[i].Type)) == want {
			return &policies[i], nil
		}
	}
	return nil, fmt.Errorf("policy type %q: %w", policyType, ErrPolicyNotFound)
}

func (s *SubmissionService) allocateSerialTx(ctx context.Context, tx *sqlx.Tx, policy *models.Policy, value string) (uuid.UUID, error) {
	if !utils.IsDigits(value) {
		return uuid.Nil, fmt.Errorf("serial number must contain digits only: %w", ErrValidation)
	}

	if policy.IsManual() {
		id, err := s.serialRepo.UpsertManualTx(ctx, tx, value)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrSerialCreationFailed, err)
		}
		return id, nil
	}

	id, err := s.serialRepo.ClaimTx(ctx, tx, value)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
		return uuid.Nil, fmt.Errorf("system serial %s: %w", value, ErrSerialNotFound)
	case errors.Is(err, repository.ErrConflict):
		return uuid.Nil, fmt.Errorf("serial %s: %w", value, ErrSerialAlreadyIssued)
	default:
		return uuid.Nil, err
	}
}

// ============================================================================
// DETAILS & STATUS
// ============================================================================

func (s *SubmissionService) GetDetails(ctx context.Context, serialNumber string) (*models.SubmissionDetails, error) {
	serial, err := s.serialRepo.GetByValue(ctx, serialNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSerialNotFound
	}
	if err != nil {
		return nil, err
	}

	submission, err := s.submissionRepo.GetBySerialID(ctx, serial.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}

	policyType := ""
	policy, err := s.policyRepo.GetByID(ctx, submission.PolicyID)
	switch {
	case err == nil:
		policyType = policy.Type
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	first, last := utils.SplitName(submission.ClientName)
	return &models.SubmissionDetails{
		ClientFirstName: first,
		ClientLastName:  last,
		ClientEmail:     submission.ClientEmail,
		PolicyType:      policyType,
		ModeOfPayment:   submission.ModeOfPayment,
		PolicyDate:      models.NewDate(submission.IssuedAt),
	}, nil
}

// UpdateStatus stamps date_issued when the new status is Issued.
func (s *SubmissionService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}

	var dateIssued *time.Time
	if status == models.StatusIssued {
		now := s.now()
		dateIssued = &now
	}

	err := s.submissionRepo.UpdateStatus(ctx, id, status, dateIssued)
	if errors.Is(err, utils.ErrNoRowsAffected) {
		return ErrSubmissionNotFound
	}
	if err != nil {
		return err
	}

	slog.Info("SubmissionService: Status updated", "submission_id", id, "status", status)
	s.afterWrite(ctx, event.SubmissionEvent{
		Type:         event.SubmissionStatusChanged,
		SubmissionID: id.String(),
		Status:       string(status),
	})
	return nil
}

// afterWrite publishes evt and drops the cached performance report. Neither
// failure is returned to the caller.
func (s *SubmissionService) afterWrite(ctx context.Context, evt event.SubmissionEvent) {
	publishAndInvalidate(ctx, s.publisher, s.cache, evt)
}

func publishAndInvalidate(ctx context.Context, publisher IEventPublisher, cache IPerformanceCache, evt event.SubmissionEvent) {
	if publisher != nil {
		if err := publisher.Publish(ctx, evt); err != nil {
			slog.Warn("failed to publish event", "type", evt.Type, "error", err)
		}
	}
	if cache != nil {
		if err := cache.Invalidate(ctx); err != nil {
			slog.Warn("failed to invalidate performance cache", "error", err)
		}
	}
}
