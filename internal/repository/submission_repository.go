package repository

import (
	"context"
	"fmt"
	"time"

	"submission-service/internal/models"
	"submission-service/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SubmissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

const submissionColumns = `
	id, user_id, client_name, client_email, policy_id, serial_id, premium_paid, anp,
	mode_of_payment, submission_type, form_type, status, issued_at, date_issued,
	next_payment_date, is_paid, attachments, created_at, updated_at`

// submissionColumnsOf qualifies every submission column with alias.
func submissionColumnsOf(alias string) string {
	return fmt.Sprintf(`
	%[1]s.id, %[1]s.user_id, %[1]s.client_name, %[1]s.client_email, %[1]s.policy_id, %[1]s.serial_id,
	%[1]s.premium_paid, %[1]s.anp, %[1]s.mode_of_payment, %[1]s.submission_type, %[1]s.form_type,
	%[1]s.status, %[1]s.issued_at, %[1]s.date_issued, %[1]s.next_payment_date, %[1]s.is_paid,
	%[1]s.attachments, %[1]s.created_at, %[1]s.updated_at`, alias)
}

func (r *SubmissionRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, submission *models.Submission) error {
	now := time.Now()
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	if submission.IssuedAt.IsZero() {
		submission.IssuedAt = now
	}
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = now
	}
	submission.UpdatedAt = now
	if submission.Attachments == nil {
		submission.Attachments = models.Attachments{}
	}

	query := `
		INSERT INTO submissions (` + submissionColumns + `
		) VALUES (
			:id, :user_id, :client_name, :client_email, :policy_id, :serial_id, :premium_paid, :anp,
			:mode_of_payment, :submission_type, :form_type, :status, :issued_at, :date_issued,
			:next_payment_date, :is_paid, :attachments, :created_at, :updated_at
		)`

	if _, err := tx.NamedExecContext(ctx, query, submission); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("serial %s already has a submission: %w", submission.SerialID, ErrConflict)
		}
		return fmt.Errorf("failed to create submission in transaction: %w", err)
	}
	return nil
}

// GetByIDForUpdateTx locks the row until the transaction ends.
func (r *SubmissionRepository) GetByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1 FOR UPDATE`

	if err := tx.GetContext(ctx, &submission, query, id); err != nil {
		return nil, fmt.Errorf("failed to get submission by id: %w", err)
	}
	return &submission, nil
}

func (r *SubmissionRepository) GetBySerialID(ctx context.Context, serialID uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE serial_id = $1`

	if err := r.db.GetContext(ctx, &submission, query, serialID); err != nil {
		return nil, fmt.Errorf("failed to get submission by serial: %w", err)
	}
	return &submission, nil
}

// AppendDocuments appends files to the stored attachment list in a single
// statement. Empty formType or mode leave the stored values unchanged.
func (r *SubmissionRepository) AppendDocuments(ctx context.Context, id uuid.UUID, formType string, mode models.PaymentMode, files models.Attachments) (*models.Submission, error) {
	var submission models.Submission
	query := `
		UPDATE submissions SET
			form_type = COALESCE(NULLIF($2, ''), form_type),
			mode_of_payment = COALESCE(NULLIF($3, ''), mode_of_payment),
			attachments = COALESCE(attachments, '[]'::jsonb) || $4::jsonb,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + submissionColumns

	if err := r.db.GetContext(ctx, &submission, query, id, formType, mode, files); err != nil {
		return nil, fmt.Errorf("failed to append documents to submission: %w", err)
	}
	return &submission, nil
}

// UpdateStatus changes the status; dateIssued, when set, is stamped too.
// An unknown id yields utils.ErrNoRowsAffected.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus, dateIssued *time.Time) error {
	query := `
		UPDATE submissions SET
			status = $2,
			date_issued = COALESCE($3, date_issued),
			updated_at = NOW()
		WHERE id = $1`

	if err := utils.ExecWithCheck(ctx, r.db, query, utils.ExecUpdate, id, status, dateIssued); err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) RolloverTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, next *models.Date) error {
	query := `
		UPDATE submissions SET
			next_payment_date = $2,
			is_paid = FALSE,
			updated_at = NOW()
		WHERE id = $1`

	if err := utils.ExecWithCheck(ctx, tx, query, utils.ExecUpdate, id, next); err != nil {
		return fmt.Errorf("failed to roll over payment date: %w", err)
	}
	return nil
}

// ListByIssuedAtDesc returns every submission, newest first.
func (r *SubmissionRepository) ListByIssuedAtDesc(ctx context.Context) ([]models.Submission, error) {
	submissions := []models.Submission{}
	query := `SELECT ` + submissionColumns + ` FROM submissions ORDER BY issued_at DESC`

	if err := r.db.SelectContext(ctx, &submissions, query); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// ListMonitoring returns submissions joined with their policy type, serial
// value, intermediary first name and agency, newest first.
func (r *SubmissionRepository) ListMonitoring(ctx context.Context) ([]models.MonitoringRow, error) {
	rows := []models.MonitoringRow{}
	query := `
		SELECT ` + submissionColumnsOf("s") + `,
			p.policy_type AS policy_type,
			sn.serial_value AS serial_number,
			u.first_name AS intermediary_name,
			a.name AS agency
		FROM submissions s
		LEFT JOIN policy p ON p.id = s.policy_id
		LEFT JOIN serial_number sn ON sn.id = s.serial_id
		LEFT JOIN users u ON u.id = s.user_id
		LEFT JOIN agency a ON a.id = u.agency_id
		ORDER BY s.issued_at DESC`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list monitoring rows: %w", err)
	}
	return rows, nil
}
