package services

import (
	"context"
	"time"

	"submission-service/internal/event"
	"submission-service/internal/models"
	"submission-service/internal/notification"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ============================================================================
// STORE
// ============================================================================

type ITransactor interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type ISerialRepository interface {
	FindAvailable(ctx context.Context, pool models.SerialPool) (*models.SerialNumber, error)
	GetByValue(ctx context.Context, value string) (*models.SerialNumber, error)
	ClaimTx(ctx context.Context, tx *sqlx.Tx, value string) (uuid.UUID, error)
	UpsertManualTx(ctx context.Context, tx *sqlx.Tx, value string) (uuid.UUID, error)
	Create(ctx context.Context, value string, pool models.SerialPool) (*models.SerialNumber, error)
	InsertIgnoringDuplicates(ctx context.Context, values []string, pool models.SerialPool) (int, error)
	List(ctx context.Context, filter models.SerialFilter) ([]models.SerialNumber, error)
	Stats(ctx context.Context) (*models.SerialStats, error)
	CountAvailableByPool(ctx context.Context) (map[models.SerialPool]int, error)
}

type IPolicyRepository interface {
	GetByType(ctx context.Context, policyType string) (*models.Policy, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Policy, error)
	List(ctx context.Context) ([]models.Policy, error)
}

type IUserRepository interface {
	UpsertByEmailTx(ctx context.Context, tx *sqlx.Tx, user models.User, agencyName string) (uuid.UUID, error)
}

type ISubmissionRepository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, submission *models.Submission) error
	GetByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Submission, error)
	GetBySerialID(ctx context.Context, serialID uuid.UUID) (*models.Submission, error)
	AppendDocuments(ctx context.Context, id uuid.UUID, formType string, mode models.PaymentMode, files models.Attachments) (*models.Submission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus, dateIssued *time.Time) error
	RolloverTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, next *models.Date) error
	ListByIssuedAtDesc(ctx context.Context) ([]models.Submission, error)
	ListMonitoring(ctx context.Context) ([]models.MonitoringRow, error)
}

type IPaymentRepository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, entry *models.PaymentEntry) error
	ListBySubmissionIDs(ctx context.Context, ids []uuid.UUID) ([]models.PaymentEntry, error)
}

type IPerformanceCache interface {
	Get(ctx context.Context) (*models.PerformanceReport, error)
	Set(ctx context.Context, report *models.PerformanceReport) error
	Invalidate(ctx context.Context) error
}

// ============================================================================
// OUTBOUND
// ============================================================================

type IObjectStorage interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

type IHeadOfficeNotifier interface {
	SendSubmission(ctx context.Context, email notification.SubmissionEmail) error
}

type IEventPublisher interface {
	Publish(ctx context.Context, evt event.SubmissionEvent) error
}

type IPDFRenderer interface {
	Render(form models.FormData, serialNumber string) ([]byte, error)
}
