package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"submission-service/internal/config"
	"submission-service/internal/event"
	"submission-service/internal/models"
	"submission-service/internal/notification"
	"submission-service/internal/obs"
	"submission-service/internal/utils"
)

// UploadedFile is one multipart file buffered in memory.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

type DocumentSubmission struct {
	SerialNumber string
	FormData     models.FormData
	Files        []UploadedFile
}

type IDocumentService interface {
	Submit(ctx context.Context, doc DocumentSubmission) (*models.DocumentSubmissionResult, error)
	Preview(ctx context.Context, form models.FormData, serialNumber string) ([]byte, error)
	ValidateFiles(files []UploadedFile) error
}

type DocumentService struct {
	serialRepo     ISerialRepository
	submissionRepo ISubmissionRepository
	storage        IObjectStorage
	renderer       IPDFRenderer
	notifier       IHeadOfficeNotifier
	publisher      IEventPublisher
	cache          IPerformanceCache
	uploadCfg      config.UploadConfig
	now            func() time.Time
}

func NewDocumentService(
	serialRepo ISerialRepository,
	submissionRepo ISubmissionRepository,
	storage IObjectStorage,
	renderer IPDFRenderer,
	notifier IHeadOfficeNotifier,
	publisher IEventPublisher,
	cache IPerformanceCache,
	uploadCfg config.UploadConfig,
) *DocumentService {
	return &DocumentService{
		serialRepo:     serialRepo,
		submissionRepo: submissionRepo,
		storage:        storage,
		renderer:       renderer,
		notifier:       notifier,
		publisher:      publisher,
		cache:          cache,
		uploadCfg:      uploadCfg,
		now:            time.Now,
	}
}

// ValidateFiles checks size and type of every file before anything is stored.
func (s *DocumentService) ValidateFiles(files []UploadedFile) error {
	maxBytes := s.uploadCfg.MaxFileMB * 1024 * 1024
	for _, f := range files {
		if f.Size > maxBytes {
			return fmt.Errorf("file too large: %s: %w", f.Filename, ErrInvalidFile)
		}
		if !slices.Contains(s.uploadCfg.AllowedMIMEType, f.ContentType) {
			return fmt.Errorf("file type not allowed: %s (%s): %w", f.Filename, f.ContentType, ErrInvalidFile)
		}
	}
	return nil
}

// Submit stores the uploaded files and the generated summary, appends them to
// the submission and mails head office. A file that fails to upload is
// skipped; a mail failure is logged only.
func (s *DocumentService) Submit(ctx context.Context, doc DocumentSubmission) (*models.DocumentSubmissionResult, error) {
	slog.Info("DocumentService: Submitting documents",
		"serial_number", doc.SerialNumber,
		"file_count", len(doc.Files))

	if err := s.ValidateFiles(doc.Files); err != nil {
		return nil, err
	}

	serial, err := s.serialRepo.GetByValue(ctx, doc.SerialNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSerialNotFound
	}
	if err != nil {
		return nil, err
	}
	existing, err := s.submissionRepo.GetBySerialID(ctx, serial.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}

	prefix := existing.ID.String()
	refs := make(models.Attachments, 0, len(doc.Files)+1)
	attachments := make([]notification.Attachment, 0, len(doc.Files)+1)
	names := make(map[string]int, len(doc.Files)+1)

	for _, f := range doc.Files {
		name := utils.UniqueFilename(utils.SanitizeFilename(f.Filename), names)
		ref, err := s.store(ctx, prefix, name, f.Data, f.ContentType)
		if err != nil {
			obs.DocumentUploads.WithLabelValues("error").Inc()
			slog.Error("DocumentService: Upload failed, skipping file",
				"submission_id", existing.ID,
				"file", f.Filename,
				"error", err)
			continue
		}
		obs.DocumentUploads.WithLabelValues("ok").Inc()
		refs = append(refs, *ref)
		attachments = append(attachments, notification.Attachment{
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Content:     f.Data,
		})
	}

	pdf, err := s.renderer.Render(doc.FormData, doc.SerialNumber)
	if err != nil {
		return nil, err
	}
	pdfName := fmt.Sprintf("Application_%s.pdf", doc.SerialNumber)
	pdfRef, err := s.store(ctx, prefix, utils.UniqueFilename(utils.SanitizeFilename(pdfName), names), pdf, "application/pdf")
	if err != nil {
		obs.DocumentUploads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to store application summary: %w", err)
	}
	obs.DocumentUploads.WithLabelValues("ok").Inc()
	refs = append(refs, *pdfRef)
	attachments = append(attachments, notification.Attachment{
		Filename:    pdfName,
		ContentType: "application/pdf",
		Content:     pdf,
	})

	updated, err := s.submissionRepo.AppendDocuments(ctx, existing.ID, doc.FormData.FormType, doc.FormData.ModeOfPayment, refs)
	if err != nil {
		return nil, err
	}

	s.notifyHeadOffice(ctx, notification.SubmissionEmail{
		SerialNumber: doc.SerialNumber,
		ClientName:   existing.ClientName,
		Attachments:  attachments,
	})

	publishAndInvalidate(ctx, s.publisher, s.cache, event.SubmissionEvent{
		Type:         event.DocumentsSubmitted,
		SubmissionID: existing.ID.String(),
		SerialNumber: doc.SerialNumber,
		Data:         map[string]any{"files": len(refs), "form_type": doc.FormData.FormType},
	})

	slog.Info("DocumentService: Documents attached",
		"submission_id", existing.ID,
		"stored", len(refs),
		"requested", len(doc.Files)+1)
	return &models.DocumentSubmissionResult{Submission: updated, GeneratedPDFURL: pdfRef.FileURL}, nil
}

func (s *DocumentService) Preview(ctx context.Context, form models.FormData, serialNumber string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.renderer.Render(form, serialNumber)
}

func (s *DocumentService) store(ctx context.Context, prefix, name string, data []byte, contentType string) (*models.FileRef, error) {
	objectPath := utils.BuildObjectPath(prefix, name, s.now())
	url, err := s.storage.Upload(ctx, objectPath, data, contentType)
	if err != nil {
		return nil, err
	}
	return &models.FileRef{
		FileName: name,
		FilePath: objectPath,
		FileURL:  url,
		FileSize: int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *DocumentService) notifyHeadOffice(ctx context.Context, email notification.SubmissionEmail) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendSubmission(ctx, email); err != nil {
		obs.EmailsSent.WithLabelValues("error").Inc()
		slog.Error("DocumentService: Head office email failed", "serial_number", email.SerialNumber, "error", err)
		return
	}
	obs.EmailsSent.WithLabelValues("ok").Inc()
	slog.Info("DocumentService: Head office email sent", "serial_number", email.SerialNumber)
}
