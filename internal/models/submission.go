package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"submission-service/internal/utils"

	"github.com/google/uuid"
)

// ============================================================================
// SUBMISSION
// ============================================================================

type Submission struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	UserID          uuid.UUID        `json:"user_id" db:"user_id"`
	ClientName      string           `json:"client_name" db:"client_name"`
	ClientEmail     string           `json:"client_email" db:"client_email"`
	PolicyID        uuid.UUID        `json:"policy_id" db:"policy_id"`
	SerialID        uuid.UUID        `json:"serial_id" db:"serial_id"`
	PremiumPaid     Money            `json:"premium_paid" db:"premium_paid"`
	ANP             Money            `json:"anp" db:"anp"`
	ModeOfPayment   PaymentMode      `json:"mode_of_payment" db:"mode_of_payment"`
	SubmissionType  string           `json:"submission_type" db:"submission_type"`
	FormType        *string          `json:"form_type" db:"form_type"`
	Status          SubmissionStatus `json:"status" db:"status"`
	IssuedAt        time.Time        `json:"issued_at" db:"issued_at"`
	DateIssued      *time.Time       `json:"date_issued" db:"date_issued"`
	NextPaymentDate *Date            `json:"next_payment_date" db:"next_payment_date"`
	IsPaid          bool             `json:"is_paid" db:"is_paid"`
	Attachments     Attachments      `json:"attachments" db:"attachments"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

// CreatedSubmission is the response body of a successful submit.
type CreatedSubmission struct {
	Submission
	SerialNumber string `json:"serial_number"`
}

type FileRef struct {
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
	FileURL  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
	MimeType string `json:"mimeType"`
}

// Attachments is stored as a jsonb array.
type Attachments []FileRef

func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		return utils.JSONValue([]FileRef{})
	}
	return utils.JSONValue([]FileRef(a))
}

func (a *Attachments) Scan(value any) error {
	var refs []FileRef
	if err := utils.JSONScan(value, &refs); err != nil {
		return err
	}
	*a = refs
	return nil
}

func (a Attachments) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]FileRef(a))
}

// ============================================================================
// REQUESTS
// ============================================================================

type SubmitRequest struct {
	ClientFirstName   string      `json:"clientFirstName"`
	ClientLastName    string      `json:"clientLastName"`
	ClientEmail       string      `json:"clientEmail"`
	PolicyType        string      `json:"policyType" binding:"required"`
	SerialNumber      string      `json:"serialNumber" binding:"required"`
	PremiumPaid       AmountInput `json:"premiumPaid"`
	ANP               AmountInput `json:"anp"`
	ModeOfPayment     PaymentMode `json:"modeOfPayment"`
	PolicyDate        string      `json:"policyDate"`
	SubmissionType    string      `json:"submissionType"`
	IntermediaryName  string      `json:"intermediaryName"`
	IntermediaryEmail string      `json:"intermediaryEmail" binding:"required"`
}

func (r SubmitRequest) ClientName() string {
	return r.ClientFirstName + " " + r.ClientLastName
}

type StatusUpdateRequest struct {
	Status SubmissionStatus `json:"status" binding:"required"`
}

// FormData is the application form sent with document submissions and
// previews.
type FormData struct {
	ClientFirstName string              `json:"clientFirstName"`
	ClientLastName  string              `json:"clientLastName"`
	ClientEmail     string              `json:"clientEmail"`
	PolicyType      string              `json:"policyType"`
	FormType        string              `json:"formType"`
	ModeOfPayment   PaymentMode         `json:"modeOfPayment"`
	PolicyDate      string              `json:"policyDate"`
	Medical         *MedicalDeclaration `json:"medical,omitempty"`
}

type MedicalDeclaration struct {
	Height       TextValue `json:"height"`
	Weight       TextValue `json:"weight"`
	Diagnosed    TextValue `json:"diagnosed"`
	Hospitalized TextValue `json:"hospitalized"`
	Smoker       TextValue `json:"smoker"`
	Alcohol      TextValue `json:"alcohol"`
}

type PreviewRequest struct {
	FormData     FormData `json:"formData"`
	SerialNumber string   `json:"serialNumber"`
}

// DocumentSubmissionResult is returned after documents are attached.
type DocumentSubmissionResult struct {
	Submission      *Submission
	GeneratedPDFURL string
}
