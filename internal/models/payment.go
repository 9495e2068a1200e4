package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentEntry struct {
	ID            uuid.UUID `json:"id" db:"id"`
	SubmissionID  uuid.UUID `json:"submission_id" db:"submission_id"`
	Amount        Money     `json:"amount" db:"amount"`
	PeriodCovered *Date     `json:"period_covered" db:"period_covered"`
	PaymentDate   time.Time `json:"payment_date" db:"payment_date"`
}

type PaymentResult struct {
	SubmissionID uuid.UUID `json:"submissionId"`
	NextDate     *Date     `json:"nextDate"`
}
