package models

import "github.com/google/uuid"

// MonitoringRow is a submission flattened with its policy, serial and
// intermediary.
type MonitoringRow struct {
	Submission
	PolicyType       *string `json:"policy_type" db:"policy_type"`
	SerialNumber     *string `json:"serial_number" db:"serial_number"`
	IntermediaryName *string `json:"intermediary_name" db:"intermediary_name"`
	Agency           *string `json:"agency" db:"agency"`
}

type CustomerSubmission struct {
	MonitoringRow
	PaymentHistory []PaymentEntry `json:"payment_history"`
}

type Customer struct {
	ID          uuid.UUID            `json:"id"`
	FirstName   string               `json:"first_name"`
	LastName    string               `json:"last_name"`
	Email       string               `json:"email"`
	Submissions []CustomerSubmission `json:"submissions"`
}

type SubmissionDetails struct {
	ClientFirstName string      `json:"clientFirstName"`
	ClientLastName  string      `json:"clientLastName"`
	ClientEmail     string      `json:"clientEmail"`
	PolicyType      string      `json:"policyType"`
	ModeOfPayment   PaymentMode `json:"modeOfPayment"`
	PolicyDate      Date        `json:"policyDate"`
}
