package models

type SerialPool string

const (
	PoolDefault     SerialPool = "Default"
	PoolAllianzWell SerialPool = "Allianz Well"
	PoolManual      SerialPool = "Manual"
)

func (p SerialPool) IsValid() bool {
	switch p {
	case PoolDefault, PoolAllianzWell, PoolManual:
		return true
	}
	return false
}

// SystemPools are the pools drawn from automatically.
var SystemPools = []SerialPool{PoolDefault, PoolAllianzWell}

type PolicyCategory string

const (
	PolicyCategorySystem PolicyCategory = "System"
	PolicyCategoryManual PolicyCategory = "Manual"
)

func (c PolicyCategory) IsValid() bool {
	switch c {
	case PolicyCategorySystem, PolicyCategoryManual:
		return true
	}
	return false
}

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "Pending"
	StatusIssued   SubmissionStatus = "Issued"
	StatusDeclined SubmissionStatus = "Declined"
)

func (s SubmissionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusIssued, StatusDeclined:
		return true
	}
	return false
}

// PaymentMode is kept open: unknown values are stored as given and have no
// billing period.
type PaymentMode string

const (
	PaymentMonthly    PaymentMode = "Monthly"
	PaymentQuarterly  PaymentMode = "Quarterly"
	PaymentSemiAnnual PaymentMode = "Semi-Annual"
	PaymentAnnual     PaymentMode = "Annual"
)

// Months is the length of one billing period, 0 for unknown modes.
func (m PaymentMode) Months() int {
	switch m {
	case PaymentMonthly:
		return 1
	case PaymentQuarterly:
		return 3
	case PaymentSemiAnnual:
		return 6
	case PaymentAnnual:
		return 12
	}
	return 0
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleMD    Role = "MD"
	RoleMP    Role = "MP"
	RoleAL    Role = "AL"
	RoleAP    Role = "AP"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMD, RoleMP, RoleAL, RoleAP:
		return true
	}
	return false
}
