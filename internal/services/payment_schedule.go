package services

import (
	"strings"

	"submission-service/internal/models"

	"github.com/shopspring/decimal"
)

// Rollover advances d by one billing period of mode. Unknown modes leave the
// date unchanged.
func Rollover(d models.Date, mode models.PaymentMode) models.Date {
	months := mode.Months()
	if months == 0 {
		return d
	}
	return models.NewDate(d.AddDate(0, months, 0))
}

// NextPaymentDate returns nil when policyDate cannot be parsed.
func NextPaymentDate(policyDate string, mode models.PaymentMode) *models.Date {
	d, err := models.ParseDate(policyDate)
	if err != nil {
		return nil
	}
	next := Rollover(d, mode)
	return &next
}

// ComputeANP annualizes a per-period premium.
func ComputeANP(premium decimal.Decimal, mode models.PaymentMode) decimal.Decimal {
	var divisor int64
	switch mode {
	case models.PaymentMonthly:
		divisor = 12
	case models.PaymentQuarterly:
		divisor = 4
	case models.PaymentSemiAnnual:
		divisor = 2
	default:
		divisor = 1
	}
	return premium.Div(decimal.NewFromInt(divisor)).Round(2)
}

// PoolForPolicyType maps a system policy type to the pool its serials come from.
func PoolForPolicyType(policyType string) models.SerialPool {
	if strings.TrimSpace(policyType) == string(models.PoolAllianzWell) {
		return models.PoolAllianzWell
	}
	return models.PoolDefault
}
