package services

import (
	"context"
	"fmt"
	"log/slog"

	"submission-service/internal/models"
	"submission-service/internal/utils"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const customerSheet = "Customers"

type IMonitoringService interface {
	ListMonitoring(ctx context.Context) ([]models.MonitoringRow, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	ExportCustomers(ctx context.Context) ([]byte, error)
}

type MonitoringService struct {
	submissionRepo ISubmissionRepository
	paymentRepo    IPaymentRepository
}

func NewMonitoringService(submissionRepo ISubmissionRepository, paymentRepo IPaymentRepository) *MonitoringService {
	return &MonitoringService{submissionRepo: submissionRepo, paymentRepo: paymentRepo}
}

func (s *MonitoringService) ListMonitoring(ctx context.Context) ([]models.MonitoringRow, error) {
	return s.submissionRepo.ListMonitoring(ctx)
}

// ListCustomers groups submissions by client email. Rows without an email are
// left out; a customer's id is the id of its first submission.
func (s *MonitoringService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.submissionRepo.ListMonitoring(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	entries, err := s.paymentRepo.ListBySubmissionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	history := make(map[uuid.UUID][]models.PaymentEntry, len(entries))
	for _, e := range entries {
		history[e.SubmissionID] = append(history[e.SubmissionID], e)
	}

	customers := []models.Customer{}
	index := map[string]int{}
	for _, row := range rows {
		if row.ClientEmail == "" {
			continue
		}
		i, ok := index[row.ClientEmail]
		if !ok {
			first, last := utils.SplitName(row.ClientName)
			i = len(customers)
			index[row.ClientEmail] = i
			customers = append(customers, models.Customer{
				ID:          row.ID,
				FirstName:   first,
				LastName:    last,
				Email:       row.ClientEmail,
				Submissions: []models.CustomerSubmission{},
			})
		}

		payments := history[row.ID]
		if payments == nil {
			payments = []models.PaymentEntry{}
		}
		customers[i].Submissions = append(customers[i].Submissions, models.CustomerSubmission{
			MonitoringRow:  row,
			PaymentHistory: payments,
		})
	}
	return customers, nil
}

// ExportCustomers renders the customer view as an XLSX workbook, one row per
// submission.
func (s *MonitoringService) ExportCustomers(ctx context.Context) ([]byte, error) {
	customers, err := s.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(customerSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Client Name", "Email", "Policy Type", "Serial Number", "Status", "Premium Paid", "ANP", "Mode of Payment", "Next Payment Date", "Payments Recorded"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(customerSheet, cell, header)
	}

	row := 2
	for _, c := range customers {
		for _, sub := range c.Submissions {
			nextDate := ""
			if sub.NextPaymentDate != nil {
				nextDate = sub.NextPaymentDate.String()
			}
			values := []any{
				sub.ClientName,
				c.Email,
				deref(sub.PolicyType),
				deref(sub.SerialNumber),
				string(sub.Status),
				sub.PremiumPaid.StringFixed(2),
				sub.ANP.StringFixed(2),
				string(sub.ModeOfPayment),
				nextDate,
				len(sub.PaymentHistory),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(customerSheet, cell, v)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	slog.Info("MonitoringService: Customer export built", "customers", len(customers), "rows", row-2)
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
