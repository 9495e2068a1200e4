package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"submission-service/internal/event"
	"submission-service/internal/models"
	"submission-service/internal/notification"
	"submission-service/internal/repository"
	"submission-service/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ============================================================================
// IN-MEMORY STORE
// ============================================================================

type memStore struct {
	mu          sync.Mutex
	serials     map[string]*models.SerialNumber
	policies    []models.Policy
	users       map[string]uuid.UUID
	submissions map[uuid.UUID]*models.Submission
	payments    []models.PaymentEntry

	upsertManualErr error
	paymentErr      error
}

func newMemStore() *memStore {
	return &memStore{
		serials:     map[string]*models.SerialNumber{},
		users:       map[string]uuid.UUID{},
		submissions: map[uuid.UUID]*models.Submission{},
		policies: []models.Policy{
			{ID: uuid.New(), Name: "Allianz Well", Type: "Allianz Well", Category: models.PolicyCategorySystem},
			{ID: uuid.New(), Name: "AZpire Growth", Type: "AZpire Growth", Category: models.PolicyCategorySystem},
			{ID: uuid.New(), Name: "Eazy Health", Type: "Eazy Health", Category: models.PolicyCategoryManual},
		},
	}
}

func (m *memStore) addSerial(value string, pool models.SerialPool, issued bool) *models.SerialNumber {
	s := &models.SerialNumber{ID: uuid.New(), Value: value, Pool: pool, IsIssued: issued, CreatedAt: time.Now()}
	m.serials[value] = s
	return s
}

func (m *memStore) addSubmission(sub models.Submission) *models.Submission {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if sub.Status == "" {
		sub.Status = models.StatusPending
	}
	m.submissions[sub.ID] = &sub
	return &sub
}

func (m *memStore) policyByID(id uuid.UUID) *models.Policy {
	for i := range m.policies {
		if m.policies[i].ID == id {
			return &m.policies[i]
		}
	}
	return nil
}

func (m *memStore) serialByID(id uuid.UUID) *models.SerialNumber {
	for _, s := range m.serials {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, sql.ErrNoRows)
}

// ============================================================================
// SERIALS
// ============================================================================

type fakeSerials struct{ *memStore }

func (f fakeSerials) FindAvailable(ctx context.Context, pool models.SerialPool) (*models.SerialNumber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var values []string
	for v, s := range f.serials {
		if s.Pool == pool && !s.IsIssued {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, notFound("available serial")
	}
	sort.Strings(values)
	s := *f.serials[values[0]]
	return &s, nil
}

func (f fakeSerials) GetByValue(ctx context.Context, value string) (*models.SerialNumber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.serials[value]
	if !ok {
		return nil, notFound("serial " + value)
	}
	c := *s
	return &c, nil
}

func (f fakeSerials) ClaimTx(ctx context.Context, tx *sqlx.Tx, value string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.serials[value]
	if !ok {
		return uuid.Nil, notFound("serial " + value)
	}
	if s.IsIssued {
		return uuid.Nil, fmt.Errorf("serial %s already issued: %w", value, repository.ErrConflict)
	}
	s.IsIssued = true
	return s.ID, nil
}

func (f fakeSerials) UpsertManualTx(ctx context.Context, tx *sqlx.Tx, value string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertManualErr != nil {
		return uuid.Nil, f.upsertManualErr
	}
	if s, ok := f.serials[value]; ok {
		s.IsIssued = true
		return s.ID, nil
	}
	return f.addSerial(value, models.PoolManual, true).ID, nil
}

func (f fakeSerials) Create(ctx context.Context, value string, pool models.SerialPool) (*models.SerialNumber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.serials[value]; ok {
		return nil, fmt.Errorf("serial %s already exists: %w", value, repository.ErrConflict)
	}
	s := *f.addSerial(value, pool, false)
	return &s, nil
}

func (f fakeSerials) InsertIgnoringDuplicates(ctx context.Context, values []string, pool models.SerialPool) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inserted := 0
	for _, v := range values {
		if _, ok := f.serials[v]; ok {
			continue
		}
		f.addSerial(v, pool, false)
		inserted++
	}
	return inserted, nil
}

func (f fakeSerials) List(ctx context.Context, filter models.SerialFilter) ([]models.SerialNumber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.SerialNumber{}
	for _, s := range f.serials {
		if filter.Pool != nil && s.Pool != *filter.Pool {
			continue
		}
		if filter.Issued != nil && s.IsIssued != *filter.Issued {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f fakeSerials) Stats(ctx context.Context) (*models.SerialStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.SerialStats{Total: len(f.serials)}
	for _, s := range f.serials {
		switch {
		case s.IsIssued:
			stats.Used++
		case s.Pool == models.PoolDefault:
			stats.UnusedDefault++
		case s.Pool == models.PoolAllianzWell:
			stats.UnusedAllianzWell++
		}
	}
	return stats, nil
}

func (f fakeSerials) CountAvailableByPool(ctx context.Context) (map[models.SerialPool]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[models.SerialPool]int{}
	for _, s := range f.serials {
		if !s.IsIssued {
			counts[s.Pool]++
		}
	}
	return counts, nil
}

// ============================================================================
// POLICIES & USERS
// ============================================================================

type fakePolicies struct{ *memStore }

func (f fakePolicies) GetByType(ctx context.Context, policyType string) (*models.Policy, error) {
	for _, p := range f.policies {
		if p.Type == policyType {
			c := p
			return &c, nil
		}
	}
	return nil, notFound("policy " + policyType)
}

func (f fakePolicies) GetByID(ctx context.Context, id uuid.UUID) (*models.Policy, error) {
	if p := f.policyByID(id); p != nil {
		c := *p
		return &c, nil
	}
	return nil, notFound("policy " + id.String())
}

func (f fakePolicies) List(ctx context.Context) ([]models.Policy, error) {
	return append([]models.Policy{}, f.policies...), nil
}

type fakeUsers struct{ *memStore }

func (f fakeUsers) UpsertByEmailTx(ctx context.Context, tx *sqlx.Tx, user models.User, agencyName string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.users[user.Email]; ok {
		return id, nil
	}
	id := uuid.New()
	f.users[user.Email] = id
	return id, nil
}

// ============================================================================
// SUBMISSIONS & PAYMENTS
// ============================================================================

type fakeSubmissions struct{ *memStore }

func (f fakeSubmissions) CreateTx(ctx context.Context, tx *sqlx.Tx, submission *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.submissions {
		if s.SerialID == submission.SerialID {
			return fmt.Errorf("duplicate serial: %w", repository.ErrConflict)
		}
	}
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	c := *submission
	f.submissions[c.ID] = &c
	return nil
}

func (f fakeSubmissions) GetByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.submissions[id]
	if !ok {
		return nil, notFound("submission")
	}
	c := *s
	return &c, nil
}

func (f fakeSubmissions) GetBySerialID(ctx context.Context, serialID uuid.UUID) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.submissions {
		if s.SerialID == serialID {
			c := *s
			return &c, nil
		}
	}
	return nil, notFound("submission")
}

func (f fakeSubmissions) AppendDocuments(ctx context.Context, id uuid.UUID, formType string, mode models.PaymentMode, files models.Attachments) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.submissions[id]
	if !ok {
		return nil, notFound("submission")
	}
	if formType != "" {
		s.FormType = &formType
	}
	if mode != "" {
		s.ModeOfPayment = mode
	}
	s.Attachments = append(s.Attachments, files...)
	c := *s
	return &c, nil
}

func (f fakeSubmissions) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus, dateIssued *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.submissions[id]
	if !ok {
		return utils.ErrNoRowsAffected
	}
	s.Status = status
	if dateIssued != nil {
		s.DateIssued = dateIssued
	}
	return nil
}

func (f fakeSubmissions) RolloverTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, next *models.Date) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.submissions[id]
	if !ok {
		return utils.ErrNoRowsAffected
	}
	s.NextPaymentDate = next
	s.IsPaid = false
	return nil
}

func (f fakeSubmissions) ListByIssuedAtDesc(ctx context.Context) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Submission, 0, len(f.submissions))
	for _, s := range f.submissions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return out, nil
}

func (f fakeSubmissions) ListMonitoring(ctx context.Context) ([]models.MonitoringRow, error) {
	subs, _ := f.ListByIssuedAtDesc(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := make([]models.MonitoringRow, 0, len(subs))
	for _, s := range subs {
		row := models.MonitoringRow{Submission: s}
		if p := f.policyByID(s.PolicyID); p != nil {
			row.PolicyType = &p.Type
		}
		if sn := f.serialByID(s.SerialID); sn != nil {
			row.SerialNumber = &sn.Value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type fakePayments struct{ *memStore }

func (f fakePayments) CreateTx(ctx context.Context, tx *sqlx.Tx, entry *models.PaymentEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paymentErr != nil {
		return f.paymentErr
	}
	entry.ID = uuid.New()
	f.payments = append(f.payments, *entry)
	return nil
}

func (f fakePayments) ListBySubmissionIDs(ctx context.Context, ids []uuid.UUID) ([]models.PaymentEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []models.PaymentEntry{}
	for _, p := range f.payments {
		if want[p.SubmissionID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTransactor struct{ calls int }

func (f *fakeTransactor) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	f.calls++
	return fn(nil)
}

// ============================================================================
// OUTBOUND
// ============================================================================

type fakePublisher struct {
	events []event.SubmissionEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, evt event.SubmissionEvent) error {
	f.events = append(f.events, evt)
	return f.err
}

func (f *fakePublisher) types() []event.EventType {
	out := make([]event.EventType, len(f.events))
	for i, e := range f.events {
		out[i] = e.Type
	}
	return out
}

type fakeCache struct {
	report        *models.PerformanceReport
	getErr        error
	sets          int
	invalidations int
}

func (f *fakeCache) Get(ctx context.Context) (*models.PerformanceReport, error) {
	return f.report, f.getErr
}

func (f *fakeCache) Set(ctx context.Context, report *models.PerformanceReport) error {
	f.sets++
	f.report = report
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context) error {
	f.invalidations++
	f.report = nil
	return nil
}

type fakeStorage struct {
	uploads  map[string][]byte
	failWhen string
}

func (f *fakeStorage) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	if f.failWhen != "" && strings.Contains(objectName, f.failWhen) {
		return "", errors.New("storage unavailable")
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[objectName] = data
	return "http://storage.local/policy-documents/" + objectName, nil
}

type fakeRenderer struct {
	err   error
	calls int
}

func (f *fakeRenderer) Render(form models.FormData, serialNumber string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 " + serialNumber), nil
}

type fakeNotifier struct {
	sent []notification.SubmissionEmail
	err  error
}

func (f *fakeNotifier) SendSubmission(ctx context.Context, email notification.SubmissionEmail) error {
	f.sent = append(f.sent, email)
	return f.err
}
