package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"submission-service/internal/event"
	"submission-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submissionFixture struct {
	svc       *SubmissionService
	store     *memStore
	tx        *fakeTransactor
	publisher *fakePublisher
	cache     *fakeCache
}

func newSubmissionFixture() submissionFixture {
	store := newMemStore()
	tx := &fakeTransactor{}
	publisher := &fakePublisher{}
	cache := &fakeCache{}
	svc := NewSubmissionService(tx, fakePolicies{store}, fakeUsers{store}, fakeSerials{store}, fakeSubmissions{store}, publisher, cache)
	svc.now = func() time.Time { return time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC) }
	return submissionFixture{svc: svc, store: store, tx: tx, publisher: publisher, cache: cache}
}

func submitRequest(policyType, serial string) models.SubmitRequest {
	return models.SubmitRequest{
		ClientFirstName:   "Juan",
		ClientLastName:    "Dela Cruz",
		ClientEmail:       "juan@example.com",
		PolicyType:        policyType,
		SerialNumber:      serial,
		PremiumPaid:       models.AmountInput{Value: decimal.NewFromInt(12000), Present: true},
		ModeOfPayment:     models.PaymentMonthly,
		PolicyDate:        "2026-01-01",
		SubmissionType:    "Team Rizal",
		IntermediaryName:  "Maria",
		IntermediaryEmail: "maria@agency.ph",
	}
}

// ============================================================================
// SYSTEM POLICIES
// ============================================================================

func TestSubmissionService_Submit_SystemPolicy(t *testing.T) {
	f := newSubmissionFixture()
	f.store.addSerial("20000001", models.PoolDefault, false)

	created, err := f.svc.Submit(context.Background(), submitRequest("AZpire Growth", "20000001"))
	require.NoError(t, err)

	assert.Equal(t, "1000.00", created.ANP.StringFixed(2))
	assert.Equal(t, "12000.00", created.PremiumPaid.StringFixed(2))
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Empty(t, created.Attachments)
	assert.Equal(t, "20000001", created.SerialNumber)
	assert.Equal(t, "Juan Dela Cruz", created.ClientName)
	require.NotNil(t, created.NextPaymentDate)
	assert.Equal(t, "2026-02-01", created.NextPaymentDate.String())

	serial := f.store.serials["20000001"]
	assert.True(t, serial.IsIssued)
	assert.Equal(t, models.PoolDefault, serial.Pool)
	assert.Equal(t, serial.ID, created.SerialID)

	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []event.EventType{event.SubmissionCreated}, f.publisher.types())
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestSubmissionService_Submit_SystemSerialErrors(t *testing.T) {
	f := newSubmissionFixture()
	f.store.addSerial("20000001", models.PoolDefault, true)

	_, err := f.svc.Submit(context.Background(), submitRequest("AZpire Growth", "20000001"))
	assert.ErrorIs(t, err, ErrSerialAlreadyIssued)

	_, err = f.svc.Submit(context.Background(), submitRequest("AZpire Growth", "29999999"))
	assert.ErrorIs(t, err, ErrSerialNotFound)

	_, err = f.svc.Submit(context.Background(), submitRequest("AZpire Growth", "20-01"))
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, f.store.submissions)
	assert.Empty(t, f.publisher.events)
}

// ============================================================================
// MANUAL POLICIES
// ============================================================================

func TestSubmissionService_Submit_ManualCreatesSerial(t *testing.T) {
	f := newSubmissionFixture()

	created, err := f.svc.Submit(context.Background(), submitRequest("Eazy Health", "7700123"))
	require.NoError(t, err)

	serial := f.store.serials["7700123"]
	require.NotNil(t, serial)
	assert.Equal(t, models.PoolManual, serial.Pool)
	assert.True(t, serial.IsIssued)
	assert.Equal(t, serial.ID, created.SerialID)
}

func TestSubmissionService_Submit_ManualReusesSerial(t *testing.T) {
	f := newSubmissionFixture()
	existing := f.store.addSerial("7700123", models.PoolManual, false)

	created, err := f.svc.Submit(context.Background(), submitRequest("Eazy Health", "7700123"))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, created.SerialID)
	assert.True(t, existing.IsIssued)
	assert.Len(t, f.store.serials, 1)

	_, err = f.svc.Submit(context.Background(), submitRequest("Eazy Health", "7700123"))
	assert.ErrorIs(t, err, ErrSerialAlreadyIssued, "a serial carries one submission")
}

func TestSubmissionService_Submit_ManualWriteFailure(t *testing.T) {
	f := newSubmissionFixture()
	f.store.upsertManualErr = errors.New("connection reset")

	_, err := f.svc.Submit(context.Background(), submitRequest("Eazy Health", "7700123"))
	assert.ErrorIs(t, err, ErrSerialCreationFailed)
	assert.Contains(t, err.Error(), "connection reset")
}

// ============================================================================
// POLICY & AMOUNTS
// ============================================================================

func TestSubmissionService_Submit_PolicyLookup(t *testing.T) {
	f := newSubmissionFixture()
	f.store.addSerial("50000001", models.PoolAllianzWell, false)

	created, err := f.svc.Submit(context.Background(), submitRequest("  allianz WELL ", "50000001"))
	require.NoError(t, err)
	assert.Equal(t, f.store.policies[0].ID, created.PolicyID)

	_, err = f.svc.Submit(context.Background(), submitRequest("Unknown Plan", "50000001"))
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}

func TestSubmissionService_Submit_Amounts(t *testing.T) {
	f := newSubmissionFixture()
	f.store.addSerial("20000001", models.PoolDefault, false)
	f.store.addSerial("20000002", models.PoolDefault, false)

	explicit := submitRequest("AZpire Growth", "20000001")
	explicit.ANP = models.AmountInput{Value: decimal.RequireFromString("1500.555"), Present: true}
	created, err := f.svc.Submit(context.Background(), explicit)
	require.NoError(t, err)
	assert.Equal(t, "1500.56", created.ANP.StringFixed(2))

	junk := submitRequest("AZpire Growth", "20000002")
	junk.PremiumPaid = models.AmountInput{Value: decimal.Zero, Present: true}
	junk.PolicyDate = "someday"
	created, err = f.svc.Submit(context.Background(), junk)
	require.NoError(t, err)
	assert.Equal(t, "0.00", created.PremiumPaid.StringFixed(2))
	assert.Equal(t, "0.00", created.ANP.StringFixed(2))
	assert.Nil(t, created.NextPaymentDate)
}

func TestSubmissionService_Submit_IntermediaryEmailRequired(t *testing.T) {
	f := newSubmissionFixture()
	req := submitRequest("AZpire Growth", "20000001")
	req.IntermediaryEmail = "not-an-email"

	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.tx.calls)
}

func TestSubmissionService_Submit_ReusesIntermediary(t *testing.T) {
	f := newSubmissionFixture()
	f.store.addSerial("20000001", models.PoolDefault, false)
	f.store.addSerial("20000002", models.PoolDefault, false)

	first, err := f.svc.Submit(context.Background(), submitRequest("AZpire Growth", "20000001"))
	require.NoError(t, err)
	second, err := f.svc.Submit(context.Background(), submitRequest("AZpire Growth", "20000002"))
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID)
	assert.Len(t, f.store.users, 1)
}

// ============================================================================
// DETAILS & STATUS
// ============================================================================

func TestSubmissionService_GetDetails(t *testing.T) {
	f := newSubmissionFixture()
	serial := f.store.addSerial("20000001", models.PoolDefault, true)
	f.store.addSerial("20000002", models.PoolDefault, false)
	f.store.addSubmission(models.Submission{
		ClientName:    "Juan Dela Cruz",
		ClientEmail:   "juan@example.com",
		PolicyID:      f.store.policies[1].ID,
		SerialID:      serial.ID,
		ModeOfPayment: models.PaymentQuarterly,
		IssuedAt:      time.Date(2026, 1, 5, 23, 0, 0, 0, time.UTC),
	})

	details, err := f.svc.GetDetails(context.Background(), "20000001")
	require.NoError(t, err)
	assert.Equal(t, "Juan", details.ClientFirstName)
	assert.Equal(t, "Dela Cruz", details.ClientLastName)
	assert.Equal(t, "AZpire Growth", details.PolicyType)
	assert.Equal(t, models.PaymentQuarterly, details.ModeOfPayment)
	assert.Equal(t, "2026-01-05", details.PolicyDate.String())

	_, err = f.svc.GetDetails(context.Background(), "29999999")
	assert.ErrorIs(t, err, ErrSerialNotFound)

	_, err = f.svc.GetDetails(context.Background(), "20000002")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionService_UpdateStatus(t *testing.T) {
	f := newSubmissionFixture()
	sub := f.store.addSubmission(models.Submission{ClientName: "Ana Santos"})

	require.NoError(t, f.svc.UpdateStatus(context.Background(), sub.ID, models.StatusDeclined))
	assert.Equal(t, models.StatusDeclined, f.store.submissions[sub.ID].Status)
	assert.Nil(t, f.store.submissions[sub.ID].DateIssued)

	require.NoError(t, f.svc.UpdateStatus(context.Background(), sub.ID, models.StatusIssued))
	require.NotNil(t, f.store.submissions[sub.ID].DateIssued)
	assert.Equal(t, f.svc.now(), *f.store.submissions[sub.ID].DateIssued)

	assert.ErrorIs(t, f.svc.UpdateStatus(context.Background(), sub.ID, "Approved"), ErrInvalidStatus)
	assert.ErrorIs(t, f.svc.UpdateStatus(context.Background(), uuid.New(), models.StatusIssued), ErrSubmissionNotFound)

	assert.Equal(t, []event.EventType{event.SubmissionStatusChanged, event.SubmissionStatusChanged}, f.publisher.types())
	assert.Equal(t, 2, f.cache.invalidations)
}
