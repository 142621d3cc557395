package services

import (
	"context"
	"testing"
	"time"

	"adboard/domain/entities"
	"adboard/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingRequest(id, requesterID int64, grantorID *int64, amount int64) *entities.CreditRequest {
	return &entities.CreditRequest{
		ID:                 id,
		RequesterAccountID: requesterID,
		GrantorAccountID:   grantorID,
		Amount:             amount,
		Status:             entities.CreditRequestStatusPending,
		CreatedAt:          time.Now(),
	}
}

func TestRequestService_CreateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending request", func(t *testing.T) {
		requestRepo := new(testhelpers.MockCreditRequestRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		service := NewRequestService(requestRepo, accountRepo, new(testhelpers.MockLedgerService), &testhelpers.NoopEventPublisher{})

		accountRepo.On("GetByID", ctx, int64(1)).Return(testAccount(1, 0, entities.AccountRoleAdvertiser), nil)
		requestRepo.On("Create", ctx, mock.AnythingOfType("*entities.CreditRequest")).Return(nil)

		grantorID := int64(9)
		request, err := service.CreateRequest(ctx, 1, &grantorID, nil, 200, "spring campaign")
		require.NoError(t, err)
		assert.Equal(t, entities.CreditRequestStatusPending, request.Status)
		assert.Equal(t, int64(200), request.Amount)
	})

	t.Run("rejects self-requests", func(t *testing.T) {
		service := NewRequestService(new(testhelpers.MockCreditRequestRepository), new(testhelpers.MockAccountRepository), new(testhelpers.MockLedgerService), &testhelpers.NoopEventPublisher{})

		self := int64(1)
		_, err := service.CreateRequest(ctx, 1, &self, nil, 200, "")
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		service := NewRequestService(new(testhelpers.MockCreditRequestRepository), new(testhelpers.MockAccountRepository), new(testhelpers.MockLedgerService), &testhelpers.NoopEventPublisher{})

		_, err := service.CreateRequest(ctx, 1, nil, nil, 0, "")
		assert.ErrorIs(t, err, entities.ErrInvalidAmount)
	})
}

func TestRequestService_Approve(t *testing.T) {
	ctx := context.Background()
	grantorID := int64(9)

	t.Run("named grantor approves and the grant is appended", func(t *testing.T) {
		requestRepo := new(testhelpers.MockCreditRequestRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		ledgerService := new(testhelpers.MockLedgerService)
		service := NewRequestService(requestRepo, accountRepo, ledgerService, &testhelpers.NoopEventPublisher{})

		requestRepo.On("GetByID", ctx, int64(42)).Return(pendingRequest(42, 1, &grantorID, 200), nil)
		accountRepo.On("GetByID", ctx, grantorID).Return(testAccount(grantorID, 0, entities.AccountRolePublisher), nil)
		requestRepo.On("MarkProcessed", ctx, int64(42), entities.CreditRequestStatusApproved, grantorID, "", mock.AnythingOfType("time.Time")).
			Return(true, nil)
		ledgerService.On("Grant", ctx, grantorID, int64(1), int64(200), entities.EntryKindPublisherGrant, mock.AnythingOfType("string")).
			Return(&entities.LedgerEntry{ID: 7, Amount: 200}, nil)

		request, err := service.Approve(ctx, 42, grantorID, nil)
		require.NoError(t, err)
		assert.Equal(t, entities.CreditRequestStatusApproved, request.Status)
		ledgerService.AssertExpectations(t)
	})

	t.Run("admin pool approval produces an admin grant", func(t *testing.T) {
		requestRepo := new(testhelpers.MockCreditRequestRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		ledgerService := new(testhelpers.MockLedgerService)
		service := NewRequestService(requestRepo, accountRepo, ledgerService, &testhelpers.NoopEventPublisher{})

		adminID := int64(99)
		requestRepo.On("GetByID", ctx, int64(43)).Return(pendingRequest(43, 1, nil, 500), nil)
		accountRepo.On("GetByID", ctx, adminID).Return(testAccount(adminID, 0, entities.AccountRoleAdmin), nil)
		requestRepo.On("MarkProcessed", ctx, int64(43), entities.CreditRequestStatusApproved, adminID, "", mock.AnythingOfType("time.Time")).
			Return(true, nil)
		ledgerService.On("Grant", ctx, adminID, int64(1), int64(500), entities.EntryKindAdminGrant, mock.AnythingOfType("string")).
			Return(&entities.LedgerEntry{ID: 8, Amount: 500}, nil)

		_, err := service.Approve(ctx, 43, adminID, nil)
		require.NoError(t, err)
		ledgerService.AssertExpectations(t)
	})

	t.Run("amount override replaces the requested amount", func(t *testing.T) {
		requestRepo := new(testhelpers.MockCreditRequestRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		ledgerService := new(testhelpers.MockLedgerService)
		service := NewRequestService(requestRepo, accountRepo, ledgerService, &testhelpers.NoopEventPublisher{})

		requestRepo.On("GetByID", ctx, int64(44)).Return(pendingRequest(44, 1, &grantorID, 200), nil)
		accountRepo.On("GetByID", ctx, grantorID).Return(testAccount(grantorID, 0, entities.AccountRolePublisher), nil)
		requestRepo.On("MarkProcessed", ctx, int64(44), entities.CreditRequestStatusApproved, grantorID, "", mock.AnythingOfType("time.Time")).
			Return(true, nil)
		ledgerService.On("Grant", ctx, grantorID, int64(1), int64(150), entities.EntryKindPublisherGrant, mock.AnythingOfType("string")).
			Return(&entities.LedgerEntry{ID: 9, Amount: 150}, nil)

		override := int64(150)
		request, err := service.Approve(ctx, 44, grantorID, &override)
		require.NoError(t, err)
		assert.Equal(t, int64(150), request.Amount)
	})

	t.Run("only the named grantor may approve", func(t *testing.T) {
		requestRepo := new(testhelpers.MockCreditRequestRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		ledgerService := new(testhelpers.MockLedgerService)
		service := NewRequestService(requestRepo, accountRepo, ledgerService, &testhelpers.NoopEventPublisher{})

		// Even an admin may not approve a request aimed at a named grantor.
		adminID := int64(99)
		requestRepo.On("GetByID", ctx, int64(45)).Return(pendingRequest(45, 1, &grantorID, 200), nil)
		accountRepo.On("GetByID", ctx, adminID).Return(testAccount(adminID, 0, entities.AccountRoleAdmin), nil)

		_, err := service.Approve(ctx, 45, adminID, nil)
		assert.ErrorIs(t, err, entities.ErrForbidden)
		ledgerService.AssertNotCalled(t, "Grant", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("losing the compare-and-swap surfaces as conflict", func(t *testing.T) {
		requestRepo := new(testhelpers.MockCreditRequestRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		ledgerService := new(testhelpers.MockLedgerService)
		service := NewRequestService(requestRepo, accountRepo, ledgerService, &testhelpers.NoopEventPublisher{})

		requestRepo.On("GetByID", ctx, int64(46)).Return(pendingRequest(46, 1, &grantorID, 200), nil)
		accountRepo.On("GetByID", ctx, grantorID).Return(testAccount(grantorID, 0, entities.AccountRolePublisher), nil)
		requestRepo.On("MarkProcessed", ctx, int64(46), entities.CreditRequestStatusApproved, grantorID, "", mock.AnythingOfType("time.Time")).
			Return(false, nil)

		_, err := service.Approve(ctx, 46, grantorID, nil)
		assert.ErrorIs(t, err, entities.ErrNotPending)
		ledgerService.AssertNotCalled(t, "Grant", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("terminal request cannot be approved", func(t *testing.T) {
		requestRepo := new(testhelpers.MockCreditRequestRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		service := NewRequestService(requestRepo, accountRepo, new(testhelpers.MockLedgerService), &testhelpers.NoopEventPublisher{})

		done := pendingRequest(47, 1, &grantorID, 200)
		done.Status = entities.CreditRequestStatusRejected
		requestRepo.On("GetByID", ctx, int64(47)).Return(done, nil)

		_, err := service.Approve(ctx, 47, grantorID, nil)
		assert.ErrorIs(t, err, entities.ErrNotPending)
	})
}

func TestRequestService_Reject(t *testing.T) {
	ctx := context.Background()
	grantorID := int64(9)

	t.Run("rejection records the reason and touches no ledger", func(t *testing.T) {
		requestRepo := new(testhelpers.MockCreditRequestRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		ledgerService := new(testhelpers.MockLedgerService)
		publisher := new(testhelpers.MockEventPublisher)
		service := NewRequestService(requestRepo, accountRepo, ledgerService, publisher)

		requestRepo.On("GetByID", ctx, int64(50)).Return(pendingRequest(50, 1, &grantorID, 200), nil)
		accountRepo.On("GetByID", ctx, grantorID).Return(testAccount(grantorID, 0, entities.AccountRolePublisher), nil)
		requestRepo.On("MarkProcessed", ctx, int64(50), entities.CreditRequestStatusRejected, grantorID, "budget exhausted", mock.AnythingOfType("time.Time")).
			Return(true, nil)
		publisher.On("Publish", mock.AnythingOfType("events.RequestProcessedEvent")).Return(nil)

		request, err := service.Reject(ctx, 50, grantorID, "budget exhausted")
		require.NoError(t, err)
		assert.Equal(t, entities.CreditRequestStatusRejected, request.Status)
		assert.Equal(t, "budget exhausted", request.Notes)
		ledgerService.AssertNotCalled(t, "Grant", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
