package testhelpers

import (
	"context"

	"adboard/domain/entities"
	"adboard/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Append(ctx context.Context, entry *entities.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerService) RecordPurchase(ctx context.Context, accountID, amount int64, reference string) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, amount, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) Grant(ctx context.Context, grantorID, granteeID, amount int64, kind entities.EntryKind, description string) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, grantorID, granteeID, amount, kind, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) GlobalBalance(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) AvailableFrom(ctx context.Context, accountID, grantorID int64) (int64, error) {
	args := m.Called(ctx, accountID, grantorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) AuthorizeSpend(ctx context.Context, accountID, amount int64, grantorID *int64) (*interfaces.SpendAuthorization, error) {
	args := m.Called(ctx, accountID, amount, grantorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.SpendAuthorization), args.Error(1)
}

func (m *MockLedgerService) AppendSpend(ctx context.Context, auth *interfaces.SpendAuthorization, relatedChannelID, relatedPostID *int64, description string) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, auth, relatedChannelID, relatedPostID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) CheckIntegrity(ctx context.Context, accountID int64) (*interfaces.IntegrityReport, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.IntegrityReport), args.Error(1)
}
