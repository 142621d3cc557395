package testhelpers

import (
	"context"
	"time"

	"adboard/domain/entities"
	"adboard/domain/events"
	"adboard/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, accountID int64) (*entities.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, accountID int64) (*entities.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, username string, role entities.AccountRole) (*entities.Account, error) {
	args := m.Called(ctx, username, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetOrCreate(ctx context.Context, username string, role entities.AccountRole) (*entities.Account, error) {
	args := m.Called(ctx, username, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, accountID int64, newBalance int64) error {
	args := m.Called(ctx, accountID, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) SumLedgerAmounts(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) AvailableFromGrantor(ctx context.Context, accountID, grantorID int64) (int64, error) {
	args := m.Called(ctx, accountID, grantorID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCreditRequestRepository is a mock implementation of CreditRequestRepository
type MockCreditRequestRepository struct {
	mock.Mock
}

func (m *MockCreditRequestRepository) Create(ctx context.Context, request *entities.CreditRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockCreditRequestRepository) GetByID(ctx context.Context, id int64) (*entities.CreditRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CreditRequest), args.Error(1)
}

func (m *MockCreditRequestRepository) MarkProcessed(ctx context.Context, id int64, status entities.CreditRequestStatus, processedBy int64, notes string, processedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, status, processedBy, notes, processedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockCreditRequestRepository) ListPendingForGrantor(ctx context.Context, grantorID int64) ([]*entities.CreditRequest, error) {
	args := m.Called(ctx, grantorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CreditRequest), args.Error(1)
}

func (m *MockCreditRequestRepository) ListPendingAdminPool(ctx context.Context) ([]*entities.CreditRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CreditRequest), args.Error(1)
}

func (m *MockCreditRequestRepository) ListByRequester(ctx context.Context, requesterID int64, limit int) ([]*entities.CreditRequest, error) {
	args := m.Called(ctx, requesterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CreditRequest), args.Error(1)
}

// MockChannelRepository is a mock implementation of ChannelRepository
type MockChannelRepository struct {
	mock.Mock
}

func (m *MockChannelRepository) Create(ctx context.Context, channel *entities.Channel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockChannelRepository) GetByID(ctx context.Context, id int64) (*entities.Channel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Channel), args.Error(1)
}

func (m *MockChannelRepository) Update(ctx context.Context, channel *entities.Channel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockChannelRepository) IncrementCounters(ctx context.Context, channelID int64, scheduledDelta, sentDelta, revenueDelta int64) error {
	args := m.Called(ctx, channelID, scheduledDelta, sentDelta, revenueDelta)
	return args.Error(0)
}

func (m *MockChannelRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entities.Channel, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Channel), args.Error(1)
}

// MockPostRepository is a mock implementation of PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePost(ctx context.Context, post *entities.AdPost) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetPostByID(ctx context.Context, id int64) (*entities.AdPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AdPost), args.Error(1)
}

func (m *MockPostRepository) UpdatePostStatus(ctx context.Context, postID int64, status entities.AdPostStatus) error {
	args := m.Called(ctx, postID, status)
	return args.Error(0)
}

func (m *MockPostRepository) ListPostsByAdvertiser(ctx context.Context, advertiserID int64, limit int) ([]*entities.AdPost, error) {
	args := m.Called(ctx, advertiserID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AdPost), args.Error(1)
}

func (m *MockPostRepository) CreateFireTime(ctx context.Context, fireTime *entities.FireTime) error {
	args := m.Called(ctx, fireTime)
	return args.Error(0)
}

func (m *MockPostRepository) GetFireTimeByID(ctx context.Context, id int64) (*entities.FireTime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FireTime), args.Error(1)
}

func (m *MockPostRepository) ListFireTimesByPost(ctx context.Context, postID int64) ([]*entities.FireTime, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FireTime), args.Error(1)
}

func (m *MockPostRepository) DeleteFireTime(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) ClaimDueFireTimes(ctx context.Context, now time.Time, lookahead time.Duration) ([]*interfaces.DueFireTime, error) {
	args := m.Called(ctx, now, lookahead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*interfaces.DueFireTime), args.Error(1)
}

func (m *MockPostRepository) FailInterruptedDeliveries(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockPostRepository) FinalizeFireTime(ctx context.Context, id int64, status entities.FireTimeStatus, failureReason *string, sentAt *time.Time) (bool, error) {
	args := m.Called(ctx, id, status, failureReason, sentAt)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// NoopEventPublisher swallows events for tests that do not assert on them
type NoopEventPublisher struct{}

func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}

// MockChannelAdminChecker is a mock implementation of ChannelAdminChecker
type MockChannelAdminChecker struct {
	mock.Mock
}

func (m *MockChannelAdminChecker) IsChannelAdmin(ctx context.Context, destinationID, platformUserID int64) (bool, error) {
	args := m.Called(ctx, destinationID, platformUserID)
	return args.Bool(0), args.Error(1)
}
