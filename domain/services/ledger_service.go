package services

import (
	"context"
	"fmt"

	"adboard/domain/entities"
	"adboard/domain/events"
	"adboard/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ledgerService implements the append-only credit ledger and the cached
// balances derived from it. Every method runs inside the caller's unit of
// work; atomicity of entry + cache comes from that transaction plus the
// account row lock taken before any balance read.
type ledgerService struct {
	accountRepo    interfaces.AccountRepository
	ledgerRepo     interfaces.LedgerEntryRepository
	eventPublisher interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	accountRepo interfaces.AccountRepository,
	ledgerRepo interfaces.LedgerEntryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.LedgerService {
	return &ledgerService{
		accountRepo:    accountRepo,
		ledgerRepo:     ledgerRepo,
		eventPublisher: eventPublisher,
	}
}

// Append records a ledger entry and applies the paired balance change
func (s *ledgerService) Append(ctx context.Context, entry *entities.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	account, err := s.accountRepo.GetByIDForUpdate(ctx, entry.AccountID)
	if err != nil {
		return fmt.Errorf("failed to lock account %d: %w", entry.AccountID, err)
	}
	if account == nil {
		return fmt.Errorf("account %d: %w", entry.AccountID, entities.ErrNotFound)
	}

	return s.appendLocked(ctx, account, entry)
}

// appendLocked writes the entry and the new cached balance. The caller must
// already hold the account row lock.
func (s *ledgerService) appendLocked(ctx context.Context, account *entities.Account, entry *entities.LedgerEntry) error {
	if err := s.ledgerRepo.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	newBalance := account.Balance + entry.Amount
	if err := s.accountRepo.UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return fmt.Errorf("failed to update cached balance: %w", err)
	}

	if err := s.eventPublisher.Publish(events.BalanceChangeEvent{
		AccountID:  account.ID,
		OldBalance: account.Balance,
		NewBalance: newBalance,
		Amount:     entry.Amount,
		Kind:       entry.Kind,
		EntryID:    entry.ID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	account.Balance = newBalance
	return nil
}

// RecordPurchase appends a purchase entry for a confirmed checkout
func (s *ledgerService) RecordPurchase(ctx context.Context, accountID, amount int64, reference string) (*entities.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("purchase amount must be positive: %w", entities.ErrInvalidAmount)
	}

	entry := &entities.LedgerEntry{
		AccountID:   accountID,
		Amount:      amount,
		Kind:        entities.EntryKindPurchase,
		Description: fmt.Sprintf("credit purchase %s", reference),
	}
	if err := s.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Grant appends a grant entry from grantor to grantee
func (s *ledgerService) Grant(ctx context.Context, grantorID, granteeID, amount int64, kind entities.EntryKind, description string) (*entities.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("grant amount must be positive: %w", entities.ErrInvalidAmount)
	}
	if !kind.IsGrant() {
		return nil, fmt.Errorf("kind %s is not a grant kind", kind)
	}

	entry := &entities.LedgerEntry{
		AccountID:          granteeID,
		Amount:             amount,
		Kind:               kind,
		GrantedByAccountID: &grantorID,
		Description:        description,
	}
	if err := s.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GlobalBalance returns the cached balance for an account
func (s *ledgerService) GlobalBalance(ctx context.Context, accountID int64) (int64, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}
	if account == nil {
		return 0, fmt.Errorf("account %d: %w", accountID, entities.ErrNotFound)
	}
	return account.Balance, nil
}

// AvailableFrom recomputes the grantor-scoped sub-balance on every call.
// The underlying fold can go negative under adversarial sequences; callers
// only ever see zero in that case.
func (s *ledgerService) AvailableFrom(ctx context.Context, accountID, grantorID int64) (int64, error) {
	available, err := s.ledgerRepo.AvailableFromGrantor(ctx, accountID, grantorID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute sub-balance for account %d grantor %d: %w", accountID, grantorID, err)
	}
	if available < 0 {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"grantorID": grantorID,
			"raw":       available,
		}).Warn("Grantor sub-balance went negative, clamping to zero")
		return 0, nil
	}
	return available, nil
}

// AuthorizeSpend checks both balance constraints under the account row lock
// and hands back a single-use authorization for the spent append
func (s *ledgerService) AuthorizeSpend(ctx context.Context, accountID, amount int64, grantorID *int64) (*interfaces.SpendAuthorization, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("spend amount must be positive: %w", entities.ErrInvalidAmount)
	}

	// Lock first so the balance read cannot race a concurrent spend.
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", accountID, err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %d: %w", accountID, entities.ErrNotFound)
	}

	insufficient := &entities.InsufficientCreditError{
		AccountID:     accountID,
		Requested:     amount,
		GlobalBalance: account.Balance,
		GrantorID:     grantorID,
	}

	if grantorID != nil {
		available, err := s.AvailableFrom(ctx, accountID, *grantorID)
		if err != nil {
			return nil, err
		}
		insufficient.GrantorAvailable = available
		if available < amount {
			return nil, insufficient
		}
	}

	if account.Balance < amount {
		return nil, insufficient
	}

	return &interfaces.SpendAuthorization{
		Token:         uuid.New(),
		AccountID:     accountID,
		Amount:        amount,
		GrantorID:     grantorID,
		BalanceBefore: account.Balance,
	}, nil
}

// AppendSpend consumes an authorization and appends the spent entry it covers
func (s *ledgerService) AppendSpend(ctx context.Context, auth *interfaces.SpendAuthorization, relatedChannelID, relatedPostID *int64, description string) (*entities.LedgerEntry, error) {
	if auth == nil {
		return nil, fmt.Errorf("spend requires an authorization")
	}
	if !auth.Consume() {
		return nil, fmt.Errorf("authorization %s already consumed", auth.Token)
	}

	entry := &entities.LedgerEntry{
		AccountID:        auth.AccountID,
		Amount:           -auth.Amount,
		Kind:             entities.EntryKindSpent,
		RelatedChannelID: relatedChannelID,
		RelatedPostID:    relatedPostID,
		Description:      description,
	}
	if err := s.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// CheckIntegrity re-derives the balance from the log and reports drift.
// Integrity tooling only; the write path never recomputes.
func (s *ledgerService) CheckIntegrity(ctx context.Context, accountID int64) (*interfaces.IntegrityReport, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %d: %w", accountID, entities.ErrNotFound)
	}

	derived, err := s.accountRepo.SumLedgerAmounts(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive balance for account %d: %w", accountID, err)
	}

	report := &interfaces.IntegrityReport{
		AccountID:      accountID,
		CachedBalance:  account.Balance,
		DerivedBalance: derived,
	}
	if !report.Consistent() {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"cached":    report.CachedBalance,
			"derived":   report.DerivedBalance,
		}).Error("Cached balance drifted from ledger")
	}
	return report, nil
}
