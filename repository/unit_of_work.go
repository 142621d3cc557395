package repository

import (
	"context"
	"fmt"

	"adboard/application"
	"adboard/database"
	"adboard/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface. Every
// repository it hands out shares one pgx transaction, so a ledger append and
// its paired balance update commit together or not at all.
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher *application.TransactionalEventPublisher
	accountRepo            interfaces.AccountRepository
	ledgerEntryRepo        interfaces.LedgerEntryRepository
	creditRequestRepo      interfaces.CreditRequestRepository
	channelRepo            interfaces.ChannelRepository
	postRepo               interfaces.PostRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, publisher interfaces.EventPublisher) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:        db,
		publisher: publisher,
	}
}

type unitOfWorkFactory struct {
	db        *database.DB
	publisher interfaces.EventPublisher
}

func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: application.NewTransactionalEventPublisher(f.publisher),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.ledgerEntryRepo = newLedgerEntryRepositoryWithTx(tx)
	u.creditRequestRepo = newCreditRequestRepositoryWithTx(tx)
	u.channelRepo = newChannelRepositoryWithTx(tx)
	u.postRepo = newPostRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// LedgerEntryRepository returns the ledger entry repository for this unit of work
func (u *unitOfWork) LedgerEntryRepository() interfaces.LedgerEntryRepository {
	if u.ledgerEntryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerEntryRepo
}

// CreditRequestRepository returns the credit request repository for this unit of work
func (u *unitOfWork) CreditRequestRepository() interfaces.CreditRequestRepository {
	if u.creditRequestRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.creditRequestRepo
}

// ChannelRepository returns the channel repository for this unit of work
func (u *unitOfWork) ChannelRepository() interfaces.ChannelRepository {
	if u.channelRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.channelRepo
}

// PostRepository returns the post repository for this unit of work
func (u *unitOfWork) PostRepository() interfaces.PostRepository {
	if u.postRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.postRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalPublisher
}
