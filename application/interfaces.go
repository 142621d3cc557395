package application

import (
	"context"

	"adboard/domain/interfaces"
)

// UnitOfWork provides transactional boundaries for multi-repository
// operations. Everything obtained from one unit of work shares a single
// database transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() interfaces.AccountRepository
	LedgerEntryRepository() interfaces.LedgerEntryRepository
	CreditRequestRepository() interfaces.CreditRequestRepository
	ChannelRepository() interfaces.ChannelRepository
	PostRepository() interfaces.PostRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// MessageSender delivers ad content to a destination on the messaging
// platform. Implementations live in infrastructure.
type MessageSender interface {
	SendMessage(ctx context.Context, destinationID int64, content string) error
}
