package interfaces

import (
	"context"
	"time"

	"adboard/domain/entities"
	"adboard/domain/events"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, accountID int64) (*entities.Account, error)

	// GetByIDForUpdate retrieves an account and locks its row for the
	// remainder of the transaction. All balance mutations go through this
	// lock so concurrent spends against one account serialize.
	GetByIDForUpdate(ctx context.Context, accountID int64) (*entities.Account, error)

	// Create creates a new account with a zero balance
	Create(ctx context.Context, username string, role entities.AccountRole) (*entities.Account, error)

	// GetOrCreate returns the account for a username, creating it with a
	// zero balance on first sight. The role only applies on creation.
	GetOrCreate(ctx context.Context, username string, role entities.AccountRole) (*entities.Account, error)

	// UpdateBalance sets the cached balance. Only called together with a
	// ledger entry append inside the same transaction.
	UpdateBalance(ctx context.Context, accountID int64, newBalance int64) error

	// SumLedgerAmounts re-derives the balance from the ledger log. Used by
	// integrity checks and tests, never on the write hot path.
	SumLedgerAmounts(ctx context.Context, accountID int64) (int64, error)
}

// LedgerEntryRepository defines the interface for the append-only credit log
type LedgerEntryRepository interface {
	// Record appends a new ledger entry. There is no update or delete.
	Record(ctx context.Context, entry *entities.LedgerEntry) error

	// GetByAccount returns recent entries for an account, newest first
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error)

	// AvailableFromGrantor folds the log into the virtual sub-balance for
	// one account/grantor pair: publisher grants received from the grantor
	// minus spends against channels the grantor owns. The raw value can go
	// negative; clamping is the caller's concern.
	AvailableFromGrantor(ctx context.Context, accountID, grantorID int64) (int64, error)
}

// CreditRequestRepository defines the interface for credit request data access
type CreditRequestRepository interface {
	// Create creates a new pending request
	Create(ctx context.Context, request *entities.CreditRequest) error

	// GetByID retrieves a request by its ID
	GetByID(ctx context.Context, id int64) (*entities.CreditRequest, error)

	// MarkProcessed transitions a request out of pending with a
	// compare-and-swap on the status column. Returns false when the request
	// was already processed, without touching the row.
	MarkProcessed(ctx context.Context, id int64, status entities.CreditRequestStatus, processedBy int64, notes string, processedAt time.Time) (bool, error)

	// ListPendingForGrantor returns pending requests addressed to a grantor
	ListPendingForGrantor(ctx context.Context, grantorID int64) ([]*entities.CreditRequest, error)

	// ListPendingAdminPool returns pending requests against the admin pool
	ListPendingAdminPool(ctx context.Context) ([]*entities.CreditRequest, error)

	// ListByRequester returns requests created by an account, newest first
	ListByRequester(ctx context.Context, requesterID int64, limit int) ([]*entities.CreditRequest, error)
}

// ChannelRepository defines the interface for channel data access
type ChannelRepository interface {
	// Create creates a new channel
	Create(ctx context.Context, channel *entities.Channel) error

	// GetByID retrieves a channel by its ID
	GetByID(ctx context.Context, id int64) (*entities.Channel, error)

	// Update persists mutable channel fields (verification, activity, price)
	Update(ctx context.Context, channel *entities.Channel) error

	// IncrementCounters bumps the statistics counters
	IncrementCounters(ctx context.Context, channelID int64, scheduledDelta, sentDelta, revenueDelta int64) error

	// ListByOwner returns all channels owned by an account
	ListByOwner(ctx context.Context, ownerID int64) ([]*entities.Channel, error)
}

// DueFireTime is a claimed fire time joined with the delivery context the
// dispatcher needs, so the send can run without reopening a transaction.
type DueFireTime struct {
	FireTime      entities.FireTime
	PostID        int64
	ChannelID     int64
	DestinationID int64
	Content       string
}

// PostRepository defines the interface for ad post and fire time data access
type PostRepository interface {
	// CreatePost creates a new draft post
	CreatePost(ctx context.Context, post *entities.AdPost) error

	// GetPostByID retrieves a post by its ID
	GetPostByID(ctx context.Context, id int64) (*entities.AdPost, error)

	// UpdatePostStatus sets the rolled-up post status
	UpdatePostStatus(ctx context.Context, postID int64, status entities.AdPostStatus) error

	// ListPostsByAdvertiser returns posts created by an advertiser
	ListPostsByAdvertiser(ctx context.Context, advertiserID int64, limit int) ([]*entities.AdPost, error)

	// CreateFireTime creates a new scheduled occurrence for a post
	CreateFireTime(ctx context.Context, fireTime *entities.FireTime) error

	// GetFireTimeByID retrieves a fire time by its ID
	GetFireTimeByID(ctx context.Context, id int64) (*entities.FireTime, error)

	// ListFireTimesByPost returns all occurrences of a post
	ListFireTimesByPost(ctx context.Context, postID int64) ([]*entities.FireTime, error)

	// DeleteFireTime removes a still-scheduled occurrence. Returns false if
	// the row was not in scheduled state (already claimed or fired).
	DeleteFireTime(ctx context.Context, id int64) (bool, error)

	// ClaimDueFireTimes atomically moves every scheduled occurrence due
	// within [now, now+lookahead] to the sending state and returns them with
	// their delivery context. Rows already claimed by an overlapping sweep
	// are not returned.
	ClaimDueFireTimes(ctx context.Context, now time.Time, lookahead time.Duration) ([]*DueFireTime, error)

	// FinalizeFireTime transitions a claimed occurrence to its terminal
	// state. Returns false if the row was not in sending state.
	FinalizeFireTime(ctx context.Context, id int64, status entities.FireTimeStatus, failureReason *string, sentAt *time.Time) (bool, error)

	// FailInterruptedDeliveries fails every occurrence still parked in the
	// sending state. Only safe while no sweep is in flight; used at startup
	// to recover rows orphaned by a crash between claim and finalize.
	// Returns the distinct posts that were touched.
	FailInterruptedDeliveries(ctx context.Context) ([]int64, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}
