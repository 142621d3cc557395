package interfaces

import (
	"context"
	"time"

	"adboard/domain/entities"

	"github.com/google/uuid"
)

// SpendAuthorization is a single-use token proving both balance constraints
// were checked with the account row locked. It is only valid inside the unit
// of work that produced it and is consumed by the SPENT append.
type SpendAuthorization struct {
	Token     uuid.UUID
	AccountID int64
	Amount    int64
	GrantorID *int64

	// balance observed under the row lock at authorization time
	BalanceBefore int64

	consumed bool
}

// Consume marks the authorization used. Returns false on the second call.
func (a *SpendAuthorization) Consume() bool {
	if a.consumed {
		return false
	}
	a.consumed = true
	return true
}

// IntegrityReport compares the cached balance against the ledger-derived one
type IntegrityReport struct {
	AccountID      int64
	CachedBalance  int64
	DerivedBalance int64
}

// Consistent returns true when the cache matches the log
func (r IntegrityReport) Consistent() bool {
	return r.CachedBalance == r.DerivedBalance
}

// LedgerService owns the append-only credit log and the cached balances
// derived from it
type LedgerService interface {
	// Append records a ledger entry and applies the paired balance change.
	// The entry and the cache move together or not at all.
	Append(ctx context.Context, entry *entities.LedgerEntry) error

	// RecordPurchase appends a purchase entry once the payment gateway
	// confirms a checkout. Reference identifies the external payment.
	RecordPurchase(ctx context.Context, accountID, amount int64, reference string) (*entities.LedgerEntry, error)

	// Grant appends a grant entry from grantor to grantee outside the
	// request workflow
	Grant(ctx context.Context, grantorID, granteeID, amount int64, kind entities.EntryKind, description string) (*entities.LedgerEntry, error)

	// GlobalBalance returns the cached balance for an account
	GlobalBalance(ctx context.Context, accountID int64) (int64, error)

	// AvailableFrom recomputes the grantor-scoped sub-balance, clamped to
	// zero
	AvailableFrom(ctx context.Context, accountID, grantorID int64) (int64, error)

	// AuthorizeSpend checks the global balance, and the grantor sub-balance
	// when a grantor context is given, under the account row lock. Returns
	// *entities.InsufficientCreditError when either constraint fails.
	AuthorizeSpend(ctx context.Context, accountID, amount int64, grantorID *int64) (*SpendAuthorization, error)

	// AppendSpend consumes an authorization and appends the negative spent
	// entry it covers
	AppendSpend(ctx context.Context, auth *SpendAuthorization, relatedChannelID, relatedPostID *int64, description string) (*entities.LedgerEntry, error)

	// CheckIntegrity re-derives the balance from the log and reports drift
	CheckIntegrity(ctx context.Context, accountID int64) (*IntegrityReport, error)
}

// RequestService owns the credit request workflow
type RequestService interface {
	// CreateRequest creates a pending request for credits
	CreateRequest(ctx context.Context, requesterID int64, grantorID, channelID *int64, amount int64, reason string) (*entities.CreditRequest, error)

	// Approve transitions a pending request to approved and appends the
	// grant entry, atomically. amountOverride replaces the requested amount
	// when non-nil.
	Approve(ctx context.Context, requestID, approverID int64, amountOverride *int64) (*entities.CreditRequest, error)

	// Reject transitions a pending request to rejected with no ledger effect
	Reject(ctx context.Context, requestID, approverID int64, reason string) (*entities.CreditRequest, error)
}

// SchedulingService owns draft posts and their fire times
type SchedulingService interface {
	// CreateDraft creates a draft post for an advertiser on a channel
	CreateDraft(ctx context.Context, advertiserID, channelID int64, content string) (*entities.AdPost, error)

	// Schedule commits one or more future fire times for a post, charging
	// the advertiser the channel price per occurrence at scheduling time
	Schedule(ctx context.Context, postID, actorID int64, times []time.Time) ([]*entities.FireTime, error)

	// CancelFireTime removes a still-future occurrence. Only the post owner
	// or its advertiser may cancel.
	CancelFireTime(ctx context.Context, fireTimeID, actorID int64, now time.Time) error
}

// DeliveryOutcome is the result of one external send attempt
type DeliveryOutcome struct {
	Delivered     bool
	FailureReason string
}

// DispatchService finalizes claimed fire times after the send attempt
type DispatchService interface {
	// FinalizeDelivery moves a claimed occurrence to its terminal state,
	// maintains channel counters and rolls up the post status
	FinalizeDelivery(ctx context.Context, due *DueFireTime, outcome DeliveryOutcome, now time.Time) error
}

// ChannelService owns channel registration and verification
type ChannelService interface {
	// Register creates a channel for a publisher
	Register(ctx context.Context, ownerID, destinationID int64, name string, pricePerPost int64) (*entities.Channel, error)

	// Verify checks the owner's admin rights on the destination through the
	// messaging platform and marks the channel verified. platformUserID is
	// the owner's messaging-platform identity.
	Verify(ctx context.Context, channelID, actorID, platformUserID int64) error

	// SetActive toggles whether the channel accepts new posts
	SetActive(ctx context.Context, channelID, actorID int64, active bool) error

	// UpdatePrice changes the per-post price
	UpdatePrice(ctx context.Context, channelID, actorID int64, pricePerPost int64) error
}

// ChannelAdminChecker is the messaging-platform capability used by channel
// verification
type ChannelAdminChecker interface {
	IsChannelAdmin(ctx context.Context, destinationID, platformUserID int64) (bool, error)
}
