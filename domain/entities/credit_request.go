package entities

import "time"

// CreditRequestStatus represents the lifecycle state of a credit request
type CreditRequestStatus string

const (
	CreditRequestStatusPending  CreditRequestStatus = "pending"
	CreditRequestStatusApproved CreditRequestStatus = "approved"
	CreditRequestStatusRejected CreditRequestStatus = "rejected"
)

// CreditRequest is an advertiser's ask for credits from a specific grantor
// or, when GrantorAccountID is nil, from the admin pool. Requests never
// expire on a timer; approval and rejection are explicit actor decisions and
// both states are terminal.
type CreditRequest struct {
	ID                   int64               `db:"id"`
	RequesterAccountID   int64               `db:"requester_account_id"`
	GrantorAccountID     *int64              `db:"grantor_account_id"`
	ChannelID            *int64              `db:"channel_id"`
	Amount               int64               `db:"amount"`
	Reason               string              `db:"reason"`
	Status               CreditRequestStatus `db:"status"`
	ProcessedByAccountID *int64              `db:"processed_by_account_id"`
	ProcessedAt          *time.Time          `db:"processed_at"`
	Notes                string              `db:"notes"`
	CreatedAt            time.Time           `db:"created_at"`
}

// IsPending returns true if the request can still be processed
func (r *CreditRequest) IsPending() bool {
	return r.Status == CreditRequestStatusPending
}

// IsAdminPool returns true if the request targets the admin pool rather than
// a named grantor
func (r *CreditRequest) IsAdminPool() bool {
	return r.GrantorAccountID == nil
}

// CanBeProcessedBy returns true if the actor may approve or reject this
// request: the named grantor, or any admin for admin-pool requests.
func (r *CreditRequest) CanBeProcessedBy(actor *Account) bool {
	if r.GrantorAccountID != nil {
		return *r.GrantorAccountID == actor.ID
	}
	return actor.IsAdmin()
}

// GrantKind returns the ledger entry kind an approval of this request produces
func (r *CreditRequest) GrantKind() EntryKind {
	if r.IsAdminPool() {
		return EntryKindAdminGrant
	}
	return EntryKindPublisherGrant
}
