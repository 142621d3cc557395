package entities

import "time"

// EntryKind represents the kind of credit movement recorded by a ledger entry
type EntryKind string

const (
	// Credits flowing in
	EntryKindPurchase       EntryKind = "purchase"
	EntryKindEarned         EntryKind = "earned"
	EntryKindAdminGrant     EntryKind = "admin_grant"
	EntryKindPublisherGrant EntryKind = "publisher_grant"

	// Credits flowing out
	EntryKindSpent EntryKind = "spent"
)

// IsGrant returns true if the kind requires a grantor reference
func (k EntryKind) IsGrant() bool {
	return k == EntryKindAdminGrant || k == EntryKindPublisherGrant
}

// String returns the string representation of the entry kind
func (k EntryKind) String() string {
	return string(k)
}

// LedgerEntry is one immutable signed credit movement. Positive amounts are
// credits in, negative amounts are debits out. Entries are never updated or
// deleted after append; corrections are new offsetting entries whose
// description cross-references the original.
type LedgerEntry struct {
	ID                 int64     `db:"id"`
	AccountID          int64     `db:"account_id"`
	Amount             int64     `db:"amount"`
	Kind               EntryKind `db:"kind"`
	GrantedByAccountID *int64    `db:"granted_by_account_id"`
	RelatedChannelID   *int64    `db:"related_channel_id"`
	RelatedPostID      *int64    `db:"related_post_id"`
	Description        string    `db:"description"`
	CreatedAt          time.Time `db:"created_at"`
}

// IsCredit returns true if the entry adds credits to the account
func (e *LedgerEntry) IsCredit() bool {
	return e.Amount > 0
}

// IsDebit returns true if the entry removes credits from the account
func (e *LedgerEntry) IsDebit() bool {
	return e.Amount < 0
}

// Validate checks the entry against the append preconditions
func (e *LedgerEntry) Validate() error {
	if e.Amount == 0 {
		return ErrInvalidAmount
	}
	if e.Kind.IsGrant() && e.GrantedByAccountID == nil {
		return ErrMissingGrantor
	}
	return nil
}
