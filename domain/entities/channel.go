package entities

import "time"

// Channel is a messaging destination owned by a publisher. The counters are
// statistics maintained by the scheduling operation and the dispatch engine,
// not accounting truth; the ledger is authoritative for money.
type Channel struct {
	ID             int64     `db:"id"`
	OwnerAccountID int64     `db:"owner_account_id"`
	// DestinationID is the external messaging-platform channel the dispatcher
	// delivers to.
	DestinationID  int64     `db:"destination_id"`
	Name           string    `db:"name"`
	PricePerPost   int64     `db:"price_per_post"`
	IsVerified     bool      `db:"is_verified"`
	IsActive       bool      `db:"is_active"`
	PostsScheduled int64     `db:"posts_scheduled"`
	PostsSent      int64     `db:"posts_sent"`
	Revenue        int64     `db:"revenue"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// AcceptsPosts returns true if advertisers may schedule into this channel
func (c *Channel) AcceptsPosts() bool {
	return c.IsVerified && c.IsActive
}
