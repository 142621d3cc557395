package entities

import "time"

// AccountRole represents the role tag attached to an account
type AccountRole string

const (
	AccountRoleAdmin      AccountRole = "admin"
	AccountRolePublisher  AccountRole = "publisher"
	AccountRoleAdvertiser AccountRole = "advertiser"
)

// Account represents a platform user with a cached credit balance.
// Balance is a denormalized sum of the account's ledger entries; the two are
// always mutated together inside one transaction.
type Account struct {
	ID        int64       `db:"id"`
	Username  string      `db:"username"`
	Role      AccountRole `db:"role"`
	Balance   int64       `db:"balance"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// IsAdmin returns true if the account carries the admin role
func (a *Account) IsAdmin() bool {
	return a.Role == AccountRoleAdmin
}

// IsPublisher returns true if the account owns channels
func (a *Account) IsPublisher() bool {
	return a.Role == AccountRolePublisher
}
