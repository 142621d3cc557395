package repository

import (
	"context"
	"fmt"

	"adboard/database"
	"adboard/domain/entities"
	"adboard/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type accountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) interfaces.AccountRepository {
	return &accountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository bound to a transaction
func newAccountRepositoryWithTx(tx Queryable) interfaces.AccountRepository {
	return &accountRepository{q: tx}
}

func (r *accountRepository) GetByID(ctx context.Context, accountID int64) (*entities.Account, error) {
	return r.get(ctx, accountID, false)
}

// GetByIDForUpdate locks the account row for the remainder of the
// transaction. Spend authorization and the paired append both run behind
// this lock, so concurrent spends against one account serialize.
func (r *accountRepository) GetByIDForUpdate(ctx context.Context, accountID int64) (*entities.Account, error) {
	return r.get(ctx, accountID, true)
}

func (r *accountRepository) get(ctx context.Context, accountID int64, forUpdate bool) (*entities.Account, error) {
	query := `
		SELECT id, username, role, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1`
	if forUpdate {
		query += `
		FOR UPDATE`
	}

	var account entities.Account
	err := r.q.QueryRow(ctx, query, accountID).Scan(
		&account.ID,
		&account.Username,
		&account.Role,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}

	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, username string, role entities.AccountRole) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (username, role, balance)
		VALUES ($1, $2, 0)
		RETURNING id, created_at, updated_at`

	account := &entities.Account{
		Username: username,
		Role:     role,
		Balance:  0,
	}
	err := r.q.QueryRow(ctx, query, username, role).Scan(
		&account.ID,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account %q: %w", username, err)
	}

	return account, nil
}

// GetOrCreate returns the account for a username, creating it on first
// sight. The upsert keys on the username unique constraint; a concurrent
// first call races safely because DO NOTHING never errors.
func (r *accountRepository) GetOrCreate(ctx context.Context, username string, role entities.AccountRole) (*entities.Account, error) {
	insert := `
		INSERT INTO accounts (username, role, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (username) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, username, role); err != nil {
		return nil, fmt.Errorf("failed to upsert account %q: %w", username, err)
	}

	query := `
		SELECT id, username, role, balance, created_at, updated_at
		FROM accounts
		WHERE username = $1`

	var account entities.Account
	err := r.q.QueryRow(ctx, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.Role,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %q: %w", username, err)
	}

	return &account, nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, accountID int64, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE id = $2`

	result, err := r.q.Exec(ctx, query, newBalance, accountID)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", accountID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %d not found", accountID)
	}

	return nil
}

// SumLedgerAmounts re-derives the balance from the log. Integrity checks and
// tests only.
func (r *accountRepository) SumLedgerAmounts(ctx context.Context, accountID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE account_id = $1`

	var sum int64
	if err := r.q.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries for account %d: %w", accountID, err)
	}
	return sum, nil
}
