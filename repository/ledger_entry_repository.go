package repository

import (
	"context"
	"fmt"

	"adboard/database"
	"adboard/domain/entities"
	"adboard/domain/interfaces"
)

type ledgerEntryRepository struct {
	q Queryable
}

// NewLedgerEntryRepository creates a new ledger entry repository
func NewLedgerEntryRepository(db *database.DB) interfaces.LedgerEntryRepository {
	return &ledgerEntryRepository{q: db.Pool}
}

// newLedgerEntryRepositoryWithTx creates a new ledger entry repository bound to a transaction
func newLedgerEntryRepositoryWithTx(tx Queryable) interfaces.LedgerEntryRepository {
	return &ledgerEntryRepository{q: tx}
}

// Record appends a new ledger entry. The table has no UPDATE or DELETE path
// anywhere in this package; corrections are offsetting inserts.
func (r *ledgerEntryRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (account_id, amount, kind, granted_by_account_id, related_channel_id, related_post_id, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.Amount,
		entry.Kind,
		entry.GrantedByAccountID,
		entry.RelatedChannelID,
		entry.RelatedPostID,
		entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	return nil
}

func (r *ledgerEntryRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error) {
	query := `
		SELECT id, account_id, amount, kind, granted_by_account_id, related_channel_id, related_post_id, description, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*entities.LedgerEntry
	for rows.Next() {
		var entry entities.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Amount,
			&entry.Kind,
			&entry.GrantedByAccountID,
			&entry.RelatedChannelID,
			&entry.RelatedPostID,
			&entry.Description,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}

// AvailableFromGrantor folds the log into the grantor-scoped sub-balance:
// publisher grants received from the grantor minus spends against channels
// the grantor owns. One flat log with tagged dimensions, no per-pool
// counters to drift.
func (r *ledgerEntryRepository) AvailableFromGrantor(ctx context.Context, accountID, grantorID int64) (int64, error) {
	query := `
		SELECT COALESCE(
			(SELECT SUM(le.amount)
			 FROM ledger_entries le
			 WHERE le.account_id = $1
			   AND le.kind = 'publisher_grant'
			   AND le.granted_by_account_id = $2),
			0
		) - COALESCE(
			(SELECT SUM(-le.amount)
			 FROM ledger_entries le
			 JOIN channels c ON c.id = le.related_channel_id
			 WHERE le.account_id = $1
			   AND le.kind = 'spent'
			   AND c.owner_account_id = $2),
			0
		) AS available`

	var available int64
	if err := r.q.QueryRow(ctx, query, accountID, grantorID).Scan(&available); err != nil {
		return 0, fmt.Errorf("failed to compute sub-balance for account %d grantor %d: %w", accountID, grantorID, err)
	}
	return available, nil
}
