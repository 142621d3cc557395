package repository

import (
	"context"
	"fmt"
	"time"

	"adboard/database"
	"adboard/domain/entities"
	"adboard/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type creditRequestRepository struct {
	q Queryable
}

// NewCreditRequestRepository creates a new credit request repository
func NewCreditRequestRepository(db *database.DB) interfaces.CreditRequestRepository {
	return &creditRequestRepository{q: db.Pool}
}

// newCreditRequestRepositoryWithTx creates a new credit request repository bound to a transaction
func newCreditRequestRepositoryWithTx(tx Queryable) interfaces.CreditRequestRepository {
	return &creditRequestRepository{q: tx}
}

const creditRequestColumns = `id, requester_account_id, grantor_account_id, channel_id, amount, reason, status, processed_by_account_id, processed_at, notes, created_at`

func (r *creditRequestRepository) Create(ctx context.Context, request *entities.CreditRequest) error {
	query := `
		INSERT INTO credit_requests (requester_account_id, grantor_account_id, channel_id, amount, reason, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, '')
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		request.RequesterAccountID,
		request.GrantorAccountID,
		request.ChannelID,
		request.Amount,
		request.Reason,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create credit request: %w", err)
	}

	return nil
}

func (r *creditRequestRepository) GetByID(ctx context.Context, id int64) (*entities.CreditRequest, error) {
	query := `
		SELECT ` + creditRequestColumns + `
		FROM credit_requests
		WHERE id = $1`

	request, err := r.scanOne(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credit request %d: %w", id, err)
	}
	return request, nil
}

// MarkProcessed transitions a request out of pending. The status guard makes
// the transition a compare-and-swap: a request that already left pending is
// reported back as not swapped and the row stays untouched.
func (r *creditRequestRepository) MarkProcessed(ctx context.Context, id int64, status entities.CreditRequestStatus, processedBy int64, notes string, processedAt time.Time) (bool, error) {
	query := `
		UPDATE credit_requests
		SET status = $1, processed_by_account_id = $2, notes = $3, processed_at = $4
		WHERE id = $5 AND status = 'pending'`

	result, err := r.q.Exec(ctx, query, status, processedBy, notes, processedAt, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark credit request %d processed: %w", id, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *creditRequestRepository) ListPendingForGrantor(ctx context.Context, grantorID int64) ([]*entities.CreditRequest, error) {
	query := `
		SELECT ` + creditRequestColumns + `
		FROM credit_requests
		WHERE grantor_account_id = $1 AND status = 'pending'
		ORDER BY created_at ASC`

	return r.list(ctx, query, grantorID)
}

func (r *creditRequestRepository) ListPendingAdminPool(ctx context.Context) ([]*entities.CreditRequest, error) {
	query := `
		SELECT ` + creditRequestColumns + `
		FROM credit_requests
		WHERE grantor_account_id IS NULL AND status = 'pending'
		ORDER BY created_at ASC`

	return r.list(ctx, query)
}

func (r *creditRequestRepository) ListByRequester(ctx context.Context, requesterID int64, limit int) ([]*entities.CreditRequest, error) {
	query := `
		SELECT ` + creditRequestColumns + `
		FROM credit_requests
		WHERE requester_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	return r.list(ctx, query, requesterID, limit)
}

func (r *creditRequestRepository) list(ctx context.Context, query string, args ...any) ([]*entities.CreditRequest, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credit requests: %w", err)
	}
	defer rows.Close()

	var requests []*entities.CreditRequest
	for rows.Next() {
		request, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit request: %w", err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credit requests: %w", err)
	}

	return requests, nil
}

func (r *creditRequestRepository) scanOne(row pgx.Row) (*entities.CreditRequest, error) {
	var request entities.CreditRequest
	err := row.Scan(
		&request.ID,
		&request.RequesterAccountID,
		&request.GrantorAccountID,
		&request.ChannelID,
		&request.Amount,
		&request.Reason,
		&request.Status,
		&request.ProcessedByAccountID,
		&request.ProcessedAt,
		&request.Notes,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}
