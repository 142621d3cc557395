package repository

import (
	"context"
	"fmt"

	"adboard/database"
	"adboard/domain/entities"
	"adboard/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type channelRepository struct {
	q Queryable
}

// NewChannelRepository creates a new channel repository
func NewChannelRepository(db *database.DB) interfaces.ChannelRepository {
	return &channelRepository{q: db.Pool}
}

// newChannelRepositoryWithTx creates a new channel repository bound to a transaction
func newChannelRepositoryWithTx(tx Queryable) interfaces.ChannelRepository {
	return &channelRepository{q: tx}
}

const channelColumns = `id, owner_account_id, destination_id, name, price_per_post, is_verified, is_active, posts_scheduled, posts_sent, revenue, created_at, updated_at`

func (r *channelRepository) Create(ctx context.Context, channel *entities.Channel) error {
	query := `
		INSERT INTO channels (owner_account_id, destination_id, name, price_per_post, is_verified, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		channel.OwnerAccountID,
		channel.DestinationID,
		channel.Name,
		channel.PricePerPost,
		channel.IsVerified,
		channel.IsActive,
	).Scan(&channel.ID, &channel.CreatedAt, &channel.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}

	return nil
}

func (r *channelRepository) GetByID(ctx context.Context, id int64) (*entities.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		WHERE id = $1`

	channel, err := r.scanOne(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel %d: %w", id, err)
	}
	return channel, nil
}

func (r *channelRepository) Update(ctx context.Context, channel *entities.Channel) error {
	query := `
		UPDATE channels
		SET name = $1, price_per_post = $2, is_verified = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5`

	result, err := r.q.Exec(ctx, query,
		channel.Name,
		channel.PricePerPost,
		channel.IsVerified,
		channel.IsActive,
		channel.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update channel %d: %w", channel.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("channel %d not found", channel.ID)
	}

	return nil
}

// IncrementCounters bumps the statistics counters. Statistics only; the
// ledger is authoritative for money.
func (r *channelRepository) IncrementCounters(ctx context.Context, channelID int64, scheduledDelta, sentDelta, revenueDelta int64) error {
	query := `
		UPDATE channels
		SET posts_scheduled = posts_scheduled + $1,
		    posts_sent = posts_sent + $2,
		    revenue = revenue + $3,
		    updated_at = NOW()
		WHERE id = $4`

	result, err := r.q.Exec(ctx, query, scheduledDelta, sentDelta, revenueDelta, channelID)
	if err != nil {
		return fmt.Errorf("failed to increment counters for channel %d: %w", channelID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("channel %d not found", channelID)
	}

	return nil
}

func (r *channelRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entities.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		WHERE owner_account_id = $1
		ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	defer rows.Close()

	var channels []*entities.Channel
	for rows.Next() {
		channel, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, channel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate channels: %w", err)
	}

	return channels, nil
}

func (r *channelRepository) scanOne(row pgx.Row) (*entities.Channel, error) {
	var channel entities.Channel
	err := row.Scan(
		&channel.ID,
		&channel.OwnerAccountID,
		&channel.DestinationID,
		&channel.Name,
		&channel.PricePerPost,
		&channel.IsVerified,
		&channel.IsActive,
		&channel.PostsScheduled,
		&channel.PostsSent,
		&channel.Revenue,
		&channel.CreatedAt,
		&channel.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &channel, nil
}
