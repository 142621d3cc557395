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

type postRepository struct {
	q Queryable
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *database.DB) interfaces.PostRepository {
	return &postRepository{q: db.Pool}
}

// newPostRepositoryWithTx creates a new post repository bound to a transaction
func newPostRepositoryWithTx(tx Queryable) interfaces.PostRepository {
	return &postRepository{q: tx}
}

func (r *postRepository) CreatePost(ctx context.Context, post *entities.AdPost) error {
	query := `
		INSERT INTO ad_posts (owner_account_id, advertiser_account_id, channel_id, content, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		post.OwnerAccountID,
		post.AdvertiserAccountID,
		post.ChannelID,
		post.Content,
		post.Status,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *postRepository) GetPostByID(ctx context.Context, id int64) (*entities.AdPost, error) {
	query := `
		SELECT id, owner_account_id, advertiser_account_id, channel_id, content, status, created_at, updated_at
		FROM ad_posts
		WHERE id = $1`

	var post entities.AdPost
	err := r.q.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.OwnerAccountID,
		&post.AdvertiserAccountID,
		&post.ChannelID,
		&post.Content,
		&post.Status,
		&post.CreatedAt,
		&post.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}

	return &post, nil
}

func (r *postRepository) UpdatePostStatus(ctx context.Context, postID int64, status entities.AdPostStatus) error {
	query := `
		UPDATE ad_posts
		SET status = $1, updated_at = NOW()
		WHERE id = $2`

	result, err := r.q.Exec(ctx, query, status, postID)
	if err != nil {
		return fmt.Errorf("failed to update post %d status: %w", postID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %d not found", postID)
	}

	return nil
}

func (r *postRepository) ListPostsByAdvertiser(ctx context.Context, advertiserID int64, limit int) ([]*entities.AdPost, error) {
	query := `
		SELECT id, owner_account_id, advertiser_account_id, channel_id, content, status, created_at, updated_at
		FROM ad_posts
		WHERE advertiser_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, advertiserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*entities.AdPost
	for rows.Next() {
		var post entities.AdPost
		err := rows.Scan(
			&post.ID,
			&post.OwnerAccountID,
			&post.AdvertiserAccountID,
			&post.ChannelID,
			&post.Content,
			&post.Status,
			&post.CreatedAt,
			&post.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

func (r *postRepository) CreateFireTime(ctx context.Context, fireTime *entities.FireTime) error {
	query := `
		INSERT INTO fire_times (post_id, scheduled_at, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		fireTime.PostID,
		fireTime.ScheduledAt,
		fireTime.Status,
	).Scan(&fireTime.ID, &fireTime.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create fire time: %w", err)
	}

	return nil
}

func (r *postRepository) GetFireTimeByID(ctx context.Context, id int64) (*entities.FireTime, error) {
	query := `
		SELECT id, post_id, scheduled_at, status, failure_reason, sent_at, created_at
		FROM fire_times
		WHERE id = $1`

	var fireTime entities.FireTime
	err := r.q.QueryRow(ctx, query, id).Scan(
		&fireTime.ID,
		&fireTime.PostID,
		&fireTime.ScheduledAt,
		&fireTime.Status,
		&fireTime.FailureReason,
		&fireTime.SentAt,
		&fireTime.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fire time %d: %w", id, err)
	}

	return &fireTime, nil
}

func (r *postRepository) ListFireTimesByPost(ctx context.Context, postID int64) ([]*entities.FireTime, error) {
	query := `
		SELECT id, post_id, scheduled_at, status, failure_reason, sent_at, created_at
		FROM fire_times
		WHERE post_id = $1
		ORDER BY scheduled_at ASC`

	rows, err := r.q.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fire times: %w", err)
	}
	defer rows.Close()

	var fireTimes []*entities.FireTime
	for rows.Next() {
		var fireTime entities.FireTime
		err := rows.Scan(
			&fireTime.ID,
			&fireTime.PostID,
			&fireTime.ScheduledAt,
			&fireTime.Status,
			&fireTime.FailureReason,
			&fireTime.SentAt,
			&fireTime.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fire time: %w", err)
		}
		fireTimes = append(fireTimes, &fireTime)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fire times: %w", err)
	}

	return fireTimes, nil
}

// DeleteFireTime removes a still-scheduled occurrence. The status guard
// keeps fired occurrences in place permanently and loses races against a
// sweep that claimed the row first.
func (r *postRepository) DeleteFireTime(ctx context.Context, id int64) (bool, error) {
	query := `
		DELETE FROM fire_times
		WHERE id = $1 AND status = 'scheduled'`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete fire time %d: %w", id, err)
	}
	return result.RowsAffected() > 0, nil
}

// ClaimDueFireTimes moves every scheduled occurrence due within the window
// to sending and returns them with their delivery context. The UPDATE both
// selects and transitions in one statement, so two overlapping sweeps can
// never claim the same row.
func (r *postRepository) ClaimDueFireTimes(ctx context.Context, now time.Time, lookahead time.Duration) ([]*interfaces.DueFireTime, error) {
	query := `
		WITH claimed AS (
			UPDATE fire_times
			SET status = 'sending'
			WHERE status = 'scheduled'
			  AND scheduled_at <= $1
			RETURNING id, post_id, scheduled_at, status, failure_reason, sent_at, created_at
		)
		SELECT claimed.id, claimed.post_id, claimed.scheduled_at, claimed.status, claimed.failure_reason, claimed.sent_at, claimed.created_at,
		       p.channel_id, p.content, c.destination_id
		FROM claimed
		JOIN ad_posts p ON p.id = claimed.post_id
		JOIN channels c ON c.id = p.channel_id
		ORDER BY claimed.scheduled_at ASC`

	deadline := now.Add(lookahead)
	rows, err := r.q.Query(ctx, query, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to claim due fire times: %w", err)
	}
	defer rows.Close()

	var due []*interfaces.DueFireTime
	for rows.Next() {
		var item interfaces.DueFireTime
		err := rows.Scan(
			&item.FireTime.ID,
			&item.FireTime.PostID,
			&item.FireTime.ScheduledAt,
			&item.FireTime.Status,
			&item.FireTime.FailureReason,
			&item.FireTime.SentAt,
			&item.FireTime.CreatedAt,
			&item.ChannelID,
			&item.Content,
			&item.DestinationID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due fire time: %w", err)
		}
		item.PostID = item.FireTime.PostID
		due = append(due, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due fire times: %w", err)
	}

	return due, nil
}

// FailInterruptedDeliveries fails every occurrence still parked in sending.
// A row can only be in that state while a sweep holds it; at startup any
// such row is an orphan from a crash between claim and finalize.
func (r *postRepository) FailInterruptedDeliveries(ctx context.Context) ([]int64, error) {
	query := `
		UPDATE fire_times
		SET status = 'failed', failure_reason = 'delivery interrupted'
		WHERE status = 'sending'
		RETURNING post_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fail interrupted deliveries: %w", err)
	}
	defer rows.Close()

	seen := make(map[int64]bool)
	var postIDs []int64
	for rows.Next() {
		var postID int64
		if err := rows.Scan(&postID); err != nil {
			return nil, fmt.Errorf("failed to scan interrupted delivery: %w", err)
		}
		if !seen[postID] {
			seen[postID] = true
			postIDs = append(postIDs, postID)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interrupted deliveries: %w", err)
	}

	return postIDs, nil
}

// FinalizeFireTime transitions a claimed occurrence to its terminal state.
// Guarded on sending so a stray second finalization is reported, not applied.
func (r *postRepository) FinalizeFireTime(ctx context.Context, id int64, status entities.FireTimeStatus, failureReason *string, sentAt *time.Time) (bool, error) {
	query := `
		UPDATE fire_times
		SET status = $1, failure_reason = $2, sent_at = $3
		WHERE id = $4 AND status = 'sending'`

	result, err := r.q.Exec(ctx, query, status, failureReason, sentAt, id)
	if err != nil {
		return false, fmt.Errorf("failed to finalize fire time %d: %w", id, err)
	}
	return result.RowsAffected() > 0, nil
}
