package services

import (
	"context"
	"fmt"
	"time"

	"adboard/domain/entities"
	"adboard/domain/events"
	"adboard/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// schedulingService implements draft posts and fire time scheduling. The
// advertiser is charged at scheduling time, on commitment, not on delivery;
// a later delivery failure never refunds implicitly.
type schedulingService struct {
	postRepo       interfaces.PostRepository
	channelRepo    interfaces.ChannelRepository
	accountRepo    interfaces.AccountRepository
	ledgerService  interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewSchedulingService creates a new scheduling service
func NewSchedulingService(
	postRepo interfaces.PostRepository,
	channelRepo interfaces.ChannelRepository,
	accountRepo interfaces.AccountRepository,
	ledgerService interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
) interfaces.SchedulingService {
	return &schedulingService{
		postRepo:       postRepo,
		channelRepo:    channelRepo,
		accountRepo:    accountRepo,
		ledgerService:  ledgerService,
		eventPublisher: eventPublisher,
	}
}

// CreateDraft creates a draft post for an advertiser on a channel
func (s *schedulingService) CreateDraft(ctx context.Context, advertiserID, channelID int64, content string) (*entities.AdPost, error) {
	if content == "" {
		return nil, fmt.Errorf("post content cannot be empty")
	}

	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return nil, fmt.Errorf("channel %d: %w", channelID, entities.ErrNotFound)
	}

	post := &entities.AdPost{
		OwnerAccountID:      channel.OwnerAccountID,
		AdvertiserAccountID: advertiserID,
		ChannelID:           channelID,
		Content:             content,
		Status:              entities.AdPostStatusDraft,
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// Schedule commits future fire times for a post, charging the channel price
// per occurrence
func (s *schedulingService) Schedule(ctx context.Context, postID, actorID int64, times []time.Time) ([]*entities.FireTime, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("at least one fire time is required")
	}

	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("post %d: %w", postID, entities.ErrNotFound)
	}
	if post.AdvertiserAccountID != actorID {
		return nil, fmt.Errorf("account %d may not schedule post %d: %w", actorID, postID, entities.ErrForbidden)
	}

	channel, err := s.channelRepo.GetByID(ctx, post.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return nil, fmt.Errorf("channel %d: %w", post.ChannelID, entities.ErrNotFound)
	}
	if !channel.AcceptsPosts() {
		return nil, fmt.Errorf("channel %d does not accept posts: %w", channel.ID, entities.ErrForbidden)
	}

	now := time.Now()
	for _, at := range times {
		if !at.After(now) {
			return nil, fmt.Errorf("fire time %s is not in the future", at.UTC().Format(time.RFC3339))
		}
	}

	// Charge on commitment. The spend is authorized against the global
	// balance only; credits are fungible at spend time, and the grantor
	// sub-balance is attributed later through the channel-owner join.
	total := channel.PricePerPost * int64(len(times))
	auth, err := s.ledgerService.AuthorizeSpend(ctx, post.AdvertiserAccountID, total, nil)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("scheduled %d occurrence(s) of post %d on channel %d", len(times), post.ID, channel.ID)
	if _, err := s.ledgerService.AppendSpend(ctx, auth, &channel.ID, &post.ID, description); err != nil {
		return nil, fmt.Errorf("failed to append spent entry: %w", err)
	}

	// The owner earns the same amount the advertiser committed.
	earned := &entities.LedgerEntry{
		AccountID:        channel.OwnerAccountID,
		Amount:           total,
		Kind:             entities.EntryKindEarned,
		RelatedChannelID: &channel.ID,
		RelatedPostID:    &post.ID,
		Description:      fmt.Sprintf("earnings from post %d on channel %d", post.ID, channel.ID),
	}
	if err := s.ledgerService.Append(ctx, earned); err != nil {
		return nil, fmt.Errorf("failed to append earned entry: %w", err)
	}

	fireTimes := make([]*entities.FireTime, 0, len(times))
	fireTimeIDs := make([]int64, 0, len(times))
	for _, at := range times {
		ft := &entities.FireTime{
			PostID:      post.ID,
			ScheduledAt: at.UTC(),
			Status:      entities.FireTimeStatusScheduled,
		}
		if err := s.postRepo.CreateFireTime(ctx, ft); err != nil {
			return nil, fmt.Errorf("failed to create fire time: %w", err)
		}
		fireTimes = append(fireTimes, ft)
		fireTimeIDs = append(fireTimeIDs, ft.ID)
	}

	if err := s.postRepo.UpdatePostStatus(ctx, post.ID, entities.AdPostStatusScheduled); err != nil {
		return nil, fmt.Errorf("failed to update post status: %w", err)
	}

	if err := s.channelRepo.IncrementCounters(ctx, channel.ID, int64(len(times)), 0, total); err != nil {
		return nil, fmt.Errorf("failed to update channel counters: %w", err)
	}

	if err := s.eventPublisher.Publish(events.PostScheduledEvent{
		PostID:       post.ID,
		ChannelID:    channel.ID,
		AdvertiserID: post.AdvertiserAccountID,
		FireTimeIDs:  fireTimeIDs,
		TotalCharged: total,
	}); err != nil {
		log.WithError(err).Error("Failed to publish post scheduled event")
	}

	return fireTimes, nil
}

// CancelFireTime removes a still-future occurrence
func (s *schedulingService) CancelFireTime(ctx context.Context, fireTimeID, actorID int64, now time.Time) error {
	fireTime, err := s.postRepo.GetFireTimeByID(ctx, fireTimeID)
	if err != nil {
		return fmt.Errorf("failed to get fire time: %w", err)
	}
	if fireTime == nil {
		return fmt.Errorf("fire time %d: %w", fireTimeID, entities.ErrNotFound)
	}

	post, err := s.postRepo.GetPostByID(ctx, fireTime.PostID)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return fmt.Errorf("post %d: %w", fireTime.PostID, entities.ErrNotFound)
	}

	if actorID != post.OwnerAccountID && actorID != post.AdvertiserAccountID {
		return fmt.Errorf("account %d may not cancel fire time %d: %w", actorID, fireTimeID, entities.ErrForbidden)
	}
	if !fireTime.IsCancellable(now) {
		return fmt.Errorf("fire time %d: %w", fireTimeID, entities.ErrAlreadyDue)
	}

	// The delete is guarded on scheduled state; losing the race against a
	// sweep that just claimed the row surfaces as AlreadyDue.
	deleted, err := s.postRepo.DeleteFireTime(ctx, fireTimeID)
	if err != nil {
		return fmt.Errorf("failed to delete fire time: %w", err)
	}
	if !deleted {
		return fmt.Errorf("fire time %d: %w", fireTimeID, entities.ErrAlreadyDue)
	}

	remaining, err := s.postRepo.ListFireTimesByPost(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("failed to list fire times: %w", err)
	}
	status := entities.RollupPostStatus(remaining)
	if status != post.Status {
		if err := s.postRepo.UpdatePostStatus(ctx, post.ID, status); err != nil {
			return fmt.Errorf("failed to update post status: %w", err)
		}
	}

	return nil
}
