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

// dispatchService finalizes claimed fire times after the external send
// attempt. The claim itself happens in the repository as a compare-and-swap;
// by the time this service runs, the row is exclusively ours.
type dispatchService struct {
	postRepo       interfaces.PostRepository
	channelRepo    interfaces.ChannelRepository
	eventPublisher interfaces.EventPublisher
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(
	postRepo interfaces.PostRepository,
	channelRepo interfaces.ChannelRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.DispatchService {
	return &dispatchService{
		postRepo:       postRepo,
		channelRepo:    channelRepo,
		eventPublisher: eventPublisher,
	}
}

// FinalizeDelivery moves a claimed occurrence to its terminal state. Failed
// deliveries are recorded, never refunded here; a refund is a separate
// explicit ledger entry if policy ever demands one.
func (s *dispatchService) FinalizeDelivery(ctx context.Context, due *interfaces.DueFireTime, outcome interfaces.DeliveryOutcome, now time.Time) error {
	var (
		status        entities.FireTimeStatus
		failureReason *string
		sentAt        *time.Time
	)
	if outcome.Delivered {
		status = entities.FireTimeStatusSent
		sentAt = &now
	} else {
		status = entities.FireTimeStatusFailed
		reason := outcome.FailureReason
		if reason == "" {
			reason = "delivery failed"
		}
		failureReason = &reason
	}

	finalized, err := s.postRepo.FinalizeFireTime(ctx, due.FireTime.ID, status, failureReason, sentAt)
	if err != nil {
		return fmt.Errorf("failed to finalize fire time %d: %w", due.FireTime.ID, err)
	}
	if !finalized {
		// Not in sending state anymore; nothing was double-processed, so
		// just surface it for investigation.
		return fmt.Errorf("fire time %d was not in sending state", due.FireTime.ID)
	}

	if outcome.Delivered {
		if err := s.channelRepo.IncrementCounters(ctx, due.ChannelID, 0, 1, 0); err != nil {
			return fmt.Errorf("failed to increment channel counters: %w", err)
		}
	}

	fireTimes, err := s.postRepo.ListFireTimesByPost(ctx, due.PostID)
	if err != nil {
		return fmt.Errorf("failed to list fire times for post %d: %w", due.PostID, err)
	}
	rollup := entities.RollupPostStatus(fireTimes)
	if err := s.postRepo.UpdatePostStatus(ctx, due.PostID, rollup); err != nil {
		return fmt.Errorf("failed to roll up post %d status: %w", due.PostID, err)
	}

	var reason string
	if failureReason != nil {
		reason = *failureReason
	}
	if err := s.eventPublisher.Publish(events.FireTimeResolvedEvent{
		FireTimeID:    due.FireTime.ID,
		PostID:        due.PostID,
		ChannelID:     due.ChannelID,
		Delivered:     outcome.Delivered,
		FailureReason: reason,
	}); err != nil {
		log.WithError(err).Error("Failed to publish fire time resolved event")
	}

	return nil
}
