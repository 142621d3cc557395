package services

import (
	"context"
	"fmt"

	"adboard/domain/entities"
	"adboard/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// channelService implements channel registration and verification
type channelService struct {
	channelRepo  interfaces.ChannelRepository
	accountRepo  interfaces.AccountRepository
	adminChecker interfaces.ChannelAdminChecker
}

// NewChannelService creates a new channel service
func NewChannelService(
	channelRepo interfaces.ChannelRepository,
	accountRepo interfaces.AccountRepository,
	adminChecker interfaces.ChannelAdminChecker,
) interfaces.ChannelService {
	return &channelService{
		channelRepo:  channelRepo,
		accountRepo:  accountRepo,
		adminChecker: adminChecker,
	}
}

// Register creates a channel for a publisher
func (s *channelService) Register(ctx context.Context, ownerID, destinationID int64, name string, pricePerPost int64) (*entities.Channel, error) {
	if pricePerPost <= 0 {
		return nil, fmt.Errorf("price per post must be positive")
	}

	owner, err := s.accountRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	if owner == nil {
		return nil, fmt.Errorf("owner %d: %w", ownerID, entities.ErrNotFound)
	}
	if !owner.IsPublisher() && !owner.IsAdmin() {
		return nil, fmt.Errorf("account %d may not register channels: %w", ownerID, entities.ErrForbidden)
	}

	channel := &entities.Channel{
		OwnerAccountID: ownerID,
		DestinationID:  destinationID,
		Name:           name,
		PricePerPost:   pricePerPost,
		IsActive:       true,
	}
	if err := s.channelRepo.Create(ctx, channel); err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	return channel, nil
}

// Verify checks admin rights on the destination and marks the channel verified
func (s *channelService) Verify(ctx context.Context, channelID, actorID, platformUserID int64) error {
	channel, err := s.loadOwned(ctx, channelID, actorID)
	if err != nil {
		return err
	}

	isAdmin, err := s.adminChecker.IsChannelAdmin(ctx, channel.DestinationID, platformUserID)
	if err != nil {
		return fmt.Errorf("failed to check channel admin rights: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("account %d is not an admin of destination %d: %w", actorID, channel.DestinationID, entities.ErrForbidden)
	}

	channel.IsVerified = true
	if err := s.channelRepo.Update(ctx, channel); err != nil {
		return fmt.Errorf("failed to update channel: %w", err)
	}

	log.WithFields(log.Fields{
		"channelID":     channelID,
		"destinationID": channel.DestinationID,
	}).Info("Channel verified")
	return nil
}

// SetActive toggles whether the channel accepts new posts
func (s *channelService) SetActive(ctx context.Context, channelID, actorID int64, active bool) error {
	channel, err := s.loadOwned(ctx, channelID, actorID)
	if err != nil {
		return err
	}
	channel.IsActive = active
	if err := s.channelRepo.Update(ctx, channel); err != nil {
		return fmt.Errorf("failed to update channel: %w", err)
	}
	return nil
}

// UpdatePrice changes the per-post price
func (s *channelService) UpdatePrice(ctx context.Context, channelID, actorID int64, pricePerPost int64) error {
	if pricePerPost <= 0 {
		return fmt.Errorf("price per post must be positive")
	}
	channel, err := s.loadOwned(ctx, channelID, actorID)
	if err != nil {
		return err
	}
	channel.PricePerPost = pricePerPost
	if err := s.channelRepo.Update(ctx, channel); err != nil {
		return fmt.Errorf("failed to update channel: %w", err)
	}
	return nil
}

// loadOwned fetches a channel and checks the actor owns it or is an admin
func (s *channelService) loadOwned(ctx context.Context, channelID, actorID int64) (*entities.Channel, error) {
	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return nil, fmt.Errorf("channel %d: %w", channelID, entities.ErrNotFound)
	}

	if channel.OwnerAccountID != actorID {
		actor, err := s.accountRepo.GetByID(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("failed to get actor: %w", err)
		}
		if actor == nil || !actor.IsAdmin() {
			return nil, fmt.Errorf("account %d does not own channel %d: %w", actorID, channelID, entities.ErrForbidden)
		}
	}
	return channel, nil
}
