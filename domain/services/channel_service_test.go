package services

import (
	"context"
	"testing"

	"adboard/domain/entities"
	"adboard/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChannelService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("publisher registers an active, unverified channel", func(t *testing.T) {
		channelRepo := new(testhelpers.MockChannelRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		service := NewChannelService(channelRepo, accountRepo, new(testhelpers.MockChannelAdminChecker))

		accountRepo.On("GetByID", ctx, int64(9)).Return(testAccount(9, 0, entities.AccountRolePublisher), nil)
		channelRepo.On("Create", ctx, mock.AnythingOfType("*entities.Channel")).Return(nil)

		channel, err := service.Register(ctx, 9, 555000, "deals channel", 100)
		require.NoError(t, err)
		assert.True(t, channel.IsActive)
		assert.False(t, channel.IsVerified)
		assert.Equal(t, int64(100), channel.PricePerPost)
	})

	t.Run("advertisers may not register channels", func(t *testing.T) {
		channelRepo := new(testhelpers.MockChannelRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		service := NewChannelService(channelRepo, accountRepo, new(testhelpers.MockChannelAdminChecker))

		accountRepo.On("GetByID", ctx, int64(1)).Return(testAccount(1, 0, entities.AccountRoleAdvertiser), nil)

		_, err := service.Register(ctx, 1, 555000, "deals channel", 100)
		assert.ErrorIs(t, err, entities.ErrForbidden)
		channelRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("price must be positive", func(t *testing.T) {
		service := NewChannelService(new(testhelpers.MockChannelRepository), new(testhelpers.MockAccountRepository), new(testhelpers.MockChannelAdminChecker))

		_, err := service.Register(ctx, 9, 555000, "deals channel", 0)
		assert.Error(t, err)
	})
}

func TestChannelService_Verify(t *testing.T) {
	ctx := context.Background()
	ownerID := int64(9)
	platformUserID := int64(42)

	t.Run("owner with destination admin rights verifies the channel", func(t *testing.T) {
		channelRepo := new(testhelpers.MockChannelRepository)
		adminChecker := new(testhelpers.MockChannelAdminChecker)
		service := NewChannelService(channelRepo, new(testhelpers.MockAccountRepository), adminChecker)

		channel := verifiedChannel(5, ownerID, 100)
		channel.IsVerified = false
		channelRepo.On("GetByID", ctx, int64(5)).Return(channel, nil)
		adminChecker.On("IsChannelAdmin", ctx, channel.DestinationID, platformUserID).Return(true, nil)
		channelRepo.On("Update", ctx, mock.MatchedBy(func(c *entities.Channel) bool {
			return c.ID == 5 && c.IsVerified
		})).Return(nil)

		err := service.Verify(ctx, 5, ownerID, platformUserID)
		require.NoError(t, err)
		channelRepo.AssertExpectations(t)
	})

	t.Run("missing admin rights on the destination blocks verification", func(t *testing.T) {
		channelRepo := new(testhelpers.MockChannelRepository)
		adminChecker := new(testhelpers.MockChannelAdminChecker)
		service := NewChannelService(channelRepo, new(testhelpers.MockAccountRepository), adminChecker)

		channel := verifiedChannel(5, ownerID, 100)
		channel.IsVerified = false
		channelRepo.On("GetByID", ctx, int64(5)).Return(channel, nil)
		adminChecker.On("IsChannelAdmin", ctx, channel.DestinationID, platformUserID).Return(false, nil)

		err := service.Verify(ctx, 5, ownerID, platformUserID)
		assert.ErrorIs(t, err, entities.ErrForbidden)
		channelRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("non-owner non-admin may not verify", func(t *testing.T) {
		channelRepo := new(testhelpers.MockChannelRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		service := NewChannelService(channelRepo, accountRepo, new(testhelpers.MockChannelAdminChecker))

		channelRepo.On("GetByID", ctx, int64(5)).Return(verifiedChannel(5, ownerID, 100), nil)
		accountRepo.On("GetByID", ctx, int64(777)).Return(testAccount(777, 0, entities.AccountRoleAdvertiser), nil)

		err := service.Verify(ctx, 5, 777, platformUserID)
		assert.ErrorIs(t, err, entities.ErrForbidden)
	})
}

func TestChannelService_SetActive(t *testing.T) {
	ctx := context.Background()
	ownerID := int64(9)

	t.Run("owner deactivates the channel", func(t *testing.T) {
		channelRepo := new(testhelpers.MockChannelRepository)
		service := NewChannelService(channelRepo, new(testhelpers.MockAccountRepository), new(testhelpers.MockChannelAdminChecker))

		channelRepo.On("GetByID", ctx, int64(5)).Return(verifiedChannel(5, ownerID, 100), nil)
		channelRepo.On("Update", ctx, mock.MatchedBy(func(c *entities.Channel) bool {
			return c.ID == 5 && !c.IsActive
		})).Return(nil)

		err := service.SetActive(ctx, 5, ownerID, false)
		require.NoError(t, err)
		channelRepo.AssertExpectations(t)
	})

	t.Run("admin may act on someone else's channel", func(t *testing.T) {
		channelRepo := new(testhelpers.MockChannelRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		service := NewChannelService(channelRepo, accountRepo, new(testhelpers.MockChannelAdminChecker))

		adminID := int64(99)
		channelRepo.On("GetByID", ctx, int64(5)).Return(verifiedChannel(5, ownerID, 100), nil)
		accountRepo.On("GetByID", ctx, adminID).Return(testAccount(adminID, 0, entities.AccountRoleAdmin), nil)
		channelRepo.On("Update", ctx, mock.AnythingOfType("*entities.Channel")).Return(nil)

		err := service.SetActive(ctx, 5, adminID, false)
		require.NoError(t, err)
	})
}

func TestChannelService_UpdatePrice(t *testing.T) {
	ctx := context.Background()
	ownerID := int64(9)

	t.Run("owner changes the per-post price", func(t *testing.T) {
		channelRepo := new(testhelpers.MockChannelRepository)
		service := NewChannelService(channelRepo, new(testhelpers.MockAccountRepository), new(testhelpers.MockChannelAdminChecker))

		channelRepo.On("GetByID", ctx, int64(5)).Return(verifiedChannel(5, ownerID, 100), nil)
		channelRepo.On("Update", ctx, mock.MatchedBy(func(c *entities.Channel) bool {
			return c.PricePerPost == 250
		})).Return(nil)

		err := service.UpdatePrice(ctx, 5, ownerID, 250)
		require.NoError(t, err)
		channelRepo.AssertExpectations(t)
	})

	t.Run("rejects a non-positive price before touching the repository", func(t *testing.T) {
		channelRepo := new(testhelpers.MockChannelRepository)
		service := NewChannelService(channelRepo, new(testhelpers.MockAccountRepository), new(testhelpers.MockChannelAdminChecker))

		err := service.UpdatePrice(ctx, 5, ownerID, -10)
		assert.Error(t, err)
		channelRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}
