package services

import (
	"context"
	"testing"
	"time"

	"adboard/domain/entities"
	"adboard/domain/interfaces"
	"adboard/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func claimedDue(fireTimeID, postID, channelID int64) *interfaces.DueFireTime {
	return &interfaces.DueFireTime{
		FireTime: entities.FireTime{
			ID:          fireTimeID,
			PostID:      postID,
			ScheduledAt: time.Now().Add(-time.Second),
			Status:      entities.FireTimeStatusSending,
		},
		PostID:        postID,
		ChannelID:     channelID,
		DestinationID: channelID * 1000,
		Content:       "test ad content",
	}
}

func TestDispatchService_FinalizeDelivery(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("successful delivery marks sent and bumps the sent counter", func(t *testing.T) {
		postRepo := new(testhelpers.MockPostRepository)
		channelRepo := new(testhelpers.MockChannelRepository)
		publisher := new(testhelpers.MockEventPublisher)
		service := NewDispatchService(postRepo, channelRepo, publisher)

		due := claimedDue(100, 10, 5)
		postRepo.On("FinalizeFireTime", ctx, int64(100), entities.FireTimeStatusSent, (*string)(nil), &now).
			Return(true, nil)
		channelRepo.On("IncrementCounters", ctx, int64(5), int64(0), int64(1), int64(0)).Return(nil)
		// The fired occurrence was the last one, so the post rolls up to sent.
		postRepo.On("ListFireTimesByPost", ctx, int64(10)).Return([]*entities.FireTime{
			{ID: 100, PostID: 10, Status: entities.FireTimeStatusSent},
		}, nil)
		postRepo.On("UpdatePostStatus", ctx, int64(10), entities.AdPostStatusSent).Return(nil)
		publisher.On("Publish", mock.AnythingOfType("events.FireTimeResolvedEvent")).Return(nil)

		err := service.FinalizeDelivery(ctx, due, interfaces.DeliveryOutcome{Delivered: true}, now)
		require.NoError(t, err)
		postRepo.AssertExpectations(t)
		channelRepo.AssertExpectations(t)
	})

	t.Run("failed delivery records the reason and leaves counters alone", func(t *testing.T) {
		postRepo := new(testhelpers.MockPostRepository)
		channelRepo := new(testhelpers.MockChannelRepository)
		service := NewDispatchService(postRepo, channelRepo, &testhelpers.NoopEventPublisher{})

		due := claimedDue(101, 10, 5)
		reason := "destination unreachable"
		postRepo.On("FinalizeFireTime", ctx, int64(101), entities.FireTimeStatusFailed, &reason, (*time.Time)(nil)).
			Return(true, nil)
		postRepo.On("ListFireTimesByPost", ctx, int64(10)).Return([]*entities.FireTime{
			{ID: 101, PostID: 10, Status: entities.FireTimeStatusFailed},
		}, nil)
		postRepo.On("UpdatePostStatus", ctx, int64(10), entities.AdPostStatusFailed).Return(nil)

		err := service.FinalizeDelivery(ctx, due, interfaces.DeliveryOutcome{Delivered: false, FailureReason: reason}, now)
		require.NoError(t, err)
		channelRepo.AssertNotCalled(t, "IncrementCounters", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failure without a reason gets a default one", func(t *testing.T) {
		postRepo := new(testhelpers.MockPostRepository)
		service := NewDispatchService(postRepo, new(testhelpers.MockChannelRepository), &testhelpers.NoopEventPublisher{})

		due := claimedDue(102, 10, 5)
		defaultReason := "delivery failed"
		postRepo.On("FinalizeFireTime", ctx, int64(102), entities.FireTimeStatusFailed, &defaultReason, (*time.Time)(nil)).
			Return(true, nil)
		postRepo.On("ListFireTimesByPost", ctx, int64(10)).Return([]*entities.FireTime{
			{ID: 102, PostID: 10, Status: entities.FireTimeStatusFailed},
		}, nil)
		postRepo.On("UpdatePostStatus", ctx, int64(10), entities.AdPostStatusFailed).Return(nil)

		err := service.FinalizeDelivery(ctx, due, interfaces.DeliveryOutcome{Delivered: false}, now)
		require.NoError(t, err)
		postRepo.AssertExpectations(t)
	})

	t.Run("one delivered occurrence among pending keeps the post scheduled", func(t *testing.T) {
		postRepo := new(testhelpers.MockPostRepository)
		channelRepo := new(testhelpers.MockChannelRepository)
		service := NewDispatchService(postRepo, channelRepo, &testhelpers.NoopEventPublisher{})

		due := claimedDue(103, 10, 5)
		postRepo.On("FinalizeFireTime", ctx, int64(103), entities.FireTimeStatusSent, (*string)(nil), &now).
			Return(true, nil)
		channelRepo.On("IncrementCounters", ctx, int64(5), int64(0), int64(1), int64(0)).Return(nil)
		postRepo.On("ListFireTimesByPost", ctx, int64(10)).Return([]*entities.FireTime{
			{ID: 103, PostID: 10, Status: entities.FireTimeStatusSent},
			{ID: 104, PostID: 10, Status: entities.FireTimeStatusScheduled},
		}, nil)
		postRepo.On("UpdatePostStatus", ctx, int64(10), entities.AdPostStatusScheduled).Return(nil)

		err := service.FinalizeDelivery(ctx, due, interfaces.DeliveryOutcome{Delivered: true}, now)
		require.NoError(t, err)
		postRepo.AssertExpectations(t)
	})

	t.Run("row no longer in sending state surfaces an error", func(t *testing.T) {
		postRepo := new(testhelpers.MockPostRepository)
		channelRepo := new(testhelpers.MockChannelRepository)
		service := NewDispatchService(postRepo, channelRepo, &testhelpers.NoopEventPublisher{})

		due := claimedDue(105, 10, 5)
		postRepo.On("FinalizeFireTime", ctx, int64(105), entities.FireTimeStatusSent, (*string)(nil), &now).
			Return(false, nil)

		err := service.FinalizeDelivery(ctx, due, interfaces.DeliveryOutcome{Delivered: true}, now)
		assert.Error(t, err)
		channelRepo.AssertNotCalled(t, "IncrementCounters", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		postRepo.AssertNotCalled(t, "UpdatePostStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}
