package testutil

import (
	"time"

	"adboard/domain/entities"
)

// CreateTestChannel creates a verified, active channel with default values
func CreateTestChannel(ownerAccountID, destinationID int64) *entities.Channel {
	return &entities.Channel{
		OwnerAccountID: ownerAccountID,
		DestinationID:  destinationID,
		Name:           "test-channel",
		PricePerPost:   100,
		IsVerified:     true,
		IsActive:       true,
	}
}

// CreateTestChannelWithPrice creates a test channel with a specific price per post
func CreateTestChannelWithPrice(ownerAccountID, destinationID, pricePerPost int64) *entities.Channel {
	channel := CreateTestChannel(ownerAccountID, destinationID)
	channel.PricePerPost = pricePerPost
	return channel
}

// CreateTestAdPost creates a draft ad post with default content
func CreateTestAdPost(ownerAccountID, advertiserAccountID, channelID int64) *entities.AdPost {
	return &entities.AdPost{
		OwnerAccountID:      ownerAccountID,
		AdvertiserAccountID: advertiserAccountID,
		ChannelID:           channelID,
		Content:             "test ad content",
		Status:              entities.AdPostStatusDraft,
	}
}

// CreateTestFireTime creates a scheduled fire time for a post
func CreateTestFireTime(postID int64, scheduledAt time.Time) *entities.FireTime {
	return &entities.FireTime{
		PostID:      postID,
		ScheduledAt: scheduledAt,
		Status:      entities.FireTimeStatusScheduled,
	}
}

// CreateTestCreditRequest creates a pending credit request against a named grantor
func CreateTestCreditRequest(requesterAccountID int64, grantorAccountID *int64, amount int64) *entities.CreditRequest {
	return &entities.CreditRequest{
		RequesterAccountID: requesterAccountID,
		GrantorAccountID:   grantorAccountID,
		Amount:             amount,
		Reason:             "test request",
		Status:             entities.CreditRequestStatusPending,
	}
}

// CreateTestGrantEntry creates a positive grant ledger entry
func CreateTestGrantEntry(accountID, grantorID int64, amount int64, kind entities.EntryKind) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		AccountID:          accountID,
		Amount:             amount,
		Kind:               kind,
		GrantedByAccountID: &grantorID,
		Description:        "test grant",
	}
}

// CreateTestSpentEntry creates a negative spend ledger entry against a channel
func CreateTestSpentEntry(accountID, channelID int64, amount int64) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		AccountID:        accountID,
		Amount:           -amount,
		Kind:             entities.EntryKindSpent,
		RelatedChannelID: &channelID,
		Description:      "test spend",
	}
}
