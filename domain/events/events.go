package events

import "adboard/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange    EventType = "balance_change"
	EventTypeAccountCreated   EventType = "account_created"
	EventTypeRequestProcessed EventType = "request_processed"
	EventTypePostScheduled    EventType = "post_scheduled"
	EventTypeFireTimeResolved EventType = "fire_time_resolved"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a ledger entry that was appended together
// with its paired cached-balance update
type BalanceChangeEvent struct {
	AccountID  int64
	OldBalance int64
	NewBalance int64
	Amount     int64
	Kind       entities.EntryKind
	EntryID    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new account creation
type AccountCreatedEvent struct {
	AccountID int64
	Username  string
	Role      entities.AccountRole
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// RequestProcessedEvent represents a credit request reaching a terminal state
type RequestProcessedEvent struct {
	RequestID   int64
	RequesterID int64
	ProcessedBy int64
	Amount      int64
	Approved    bool
}

func (e RequestProcessedEvent) Type() EventType {
	return EventTypeRequestProcessed
}

// PostScheduledEvent represents fire times committed for a post
type PostScheduledEvent struct {
	PostID       int64
	ChannelID    int64
	AdvertiserID int64
	FireTimeIDs  []int64
	TotalCharged int64
}

func (e PostScheduledEvent) Type() EventType {
	return EventTypePostScheduled
}

// FireTimeResolvedEvent represents one delivery occurrence reaching a
// terminal state after a dispatch sweep
type FireTimeResolvedEvent struct {
	FireTimeID    int64
	PostID        int64
	ChannelID     int64
	Delivered     bool
	FailureReason string
}

func (e FireTimeResolvedEvent) Type() EventType {
	return EventTypeFireTimeResolved
}
