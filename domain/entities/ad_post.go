package entities

import "time"

// AdPostStatus represents the aggregate state of an advertisement post
type AdPostStatus string

const (
	AdPostStatusDraft     AdPostStatus = "draft"
	AdPostStatusScheduled AdPostStatus = "scheduled"
	AdPostStatusSent      AdPostStatus = "sent"
	AdPostStatusFailed    AdPostStatus = "failed"
)

// FireTimeStatus represents the state of one scheduled delivery occurrence
type FireTimeStatus string

const (
	FireTimeStatusScheduled FireTimeStatus = "scheduled"
	// FireTimeStatusSending marks a row claimed by a dispatch sweep while the
	// external send is in flight. Claiming is a compare-and-swap from
	// scheduled, so overlapping sweeps can never pick up the same row twice.
	FireTimeStatusSending FireTimeStatus = "sending"
	FireTimeStatusSent    FireTimeStatus = "sent"
	FireTimeStatusFailed  FireTimeStatus = "failed"
)

// IsTerminal returns true once the occurrence can no longer change state
func (s FireTimeStatus) IsTerminal() bool {
	return s == FireTimeStatusSent || s == FireTimeStatusFailed
}

// AdPost is an advertisement bound to a channel. Its status is a read-only
// rollup of its fire times; SENT and FAILED are never set directly.
type AdPost struct {
	ID                  int64        `db:"id"`
	OwnerAccountID      int64        `db:"owner_account_id"`
	AdvertiserAccountID int64        `db:"advertiser_account_id"`
	ChannelID           int64        `db:"channel_id"`
	Content             string       `db:"content"`
	Status              AdPostStatus `db:"status"`
	CreatedAt           time.Time    `db:"created_at"`
	UpdatedAt           time.Time    `db:"updated_at"`
}

// FireTime is one scheduled delivery occurrence of a post, independently
// cancellable while still in the future. Fired occurrences are retained
// permanently for statistics.
type FireTime struct {
	ID            int64          `db:"id"`
	PostID        int64          `db:"post_id"`
	ScheduledAt   time.Time      `db:"scheduled_at"`
	Status        FireTimeStatus `db:"status"`
	FailureReason *string        `db:"failure_reason"`
	SentAt        *time.Time     `db:"sent_at"`
	CreatedAt     time.Time      `db:"created_at"`
}

// IsCancellable returns true if the occurrence may still be removed at the
// given instant. Only future, unclaimed occurrences qualify.
func (ft *FireTime) IsCancellable(now time.Time) bool {
	return ft.Status == FireTimeStatusScheduled && ft.ScheduledAt.After(now)
}

// RollupPostStatus derives the aggregate post status from its fire times:
// any pending occurrence keeps the post scheduled, no occurrences at all
// leaves it a draft, and a fully fired post is sent if at least one
// occurrence was delivered.
func RollupPostStatus(fireTimes []*FireTime) AdPostStatus {
	if len(fireTimes) == 0 {
		return AdPostStatusDraft
	}
	anySent := false
	for _, ft := range fireTimes {
		switch ft.Status {
		case FireTimeStatusScheduled, FireTimeStatusSending:
			return AdPostStatusScheduled
		case FireTimeStatusSent:
			anySent = true
		}
	}
	if anySent {
		return AdPostStatusSent
	}
	return AdPostStatusFailed
}
