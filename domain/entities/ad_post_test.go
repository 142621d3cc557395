package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRollupPostStatus(t *testing.T) {
	ft := func(status FireTimeStatus) *FireTime {
		return &FireTime{Status: status}
	}

	tests := []struct {
		name      string
		fireTimes []*FireTime
		want      AdPostStatus
	}{
		{
			name:      "no occurrences means draft",
			fireTimes: nil,
			want:      AdPostStatusDraft,
		},
		{
			name:      "any scheduled occurrence keeps the post scheduled",
			fireTimes: []*FireTime{ft(FireTimeStatusSent), ft(FireTimeStatusScheduled)},
			want:      AdPostStatusScheduled,
		},
		{
			name:      "in-flight occurrence also keeps it scheduled",
			fireTimes: []*FireTime{ft(FireTimeStatusFailed), ft(FireTimeStatusSending)},
			want:      AdPostStatusScheduled,
		},
		{
			name:      "all fired with at least one delivery is sent",
			fireTimes: []*FireTime{ft(FireTimeStatusSent), ft(FireTimeStatusFailed)},
			want:      AdPostStatusSent,
		},
		{
			name:      "every occurrence failed means failed",
			fireTimes: []*FireTime{ft(FireTimeStatusFailed), ft(FireTimeStatusFailed)},
			want:      AdPostStatusFailed,
		},
		{
			name:      "single delivered occurrence is sent",
			fireTimes: []*FireTime{ft(FireTimeStatusSent)},
			want:      AdPostStatusSent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RollupPostStatus(tt.fireTimes))
		})
	}
}

func TestFireTime_IsCancellable(t *testing.T) {
	now := time.Now()

	future := FireTime{Status: FireTimeStatusScheduled, ScheduledAt: now.Add(time.Hour)}
	assert.True(t, future.IsCancellable(now))

	past := FireTime{Status: FireTimeStatusScheduled, ScheduledAt: now.Add(-time.Minute)}
	assert.False(t, past.IsCancellable(now))

	claimed := FireTime{Status: FireTimeStatusSending, ScheduledAt: now.Add(time.Hour)}
	assert.False(t, claimed.IsCancellable(now))

	fired := FireTime{Status: FireTimeStatusSent, ScheduledAt: now.Add(-time.Hour)}
	assert.False(t, fired.IsCancellable(now))
}

func TestFireTimeStatus_IsTerminal(t *testing.T) {
	assert.False(t, FireTimeStatusScheduled.IsTerminal())
	assert.False(t, FireTimeStatusSending.IsTerminal())
	assert.True(t, FireTimeStatusSent.IsTerminal())
	assert.True(t, FireTimeStatusFailed.IsTerminal())
}
