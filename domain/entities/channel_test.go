package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannel_AcceptsPosts(t *testing.T) {
	tests := []struct {
		name     string
		verified bool
		active   bool
		want     bool
	}{
		{"verified and active", true, true, true},
		{"unverified", false, true, false},
		{"deactivated", true, false, false},
		{"neither", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel := Channel{IsVerified: tt.verified, IsActive: tt.active}
			assert.Equal(t, tt.want, channel.AcceptsPosts())
		})
	}
}
