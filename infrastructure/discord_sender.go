package infrastructure

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// DiscordSender delivers ad content to Discord channels. It implements both
// the application.MessageSender and interfaces.ChannelAdminChecker
// capabilities against one session.
type DiscordSender struct {
	session *discordgo.Session
}

// NewDiscordSender creates a new Discord sender
func NewDiscordSender(session *discordgo.Session) *DiscordSender {
	return &DiscordSender{session: session}
}

// SendMessage posts content to the destination channel
func (d *DiscordSender) SendMessage(ctx context.Context, destinationID int64, content string) error {
	channelID := strconv.FormatInt(destinationID, 10)

	_, err := d.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}

	log.WithFields(log.Fields{
		"channelID": channelID,
		"size":      len(content),
	}).Debug("Sent message to Discord channel")
	return nil
}

// IsChannelAdmin reports whether the platform user can manage the destination
// channel. Used by channel verification before a publisher's channel starts
// accepting posts.
func (d *DiscordSender) IsChannelAdmin(ctx context.Context, destinationID, platformUserID int64) (bool, error) {
	channelID := strconv.FormatInt(destinationID, 10)
	userID := strconv.FormatInt(platformUserID, 10)

	permissions, err := d.session.UserChannelPermissions(userID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve permissions for user %s on channel %s: %w", userID, channelID, err)
	}

	isAdmin := permissions&discordgo.PermissionAdministrator != 0 ||
		permissions&discordgo.PermissionManageChannels != 0
	return isAdmin, nil
}
