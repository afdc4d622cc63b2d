// Package discord posts newly published events to a Discord channel.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"community/internal/domain/entities"
	"community/internal/infrastructure/logging"
	"community/internal/ports/output"
	embeds "community/pkg/discord"
)

// messageSender is the slice of *discordgo.Session the announcer needs.
type messageSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ output.Announcer = (*Announcer)(nil)

// Announcer sends one embed per created event. It only uses the REST API,
// so no gateway connection is opened.
type Announcer struct {
	sender    messageSender
	channelID string
}

func NewAnnouncer(token, channelID string) (*Announcer, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	return newAnnouncer(s, channelID), nil
}

func newAnnouncer(sender messageSender, channelID string) *Announcer {
	return &Announcer{sender: sender, channelID: channelID}
}

func (a *Announcer) AnnounceEvent(ctx context.Context, event *entities.Event) error {
	msg, err := a.sender.ChannelMessageSendComplex(a.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embeds.BuildEventEmbed(event)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: announce event %s: %w", event.ID, err)
	}
	logging.Ctx(ctx).Debug().Str("event_id", event.ID).Str("message_id", msg.ID).Msg("event announced")
	return nil
}

// Noop is used when no Discord token is configured.
type Noop struct{}

var _ output.Announcer = Noop{}

func (Noop) AnnounceEvent(context.Context, *entities.Event) error { return nil }
