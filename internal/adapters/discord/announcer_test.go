package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"community/internal/domain/entities"
)

type recordingSender struct {
	channelID string
	sent      *discordgo.MessageSend
	err       error
}

func (r *recordingSender) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.channelID = channelID
	r.sent = data
	return &discordgo.Message{ID: "m1", ChannelID: channelID}, nil
}

func TestAnnouncer_AnnounceEvent(t *testing.T) {
	sender := &recordingSender{}
	a := newAnnouncer(sender, "123456789")

	event := &entities.Event{ID: "e1", Title: "Board games night", Date: time.Now().Add(48 * time.Hour), Location: "Library", Capacity: 8}
	if err := a.AnnounceEvent(context.Background(), event); err != nil {
		t.Fatalf("AnnounceEvent() unexpected error: %v", err)
	}
	if sender.channelID != "123456789" {
		t.Errorf("channel = %q", sender.channelID)
	}
	if sender.sent == nil || len(sender.sent.Embeds) != 1 || sender.sent.Embeds[0].Title != "Board games night" {
		t.Errorf("sent = %+v", sender.sent)
	}
}

func TestAnnouncer_SendError(t *testing.T) {
	boom := errors.New("rate limited")
	a := newAnnouncer(&recordingSender{err: boom}, "1")
	err := a.AnnounceEvent(context.Background(), &entities.Event{ID: "e1"})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped send error", err)
	}
}

func TestNoop(t *testing.T) {
	if err := (Noop{}).AnnounceEvent(context.Background(), &entities.Event{}); err != nil {
		t.Fatal(err)
	}
}
