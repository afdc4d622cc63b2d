package discord

import (
	"fmt"
	"strings"
	"time"

	"community/internal/domain/entities"
	"community/pkg/tz"

	"github.com/bwmarrin/discordgo"
)

const (
	embedColor      = 0x5865F2
	embedDateLayout = "Mon 02 Jan 2006, 15:04 MST"
	maxDescription  = 1024
)

func formatCapacity(capacity, confirmed int) string {
	if capacity <= 0 {
		return fmt.Sprintf("%d (unlimited)", confirmed)
	}
	return fmt.Sprintf("%d/%d", confirmed, capacity)
}

func formatPrice(price float64) string {
	if price <= 0 {
		return "Free"
	}
	return fmt.Sprintf("%.2f", price)
}

func formatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	d := time.Duration(minutes) * time.Minute
	h, m := int(d.Hours()), minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}

// FormatEventDate renders t in the display timezone.
func FormatEventDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(tz.Display()).Format(embedDateLayout)
}

func buildDescription(event *entities.Event) string {
	var b strings.Builder
	if event.OrganizationName != "" {
		fmt.Fprintf(&b, "**Organized by:** %s\n\n", event.OrganizationName)
	}
	desc := strings.TrimSpace(event.Description)
	if len(desc) > maxDescription {
		desc = desc[:maxDescription] + "..."
	}
	b.WriteString(desc)
	return b.String()
}

// BuildEventEmbed builds the announcement posted when an event is published.
func BuildEventEmbed(event *entities.Event) *discordgo.MessageEmbed {
	when := FormatEventDate(event.Date)
	if d := formatDuration(event.DurationMinutes); d != "" {
		when += " (" + d + ")"
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: "When", Value: when},
		{Name: "Where", Value: event.Location, Inline: true},
		{Name: "Places", Value: formatCapacity(event.Capacity, event.RegistrationCount), Inline: true},
		{Name: "Price", Value: formatPrice(event.Price), Inline: true},
	}
	if event.Category != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Category", Value: event.Category, Inline: true})
	}
	embed := &discordgo.MessageEmbed{
		Title:       event.Title,
		Description: buildDescription(event),
		Color:       embedColor,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Register on the community site"},
	}
	if !event.CreatedAt.IsZero() {
		embed.Timestamp = event.CreatedAt.UTC().Format(time.RFC3339)
	}
	return embed
}
