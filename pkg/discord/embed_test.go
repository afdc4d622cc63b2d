package discord

import (
	"strings"
	"testing"
	"time"

	"community/internal/domain/entities"
	"community/pkg/tz"
)

func TestBuildEventEmbed(t *testing.T) {
	t.Cleanup(func() { _ = tz.SetDisplay("") })
	if err := tz.SetDisplay("Europe/Madrid"); err != nil {
		t.Fatal(err)
	}

	event := &entities.Event{
		Title:             "Go meetup",
		Description:       "Talks and pizza",
		OrganizationName:  "Gophers",
		Date:              time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
		DurationMinutes:   90,
		Location:          "Madrid",
		Capacity:          50,
		RegistrationCount: 12,
		Category:          "tech",
	}
	embed := BuildEventEmbed(event)

	if embed.Title != "Go meetup" {
		t.Errorf("Title = %q", embed.Title)
	}
	if !strings.HasPrefix(embed.Description, "**Organized by:** Gophers") {
		t.Errorf("Description = %q", embed.Description)
	}
	want := map[string]string{
		"When":     "Tue 10 Mar 2026, 19:00 CET (1h30m)",
		"Where":    "Madrid",
		"Places":   "12/50",
		"Price":    "Free",
		"Category": "tech",
	}
	if len(embed.Fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(embed.Fields), len(want))
	}
	for _, f := range embed.Fields {
		if want[f.Name] != f.Value {
			t.Errorf("field %s = %q, want %q", f.Name, f.Value, want[f.Name])
		}
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"unlimited capacity", formatCapacity(0, 3), "3 (unlimited)"},
		{"bounded capacity", formatCapacity(10, 3), "3/10"},
		{"paid", formatPrice(12.5), "12.50"},
		{"free", formatPrice(0), "Free"},
		{"minutes only", formatDuration(45), "45m"},
		{"whole hours", formatDuration(120), "2h"},
		{"no duration", formatDuration(0), ""},
		{"zero date", FormatEventDate(time.Time{}), ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
