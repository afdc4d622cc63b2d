package i18n

import "testing"

func TestTranslator_T(t *testing.T) {
	tr := NewTranslator("en")

	tests := []struct {
		name   string
		locale string
		key    string
		data   map[string]any
		want   string
	}{
		{"english", "en", "error_capacity_exceeded", nil, "Event is full"},
		{"spanish", "es", "error_capacity_exceeded", nil, "El evento está completo"},
		{"unknown locale falls back", "de", "error_event_not_found", nil, "Event not found"},
		{"template data", "en", "notification_hour_before", map[string]any{"Title": "Jazz night"}, "Jazz night starts within the next hour"},
		{"unknown key", "en", "nope", nil, "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.T(tt.locale, tt.key, tt.data); got != tt.want {
				t.Errorf("T(%q, %q) = %q, want %q", tt.locale, tt.key, got, tt.want)
			}
		})
	}
}

func TestTranslator_Match(t *testing.T) {
	tr := NewTranslator("en")

	tests := map[string]string{
		"":                        "en",
		"es-MX,es;q=0.9,en;q=0.8": "es",
		"fr-FR":                   "en",
		"en-GB":                   "en",
		"not a header;;":          "en",
	}
	for header, want := range tests {
		if got := tr.Match(header); got != want {
			t.Errorf("Match(%q) = %q, want %q", header, got, want)
		}
	}
}
