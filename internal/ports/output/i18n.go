package output

// Translator renders user-facing messages in the caller's language.
type Translator interface {
	// T renders the message key in locale, filling template placeholders
	// from data (may be nil). Unknown keys render as the key itself.
	T(locale, key string, data map[string]any) string
	// Match picks the supported locale closest to an Accept-Language value.
	Match(acceptLanguage string) string
}
