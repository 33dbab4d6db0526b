package observability

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	defaultStringLimit = 256
	fieldLimit         = 512
)

// sanitizeString drops control characters and limits length to avoid log injection.
func sanitizeString(value string, limit int) string {
	if limit <= 0 {
		limit = defaultStringLimit
	}

	cleaned := make([]rune, 0, len(value))
	for _, r := range value {
		if unicode.IsControl(r) {
			continue
		}
		cleaned = append(cleaned, r)
	}
	if len(cleaned) > limit {
		cleaned = cleaned[:limit]
	}
	return string(cleaned)
}

// SanitizeRoute removes control characters and enforces length constraints on routes.
func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return sanitizeString(route, 180)
}

// SanitizeField flattens free-form visitor input (contact messages span
// several lines) onto one line and marks values cut at fieldLimit runes.
func SanitizeField(value string) string {
	flat := strings.Join(strings.Fields(value), " ")
	cleaned := sanitizeString(flat, fieldLimit+1)
	if utf8.RuneCountInString(cleaned) > fieldLimit {
		return string([]rune(cleaned)[:fieldLimit]) + "…"
	}
	return cleaned
}
