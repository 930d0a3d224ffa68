// Package format holds the small display formatters shared by the CLI
// views: dates, times, minute counts and severity/category styling.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Date renders "Mar 14, 2026"; nil yields "N/A".
func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Format("Jan 2, 2006")
}

// Time renders "3:04 PM"; nil yields "".
func Time(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("3:04 PM")
}

// Minutes renders a minute count as "45 min" or "1h 30m".
func Minutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%d min", min)
	}
	h, m := min/60, min%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// SeverityStyle maps a pattern-insight severity tag to a display style
// name. Unknown tags fall back to "neutral".
func SeverityStyle(severity string) string {
	switch strings.ToLower(severity) {
	case "thriving", "low", "green":
		return "green"
	case "watch", "medium", "amber":
		return "amber"
	case "intervene", "high", "red":
		return "red"
	default:
		return "neutral"
	}
}

// CategoryLabel maps a suggestion category to its display label.
func CategoryLabel(category string) string {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "creative"):
		return "Creative Win"
	case strings.Contains(c, "practical"):
		return "Practical"
	case strings.Contains(c, "rest"):
		return "Rest"
	case category == "":
		return "General"
	default:
		return category
	}
}

// Truncate shortens s to max runes with an ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
