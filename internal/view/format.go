package view

import (
	"strings"
	"time"

	"github.com/mergestat/timediff"
)

// FormatUpdated formats a deck's last change like "updated 3 minutes ago".
// Decks that were never stamped yield an empty string.
func FormatUpdated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return "updated " + timediff.TimeDiff(t)
}

// Title turns a group tag into a heading, e.g. "planeswalker" -> "Planeswalker".
func Title(tag string) string {
	if tag == "" {
		return ""
	}
	return strings.ToUpper(tag[:1]) + tag[1:]
}
