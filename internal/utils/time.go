package utils

import (
	"fmt"
	"time"
)

// FormatTimestamp formats t as RFC3339 in UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// TimeAgo renders the age of created relative to now the way the dashboard shows it
func TimeAgo(created, now time.Time) string {
	hrs := int(now.Sub(created).Hours())
	if hrs < 1 {
		return "Just now"
	}
	if hrs < 24 {
		return fmt.Sprintf("%dh ago", hrs)
	}
	days := hrs / 24
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
