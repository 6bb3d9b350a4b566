package service

import (
	"fmt"
	"time"
)

var timeAgoBuckets = []struct {
	below int64
	unit  int64
	label string
}{
	{below: 3600, unit: 60, label: "minutes"},
	{below: 86400, unit: 3600, label: "hours"},
	{below: 604800, unit: 86400, label: "days"},
	{below: 2592000, unit: 604800, label: "weeks"},
	{below: 31536000, unit: 2592000, label: "months"},
}

// TimeAgo renders the elapsed time between t and now as a coarse label.
// Timestamps in the future read "just now".
func TimeAgo(t, now time.Time) string {
	elapsed := int64(now.Sub(t) / time.Second)
	if elapsed < 60 {
		return "just now"
	}
	for _, b := range timeAgoBuckets {
		if elapsed < b.below {
			return fmt.Sprintf("%d %s ago", elapsed/b.unit, b.label)
		}
	}
	return fmt.Sprintf("%d years ago", elapsed/31536000)
}
