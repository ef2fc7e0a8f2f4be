package billing

import "time"

const periodLayout = "2006-01"

// Period 計費月份標籤，例如 "2025-11"
func Period(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(periodLayout)
}
