package filter

import "time"

var refTime = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}
