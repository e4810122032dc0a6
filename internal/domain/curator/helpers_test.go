package curator

import (
	"time"

	"github.com/GriffinCanCode/appcurator/internal/shared/types"
)

var refNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := refNow.AddDate(0, 0, -n)
	return &t
}

func version(v string) *string {
	return &v
}

func ids(records []types.Record) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].ID
	}
	return out
}

func enSynthetic() Synthetic {
	return NewSynthetic(types.DefaultLabels())
}
