package domain

import (
	"strconv"
	"strings"
)

type durationUnit struct {
	name    string
	seconds int64
}

var durationUnits = []durationUnit{
	{"month", 2629800},
	{"day", 86400},
	{"hour", 3600},
	{"minute", 60},
	{"second", 1},
}

// FormatDuration renders seconds as "1 month, 2 days, 3 seconds".
// Zero components are skipped and zero itself is "0 seconds".
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return "0 seconds"
	}
	parts := make([]string, 0, len(durationUnits))
	remaining := seconds
	for _, unit := range durationUnits {
		value := remaining / unit.seconds
		remaining %= unit.seconds
		if value == 0 {
			continue
		}
		label := unit.name
		if value > 1 {
			label += "s"
		}
		parts = append(parts, strconv.FormatInt(value, 10)+" "+label)
	}
	return strings.Join(parts, ", ")
}
