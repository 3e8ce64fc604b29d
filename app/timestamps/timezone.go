package timestamps

import (
	"strings"
	"time"
)

// GetLocationForTZ resolves a timezone name to a *time.Location. Supports "Local", "UTC", and IANA TZ names.
// Empty and unknown names resolve to UTC.
func GetLocationForTZ(name string) *time.Location {
	tzName := strings.TrimSpace(name)
	switch strings.ToUpper(tzName) {
	case "", "UTC":
		return time.UTC
	case "LOCAL":
		return time.Local
	default:
		if l, err := time.LoadLocation(tzName); err == nil {
			return l
		}
		return time.UTC
	}
}

// ClockLabel renders Unix seconds as HH:MM:SS in loc, as used for axis tics.
func ClockLabel(unix int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(unix, 0).In(loc).Format("15:04:05")
}
