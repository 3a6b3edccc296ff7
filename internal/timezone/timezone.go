package timezone

import (
	"time"
	_ "time/tzdata"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location is where times are shown. Unknown names fall back to UTC.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

// Clock is the now function injected into use cases. It is always UTC so
// stored timestamps compare correctly whatever the display zone is.
func Clock() time.Time {
	return time.Now().UTC()
}
