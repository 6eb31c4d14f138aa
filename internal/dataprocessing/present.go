package dataprocessing

import (
	"time"
	_ "time/tzdata"

	"tradepulse/pkg/contracts/domain"
)

const (
	// DefaultTimezone is both where broker exports are recorded and where
	// dates are shown
	DefaultTimezone = "Asia/Tokyo"

	// DisplayDateLayout matches the ja-JP short date, e.g. 2024/3/15
	DisplayDateLayout = "2006/1/2"
)

// TokyoLocation returns Asia/Tokyo, falling back to a fixed +09:00 zone
func TokyoLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// LoadLocation resolves a timezone name, defaulting to Asia/Tokyo when empty
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return TokyoLocation(), nil
	}
	return time.LoadLocation(name)
}

// FormatDateRange renders the summary's first and last trade as dates in loc
func FormatDateRange(summary domain.Summary, loc *time.Location) domain.DateRange {
	if loc == nil {
		loc = TokyoLocation()
	}
	return domain.DateRange{
		Start: formatDisplayDate(summary.StartTime, loc),
		End:   formatDisplayDate(summary.EndTime, loc),
	}
}

func formatDisplayDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(DisplayDateLayout)
}
