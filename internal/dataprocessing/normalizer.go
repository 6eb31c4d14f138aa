package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tradepulse/pkg/contracts/domain"
)

const (
	// TimestampLayout is the canonical timestamp form used for grouping
	TimestampLayout = "2006-01-02 15:04:05"
	// DateLayout is the date-only bucket key form
	DateLayout = "2006-01-02"

	defaultTime = "00:00:00"
	defaultHour = "00"

	// two-digit years are invalid
	minYear = 1000
)

// spreadsheet exports wrap dates as ="15/03/2024 09:05"
var dateArtifacts = strings.NewReplacer("=", "", `"`, "")

// NormalizedDate is the canonical form of one trade's date text
type NormalizedDate struct {
	Timestamp string
	Date      string
	Time      string
	Hour      string
	// TimeValid is false when the time component was present but unreadable.
	// Hour still comes from a readable first segment and is "00" otherwise.
	TimeValid bool
}

// NormalizeDate reads day/month/year date text with an optional time.
// An unreadable date is an *InvalidDateError; an unreadable time only
// clears TimeValid.
func NormalizeDate(text string) (NormalizedDate, error) {
	clean := strings.TrimSpace(dateArtifacts.Replace(text))
	datePart, timePart, _ := strings.Cut(clean, " ")

	date, ok := canonicalDate(datePart)
	if !ok {
		return NormalizedDate{}, &InvalidDateError{Text: text}
	}

	nd := NormalizedDate{
		Date:      date,
		Time:      defaultTime,
		Hour:      defaultHour,
		TimeValid: true,
	}

	// anything after the time, such as a zone offset, is ignored
	timePart, _, _ = strings.Cut(strings.TrimSpace(timePart), " ")
	if timePart != "" {
		nd.Time, nd.Hour, nd.TimeValid = canonicalTime(timePart)
	}

	nd.Timestamp = nd.Date + " " + nd.Time
	return nd, nil
}

// Normalize attaches the canonical timestamp and buckets to a trade.
// The instant is the civil timestamp read in loc.
func Normalize(trade domain.RawTrade, loc *time.Location) (domain.NormalizedTrade, error) {
	nd, err := NormalizeDate(trade.DateText)
	if err != nil {
		return domain.NormalizedTrade{}, err
	}

	nt := domain.NormalizedTrade{
		RawTrade:       trade,
		Timestamp:      nd.Timestamp,
		Date:           nd.Date,
		Hour:           nd.Hour,
		TimestampValid: nd.TimeValid,
	}

	if nd.TimeValid {
		instant, err := time.ParseInLocation(TimestampLayout, nd.Timestamp, loc)
		if err != nil {
			nt.TimestampValid = false
		} else {
			nt.Instant = instant
		}
	}

	return nt, nil
}

func canonicalDate(s string) (string, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return "", false
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if year < minYear {
		return "", false
	}
	date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", false
	}
	return date, true
}

// canonicalTime pads h[:m[:s]] to HH:mm:ss. The hour is kept whenever the
// first segment is readable, even if a later one is not.
func canonicalTime(s string) (clock string, hour string, ok bool) {
	segs := strings.Split(s, ":")

	hour = defaultHour
	if h, err := strconv.Atoi(strings.TrimSpace(segs[0])); err == nil && h >= 0 && h <= 23 {
		hour = fmt.Sprintf("%02d", h)
	}

	if len(segs) > 3 {
		return padSegments(segs), hour, false
	}

	limits := []int{23, 59, 59}
	vals := []int{0, 0, 0}
	for i, seg := range segs {
		n, err := strconv.Atoi(strings.TrimSpace(seg))
		if err != nil || n < 0 || n > limits[i] {
			return padSegments(segs), hour, false
		}
		vals[i] = n
	}

	return fmt.Sprintf("%02d:%02d:%02d", vals[0], vals[1], vals[2]), hour, true
}

func padSegments(segs []string) string {
	out := make([]string, len(segs))
	for i, seg := range segs {
		seg = strings.TrimSpace(seg)
		if len(seg) < 2 {
			seg = strings.Repeat("0", 2-len(seg)) + seg
		}
		out[i] = seg
	}
	return strings.Join(out, ":")
}
