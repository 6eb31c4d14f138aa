package exporter

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is shown for ratios that have no value
const Placeholder = "-"

var yenPrinter = message.NewPrinter(language.Japanese)

// FormatYen renders v as whole yen with grouping, e.g. ¥59,100 or -¥1,000
func FormatYen(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-¥" + yenPrinter.Sprintf("%d", -n)
	}
	return "¥" + yenPrinter.Sprintf("%d", n)
}

// FormatSignedYen is FormatYen with an explicit plus sign for gains
func FormatSignedYen(v float64) string {
	if math.Round(v) > 0 {
		return "+" + FormatYen(v)
	}
	return FormatYen(v)
}

// FormatOptionalYen renders a nil ratio as Placeholder
func FormatOptionalYen(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return FormatYen(*v)
}

// FormatPercent renders a rate with two decimals, e.g. 66.67%
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatOptionalPercent renders a nil rate as Placeholder
func FormatOptionalPercent(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return FormatPercent(*v)
}

// FormatJapaneseDate renders t in loc as YYYY年M月D日
func FormatJapaneseDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

// formatFloat formats a float for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatWhole formats an amount for CSV output without decimals
func formatWhole(f float64) string {
	return strconv.FormatFloat(math.Round(f), 'f', 0, 64)
}
