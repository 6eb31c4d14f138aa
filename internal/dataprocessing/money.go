package dataprocessing

import (
	"math"
	"regexp"
	"strconv"
)

var nonNumeric = regexp.MustCompile(`[^0-9.-]+`)

// ParseAmount reads currency text such as "¥1,000" or "1,950円".
// Empty or unreadable amounts are zero.
func ParseAmount(text string) float64 {
	cleaned := nonNumeric.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Profit is the signed result of a determined trade: the payout for a win,
// minus the purchase amount for a loss.
func Profit(win bool, purchase, payout string) float64 {
	if win {
		return ParseAmount(payout)
	}
	return -ParseAmount(purchase)
}
