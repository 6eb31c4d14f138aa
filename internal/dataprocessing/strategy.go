package dataprocessing

import (
	"sort"

	"tradepulse/pkg/contracts/domain"
)

// Ranked is any bucket carrying win/loss counters
type Ranked interface {
	Stats() domain.WinLoss
}

// RankingRules is a minimum-sample floor and a result cap
type RankingRules struct {
	MinTotal int `yaml:"min_total" json:"min_total" validate:"min=1"`
	Limit    int `yaml:"limit" json:"limit" validate:"min=1"`
}

var (
	// StrategyRules select the dashboard's top/worst hours
	StrategyRules = RankingRules{MinTotal: 5, Limit: 3}
	// ReportHourRules select the exported report's top/worst hours
	ReportHourRules = RankingRules{MinTotal: 5, Limit: 5}
	// ReportDateRules select the exported report's best dates
	ReportDateRules = RankingRules{MinTotal: 3, Limit: 5}
)

// SelectTop returns up to rules.Limit buckets with at least rules.MinTotal
// trades, highest win rate first. Ties keep input order.
func SelectTop[T Ranked](items []T, rules RankingRules) []T {
	return selectRanked(items, rules, func(a, b float64) bool { return a > b })
}

// SelectWorst is SelectTop with the lowest win rate first
func SelectWorst[T Ranked](items []T, rules RankingRules) []T {
	return selectRanked(items, rules, func(a, b float64) bool { return a < b })
}

func selectRanked[T Ranked](items []T, rules RankingRules, before func(a, b float64) bool) []T {
	eligible := make([]T, 0, len(items))
	for _, item := range items {
		if item.Stats().Total >= rules.MinTotal {
			eligible = append(eligible, item)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return before(eligible[i].Stats().WinRate, eligible[j].Stats().WinRate)
	})

	if rules.Limit >= 0 && len(eligible) > rules.Limit {
		eligible = eligible[:rules.Limit]
	}
	return eligible
}

// RankHours builds the top and worst hour lists from the raw hourly buckets
func RankHours(hourly []domain.HourlyStats, rules RankingRules) domain.Strategy {
	return domain.Strategy{
		TopHours:   SelectTop(hourly, rules),
		WorstHours: SelectWorst(hourly, rules),
	}
}

// RankDates returns the best dates from the raw per-date buckets
func RankDates(dates []domain.DateStats, rules RankingRules) []domain.DateStats {
	return SelectTop(dates, rules)
}
