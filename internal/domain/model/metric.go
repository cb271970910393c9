// Package model contains domain records passed between pipeline stages.
package model

import "fmt"

// Metric identifies one independently scanned leaderboard category.
type Metric string

// Known leaderboard categories.
const (
	MetricPower              Metric = "power"
	MetricKills              Metric = "kills"
	MetricWeeklyContribution Metric = "weekly_contribution"
	MetricConstruction       Metric = "construction"
	MetricTribeAssistance    Metric = "tribe_assistance"
)

// AllMetrics lists every known category in scan order.
func AllMetrics() []Metric {
	return []Metric{
		MetricPower,
		MetricKills,
		MetricWeeklyContribution,
		MetricConstruction,
		MetricTribeAssistance,
	}
}

// ParseMetric converts a config string into a Metric.
func ParseMetric(s string) (Metric, error) {
	for _, m := range AllMetrics() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric category: %q", s)
}
