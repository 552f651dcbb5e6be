// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package models

// AlertStats holds unresolved alert counts grouped by severity. Severity
// keys keep their persisted capitalization; absent severities are zero.
type AlertStats struct {
	Critical int64 `json:"Critical"`
	High     int64 `json:"High"`
	Medium   int64 `json:"Medium"`
	Low      int64 `json:"Low"`
	Total    int64 `json:"total"`
}

// Add records count unresolved alerts of the given severity.
func (s *AlertStats) Add(severity Severity, count int64) {
	switch severity {
	case SeverityCritical:
		s.Critical += count
	case SeverityHigh:
		s.High += count
	case SeverityMedium:
		s.Medium += count
	case SeverityLow:
		s.Low += count
	}
	s.Total += count
}

// ToMap renders the stats as the severity map the dashboard consumes.
func (s *AlertStats) ToMap() map[string]int64 {
	return map[string]int64{
		"Critical": s.Critical,
		"High":     s.High,
		"Medium":   s.Medium,
		"Low":      s.Low,
		"total":    s.Total,
	}
}

// DashboardStats aggregates the numbers shown on the dashboard.
type DashboardStats struct {
	TotalLogs        int64            `json:"total_logs"`
	AlertsBySeverity map[string]int64 `json:"alerts_by_severity"`
	RecentAlerts     []Alert          `json:"recent_alerts"`
	TotalAlerts      int64            `json:"total_alerts"`
}
