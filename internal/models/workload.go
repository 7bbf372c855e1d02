package models

import "time"

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// CrammingRisk is the per-assignment deficit between estimated effort and
// minutes actually scheduled against it, banded by days until due.
type CrammingRisk struct {
	WorkItemID   string    `json:"work_item_id"`
	Title        string    `json:"title"`
	DueAt        time.Time `json:"due_at"`
	DaysUntilDue float64   `json:"days_until_due"`
	EffortMin    int       `json:"effort_min"`
	ScheduledMin int       `json:"scheduled_min"`
	DeficitMin   int       `json:"deficit_min"`
	RiskLevel    RiskLevel `json:"risk_level"`
}

type PeakDay struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Minutes int     `json:"minutes"`
	Share   float64 `json:"share"` // fraction of total focus load
}

type WorkloadAnalysis struct {
	DailyLoad         map[string]int `json:"daily_load"` // date -> focus minutes
	WeeklyAverageMin  float64        `json:"weekly_average_min"`
	PeakDays          []PeakDay      `json:"peak_days"`
	CrammingRisks     []CrammingRisk `json:"cramming_risks"`
	OverloadedDays    []string       `json:"overloaded_days"`
	UnderutilizedDays []string       `json:"underutilized_days"`
	Recommendations   []string       `json:"recommendations"`
}
