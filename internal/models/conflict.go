package models

import "time"

type ConflictType string

const (
	ConflictOverlap       ConflictType = "overlap"
	ConflictViolatesRest  ConflictType = "violates_rest"
	ConflictViolatesSleep ConflictType = "violates_sleep"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Resolution is a candidate fix for a conflict: move one event to a new
// interval at a given churn cost. Resolutions that would land inside the
// sleep window are discarded before the conflict is surfaced.
type Resolution struct {
	EventID     string    `json:"event_id"`
	NewStart    time.Time `json:"new_start"`
	NewEnd      time.Time `json:"new_end"`
	ChurnCost   float64   `json:"churn_cost"`
	Description string    `json:"description"`
}

type Conflict struct {
	Type        ConflictType `json:"type"`
	Severity    Severity     `json:"severity"`
	EventIDs    []string     `json:"event_ids"`
	Description string       `json:"description"`
	Resolutions []Resolution `json:"resolutions,omitempty"`
}
