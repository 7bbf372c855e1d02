package models

import "time"

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

type SlotQuality string

const (
	QualityOptimal    SlotQuality = "optimal"
	QualityGood       SlotQuality = "good"
	QualityAcceptable SlotQuality = "acceptable"
	QualityPoor       SlotQuality = "poor"
)

// FreeSlot is a derived, ephemeral gap in the calendar. Never persisted;
// recomputed per query.
type FreeSlot struct {
	StartAt      time.Time   `json:"start_at"`
	EndAt        time.Time   `json:"end_at"`
	DurationMin  int         `json:"duration_min"`
	TimeOfDay    TimeOfDay   `json:"time_of_day"`
	Weekend      bool        `json:"weekend"`
	EnergyFit    float64     `json:"energy_fit"`
	Quality      SlotQuality `json:"quality"`
	QualityScore int         `json:"quality_score"`
}

// SlotPreferences narrows a free-slot query.
type SlotPreferences struct {
	AvoidWeekends bool
	PreferredTime TimeOfDay // empty means no preference
}
