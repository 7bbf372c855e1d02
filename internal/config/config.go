// Package config defines the heuristic parameter set every scoring
// component consumes. A HeuristicConfig is loaded once per scoring run and
// never mutated mid-run; components receive it explicitly rather than
// reading a global.
package config

import (
	"fmt"

	"github.com/studyloop/cadence/internal/errs"
)

// HeuristicConfig is the versioned contract surface for every formula in
// the engine.
type HeuristicConfig struct {
	Version int

	// Priority weights; conceptually sum to 1.
	UrgencyWeight   float64
	ImpactWeight    float64
	EnergyFitWeight float64
	FrictionWeight  float64

	// Urgency day thresholds, strictly ordered.
	CriticalDays float64
	UrgentDays   float64
	ModerateDays float64

	// Energy bands over the 1-10 self-reported scale.
	LowEnergyMax  int // energy <= LowEnergyMax is the low band
	HighEnergyMin int // energy >= HighEnergyMin is the high band

	// Rest and transition constants.
	DeepWorkMinRestHours float64
	TransitionBufferMin  int

	// Sleep protection window, local hours. Start > End means the window
	// crosses midnight (e.g. 23 -> 7).
	SleepStartHour int
	SleepEndHour   int

	// Churn limits per day.
	MaxDailyChurnMoves   int
	MaxDailyChurnMinutes int

	// Time-of-day bucket boundaries, local hours.
	MorningStartHour   int
	AfternoonStartHour int
	EveningStartHour   int
	NightStartHour     int

	// Chunking.
	MaxChunkMinutes  int
	MinChunkGapHours float64

	// Optimization targets.
	TargetDailyFocusMin int
	MaxDailyFocusMin    int
	MinSlotMinutes      int
	LookaheadDays       int

	// Weekend handling.
	WeekendMultiplier float64 // scales time-of-day fit on weekends
	WeekendPenalty    int     // subtracted from slot quality score

	// Undo eligibility window after apply.
	UndoRetentionMinutes int
}

// Default returns the tuned parameter set the engine ships with.
func Default() HeuristicConfig {
	return HeuristicConfig{
		Version: 1,

		UrgencyWeight:   0.40,
		ImpactWeight:    0.25,
		EnergyFitWeight: 0.25,
		FrictionWeight:  0.10,

		CriticalDays: 1,
		UrgentDays:   3,
		ModerateDays: 7,

		LowEnergyMax:  3,
		HighEnergyMin: 7,

		DeepWorkMinRestHours: 1,
		TransitionBufferMin:  15,

		SleepStartHour: 23,
		SleepEndHour:   7,

		MaxDailyChurnMoves:   4,
		MaxDailyChurnMinutes: 240,

		MorningStartHour:   6,
		AfternoonStartHour: 12,
		EveningStartHour:   17,
		NightStartHour:     21,

		MaxChunkMinutes:  120,
		MinChunkGapHours: 3,

		TargetDailyFocusMin: 240,
		MaxDailyFocusMin:    360,
		MinSlotMinutes:      30,
		LookaheadDays:       7,

		WeekendMultiplier: 0.8,
		WeekendPenalty:    1,

		UndoRetentionMinutes: 30,
	}
}

// Validate checks the ordering invariants every formula depends on. A
// failure wraps errs.ErrConfiguration.
func (c HeuristicConfig) Validate() error {
	if !(c.CriticalDays < c.UrgentDays && c.UrgentDays < c.ModerateDays) {
		return fmt.Errorf("%w: urgency thresholds must satisfy critical < urgent < moderate (got %v, %v, %v)",
			errs.ErrConfiguration, c.CriticalDays, c.UrgentDays, c.ModerateDays)
	}
	if c.LowEnergyMax >= c.HighEnergyMin {
		return fmt.Errorf("%w: energy thresholds must satisfy low < high (got %d, %d)",
			errs.ErrConfiguration, c.LowEnergyMax, c.HighEnergyMin)
	}
	for _, h := range []int{c.SleepStartHour, c.SleepEndHour, c.MorningStartHour, c.AfternoonStartHour, c.EveningStartHour, c.NightStartHour} {
		if h < 0 || h > 23 {
			return fmt.Errorf("%w: hour boundaries must be within 0-23 (got %d)", errs.ErrConfiguration, h)
		}
	}
	if !(c.MorningStartHour < c.AfternoonStartHour && c.AfternoonStartHour < c.EveningStartHour && c.EveningStartHour < c.NightStartHour) {
		return fmt.Errorf("%w: time-of-day boundaries must be strictly increasing", errs.ErrConfiguration)
	}
	for name, w := range map[string]float64{
		"urgency": c.UrgencyWeight, "impact": c.ImpactWeight,
		"energy_fit": c.EnergyFitWeight, "friction": c.FrictionWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: %s weight must be within [0,1] (got %v)", errs.ErrConfiguration, name, w)
		}
	}
	if c.MinSlotMinutes <= 0 || c.MaxChunkMinutes <= 0 || c.LookaheadDays <= 0 {
		return fmt.Errorf("%w: slot, chunk and lookahead sizes must be positive", errs.ErrConfiguration)
	}
	if c.TargetDailyFocusMin > c.MaxDailyFocusMin {
		return fmt.Errorf("%w: target daily focus must not exceed the max (got %d > %d)",
			errs.ErrConfiguration, c.TargetDailyFocusMin, c.MaxDailyFocusMin)
	}
	if c.UndoRetentionMinutes <= 0 {
		return fmt.Errorf("%w: undo retention must be positive", errs.ErrConfiguration)
	}
	return nil
}
