package config

import (
	"errors"
	"testing"

	"github.com/studyloop/cadence/internal/errs"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestValidate_RejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*HeuristicConfig)
	}{
		{"urgency thresholds out of order", func(c *HeuristicConfig) { c.UrgentDays = 0.5 }},
		{"equal urgency thresholds", func(c *HeuristicConfig) { c.CriticalDays = c.UrgentDays }},
		{"energy bands overlap", func(c *HeuristicConfig) { c.LowEnergyMax = 8 }},
		{"hour out of range", func(c *HeuristicConfig) { c.SleepStartHour = 24 }},
		{"negative hour", func(c *HeuristicConfig) { c.MorningStartHour = -1 }},
		{"tod boundaries not increasing", func(c *HeuristicConfig) { c.EveningStartHour = c.AfternoonStartHour }},
		{"weight above one", func(c *HeuristicConfig) { c.UrgencyWeight = 1.2 }},
		{"negative weight", func(c *HeuristicConfig) { c.FrictionWeight = -0.1 }},
		{"zero min slot", func(c *HeuristicConfig) { c.MinSlotMinutes = 0 }},
		{"zero lookahead", func(c *HeuristicConfig) { c.LookaheadDays = 0 }},
		{"target above max focus", func(c *HeuristicConfig) { c.TargetDailyFocusMin = 400 }},
		{"zero undo retention", func(c *HeuristicConfig) { c.UndoRetentionMinutes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, errs.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got: %v", err)
			}
		})
	}
}

func TestValidate_MidnightCrossingSleepWindowAllowed(t *testing.T) {
	cfg := Default()
	cfg.SleepStartHour = 23
	cfg.SleepEndHour = 7
	if err := cfg.Validate(); err != nil {
		t.Fatalf("midnight-crossing sleep window should be valid, got: %v", err)
	}
}
