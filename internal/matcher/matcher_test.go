package matcher

import (
	"testing"
	"time"

	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/models"
)

// Monday March 2 2026, 08:00 UTC.
var matchNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func at(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, time.UTC)
}

func focusFor(itemID string, start, end time.Time) models.CalendarEvent {
	return models.CalendarEvent{
		ID: "ev-" + start.Format("02-1504"), UserID: "u1", Title: "chunk",
		StartAt: start, EndAt: end, Type: models.EventFocus, Movable: true, WorkItemID: &itemID,
	}
}

func TestFindOptimalSlot_NoSlotsReturnsNil(t *testing.T) {
	cfg := config.Default()
	// Calendar fully booked during waking hours.
	var events []models.CalendarEvent
	for d := 2; d <= 9; d++ {
		events = append(events, models.CalendarEvent{
			ID: "busy", UserID: "u1", Title: "busy",
			StartAt: at(d, 7, 0), EndAt: at(d, 23, 0), Type: models.EventClass,
		})
	}
	block := models.BlockRequest{DurationMin: 60, Category: models.TaskTypeFocus}
	if m := FindOptimalSlot(block, events, nil, 5, matchNow, cfg, time.UTC, Options{}); m != nil {
		t.Errorf("expected nil match on a fully booked calendar, got %+v", m.Best)
	}
}

func TestFindOptimalSlot_AxesWithinBounds(t *testing.T) {
	cfg := config.Default()
	block := models.BlockRequest{DurationMin: 90, Category: models.TaskTypeFocus}
	m := FindOptimalSlot(block, nil, nil, 8, matchNow, cfg, time.UTC, Options{})
	if m == nil {
		t.Fatal("expected a match on an empty calendar")
	}
	s := m.Best
	if s.TimeOfDay < 0 || s.TimeOfDay > 25 {
		t.Errorf("time-of-day axis out of bounds: %v", s.TimeOfDay)
	}
	if s.Energy < 0 || s.Energy > 25 {
		t.Errorf("energy axis out of bounds: %v", s.Energy)
	}
	if s.Deadline < 0 || s.Deadline > 20 {
		t.Errorf("deadline axis out of bounds: %v", s.Deadline)
	}
	if s.Workload < 0 || s.Workload > 20 {
		t.Errorf("workload axis out of bounds: %v", s.Workload)
	}
	if s.ChunkGap < 0 || s.ChunkGap > 10 {
		t.Errorf("chunk-gap axis out of bounds: %v", s.ChunkGap)
	}
	if s.Total < 0 || s.Total > 100 {
		t.Errorf("total out of bounds: %v", s.Total)
	}
	if len(m.Alternatives) > 3 {
		t.Errorf("at most 3 alternatives, got %d", len(m.Alternatives))
	}
}

func TestFindOptimalSlot_HighEnergyFocusPrefersMorning(t *testing.T) {
	cfg := config.Default()
	block := models.BlockRequest{DurationMin: 60, Category: models.TaskTypeFocus}
	m := FindOptimalSlot(block, nil, nil, 9, matchNow, cfg, time.UTC, Options{LookaheadDays: 1})
	if m == nil {
		t.Fatal("expected a match")
	}
	if m.Best.Slot.TimeOfDay != models.Morning {
		t.Errorf("high-energy focus block should land in the morning, got %s", m.Best.Slot.TimeOfDay)
	}
}

func TestFindOptimalSlot_WindowEndsBeforeDueDate(t *testing.T) {
	cfg := config.Default()
	due := at(4, 12, 0)
	item := &models.WorkItem{ID: "w1", Title: "Essay", DueAt: &due, EffortEstimate: 120}
	block := models.BlockRequest{DurationMin: 60, Category: models.TaskTypeFocus, WorkItemID: &item.ID}
	m := FindOptimalSlot(block, nil, item, 7, matchNow, cfg, time.UTC, Options{})
	if m == nil {
		t.Fatal("expected a match")
	}
	latest := due.Add(-4 * time.Hour)
	check := func(s models.ScoredSlot) {
		if s.Slot.EndAt.After(latest) {
			t.Errorf("slot ending %v exceeds the due-date buffer %v", s.Slot.EndAt, latest)
		}
	}
	check(m.Best)
	for _, alt := range m.Alternatives {
		check(alt)
	}
}

func TestFindOptimalSlot_PastDueReturnsNil(t *testing.T) {
	cfg := config.Default()
	due := matchNow.Add(-time.Hour)
	item := &models.WorkItem{ID: "w1", Title: "Late", DueAt: &due}
	block := models.BlockRequest{DurationMin: 60, Category: models.TaskTypeFocus, WorkItemID: &item.ID}
	m := FindOptimalSlot(block, nil, item, 5, matchNow, cfg, time.UTC, Options{})
	if m == nil {
		return // also acceptable: window unchanged because due is not after now
	}
	// With the due date in the past the deadline axis must floor at 0.
	if m.Best.Deadline != 10 {
		t.Errorf("past-due items fall back to the undated neutral score, got %v", m.Best.Deadline)
	}
}

func TestChunkGapPoints(t *testing.T) {
	cfg := config.Default() // min gap 3h
	slot := models.FreeSlot{StartAt: at(2, 14, 0), EndAt: at(2, 15, 0)}

	if got := chunkGapPoints(slot, nil, cfg); got != 10 {
		t.Errorf("no chunks should score the neutral 10, got %v", got)
	}

	tooClose := []models.CalendarEvent{focusFor("w1", at(2, 12, 0), at(2, 13, 0))} // 1h gap
	if got := chunkGapPoints(slot, tooClose, cfg); got != 0 {
		t.Errorf("chunk within the minimum gap should zero the axis, got %v", got)
	}

	wellSpaced := []models.CalendarEvent{focusFor("w1", at(2, 2, 0), at(2, 5, 0))} // 9h gap
	got := chunkGapPoints(slot, wellSpaced, cfg)
	if got < 8 || got > 10 {
		t.Errorf("9h gap should score near the cap, got %v", got)
	}
}

func TestWorkloadPoints(t *testing.T) {
	cfg := config.Default() // target 240, max 360
	tests := []struct {
		load int
		want float64
	}{
		{0, 20},
		{59, 20},
		{100, 16},
		{150, 12},
		{250, 5},
		{360, 0},
		{500, 0},
	}
	for _, tt := range tests {
		if got := workloadPoints(tt.load, cfg); got != tt.want {
			t.Errorf("workloadPoints(%d) = %v, want %v", tt.load, got, tt.want)
		}
	}
}

func TestDeadlinePoints(t *testing.T) {
	due := at(5, 12, 0)
	tests := []struct {
		name  string
		start time.Time
		want  float64
	}{
		{"after due", at(5, 13, 0), 0},
		{"under half a day", at(5, 6, 0), 14},
		{"one to three days", at(3, 12, 30), 20},
		{"three to five days", at(1, 12, 0), 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deadlinePoints(tt.start, &due); got != tt.want {
				t.Errorf("deadlinePoints = %v, want %v", got, tt.want)
			}
		})
	}
	if got := deadlinePoints(at(2, 10, 0), nil); got != 10 {
		t.Errorf("no deadline should score the neutral 10, got %v", got)
	}
}

func TestFindOptimalSlot_ChunkViolationReasonCode(t *testing.T) {
	cfg := config.Default()
	itemID := "w1"
	// The only free space is 11:00-15:00, entirely within the 3h minimum
	// gap of the 9:00-11:00 sibling chunk.
	events := []models.CalendarEvent{
		focusFor(itemID, at(2, 9, 0), at(2, 11, 0)),
		{ID: "blk", UserID: "u1", Title: "blk", StartAt: at(2, 15, 0), EndAt: at(2, 23, 0), Type: models.EventClass},
	}
	block := models.BlockRequest{DurationMin: 60, Category: models.TaskTypeFocus, WorkItemID: &itemID}
	m := FindOptimalSlot(block, events, nil, 5, matchNow, cfg, time.UTC, Options{Until: at(2, 15, 0)})
	if m == nil {
		t.Fatal("expected a match")
	}
	if m.Best.ChunkGap != 0 {
		t.Errorf("slot adjacent to a sibling chunk should zero the gap axis, got %v", m.Best.ChunkGap)
	}
	found := false
	for _, c := range m.ReasonCodes {
		if c == models.ReasonViolatesChunkGaps {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a chunk-gap violation reason code, got %v", m.ReasonCodes)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		totals []float64
		want   models.Confidence
	}{
		{"single weak candidate", []float64{45}, models.ConfidenceLow},
		{"near tie", []float64{82, 80}, models.ConfidenceLow},
		{"clear winner", []float64{85, 60}, models.ConfidenceHigh},
		{"middling", []float64{70, 50}, models.ConfidenceMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scored := make([]models.ScoredSlot, len(tt.totals))
			for i, total := range tt.totals {
				scored[i].Total = total
			}
			if got := confidence(scored); got != tt.want {
				t.Errorf("confidence(%v) = %s, want %s", tt.totals, got, tt.want)
			}
		})
	}
}
