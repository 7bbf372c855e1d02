package analyzer

import (
	"testing"
	"time"

	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/models"
)

func linkedFocus(id, itemID string, start, end time.Time) models.CalendarEvent {
	ev := focusEvent(id, start, end)
	ev.WorkItemID = &itemID
	return ev
}

func TestAnalyzeWorkload_DailyLoadCountsOnlyFocus(t *testing.T) {
	cfg := config.Default()
	events := []models.CalendarEvent{
		focusEvent("f1", at(2, 10, 0), at(2, 12, 0)),
		focusEvent("f2", at(3, 9, 0), at(3, 10, 0)),
		{ID: "c", Title: "c", StartAt: at(2, 13, 0), EndAt: at(2, 15, 0), Type: models.EventClass},
	}
	a := AnalyzeWorkload(events, nil, slotNow, 7, cfg, time.UTC)
	if got := a.DailyLoad["2026-03-02"]; got != 120 {
		t.Errorf("Mar 2 load = %d, want 120 (class time must not count)", got)
	}
	if got := a.DailyLoad["2026-03-03"]; got != 60 {
		t.Errorf("Mar 3 load = %d, want 60", got)
	}
}

func TestAnalyzeWorkload_CrammingRiskBands(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		name      string
		dueHours  float64
		effort    int
		scheduled int
		want      models.RiskLevel
	}{
		{"due tomorrow nothing scheduled", 12, 180, 0, models.RiskCritical},
		{"due in 36h big deficit", 36, 180, 30, models.RiskHigh},
		{"due in 4 days big deficit", 4 * 24, 240, 30, models.RiskMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := slotNow.Add(time.Duration(tt.dueHours * float64(time.Hour)))
			item := models.WorkItem{ID: "w1", UserID: "u1", Title: "Essay", DueAt: &due, EffortEstimate: tt.effort}
			var events []models.CalendarEvent
			if tt.scheduled > 0 {
				events = append(events, linkedFocus("f", "w1",
					slotNow.Add(time.Hour), slotNow.Add(time.Hour+time.Duration(tt.scheduled)*time.Minute)))
			}
			a := AnalyzeWorkload(events, []models.WorkItem{item}, slotNow, 7, cfg, time.UTC)
			if len(a.CrammingRisks) != 1 {
				t.Fatalf("expected one risk, got %d", len(a.CrammingRisks))
			}
			r := a.CrammingRisks[0]
			if r.RiskLevel != tt.want {
				t.Errorf("risk = %s, want %s", r.RiskLevel, tt.want)
			}
			if r.DeficitMin != tt.effort-tt.scheduled {
				t.Errorf("deficit = %d, want %d", r.DeficitMin, tt.effort-tt.scheduled)
			}
		})
	}
}

func TestAnalyzeWorkload_FullyScheduledItemCarriesNoRisk(t *testing.T) {
	cfg := config.Default()
	due := slotNow.Add(24 * time.Hour)
	item := models.WorkItem{ID: "w1", UserID: "u1", Title: "Quiz prep", DueAt: &due, EffortEstimate: 120}
	events := []models.CalendarEvent{
		linkedFocus("f", "w1", slotNow.Add(time.Hour), slotNow.Add(3*time.Hour)),
	}
	a := AnalyzeWorkload(events, []models.WorkItem{item}, slotNow, 7, cfg, time.UTC)
	if len(a.CrammingRisks) != 0 {
		t.Errorf("fully scheduled item should carry no risk, got %v", a.CrammingRisks)
	}
}

func TestAnalyzeWorkload_OverloadedAndUnderutilizedDays(t *testing.T) {
	cfg := config.Default()
	due := slotNow.Add(6 * 24 * time.Hour)
	item := models.WorkItem{ID: "w1", UserID: "u1", Title: "Project", DueAt: &due, EffortEstimate: 600}
	events := []models.CalendarEvent{
		focusEvent("m1", at(2, 9, 30), at(2, 13, 30)),
		focusEvent("m2", at(2, 14, 0), at(2, 17, 0)), // 420 min on Mar 2
	}
	a := AnalyzeWorkload(events, []models.WorkItem{item}, slotNow, 7, cfg, time.UTC)

	foundOverload := false
	for _, d := range a.OverloadedDays {
		if d == "2026-03-02" {
			foundOverload = true
		}
	}
	if !foundOverload {
		t.Errorf("Mar 2 with 420 focus minutes should be overloaded, got %v", a.OverloadedDays)
	}
	if len(a.UnderutilizedDays) == 0 {
		t.Error("empty days with pending work should be underutilized")
	}
}

func TestAnalyzeWorkload_PeakDaysTopThree(t *testing.T) {
	cfg := config.Default()
	events := []models.CalendarEvent{
		focusEvent("a", at(2, 9, 0), at(2, 12, 0)),
		focusEvent("b", at(3, 9, 0), at(3, 11, 0)),
		focusEvent("c", at(4, 9, 0), at(4, 10, 0)),
		focusEvent("d", at(5, 9, 0), at(5, 9, 30)),
	}
	a := AnalyzeWorkload(events, nil, slotNow, 7, cfg, time.UTC)
	if len(a.PeakDays) != 3 {
		t.Fatalf("peak days capped at 3, got %d", len(a.PeakDays))
	}
	if a.PeakDays[0].Date != "2026-03-02" || a.PeakDays[0].Minutes != 180 {
		t.Errorf("heaviest day first, got %+v", a.PeakDays[0])
	}
}

func TestClassifyRisk_Boundaries(t *testing.T) {
	tests := []struct {
		days    float64
		deficit int
		want    models.RiskLevel
	}{
		{0.5, 61, models.RiskCritical},
		{0.5, 60, models.RiskLow},
		{1.5, 121, models.RiskHigh},
		{4, 181, models.RiskMedium},
		{6, 500, models.RiskLow},
	}
	for _, tt := range tests {
		if got := classifyRisk(tt.days, tt.deficit); got != tt.want {
			t.Errorf("classifyRisk(%v, %d) = %s, want %s", tt.days, tt.deficit, got, tt.want)
		}
	}
}
