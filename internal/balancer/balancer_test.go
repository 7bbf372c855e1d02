package balancer

import (
	"testing"
	"time"

	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/models"
)

// Monday March 2 2026, 08:00 UTC.
var balNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func at(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, time.UTC)
}

func TestBalance_EmptyScheduleIsExcellent(t *testing.T) {
	cfg := config.Default()
	report := Balance(nil, nil, "u1", balNow, 7, 5, cfg, time.UTC)
	if report.Verdict != VerdictExcellent {
		t.Errorf("verdict = %s, want excellent", report.Verdict)
	}
	if len(report.Actions) != 0 {
		t.Errorf("nothing to do on an empty schedule, got %d actions", len(report.Actions))
	}
}

func TestBalance_PlacesSessionsForAtRiskItem(t *testing.T) {
	cfg := config.Default()
	due := at(4, 12, 0)
	item := models.WorkItem{ID: "w1", UserID: "u1", Title: "Essay", DueAt: &due, EffortEstimate: 180}
	report := Balance(nil, []models.WorkItem{item}, "u1", balNow, 7, 7, cfg, time.UTC)

	var adds []Action
	for _, a := range report.Actions {
		if a.Type == ActionAddBlock {
			adds = append(adds, a)
		}
	}
	if len(adds) == 0 {
		t.Fatal("expected study sessions for the at-risk item")
	}

	placed := 0
	for _, a := range adds {
		placed += a.DurationMin
		if a.DurationMin > cfg.MaxChunkMinutes {
			t.Errorf("chunk of %dm exceeds the %dm cap", a.DurationMin, cfg.MaxChunkMinutes)
		}
		if a.ChurnCost != 0 {
			t.Errorf("added sessions carry no churn, got %v", a.ChurnCost)
		}
		if a.WorkItemID == nil || *a.WorkItemID != "w1" {
			t.Errorf("session not linked to the work item: %+v", a)
		}
	}
	if placed < 180 {
		t.Errorf("placed %dm, want the full 180m deficit covered", placed)
	}
}

func TestBalance_PlacedChunksDoNotOverlap(t *testing.T) {
	cfg := config.Default()
	due := at(5, 12, 0)
	item := models.WorkItem{ID: "w1", UserID: "u1", Title: "Project", DueAt: &due, EffortEstimate: 360}
	report := Balance(nil, []models.WorkItem{item}, "u1", balNow, 7, 7, cfg, time.UTC)

	var adds []Action
	for _, a := range report.Actions {
		if a.Type == ActionAddBlock {
			adds = append(adds, a)
		}
	}
	for i := 0; i < len(adds); i++ {
		for j := i + 1; j < len(adds); j++ {
			if adds[i].Start.Before(adds[j].End) && adds[j].Start.Before(adds[i].End) {
				t.Errorf("placed sessions overlap: %v-%v and %v-%v",
					adds[i].Start, adds[i].End, adds[j].Start, adds[j].End)
			}
		}
	}
}

func TestBalance_MovesBlockOffOverloadedDay(t *testing.T) {
	cfg := config.Default()
	events := []models.CalendarEvent{
		{ID: "f1", UserID: "u1", Title: "Deep work", StartAt: at(2, 9, 0), EndAt: at(2, 13, 0), Type: models.EventFocus, Movable: true},
		{ID: "f2", UserID: "u1", Title: "More deep work", StartAt: at(2, 14, 0), EndAt: at(2, 17, 30), Type: models.EventFocus, Movable: true},
	}
	report := Balance(events, nil, "u1", balNow, 7, 5, cfg, time.UTC)

	var move *Action
	for i := range report.Actions {
		if report.Actions[i].Type == ActionMoveBlock {
			move = &report.Actions[i]
		}
	}
	if move == nil {
		t.Fatal("expected a move off the 450-minute day")
	}
	if move.EventID == nil || *move.EventID != "f2" {
		t.Errorf("the chronologically last movable block should move, got %+v", move.EventID)
	}
	if move.Start.Format("2006-01-02") == "2026-03-02" {
		t.Error("moved block landed back on the overloaded day")
	}
	wantChurn := float64(2 * 210)
	if move.ChurnCost != wantChurn {
		t.Errorf("move churn = %v, want %v", move.ChurnCost, wantChurn)
	}
}

func TestBalance_MoveOffConflictedDayNotesResolution(t *testing.T) {
	cfg := config.Default()
	// 450 focus minutes on March 2 with the two blocks overlapping, so
	// the relocated block is also party to an overlap conflict.
	events := []models.CalendarEvent{
		{ID: "f1", UserID: "u1", Title: "Deep work", StartAt: at(2, 9, 0), EndAt: at(2, 13, 0), Type: models.EventFocus, Movable: true},
		{ID: "f2", UserID: "u1", Title: "More deep work", StartAt: at(2, 12, 30), EndAt: at(2, 16, 0), Type: models.EventFocus, Movable: true},
	}
	report := Balance(events, nil, "u1", balNow, 7, 5, cfg, time.UTC)

	var move *Action
	for i := range report.Actions {
		if report.Actions[i].Type == ActionMoveBlock {
			move = &report.Actions[i]
		}
	}
	if move == nil {
		t.Fatal("expected a move off the overloaded day")
	}
	has := func(code models.ReasonCode) bool {
		for _, c := range move.ReasonCodes {
			if c == code {
				return true
			}
		}
		return false
	}
	if !has(models.ReasonRedistributeLoad) {
		t.Errorf("move reason codes %v lack %s", move.ReasonCodes, models.ReasonRedistributeLoad)
	}
	if !has(models.ReasonResolvesConflict) {
		t.Errorf("move reason codes %v lack %s", move.ReasonCodes, models.ReasonResolvesConflict)
	}
}

func TestBalance_DeficiencyWhenNothingFits(t *testing.T) {
	cfg := config.Default()
	due := balNow.Add(20 * time.Hour)
	item := models.WorkItem{ID: "w1", UserID: "u1", Title: "Cram", DueAt: &due, EffortEstimate: 300}
	// Due in 20h with the placement window ending a full day before the
	// deadline: no slot can exist.
	report := Balance(nil, []models.WorkItem{item}, "u1", balNow, 7, 5, cfg, time.UTC)
	if len(report.Deficiencies) == 0 {
		t.Fatal("expected a deficiency note when the deficit cannot be placed")
	}
	d := report.Deficiencies[0]
	if d.Code != models.ReasonNoViableSlot {
		t.Errorf("deficiency code = %s, want %s", d.Code, models.ReasonNoViableSlot)
	}
	if d.WorkItemID != "w1" {
		t.Errorf("deficiency item = %s, want w1", d.WorkItemID)
	}
	if report.Verdict != VerdictCritical {
		t.Errorf("verdict = %s, want critical for an unplaceable same-day deficit", report.Verdict)
	}
}

func TestVerdict_Bands(t *testing.T) {
	risk := func(level models.RiskLevel) models.CrammingRisk {
		return models.CrammingRisk{RiskLevel: level}
	}
	tests := []struct {
		name string
		a    models.WorkloadAnalysis
		want Verdict
	}{
		{"clean", models.WorkloadAnalysis{}, VerdictExcellent},
		{"critical risk", models.WorkloadAnalysis{CrammingRisks: []models.CrammingRisk{risk(models.RiskCritical)}}, VerdictCritical},
		{"two highs", models.WorkloadAnalysis{CrammingRisks: []models.CrammingRisk{risk(models.RiskHigh), risk(models.RiskHigh)}}, VerdictPoor},
		{"many overloaded days", models.WorkloadAnalysis{OverloadedDays: []string{"a", "b", "c"}}, VerdictPoor},
		{"one high", models.WorkloadAnalysis{CrammingRisks: []models.CrammingRisk{risk(models.RiskHigh)}}, VerdictFair},
		{"one overloaded day", models.WorkloadAnalysis{OverloadedDays: []string{"a"}}, VerdictFair},
		{"low risk only", models.WorkloadAnalysis{CrammingRisks: []models.CrammingRisk{risk(models.RiskMedium)}}, VerdictGood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := verdict(tt.a); got != tt.want {
				t.Errorf("verdict = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSortActions_AddsBeforeMoves(t *testing.T) {
	actions := []Action{
		{Type: ActionMoveBlock, Start: at(2, 9, 0)},
		{Type: ActionAddBlock, Start: at(3, 9, 0)},
		{Type: ActionAddBlock, Start: at(2, 10, 0)},
	}
	SortActions(actions)
	if actions[0].Type != ActionAddBlock || !actions[0].Start.Equal(at(2, 10, 0)) {
		t.Errorf("earliest add first, got %+v", actions[0])
	}
	if actions[2].Type != ActionMoveBlock {
		t.Errorf("moves sort after adds, got %+v", actions[2])
	}
}
