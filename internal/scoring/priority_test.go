package scoring

import (
	"testing"
	"time"

	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/models"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func itemDueIn(hours float64) models.WorkItem {
	due := testNow.Add(time.Duration(hours * float64(time.Hour)))
	return models.WorkItem{ID: "w1", Title: "Final paper", DueAt: &due, EffortEstimate: 120}
}

func TestUrgency_Bands(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		name  string
		hours float64
		want  float64
	}{
		{"overdue", -5, 1.0},
		{"critical", 12, 1.0},
		{"urgent", 48, 0.8},
		{"moderate", 120, 0.5},
		{"one week past moderate", (7 + 7) * 24, 0.4},
		{"far future floors at 0.1", 90 * 24, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Urgency(itemDueIn(tt.hours), testNow, cfg)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Urgency(due in %vh) = %v, want %v", tt.hours, got, tt.want)
			}
		})
	}
}

func TestUrgency_NoDueDate(t *testing.T) {
	cfg := config.Default()
	got := Urgency(models.WorkItem{Title: "Side project"}, testNow, cfg)
	if got != 0.3 {
		t.Errorf("undated item urgency = %v, want 0.3", got)
	}
}

func TestUrgency_MonotonicInDueDate(t *testing.T) {
	cfg := config.Default()
	prev := 2.0
	for hours := 1.0; hours < 60*24; hours += 6 {
		got := Urgency(itemDueIn(hours), testNow, cfg)
		if got > prev {
			t.Fatalf("urgency increased from %v to %v at %vh out", prev, got, hours)
		}
		prev = got
	}
}

func TestImpact_GradeWeightBands(t *testing.T) {
	tests := []struct {
		weight float64
		want   float64
	}{
		{2, 0.2},
		{7, 0.4},
		{15, 0.6},
		{25, 0.8},
		{40, 1.0},
	}
	for _, tt := range tests {
		w := tt.weight
		got := Impact(models.WorkItem{GradeWeight: &w})
		if got != tt.want {
			t.Errorf("Impact(weight=%v) = %v, want %v", tt.weight, got, tt.want)
		}
	}
	if got := Impact(models.WorkItem{}); got != 0.5 {
		t.Errorf("Impact(no weight) = %v, want 0.5", got)
	}
}

func TestEnergyFit_BandsAndTypes(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		name     string
		taskType models.TaskType
		energy   int
		want     float64
	}{
		{"high energy deep work", models.TaskTypeFocus, 9, 1.0},
		{"low energy deep work", models.TaskTypeFocus, 2, 0.2},
		{"low energy chill", models.TaskTypeChill, 2, 1.0},
		{"medium energy admin", models.TaskTypeAdmin, 5, 1.0},
		{"band boundary low", models.TaskTypeLight, 3, 0.8},
		{"band boundary high", models.TaskTypeAdmin, 7, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnergyFit(tt.taskType, tt.energy, cfg); got != tt.want {
				t.Errorf("EnergyFit(%s, %d) = %v, want %v", tt.taskType, tt.energy, got, tt.want)
			}
		})
	}
}

func TestFriction(t *testing.T) {
	if got := Friction(models.TaskTypeFocus, "cs101", nil); got != 0 {
		t.Errorf("no previous context should be frictionless, got %v", got)
	}
	prev := &Context{TaskType: models.TaskTypeAdmin, CourseID: "math201"}
	if got := Friction(models.TaskTypeFocus, "cs101", prev); got != 0.3 {
		t.Errorf("course switch friction = %v, want 0.3", got)
	}
	prev = &Context{TaskType: models.TaskTypeAdmin, CourseID: "cs101"}
	if got := Friction(models.TaskTypeFocus, "cs101", prev); got != 0.15 {
		t.Errorf("type switch friction = %v, want 0.15", got)
	}
	prev = &Context{TaskType: models.TaskTypeFocus, CourseID: "cs101"}
	if got := Friction(models.TaskTypeFocus, "cs101", prev); got != 0.05 {
		t.Errorf("same-context friction = %v, want 0.05", got)
	}
}

func TestInferTaskType(t *testing.T) {
	tests := []struct {
		title string
		want  models.TaskType
	}{
		{"CS exam prep", models.TaskTypeFocus},
		{"Weekly reading ch. 4", models.TaskTypeAdmin},
		{"Participation post", models.TaskTypeLight},
		{"Something unrecognizable", models.TaskTypeFocus},
	}
	for _, tt := range tests {
		got := InferTaskType(models.WorkItem{Title: tt.title})
		if got != tt.want {
			t.Errorf("InferTaskType(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestScore_TotalWithinUnitInterval(t *testing.T) {
	cfg := config.Default()
	weight := 50.0
	item := itemDueIn(6)
	item.GradeWeight = &weight
	for energy := 1; energy <= 10; energy++ {
		s := Score(item, energy, nil, testNow, cfg)
		if s.Total < 0 || s.Total > 1 {
			t.Errorf("total %v out of [0,1] at energy %d", s.Total, energy)
		}
	}
}

func TestScore_FrictionLowersTotal(t *testing.T) {
	cfg := config.Default()
	item := itemDueIn(48)
	item.CourseID = "cs101"
	base := Score(item, 8, nil, testNow, cfg)
	switched := Score(item, 8, &Context{TaskType: models.TaskTypeAdmin, CourseID: "math201"}, testNow, cfg)
	if switched.Total >= base.Total {
		t.Errorf("context switch should lower the total: %v >= %v", switched.Total, base.Total)
	}
}
