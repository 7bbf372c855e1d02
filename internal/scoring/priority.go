// Package scoring computes per-item priority scores. All functions are
// pure over their inputs and the supplied config; time enters only through
// the caller's "now".
package scoring

import (
	"strings"
	"time"

	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/models"
	"github.com/studyloop/cadence/internal/utils"
)

// PriorityScore holds the component scores and the weighted total, each
// clamped to [0,1].
type PriorityScore struct {
	Urgency   float64         `json:"urgency"`
	Impact    float64         `json:"impact"`
	EnergyFit float64         `json:"energy_fit"`
	Friction  float64         `json:"friction"`
	Total     float64         `json:"total"`
	TaskType  models.TaskType `json:"task_type"`
}

// Context is the previously worked-on task, used for friction scoring.
type Context struct {
	TaskType models.TaskType
	CourseID string
}

// Score combines urgency, impact, energy fit and friction into one
// weighted priority for a work item at the given energy level (1-10).
func Score(item models.WorkItem, energyLevel int, prev *Context, now time.Time, cfg config.HeuristicConfig) PriorityScore {
	taskType := InferTaskType(item)
	s := PriorityScore{
		Urgency:   Urgency(item, now, cfg),
		Impact:    Impact(item),
		EnergyFit: EnergyFit(taskType, energyLevel, cfg),
		Friction:  Friction(taskType, item.CourseID, prev),
		TaskType:  taskType,
	}
	s.Total = utils.Clamp01(s.Urgency*cfg.UrgencyWeight +
		s.Impact*cfg.ImpactWeight +
		s.EnergyFit*cfg.EnergyFitWeight -
		s.Friction*cfg.FrictionWeight)
	return s
}

// Urgency maps days-until-due onto [0.1, 1.0]. Overdue and critical items
// saturate at 1.0; beyond the moderate threshold the score decays linearly
// from 0.5 by 0.1 per week toward a floor of 0.1. Items without a due date
// score a flat 0.3.
func Urgency(item models.WorkItem, now time.Time, cfg config.HeuristicConfig) float64 {
	days, ok := item.DaysUntilDue(now)
	if !ok {
		return 0.3
	}
	switch {
	case days < 0:
		return 1.0
	case days < cfg.CriticalDays:
		return 1.0
	case days < cfg.UrgentDays:
		return 0.8
	case days < cfg.ModerateDays:
		return 0.5
	default:
		weeksOut := (days - cfg.ModerateDays) / 7
		score := 0.5 - 0.1*weeksOut
		if score < 0.1 {
			return 0.1
		}
		return score
	}
}

// Impact bands the item's grade weight. Unknown weight defaults to 0.5.
func Impact(item models.WorkItem) float64 {
	if item.GradeWeight == nil {
		return 0.5
	}
	w := *item.GradeWeight
	if w < 0 {
		w = -w
	}
	switch {
	case w < 5:
		return 0.2
	case w < 10:
		return 0.4
	case w < 20:
		return 0.6
	case w < 30:
		return 0.8
	default:
		return 1.0
	}
}

// energyFitTable maps energy band x task type to a fit score. High energy
// favors deep focus; low energy favors light and chill work.
var energyFitTable = map[string]map[models.TaskType]float64{
	"high": {
		models.TaskTypeFocus: 1.0,
		models.TaskTypeAdmin: 0.7,
		models.TaskTypeLight: 0.5,
		models.TaskTypeChill: 0.3,
	},
	"medium": {
		models.TaskTypeFocus: 0.7,
		models.TaskTypeAdmin: 1.0,
		models.TaskTypeLight: 0.8,
		models.TaskTypeChill: 0.5,
	},
	"low": {
		models.TaskTypeFocus: 0.2,
		models.TaskTypeAdmin: 0.5,
		models.TaskTypeLight: 0.8,
		models.TaskTypeChill: 1.0,
	},
}

// EnergyBand buckets a 1-10 energy level into "low", "medium" or "high"
// using the config thresholds.
func EnergyBand(energyLevel int, cfg config.HeuristicConfig) string {
	if energyLevel <= cfg.LowEnergyMax {
		return "low"
	}
	if energyLevel >= cfg.HighEnergyMin {
		return "high"
	}
	return "medium"
}

// EnergyFit looks up how well a task type suits the reported energy level.
func EnergyFit(taskType models.TaskType, energyLevel int, cfg config.HeuristicConfig) float64 {
	band := EnergyBand(energyLevel, cfg)
	if fit, ok := energyFitTable[band][taskType]; ok {
		return fit
	}
	return energyFitTable[band][models.TaskTypeFocus]
}

// Friction scores the cost of context-switching from the previous task.
func Friction(taskType models.TaskType, courseID string, prev *Context) float64 {
	if prev == nil {
		return 0
	}
	if prev.CourseID != courseID {
		return 0.3
	}
	if prev.TaskType != taskType {
		return 0.15
	}
	return 0.05
}

var taskTypeKeywords = []struct {
	taskType models.TaskType
	words    []string
}{
	{models.TaskTypeFocus, []string{"exam", "midterm", "final", "paper", "essay", "project", "problem set", "pset", "lab report"}},
	{models.TaskTypeAdmin, []string{"reading", "quiz", "discussion", "worksheet", "review", "homework"}},
	{models.TaskTypeLight, []string{"participation", "attendance", "survey", "check-in"}},
}

// InferTaskType classifies a work item by title and category keywords.
// Unmatched items default to focus work.
func InferTaskType(item models.WorkItem) models.TaskType {
	haystack := strings.ToLower(item.Title + " " + item.Category)
	for _, entry := range taskTypeKeywords {
		for _, word := range entry.words {
			if strings.Contains(haystack, word) {
				return entry.taskType
			}
		}
	}
	return models.TaskTypeFocus
}
