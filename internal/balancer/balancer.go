// Package balancer orchestrates the analyzer and matcher into a coherent
// set of balancing actions: sessions for at-risk assignments, moves off
// overloaded days, and fills for underused days.
package balancer

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/studyloop/cadence/internal/analyzer"
	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/matcher"
	"github.com/studyloop/cadence/internal/models"
	"github.com/studyloop/cadence/internal/scoring"
	"github.com/studyloop/cadence/internal/utils"
)

type ActionType string

const (
	ActionAddBlock    ActionType = "add_focus_block"
	ActionMoveBlock   ActionType = "move_focus_block"
	ActionRemoveBlock ActionType = "remove_focus_block"
)

type Verdict string

const (
	VerdictExcellent Verdict = "excellent"
	VerdictGood      Verdict = "good"
	VerdictFair      Verdict = "fair"
	VerdictPoor      Verdict = "poor"
	VerdictCritical  Verdict = "critical"
)

// Action is one concrete balancing step. Additions carry zero churn;
// moves cost twice the block duration.
type Action struct {
	Type          ActionType          `json:"type"`
	Title         string              `json:"title"`
	WorkItemID    *string             `json:"work_item_id,omitempty"`
	EventID       *string             `json:"event_id,omitempty"`
	Start         time.Time           `json:"start"`
	End           time.Time           `json:"end"`
	OriginalStart *time.Time          `json:"original_start,omitempty"`
	OriginalEnd   *time.Time          `json:"original_end,omitempty"`
	DurationMin   int                 `json:"duration_min"`
	ChurnCost     float64             `json:"churn_cost"`
	Reason        string              `json:"reason"`
	ReasonCodes   []models.ReasonCode `json:"reason_codes"`
	ChunkIndex    int                 `json:"chunk_index,omitempty"`
	ChunkTotal    int                 `json:"chunk_total,omitempty"`
}

// Deficiency records a need no action could satisfy, with the reason
// code explaining why.
type Deficiency struct {
	WorkItemID string            `json:"work_item_id"`
	Code       models.ReasonCode `json:"code"`
	Detail     string            `json:"detail"`
}

// Report is the balancer's full output. The verdict is descriptive only;
// it never gates actions.
type Report struct {
	Actions      []Action                `json:"actions"`
	Deficiencies []Deficiency            `json:"deficiencies,omitempty"`
	Verdict      Verdict                 `json:"verdict"`
	Analysis     models.WorkloadAnalysis `json:"analysis"`
}

// Balance synthesizes balancing actions in priority order: cramming risks
// first, then overloaded days, then underused days (the last only when
// cramming risk exists).
func Balance(events []models.CalendarEvent, items []models.WorkItem, userID string, now time.Time, lookaheadDays int, energyLevel int, cfg config.HeuristicConfig, loc *time.Location) Report {
	if lookaheadDays <= 0 {
		lookaheadDays = cfg.LookaheadDays
	}
	analysis := analyzer.AnalyzeWorkload(events, items, now, lookaheadDays, cfg, loc)
	report := Report{Analysis: analysis}

	itemsByID := make(map[string]models.WorkItem, len(items))
	for _, it := range items {
		itemsByID[it.ID] = it
	}

	// Working copy: placed sessions must be visible to later slot queries
	// so chunks spread out instead of stacking into the same gap.
	working := make([]models.CalendarEvent, len(events))
	copy(working, events)

	remaining := make(map[string]int, len(analysis.CrammingRisks))
	for _, risk := range analysis.CrammingRisks {
		remaining[risk.WorkItemID] = risk.DeficitMin
	}

	for _, risk := range analysis.CrammingRisks {
		item, ok := itemsByID[risk.WorkItemID]
		if !ok {
			continue
		}
		working = placeDeficit(&report, working, item, risk, remaining, energyLevel, lookaheadDays, now, cfg, loc)
	}

	working = relieveOverloadedDays(&report, working, itemsByID, energyLevel, lookaheadDays, now, cfg, loc)

	if len(analysis.CrammingRisks) > 0 {
		fillUnderusedDays(&report, working, itemsByID, remaining, energyLevel, now, cfg, loc)
	}

	report.Verdict = verdict(analysis)
	return report
}

// placeDeficit splits an item's deficit into capped blocks and slots each
// one before the deadline's safety margin. Unplaceable blocks surface as
// deficiency notes, never silent failures.
func placeDeficit(report *Report, working []models.CalendarEvent, item models.WorkItem, risk models.CrammingRisk, remaining map[string]int, energyLevel, lookaheadDays int, now time.Time, cfg config.HeuristicConfig, loc *time.Location) []models.CalendarEvent {
	deficit := remaining[item.ID]
	if deficit <= 0 {
		return working
	}
	until := risk.DueAt.AddDate(0, 0, -1)
	chunkTotal := (deficit + cfg.MaxChunkMinutes - 1) / cfg.MaxChunkMinutes
	taskType := scoring.InferTaskType(item)

	for chunk := 1; deficit > 0; chunk++ {
		dur := utils.ClampInt(deficit, cfg.MinSlotMinutes, cfg.MaxChunkMinutes)
		match := matcher.FindOptimalSlot(models.BlockRequest{
			DurationMin: dur,
			Category:    taskType,
			WorkItemID:  &item.ID,
			ChunkIndex:  chunk,
		}, working, &item, energyLevel, now, cfg, loc, matcher.Options{
			LookaheadDays: lookaheadDays,
			Until:         until,
		})
		if match == nil {
			report.Deficiencies = append(report.Deficiencies, Deficiency{
				WorkItemID: item.ID,
				Code:       models.ReasonNoViableSlot,
				Detail:     fmt.Sprintf("could not place %d remaining minutes for %q before %s", deficit, item.Title, risk.DueAt.In(loc).Format("Jan 2 15:04")),
			})
			break
		}
		start := match.Best.Slot.StartAt
		end := start.Add(time.Duration(dur) * time.Minute)
		codes := append([]models.ReasonCode{models.ReasonCrammingRisk}, match.ReasonCodes...)
		report.Actions = append(report.Actions, Action{
			Type:        ActionAddBlock,
			Title:       sessionTitle(item, chunk, chunkTotal),
			WorkItemID:  &item.ID,
			Start:       start,
			End:         end,
			DurationMin: dur,
			ChurnCost:   0,
			Reason:      fmt.Sprintf("%q is %d minutes short with %.1f days to go", item.Title, risk.DeficitMin, risk.DaysUntilDue),
			ReasonCodes: codes,
			ChunkIndex:  chunk,
			ChunkTotal:  chunkTotal,
		})
		working = append(working, plannedEvent(item, start, end, chunk, chunkTotal))
		deficit -= dur
		remaining[item.ID] = deficit
	}
	return working
}

// relieveOverloadedDays re-slots the chronologically last movable focus
// block on each overloaded day. The choice is deliberately not
// priority-aware; it is the simplest stable heuristic and is pinned by
// tests.
func relieveOverloadedDays(report *Report, working []models.CalendarEvent, itemsByID map[string]models.WorkItem, energyLevel, lookaheadDays int, now time.Time, cfg config.HeuristicConfig, loc *time.Location) []models.CalendarEvent {
	// Events already in a detected conflict: moving one of them off the
	// day also clears that conflict, which the move's reason codes note.
	conflicted := make(map[string]bool)
	for _, c := range analyzer.DetectConflicts(working, cfg, loc) {
		for _, id := range c.EventIDs {
			conflicted[id] = true
		}
	}

	for _, day := range report.Analysis.OverloadedDays {
		var candidate *models.CalendarEvent
		for i := range working {
			ev := working[i]
			if ev.Type != models.EventFocus || !ev.Movable || utils.DayKey(ev.StartAt, loc) != day {
				continue
			}
			if candidate == nil || ev.StartAt.After(candidate.StartAt) {
				candidate = &working[i]
			}
		}
		if candidate == nil {
			continue
		}

		var item *models.WorkItem
		if candidate.WorkItemID != nil {
			if it, ok := itemsByID[*candidate.WorkItemID]; ok {
				item = &it
			}
		}
		dur := candidate.DurationMin()
		match := matcher.FindOptimalSlot(models.BlockRequest{
			DurationMin: dur,
			Category:    models.TaskTypeFocus,
			WorkItemID:  candidate.WorkItemID,
		}, withoutEvent(working, candidate.ID), item, energyLevel, now, cfg, loc, matcher.Options{LookaheadDays: lookaheadDays})
		if match == nil {
			continue
		}
		start := match.Best.Slot.StartAt
		if utils.DayKey(start, loc) == day {
			continue
		}
		end := start.Add(time.Duration(dur) * time.Minute)
		origStart, origEnd := candidate.StartAt, candidate.EndAt
		codes := []models.ReasonCode{models.ReasonRedistributeLoad}
		if conflicted[candidate.ID] {
			codes = append(codes, models.ReasonResolvesConflict)
		}
		codes = append(codes, match.ReasonCodes...)
		report.Actions = append(report.Actions, Action{
			Type:          ActionMoveBlock,
			Title:         candidate.Title,
			WorkItemID:    candidate.WorkItemID,
			EventID:       &candidate.ID,
			Start:         start,
			End:           end,
			OriginalStart: &origStart,
			OriginalEnd:   &origEnd,
			DurationMin:   dur,
			ChurnCost:     float64(2 * dur),
			Reason:        fmt.Sprintf("%s carries %d focus minutes, over the %d-minute ceiling", day, report.Analysis.DailyLoad[day], cfg.MaxDailyFocusMin),
			ReasonCodes:   codes,
		})
		candidate.StartAt, candidate.EndAt = start, end
	}
	return working
}

// fillUnderusedDays adds one session for the single highest-priority
// at-risk item on days with spare capacity.
func fillUnderusedDays(report *Report, working []models.CalendarEvent, itemsByID map[string]models.WorkItem, remaining map[string]int, energyLevel int, now time.Time, cfg config.HeuristicConfig, loc *time.Location) {
	target, deficit := topPriorityAtRisk(report.Analysis.CrammingRisks, itemsByID, remaining, energyLevel, now, cfg)
	if target == nil || deficit <= 0 {
		return
	}
	taskType := scoring.InferTaskType(*target)

	for _, day := range report.Analysis.UnderutilizedDays {
		if deficit <= 0 {
			return
		}
		dayStart, err := time.ParseInLocation(utils.DateFormat, day, loc)
		if err != nil {
			continue
		}
		dur := utils.ClampInt(deficit, cfg.MinSlotMinutes, cfg.MaxChunkMinutes)
		match := matcher.FindOptimalSlot(models.BlockRequest{
			DurationMin: dur,
			Category:    taskType,
			WorkItemID:  &target.ID,
		}, working, target, energyLevel, utils.MaxTime(now, dayStart), cfg, loc, matcher.Options{
			LookaheadDays: 1,
			Until:         dayStart.AddDate(0, 0, 1),
		})
		if match == nil {
			continue
		}
		start := match.Best.Slot.StartAt
		end := start.Add(time.Duration(dur) * time.Minute)
		report.Actions = append(report.Actions, Action{
			Type:        ActionAddBlock,
			Title:       fmt.Sprintf("Study: %s", target.Title),
			WorkItemID:  &target.ID,
			Start:       start,
			End:         end,
			DurationMin: dur,
			ChurnCost:   0,
			Reason:      fmt.Sprintf("%s has spare capacity while %q is behind", day, target.Title),
			ReasonCodes: append([]models.ReasonCode{models.ReasonFillUnderusedDay}, match.ReasonCodes...),
		})
		working = append(working, plannedEvent(*target, start, end, 0, 0))
		deficit -= dur
		remaining[target.ID] = deficit
	}
}

func topPriorityAtRisk(risks []models.CrammingRisk, itemsByID map[string]models.WorkItem, remaining map[string]int, energyLevel int, now time.Time, cfg config.HeuristicConfig) (*models.WorkItem, int) {
	var best *models.WorkItem
	bestScore := -1.0
	for _, risk := range risks {
		item, ok := itemsByID[risk.WorkItemID]
		if !ok || remaining[item.ID] <= 0 {
			continue
		}
		score := scoring.Score(item, energyLevel, nil, now, cfg).Total
		if score > bestScore {
			bestScore = score
			it := item
			best = &it
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, remaining[best.ID]
}

func verdict(a models.WorkloadAnalysis) Verdict {
	criticals, highs := 0, 0
	for _, r := range a.CrammingRisks {
		switch r.RiskLevel {
		case models.RiskCritical:
			criticals++
		case models.RiskHigh:
			highs++
		}
	}
	switch {
	case criticals > 0:
		return VerdictCritical
	case highs >= 2 || len(a.OverloadedDays) > 2:
		return VerdictPoor
	case highs == 1 || len(a.OverloadedDays) > 0:
		return VerdictFair
	case len(a.CrammingRisks) > 0:
		return VerdictGood
	default:
		return VerdictExcellent
	}
}

func sessionTitle(item models.WorkItem, chunk, total int) string {
	if total > 1 {
		return fmt.Sprintf("Study: %s (%d/%d)", item.Title, chunk, total)
	}
	return fmt.Sprintf("Study: %s", item.Title)
}

func plannedEvent(item models.WorkItem, start, end time.Time, chunk, total int) models.CalendarEvent {
	return models.CalendarEvent{
		ID:         "planned-" + uuid.New().String(),
		Title:      item.Title,
		StartAt:    start,
		EndAt:      end,
		Type:       models.EventFocus,
		Movable:    true,
		WorkItemID: &item.ID,
		ChunkIndex: chunk,
		ChunkTotal: total,
	}
}

func withoutEvent(events []models.CalendarEvent, id string) []models.CalendarEvent {
	out := make([]models.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.ID != id {
			out = append(out, ev)
		}
	}
	return out
}

// SortActions orders actions deterministically for proposal assembly:
// additions first (earliest start first), then moves.
func SortActions(actions []Action) {
	rank := map[ActionType]int{ActionAddBlock: 0, ActionMoveBlock: 1, ActionRemoveBlock: 2}
	sort.SliceStable(actions, func(i, j int) bool {
		if rank[actions[i].Type] != rank[actions[j].Type] {
			return rank[actions[i].Type] < rank[actions[j].Type]
		}
		return actions[i].Start.Before(actions[j].Start)
	})
}
