// Package matcher scores candidate free slots for a block of work on five
// independently bounded axes summing to 100, and returns a ranked best
// match with alternatives, a confidence level and auditable reason codes.
package matcher

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/studyloop/cadence/internal/analyzer"
	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/models"
	"github.com/studyloop/cadence/internal/scoring"
	"github.com/studyloop/cadence/internal/utils"
)

// Options tunes a match request.
type Options struct {
	LookaheadDays int       // 0 means cfg.LookaheadDays
	Until         time.Time // hard upper bound on the window when non-zero
	Prefs         models.SlotPreferences
}

// timeOfDayPoints is the category-specific time-of-day preference table,
// worth up to 25 points before the weekend multiplier.
var timeOfDayPoints = map[models.TaskType]map[models.TimeOfDay]float64{
	models.TaskTypeFocus: {
		models.Morning: 25, models.Afternoon: 18, models.Evening: 10, models.Night: 2,
	},
	models.TaskTypeAdmin: {
		models.Morning: 18, models.Afternoon: 25, models.Evening: 15, models.Night: 4,
	},
	models.TaskTypeLight: {
		models.Morning: 12, models.Afternoon: 20, models.Evening: 25, models.Night: 6,
	},
	models.TaskTypeChill: {
		models.Morning: 8, models.Afternoon: 12, models.Evening: 25, models.Night: 15,
	},
}

// FindOptimalSlot returns the best slot for the requested block, or nil
// when no free slot satisfies the constraints; a nil result is not an
// error. The search window is narrowed to the linked item's due date minus
// a safety buffer when one exists.
func FindOptimalSlot(block models.BlockRequest, events []models.CalendarEvent, item *models.WorkItem, energyLevel int, now time.Time, cfg config.HeuristicConfig, loc *time.Location, opts Options) *models.SlotMatch {
	lookahead := opts.LookaheadDays
	if lookahead <= 0 {
		lookahead = cfg.LookaheadDays
	}
	to := now.AddDate(0, 0, lookahead)
	var due *time.Time
	if item != nil && item.DueAt != nil && item.DueAt.After(now) {
		due = item.DueAt
		buffer := time.Duration(0)
		if due.Sub(now) > 24*time.Hour {
			buffer = 4 * time.Hour
		}
		to = utils.MinTime(to, due.Add(-buffer))
	}
	if !opts.Until.IsZero() {
		to = utils.MinTime(to, opts.Until)
	}
	if !to.After(now) {
		return nil
	}

	candidates := analyzer.FindFreeSlots(events, analyzer.SlotQuery{
		From:        now,
		To:          to,
		Now:         now,
		MinDuration: block.DurationMin,
		EnergyLevel: energyLevel,
		Prefs:       opts.Prefs,
	}, cfg, loc)
	if len(candidates) == 0 {
		return nil
	}

	dayLoad := focusLoadByDay(events, loc)
	chunks := siblingChunks(events, block)

	scored := make([]models.ScoredSlot, 0, len(candidates))
	for _, slot := range candidates {
		scored = append(scored, scoreSlot(slot, block, due, energyLevel, dayLoad, chunks, cfg, loc))
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Total > scored[j].Total })

	best := scored[0]
	match := &models.SlotMatch{
		Best:         best,
		Confidence:   confidence(scored),
		Explanations: explain(best, due),
		ReasonCodes:  reasons(best, due, len(chunks) > 0),
	}
	for _, alt := range scored[1:] {
		if len(match.Alternatives) == 3 {
			break
		}
		match.Alternatives = append(match.Alternatives, alt)
	}
	return match
}

func scoreSlot(slot models.FreeSlot, block models.BlockRequest, due *time.Time, energyLevel int, dayLoad map[string]int, chunks []models.CalendarEvent, cfg config.HeuristicConfig, loc *time.Location) models.ScoredSlot {
	s := models.ScoredSlot{Slot: slot}

	s.TimeOfDay = timeOfDayPoints[block.Category][slot.TimeOfDay]
	if slot.Weekend {
		s.TimeOfDay *= cfg.WeekendMultiplier
	}

	s.Energy = scoring.EnergyFit(block.Category, energyLevel, cfg) * 25

	s.Deadline = deadlinePoints(slot.StartAt, due)

	s.Workload = workloadPoints(dayLoad[utils.DayKey(slot.StartAt, loc)], cfg)

	s.ChunkGap = chunkGapPoints(slot, chunks, cfg)

	s.Total = s.TimeOfDay + s.Energy + s.Deadline + s.Workload + s.ChunkGap
	return s
}

// deadlinePoints favors slots neither too late nor needlessly early. A
// block with no deadline scores a flat neutral 10.
func deadlinePoints(slotStart time.Time, due *time.Time) float64 {
	if due == nil {
		return 10
	}
	days := due.Sub(slotStart).Hours() / 24
	switch {
	case days < 0:
		return 0
	case days < 0.5:
		return 14
	case days < 1:
		return 18
	case days < 3:
		return 20
	case days < 5:
		return 16
	case days < 10:
		return 12
	default:
		return 8
	}
}

// workloadPoints rewards lightly loaded days and zeroes out days already
// at the focus ceiling.
func workloadPoints(loadMin int, cfg config.HeuristicConfig) float64 {
	switch {
	case loadMin >= cfg.MaxDailyFocusMin:
		return 0
	case loadMin >= cfg.TargetDailyFocusMin:
		return 5
	case loadMin >= cfg.TargetDailyFocusMin/2:
		return 12
	case loadMin < 60:
		return 20
	default:
		return 16
	}
}

// chunkGapPoints is zero when any sibling chunk of the same work item sits
// closer than the configured minimum gap, and otherwise scales with how
// far beyond the minimum the nearest chunk is.
func chunkGapPoints(slot models.FreeSlot, chunks []models.CalendarEvent, cfg config.HeuristicConfig) float64 {
	if len(chunks) == 0 {
		return 10
	}
	nearest := math.Inf(1)
	for _, ch := range chunks {
		gap := 0.0
		switch {
		case ch.EndAt.Before(slot.StartAt) || ch.EndAt.Equal(slot.StartAt):
			gap = slot.StartAt.Sub(ch.EndAt).Hours()
		case slot.EndAt.Before(ch.StartAt) || slot.EndAt.Equal(ch.StartAt):
			gap = ch.StartAt.Sub(slot.EndAt).Hours()
		}
		if gap < nearest {
			nearest = gap
		}
	}
	if nearest < cfg.MinChunkGapHours {
		return 0
	}
	score := (nearest/cfg.MinChunkGapHours - 1) * 10
	if score > 10 {
		return 10
	}
	return score
}

func focusLoadByDay(events []models.CalendarEvent, loc *time.Location) map[string]int {
	load := make(map[string]int)
	for _, ev := range events {
		if ev.Type == models.EventFocus {
			load[utils.DayKey(ev.StartAt, loc)] += ev.DurationMin()
		}
	}
	return load
}

func siblingChunks(events []models.CalendarEvent, block models.BlockRequest) []models.CalendarEvent {
	if block.WorkItemID == nil {
		return nil
	}
	var chunks []models.CalendarEvent
	for _, ev := range events {
		if ev.WorkItemID != nil && *ev.WorkItemID == *block.WorkItemID && ev.Type == models.EventFocus {
			chunks = append(chunks, ev)
		}
	}
	return chunks
}

func confidence(scored []models.ScoredSlot) models.Confidence {
	top := scored[0].Total
	second := 0.0
	if len(scored) > 1 {
		second = scored[1].Total
	}
	switch {
	case top < 50 || (len(scored) > 1 && second > top*0.95):
		return models.ConfidenceLow
	case top >= 80 && second < top*0.85:
		return models.ConfidenceHigh
	default:
		return models.ConfidenceMedium
	}
}

// explain produces one human-readable line per axis actually considered.
func explain(s models.ScoredSlot, due *time.Time) []string {
	lines := []string{
		fmt.Sprintf("time of day: %.0f/25 (%s)", s.TimeOfDay, s.Slot.TimeOfDay),
		fmt.Sprintf("energy fit: %.0f/25", s.Energy),
	}
	if due != nil {
		lines = append(lines, fmt.Sprintf("deadline proximity: %.0f/20 (%.1f days before due)", s.Deadline, due.Sub(s.Slot.StartAt).Hours()/24))
	}
	lines = append(lines,
		fmt.Sprintf("workload balance: %.0f/20", s.Workload),
		fmt.Sprintf("chunk spacing: %.0f/10", s.ChunkGap),
	)
	return lines
}

func reasons(s models.ScoredSlot, due *time.Time, hasChunks bool) []models.ReasonCode {
	var codes []models.ReasonCode
	if s.TimeOfDay >= 20 {
		codes = append(codes, models.ReasonOptimalTimeOfDay)
	} else if s.TimeOfDay < 8 {
		codes = append(codes, models.ReasonPoorTimeOfDay)
	}
	if s.Energy >= 20 {
		codes = append(codes, models.ReasonGoodEnergyFit)
	} else if s.Energy < 8 {
		codes = append(codes, models.ReasonLowEnergyFit)
	}
	if due != nil {
		if due.Sub(s.Slot.StartAt) < 36*time.Hour {
			codes = append(codes, models.ReasonUrgentDeadline)
		} else if s.Deadline >= 16 {
			codes = append(codes, models.ReasonComfortableLead)
		}
	}
	if s.Workload >= 16 {
		codes = append(codes, models.ReasonBalancedWorkload)
	} else if s.Workload == 0 {
		codes = append(codes, models.ReasonOverloadedDay)
	}
	if hasChunks {
		if s.ChunkGap == 0 {
			codes = append(codes, models.ReasonViolatesChunkGaps)
		} else if s.ChunkGap >= 8 {
			codes = append(codes, models.ReasonWellSpacedChunks)
		}
	}
	if s.Slot.Weekend {
		codes = append(codes, models.ReasonWeekendSlot)
	}
	return codes
}
