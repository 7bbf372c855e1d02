package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/models"
	"github.com/studyloop/cadence/internal/utils"
)

// AnalyzeWorkload aggregates focus-event minutes per day over the
// lookahead window, surfaces peak and overloaded days, and computes the
// per-assignment cramming-risk deficit.
func AnalyzeWorkload(events []models.CalendarEvent, items []models.WorkItem, now time.Time, lookaheadDays int, cfg config.HeuristicConfig, loc *time.Location) models.WorkloadAnalysis {
	windowEnd := now.AddDate(0, 0, lookaheadDays)

	daily := make(map[string]int)
	scheduled := make(map[string]int) // work item id -> linked focus minutes
	total := 0
	for _, ev := range events {
		if ev.Type != models.EventFocus || !ev.StartAt.Before(windowEnd) || ev.EndAt.Before(now) {
			continue
		}
		min := ev.DurationMin()
		daily[utils.DayKey(ev.StartAt, loc)] += min
		total += min
		if ev.WorkItemID != nil {
			scheduled[*ev.WorkItemID] += min
		}
	}

	weeklyAvg := float64(total)
	if lookaheadDays >= 7 {
		weeklyAvg = float64(total) / (float64(lookaheadDays) / 7)
	}

	analysis := models.WorkloadAnalysis{
		DailyLoad:        daily,
		WeeklyAverageMin: weeklyAvg,
		PeakDays:         peakDays(daily, total),
	}

	pending := 0
	for _, item := range items {
		if item.Completed {
			continue
		}
		pending++
		if item.DueAt == nil || item.DueAt.Before(now) || item.DueAt.After(windowEnd) {
			continue
		}
		deficit := item.EffortEstimate - scheduled[item.ID]
		days := item.DueAt.Sub(now).Hours() / 24
		risk := classifyRisk(days, deficit)
		if deficit <= 30 && risk == models.RiskLow {
			continue
		}
		analysis.CrammingRisks = append(analysis.CrammingRisks, models.CrammingRisk{
			WorkItemID:   item.ID,
			Title:        item.Title,
			DueAt:        *item.DueAt,
			DaysUntilDue: days,
			EffortMin:    item.EffortEstimate,
			ScheduledMin: scheduled[item.ID],
			DeficitMin:   deficit,
			RiskLevel:    risk,
		})
	}
	sort.Slice(analysis.CrammingRisks, func(i, j int) bool {
		return analysis.CrammingRisks[i].DaysUntilDue < analysis.CrammingRisks[j].DaysUntilDue
	})

	for day := 0; day < lookaheadDays; day++ {
		key := utils.DayKey(now.AddDate(0, 0, day), loc)
		load := daily[key]
		if load > cfg.MaxDailyFocusMin {
			analysis.OverloadedDays = append(analysis.OverloadedDays, key)
		} else if load < 60 && pending > 0 {
			analysis.UnderutilizedDays = append(analysis.UnderutilizedDays, key)
		}
	}

	analysis.Recommendations = recommendations(analysis, cfg)
	return analysis
}

// classifyRisk bands a deficit by how soon the item is due.
func classifyRisk(daysUntilDue float64, deficitMin int) models.RiskLevel {
	switch {
	case daysUntilDue < 1 && deficitMin > 60:
		return models.RiskCritical
	case daysUntilDue < 2 && deficitMin > 120:
		return models.RiskHigh
	case daysUntilDue < 5 && deficitMin > 180:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func peakDays(daily map[string]int, total int) []models.PeakDay {
	if total == 0 {
		return nil
	}
	peaks := make([]models.PeakDay, 0, len(daily))
	for day, min := range daily {
		peaks = append(peaks, models.PeakDay{Date: day, Minutes: min, Share: float64(min) / float64(total)})
	}
	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].Minutes != peaks[j].Minutes {
			return peaks[i].Minutes > peaks[j].Minutes
		}
		return peaks[i].Date < peaks[j].Date
	})
	if len(peaks) > 3 {
		peaks = peaks[:3]
	}
	return peaks
}

// recommendations are informational only; nothing downstream keys off
// these strings.
func recommendations(a models.WorkloadAnalysis, cfg config.HeuristicConfig) []string {
	var recs []string
	for _, r := range a.CrammingRisks {
		if r.RiskLevel == models.RiskCritical || r.RiskLevel == models.RiskHigh {
			recs = append(recs, fmt.Sprintf("%q needs %d more minutes before its deadline in %.1f days", r.Title, r.DeficitMin, r.DaysUntilDue))
		}
	}
	if len(a.OverloadedDays) > 0 {
		recs = append(recs, fmt.Sprintf("%d day(s) exceed the %d-minute focus ceiling; consider spreading work out", len(a.OverloadedDays), cfg.MaxDailyFocusMin))
	}
	if len(a.UnderutilizedDays) > 0 && len(a.CrammingRisks) > 0 {
		recs = append(recs, fmt.Sprintf("%d day(s) have under an hour scheduled and could absorb at-risk work", len(a.UnderutilizedDays)))
	}
	return recs
}
